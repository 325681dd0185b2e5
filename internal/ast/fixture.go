/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ast

import (
	"encoding/json"
	"fmt"

	"github.com/jacobin-labs/hdrc/internal/symbol"
)

// fixtureClass is the on-disk JSON shape of one declaration tree. Source
// lexing/parsing is out of scope (spec §6); this schema exists so cmd/hdrc
// and tests can supply declaration trees without a real parser, carrying the
// exact fields §3 names: kind, modifiers, optional superclass/interface type
// expressions, members, and owner name (empty for top-level).
type fixtureClass struct {
	Kind       string          `json:"kind"`
	Name       string          `json:"name"`
	Owner      string          `json:"owner,omitempty"`
	Modifiers  []string        `json:"modifiers,omitempty"`
	Super      string          `json:"super,omitempty"` // dotted qualified name, e.g. "Outer.Mid.Inner"
	Interfaces []string        `json:"interfaces,omitempty"`
	Fields     []fixtureVar    `json:"fields,omitempty"`
	Methods    []fixtureMethod `json:"methods,omitempty"`
	Nested     []fixtureClass  `json:"nested,omitempty"`
}

type fixtureVar struct {
	Name       string   `json:"name"`
	Modifiers  []string `json:"modifiers,omitempty"`
	Descriptor string   `json:"descriptor"`
}

type fixtureMethod struct {
	Name       string   `json:"name"`
	Modifiers  []string `json:"modifiers,omitempty"`
	Descriptor string   `json:"descriptor"`
}

var kindNames = map[string]TypeKind{
	"CLASS":      Class,
	"INTERFACE":  Interface,
	"ENUM":       Enum,
	"ANNOTATION": Annotation,
}

var modifierNames = map[string]Modifier{
	"PUBLIC":     Public,
	"PRIVATE":    Private,
	"PROTECTED":  Protected,
	"STATIC":     Static,
	"FINAL":      Final,
	"SUPER":      Super,
	"INTERFACE":  InterfaceMod,
	"ABSTRACT":   Abstract,
	"ANNOTATION": AnnotationMod,
	"ENUM":       EnumMod,
	"ENUM_IMPL":  EnumImpl,
}

func parseModifiers(names []string) (Modifiers, error) {
	var mods Modifiers
	for _, n := range names {
		mod, ok := modifierNames[n]
		if !ok {
			return 0, fmt.Errorf("ast: unknown modifier %q", n)
		}
		mods = mods.With(mod)
	}
	return mods, nil
}

func parseQualifiedType(dotted string) *QualifiedType {
	if dotted == "" {
		return nil
	}
	var q *QualifiedType
	start := 0
	for i := 0; i <= len(dotted); i++ {
		if i == len(dotted) || dotted[i] == '.' {
			q = &QualifiedType{Base: q, Name: dotted[start:i]}
			start = i + 1
		}
	}
	return q
}

// DecodeFixture parses one JSON declaration tree, interning every class name
// it encounters (including nested and owner names) into pool.
func DecodeFixture(raw []byte, pool *symbol.Pool) (*ClassDecl, error) {
	var fc fixtureClass
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("ast: decoding fixture: %w", err)
	}
	owner := symbol.Invalid
	if fc.Owner != "" {
		owner = pool.Intern(fc.Owner)
	}
	return fc.toDecl(pool, owner)
}

func (fc *fixtureClass) toDecl(pool *symbol.Pool, owner symbol.ClassSymbol) (*ClassDecl, error) {
	kind, ok := kindNames[fc.Kind]
	if !ok {
		return nil, fmt.Errorf("ast: unknown type kind %q for %s", fc.Kind, fc.Name)
	}
	mods, err := parseModifiers(fc.Modifiers)
	if err != nil {
		return nil, err
	}

	decl := &ClassDecl{
		Kind:      kind,
		Name:      pool.Intern(fc.Name),
		Owner:     owner,
		Modifiers: mods,
		Super:     parseQualifiedType(fc.Super),
	}
	for _, i := range fc.Interfaces {
		decl.Interfaces = append(decl.Interfaces, parseQualifiedType(i))
	}

	for _, f := range fc.Fields {
		fm, err := parseModifiers(f.Modifiers)
		if err != nil {
			return nil, err
		}
		decl.Members = append(decl.Members, Member{
			Kind: MemberVar,
			Var:  &VarDecl{Name: f.Name, Modifiers: fm, Descriptor: f.Descriptor},
		})
	}
	for _, m := range fc.Methods {
		mm, err := parseModifiers(m.Modifiers)
		if err != nil {
			return nil, err
		}
		decl.Members = append(decl.Members, Member{
			Kind:   MemberMethod,
			Method: &MethodDecl{Name: m.Name, Modifiers: mm, Descriptor: m.Descriptor},
		})
	}
	for _, n := range fc.Nested {
		nested, err := n.toDecl(pool, decl.Name)
		if err != nil {
			return nil, err
		}
		decl.Members = append(decl.Members, Member{Kind: MemberNestedType, Nested: nested})
	}

	return decl, nil
}
