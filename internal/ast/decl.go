/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package ast holds the declaration-tree types the hierarchy binder consumes
// as input (spec §3, "Declaration tree (input)"). Source lexing and parsing
// are external collaborators (spec §6) and never implemented here; this
// package is only the shape the binder expects to receive, plus a JSON
// fixture encoding of that shape so tests and cmd/hdrc have something
// concrete to load without a real parser.
package ast

import "github.com/jacobin-labs/hdrc/internal/symbol"

// TypeKind is one of the four declaration shapes a header compiler binds
// (spec §3).
type TypeKind int

const (
	Class TypeKind = iota
	Interface
	Enum
	Annotation
)

func (k TypeKind) String() string {
	switch k {
	case Class:
		return "CLASS"
	case Interface:
		return "INTERFACE"
	case Enum:
		return "ENUM"
	case Annotation:
		return "ANNOTATION"
	default:
		return "UNKNOWN"
	}
}

// Modifier is one bit of the source-declared access-flag bitset (spec §3).
// ENUM_IMPL is not a real class-file flag; the parser attaches it to an enum
// constant declaration that carries a class body, and the binder consumes it
// in step 5 of §4.7 to decide ABSTRACT vs. FINAL.
type Modifier uint32

const (
	Public Modifier = 1 << iota
	Private
	Protected
	Static
	Final
	Super
	InterfaceMod
	Abstract
	AnnotationMod
	EnumMod
	EnumImpl
)

// Modifiers is the declared-modifier set a parser attaches to one
// declaration. It is a plain bitset, not a []Modifier, since spec §3 treats
// AccessFlags as a bitset throughout and the binder only ever tests
// membership.
type Modifiers uint32

func (m Modifiers) Has(mod Modifier) bool       { return m&Modifiers(mod) != 0 }
func (m Modifiers) With(mod Modifier) Modifiers { return m | Modifiers(mod) }

// QualifiedType is a left-recursive qualified type expression (spec §3:
// "Qualified type expressions are left-recursive: A<...>.B<...>.C parses to
// a linked chain whose first element is outermost."). Base is nil for the
// outermost element. Generics are erased for header purposes (spec §1) so no
// type-argument list is carried.
type QualifiedType struct {
	Base *QualifiedType
	Name string
}

// Flatten collects the chain's simple names in outer-to-inner order, per
// §4.8 step 1 ("Flatten the type expression's spine by walking its base
// chain").
func (q *QualifiedType) Flatten() []string {
	if q == nil {
		return nil
	}
	names := q.Base.Flatten()
	return append(names, q.Name)
}

// SimpleType builds a one-element QualifiedType, the common case of an
// unqualified superclass or interface reference.
func SimpleType(name string) *QualifiedType {
	return &QualifiedType{Name: name}
}

// MemberKind distinguishes the three member shapes a class declaration's
// body may contain (spec §3: "members (var-decls, nested type decls, method
// decls)").
type MemberKind int

const (
	MemberVar MemberKind = iota
	MemberNestedType
	MemberMethod
)

// Member is one declaration-tree member. Exactly one of Var, Nested, or
// Method is populated, matching Kind; this is a tagged variant (spec §9,
// "Tagged-variant representation") rather than an interface hierarchy, since
// the binder only ever needs exhaustive case analysis over three shapes.
type Member struct {
	Kind   MemberKind
	Var    *VarDecl
	Nested *ClassDecl
	Method *MethodDecl
}

// VarDecl is a field declaration: name, modifiers, and a descriptor the
// parser already resolved to a class-file-style field descriptor string
// (header binding does not type-check, so no richer type representation is
// needed here).
type VarDecl struct {
	Name       string
	Modifiers  Modifiers
	Descriptor string
}

// MethodDecl is a method declaration; header binding never descends into
// bodies (spec Non-goals: "evaluating expressions other than..."), so only
// the signature-relevant fields are kept.
type MethodDecl struct {
	Name       string
	Modifiers  Modifiers
	Descriptor string
}

// ClassDecl is the declaration tree for one class, interface, enum, or
// annotation (spec §3). Owner is the enclosing class's symbol, or
// symbol.Invalid for a top-level declaration. Super and Interfaces are the
// raw, unresolved qualified-type expressions as the parser produced them;
// the hierarchy binder resolves them into symbols (§4.7 steps 5-6).
type ClassDecl struct {
	Kind       TypeKind
	Name       symbol.ClassSymbol
	Owner      symbol.ClassSymbol
	Modifiers  Modifiers
	Super      *QualifiedType // nil: kind-specific default applies (§4.7 step 5)
	Interfaces []*QualifiedType
	Members    []Member
}

// IsTopLevel reports whether this declaration has no lexically-enclosing
// class.
func (c *ClassDecl) IsTopLevel() bool { return c.Owner == symbol.Invalid }

// HasBodyBearingConstant reports whether any member is an enum constant
// declared with ENUM_IMPL (spec §4.7 step 5: "enum is also marked ABSTRACT
// if any constant has a body"). Enum constants are represented as nested
// type declarations carrying the EnumImpl modifier, the same way the parser
// marks them per §6.
func (c *ClassDecl) HasBodyBearingConstant() bool {
	for _, m := range c.Members {
		if m.Kind == MemberNestedType && m.Nested != nil && m.Nested.Modifiers.Has(EnumImpl) {
			return true
		}
	}
	return false
}
