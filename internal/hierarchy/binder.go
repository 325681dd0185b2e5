/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package hierarchy

import (
	"github.com/jacobin-labs/hdrc/internal/ast"
	"github.com/jacobin-labs/hdrc/internal/classfile"
	"github.com/jacobin-labs/hdrc/internal/errs"
	"github.com/jacobin-labs/hdrc/internal/symbol"
)

// Visibility is the derived view over access flags spec §3 names.
type Visibility int

const (
	Package Visibility = iota
	Public
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "PUBLIC"
	case Protected:
		return "PROTECTED"
	case Private:
		return "PRIVATE"
	default:
		return "PACKAGE"
	}
}

// SourceHeaderBoundClass is the product of hierarchy binding (spec §3): the
// underlying declaration plus resolved superclass symbol, resolved
// (ordered) interface symbols, finalized visibility, and finalized access
// flags.
type SourceHeaderBoundClass struct {
	Decl        *ast.ClassDecl
	AccessFlags uint16
	Visibility  Visibility
	Superclass  symbol.ClassSymbol // symbol.Invalid iff absent (Object itself, §9)
	Interfaces  []symbol.ClassSymbol
}

// accessFlag bits reused from the binary class-file format (spec §3:
// AccessFlags is "a bitset over {PUBLIC, PRIVATE, ...}, plus any the binary
// format defines"), so a source-bound class's AccessFlags is directly
// comparable to one read off disk.
const (
	fPublic     = classfile.AccPublic
	fPrivate    = classfile.AccPrivate
	fProtected  = classfile.AccProtected
	fStatic     = classfile.AccStatic
	fFinal      = classfile.AccFinal
	fSuper      = classfile.AccSuper
	fInterface  = classfile.AccInterface
	fAbstract   = classfile.AccAbstract
	fAnnotation = classfile.AccAnnotation
	fEnum       = classfile.AccEnum
)

// accumulateBaseAccess maps the subset of ast.Modifier that corresponds
// directly to a class-file access bit; ENUM_IMPL has no binary-format
// counterpart and is consumed entirely by the binder (step 5 below), never
// surfacing in AccessFlags.
func accumulateBaseAccess(mods ast.Modifiers) uint16 {
	var flags uint16
	if mods.Has(ast.Public) {
		flags |= fPublic
	}
	if mods.Has(ast.Private) {
		flags |= fPrivate
	}
	if mods.Has(ast.Protected) {
		flags |= fProtected
	}
	if mods.Has(ast.Static) {
		flags |= fStatic
	}
	if mods.Has(ast.Final) {
		flags |= fFinal
	}
	if mods.Has(ast.Abstract) {
		flags |= fAbstract
	}
	return flags
}

// Bind computes the SourceHeaderBoundClass for one source declaration (spec
// §4.7). env must already resolve every symbol this class's superclass,
// interfaces, and member-type lookups will touch -- member-type maps are a
// prior-pass precondition (§4.10); dependency superclasses are expected to
// already be fully bound (loaded class files always are).
func Bind(env Environment, pool *symbol.Pool, decl *ast.ClassDecl, scope *CompoundScope) (*SourceHeaderBoundClass, error) {
	// 1. Accumulate base access from declared modifiers.
	flags := accumulateBaseAccess(decl.Modifiers)

	// 2. Adjust access by kind.
	switch decl.Kind {
	case ast.Class:
		flags |= fSuper
	case ast.Interface:
		flags |= fAbstract | fInterface
	case ast.Enum:
		flags |= fEnum | fSuper
	case ast.Annotation:
		flags |= fAbstract | fInterface | fAnnotation
	}

	// 3. Compute visibility: any lexically-enclosing interface/annotation
	// forces PUBLIC regardless of source modifiers.
	enclosed, err := isEnclosedByInterface(env, decl.Owner)
	if err != nil {
		return nil, err
	}
	var visibility Visibility
	if enclosed {
		visibility = Public
		flags |= fPublic
	} else {
		switch {
		case flags&fPublic != 0:
			visibility = Public
		case flags&fProtected != 0:
			visibility = Protected
		case flags&fPrivate != 0:
			visibility = Private
		default:
			visibility = Package
		}
	}

	// 4. Enforce implicit static: enum, or enclosed by interface/annotation.
	if flags&fStatic == 0 && (decl.Kind == ast.Enum || enclosed) {
		flags |= fStatic
	}

	// 5. Resolve superclass.
	var super symbol.ClassSymbol
	switch {
	case decl.Super != nil:
		super, err = ResolveQualified(env, decl.Owner, scope, decl.Super)
		if err != nil {
			return nil, err
		}
	case decl.Kind == ast.Enum:
		super = pool.Intern("java/lang/Enum")
		if decl.HasBodyBearingConstant() {
			flags |= fAbstract
			flags &^= fFinal
		} else {
			flags |= fFinal
			flags &^= fAbstract
		}
	case decl.Name == pool.Intern("java/lang/Object"):
		// §9: compiling Object itself has no superclass; a real
		// implementation special-cases this rather than defaulting to
		// OBJECT (see DESIGN.md, Open Questions).
		super = symbol.Invalid
	default:
		super = pool.Intern("java/lang/Object")
	}

	// 6. Resolve interfaces, in source order.
	var interfaces []symbol.ClassSymbol
	for _, ifaceExpr := range decl.Interfaces {
		sym, err := ResolveQualified(env, decl.Owner, scope, ifaceExpr)
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, sym)
	}
	if decl.Kind == ast.Annotation && len(decl.Interfaces) == 0 {
		interfaces = append(interfaces, pool.Intern("java/lang/annotation/Annotation"))
	}

	return &SourceHeaderBoundClass{
		Decl:        decl,
		AccessFlags: flags,
		Visibility:  visibility,
		Superclass:  super,
		Interfaces:  interfaces,
	}, nil
}

// isEnclosedByInterface walks the owner chain starting from owner (spec
// §4.7, "Enclosed by interface" walk): true as soon as an interface or
// annotation is seen, false once the chain ends. owner == symbol.Invalid
// (top-level) immediately yields false.
func isEnclosedByInterface(env Environment, owner symbol.ClassSymbol) (bool, error) {
	for cur := owner; cur != symbol.Invalid; {
		hb, ok := env.Lookup(cur)
		if !ok {
			return false, errs.Wrapf(errs.Unresolved, "enclosing class %q not found in environment", cur)
		}
		if hb.Kind() == ast.Interface || hb.Kind() == ast.Annotation {
			return true, nil
		}
		next, ok := hb.Owner()
		if !ok {
			break
		}
		cur = next
	}
	return false, nil
}
