/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package hierarchy

import (
	"github.com/jacobin-labs/hdrc/internal/ast"
	"github.com/jacobin-labs/hdrc/internal/symbol"
)

// sourceEntry is the HeaderBoundClass view of one in-progress source
// declaration. Its member-type map is fixed at Add time (spec §4.10: member
// maps are a prior-pass precondition, independent of resolved supertypes);
// its Superclass/Interfaces/AccessFlags stay empty until SetBound records
// the hierarchy binder's output, so a class becomes a usable resolution
// target for its dependents only after it has itself been bound.
type sourceEntry struct {
	decl    *ast.ClassDecl
	owner   symbol.ClassSymbol
	scope   *CompoundScope
	members map[string]symbol.ClassSymbol

	bound *SourceHeaderBoundClass
}

func (e *sourceEntry) Kind() ast.TypeKind { return e.decl.Kind }

func (e *sourceEntry) Owner() (symbol.ClassSymbol, bool) {
	return e.owner, e.owner != symbol.Invalid
}

func (e *sourceEntry) AccessFlags() uint16 {
	if e.bound == nil {
		return 0
	}
	return e.bound.AccessFlags
}

func (e *sourceEntry) Superclass() (symbol.ClassSymbol, bool) {
	if e.bound == nil || e.bound.Superclass == symbol.Invalid {
		return symbol.Invalid, false
	}
	return e.bound.Superclass, true
}

func (e *sourceEntry) Interfaces() []symbol.ClassSymbol {
	if e.bound == nil {
		return nil
	}
	return e.bound.Interfaces
}

func (e *sourceEntry) Scope() *CompoundScope { return e.scope }

func (e *sourceEntry) MemberType(name string) (symbol.ClassSymbol, bool) {
	sym, ok := e.members[name]
	return sym, ok
}

// SourceStore is the Environment of classes currently being compiled (spec
// §4.4's "store of source classes being bound"). Its keys -- every class
// and nested class reachable from the declarations passed to Add -- are
// fixed as soon as Add returns; only the bound fields change afterward, via
// SetBound.
type SourceStore struct {
	pool    *symbol.Pool
	entries map[symbol.ClassSymbol]*sourceEntry
}

// NewSourceStore creates an empty source store.
func NewSourceStore(pool *symbol.Pool) *SourceStore {
	return &SourceStore{pool: pool, entries: make(map[symbol.ClassSymbol]*sourceEntry)}
}

// Add registers decl and, recursively, every nested type it declares, each
// sharing the compilation unit's scope. owner is decl's enclosing class
// symbol, or symbol.Invalid for a top-level declaration.
func (s *SourceStore) Add(decl *ast.ClassDecl, owner symbol.ClassSymbol, scope *CompoundScope) {
	s.entries[decl.Name] = &sourceEntry{
		decl:    decl,
		owner:   owner,
		scope:   scope,
		members: memberMapFromDecl(decl, s.pool),
	}
	for _, m := range decl.Members {
		if m.Kind == ast.MemberNestedType && m.Nested != nil {
			s.Add(m.Nested, decl.Name, scope)
		}
	}
}

// SetBound records the hierarchy binder's output for an already-Added
// declaration.
func (s *SourceStore) SetBound(bound *SourceHeaderBoundClass) {
	if e, ok := s.entries[bound.Decl.Name]; ok {
		e.bound = bound
	}
}

// Lookup implements Environment.
func (s *SourceStore) Lookup(sym symbol.ClassSymbol) (HeaderBoundClass, bool) {
	e, ok := s.entries[sym]
	return e, ok
}

// memberMapFromDecl builds the simple-name -> symbol member-type map for one
// declaration's direct nested types.
func memberMapFromDecl(decl *ast.ClassDecl, pool *symbol.Pool) map[string]symbol.ClassSymbol {
	members := make(map[string]symbol.ClassSymbol)
	for _, m := range decl.Members {
		if m.Kind == ast.MemberNestedType && m.Nested != nil {
			members[simpleName(pool.Name(m.Nested.Name))] = m.Nested.Name
		}
	}
	return members
}
