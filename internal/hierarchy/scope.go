/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package hierarchy

import "github.com/jacobin-labs/hdrc/internal/symbol"

// LookupKey is an ordered, non-empty sequence of simple names with a
// movable cursor (spec §3): First returns the next piece, Rest the
// remainder as a new key.
type LookupKey struct {
	names []string
}

// NewLookupKey builds a key from a non-empty sequence of simple names,
// outer-to-inner (the order QualifiedType.Flatten produces).
func NewLookupKey(names []string) LookupKey {
	return LookupKey{names: names}
}

func (k LookupKey) Empty() bool { return len(k.names) == 0 }

func (k LookupKey) First() string { return k.names[0] }

func (k LookupKey) Rest() LookupKey { return LookupKey{names: k.names[1:]} }

func (k LookupKey) Names() []string { return k.names }

// LookupResult is a resolved base symbol plus the residual names still to
// be walked as member accesses (spec §3).
type LookupResult struct {
	Symbol    symbol.ClassSymbol
	Remaining LookupKey
}

// Scope answers Lookup(key) by matching key.First() and, on success,
// returning a LookupResult carrying key.Rest() as the remainder (spec
// §4.5).
type Scope interface {
	Lookup(key LookupKey) (LookupResult, bool)
}

// SingleTypeImportScope resolves an exact single-type import: "import
// pkg.Name" makes Name resolve to pkg.Name's symbol.
type SingleTypeImportScope struct {
	byName map[string]symbol.ClassSymbol
}

// NewSingleTypeImportScope builds a scope from a set of (simple name,
// symbol) import bindings.
func NewSingleTypeImportScope(imports map[string]symbol.ClassSymbol) *SingleTypeImportScope {
	return &SingleTypeImportScope{byName: imports}
}

func (s *SingleTypeImportScope) Lookup(key LookupKey) (LookupResult, bool) {
	sym, ok := s.byName[key.First()]
	if !ok {
		return LookupResult{}, false
	}
	return LookupResult{Symbol: sym, Remaining: key.Rest()}, true
}

// PackageScope resolves a simple name against the set of top-level classes
// declared in the current package.
type PackageScope struct {
	pkg    string
	byName map[string]symbol.ClassSymbol // simple name -> symbol, this package only
}

// NewPackageScope builds a scope over one package's own top-level classes.
func NewPackageScope(pkg string, classes map[string]symbol.ClassSymbol) *PackageScope {
	return &PackageScope{pkg: pkg, byName: classes}
}

func (s *PackageScope) Lookup(key LookupKey) (LookupResult, bool) {
	sym, ok := s.byName[key.First()]
	if !ok {
		return LookupResult{}, false
	}
	return LookupResult{Symbol: sym, Remaining: key.Rest()}, true
}

// OnDemandImportScope resolves a simple name against the union of one or
// more "import pkg.*" packages. Ambiguity between two on-demand imports that
// both declare the same simple name is not detected here: spec §4.6 assigns
// that responsibility to a downstream diagnostic pass, and this scope
// simply returns the first match across its package list, in declared
// order.
type OnDemandImportScope struct {
	packages []map[string]symbol.ClassSymbol
}

// NewOnDemandImportScope builds a scope over a list of on-demand-imported
// packages' top-level classes, in import declaration order.
func NewOnDemandImportScope(packages ...map[string]symbol.ClassSymbol) *OnDemandImportScope {
	return &OnDemandImportScope{packages: packages}
}

func (s *OnDemandImportScope) Lookup(key LookupKey) (LookupResult, bool) {
	for _, pkg := range s.packages {
		if sym, ok := pkg[key.First()]; ok {
			return LookupResult{Symbol: sym, Remaining: key.Rest()}, true
		}
	}
	return LookupResult{}, false
}

// TopLevelScope is the implicit, innermost-last fallback: the java.lang-style
// always-imported package, consulted only after every other sub-scope has
// missed.
type TopLevelScope struct {
	byName map[string]symbol.ClassSymbol
}

// NewTopLevelScope builds the implicit top-level scope.
func NewTopLevelScope(classes map[string]symbol.ClassSymbol) *TopLevelScope {
	return &TopLevelScope{byName: classes}
}

func (s *TopLevelScope) Lookup(key LookupKey) (LookupResult, bool) {
	sym, ok := s.byName[key.First()]
	if !ok {
		return LookupResult{}, false
	}
	return LookupResult{Symbol: sym, Remaining: key.Rest()}, true
}

// CompoundScope is the ordered stack of sub-scopes spec §4.5 describes:
// single-type imports, current package, on-demand imports, implicit
// top-level -- outer first, per the overshadowing rule. Lookup returns the
// first non-empty sub-result; if none match, lookup is absent.
type CompoundScope struct {
	subScopes []Scope
}

// NewCompoundScope builds a compound scope from sub-scopes in outer-first
// order. Passing them in the canonical order (single-type imports, package,
// on-demand imports, top-level) gives the shadowing behavior §4.5 requires;
// callers that need a different layering may pass a different order.
func NewCompoundScope(subScopes ...Scope) *CompoundScope {
	return &CompoundScope{subScopes: subScopes}
}

func (c *CompoundScope) Lookup(key LookupKey) (LookupResult, bool) {
	for _, s := range c.subScopes {
		if res, ok := s.Lookup(key); ok {
			return res, true
		}
	}
	return LookupResult{}, false
}
