/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package hierarchy

import (
	"github.com/jacobin-labs/hdrc/internal/ast"
	"github.com/jacobin-labs/hdrc/internal/errs"
	"github.com/jacobin-labs/hdrc/internal/symbol"
)

// ResolveQualified resolves a left-recursive qualified type expression to a
// symbol (spec §4.8): flatten the spine into a LookupKey, find a base
// symbol, then walk the remaining names as member accesses via Resolve.
func ResolveQualified(env Environment, owner symbol.ClassSymbol, scope *CompoundScope, q *ast.QualifiedType) (symbol.ClassSymbol, error) {
	names := q.Flatten()
	key := NewLookupKey(names)

	base, err := BaseLookup(env, owner, scope, key)
	if err != nil {
		return symbol.Invalid, err
	}

	current := base.Symbol
	for _, name := range base.Remaining.Names() {
		sym, ok := Resolve(env, current, name)
		if !ok {
			return symbol.Invalid, errs.Wrapf(errs.MissingMember, "member type %q not found on %q", name, current)
		}
		current = sym
	}
	return current, nil
}

// BaseLookup finds the symbol a qualified name's leading component refers
// to (spec §4.9): a lexical walk up the owner chain of sym (member types of
// enclosing classes shadow imports), then a fallback to the compilation
// unit's compound scope (single-type imports, same-package siblings,
// on-demand imports, implicit top-level).
//
// The lexical branch folds the Resolve call that finds the match into the
// returned base symbol, so the generic per-name walk in ResolveQualified
// only ever has to consume key.Rest() -- resolving key.First() again from
// the same enclosing class would be redundant but would yield the same
// symbol, since Resolve is a pure function of (env, start, name).
func BaseLookup(env Environment, sym symbol.ClassSymbol, parent *CompoundScope, key LookupKey) (LookupResult, error) {
	for cur := sym; cur != symbol.Invalid; {
		if hit, ok := Resolve(env, cur, key.First()); ok {
			return LookupResult{Symbol: hit, Remaining: key.Rest()}, nil
		}
		hb, ok := env.Lookup(cur)
		if !ok {
			break
		}
		ownerSym, ok := hb.Owner()
		if !ok {
			break
		}
		cur = ownerSym
	}

	if parent != nil {
		if res, ok := parent.Lookup(key); ok {
			return res, nil
		}
	}

	return LookupResult{}, errs.Wrapf(errs.Unresolved, "could not resolve %q in any scope", key.First())
}
