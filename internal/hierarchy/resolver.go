/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package hierarchy

import "github.com/jacobin-labs/hdrc/internal/symbol"

// Resolve performs member-type resolution at a class (spec §4.6): search
// start's direct member types, then recursively its superclass's, then each
// interface's in declaration order. First match wins; if two distinct paths
// would yield different symbols, the contract is to accept this declared
// order and leave diagnosing the ambiguity to a downstream pass.
func Resolve(env Environment, start symbol.ClassSymbol, name string) (symbol.ClassSymbol, bool) {
	hb, ok := env.Lookup(start)
	if !ok {
		return symbol.Invalid, false
	}

	if sym, ok := hb.MemberType(name); ok {
		return sym, true
	}

	if super, ok := hb.Superclass(); ok {
		if sym, ok := Resolve(env, super, name); ok {
			return sym, true
		}
	}

	for _, iface := range hb.Interfaces() {
		if sym, ok := Resolve(env, iface, name); ok {
			return sym, true
		}
	}

	return symbol.Invalid, false
}
