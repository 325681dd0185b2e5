/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package hierarchy implements the header-binding subsystem: the
// environment, scope/lookup, the member-type resolver, the hierarchy
// binder, and qualified-name resolution (spec §4.4-§4.9). Source lexing and
// class-file reading feed it, through internal/ast and internal/classfile.
package hierarchy

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jacobin-labs/hdrc/internal/ast"
	"github.com/jacobin-labs/hdrc/internal/classfile"
	"github.com/jacobin-labs/hdrc/internal/symbol"
	"github.com/jacobin-labs/hdrc/internal/trace"
)

// HeaderBoundClass is the read-only view every Environment entry exposes
// (spec §3, "HeaderBoundClass (environment value)"): kind, owner, access
// flags, superclass, interfaces, the compilation-unit scope, and a
// member-type map populated by an earlier pass. Both sourceEntry (the
// SourceStore's view of a class being bound from source) and binaryClass
// (a class loaded from disk) implement it.
type HeaderBoundClass interface {
	Kind() ast.TypeKind
	Owner() (symbol.ClassSymbol, bool)
	AccessFlags() uint16
	Superclass() (symbol.ClassSymbol, bool)
	Interfaces() []symbol.ClassSymbol
	Scope() *CompoundScope
	MemberType(simpleName string) (symbol.ClassSymbol, bool)
}

// Environment is the abstract read-only mapping ClassSymbol -> HeaderBoundClass
// (spec §4.4). Lookup is total for every symbol the binder will encounter;
// a miss is a programmer error upstream (a symbol that was never interned
// against a real declaration or class-file), not a recoverable condition.
type Environment interface {
	Lookup(sym symbol.ClassSymbol) (HeaderBoundClass, bool)
}

// binaryClass adapts a *classfile.ClassFile, already read off disk, to the
// HeaderBoundClass view. It has no member-type map of its own beyond what
// its own nested-class records list, since dependency class files don't
// carry a further source declaration tree to walk.
type binaryClass struct {
	cf      *classfile.ClassFile
	pool    *symbol.Pool
	scope   *CompoundScope
	members map[string]symbol.ClassSymbol
}

func (b *binaryClass) Kind() ast.TypeKind {
	switch {
	case b.cf.Is(classfile.AccAnnotation):
		return ast.Annotation
	case b.cf.Is(classfile.AccEnum):
		return ast.Enum
	case b.cf.Is(classfile.AccInterface):
		return ast.Interface
	default:
		return ast.Class
	}
}

func (b *binaryClass) Owner() (symbol.ClassSymbol, bool) {
	for _, ic := range b.cf.InnerClasses {
		if ic.InnerName == b.cf.ThisClass {
			if ic.OuterName == "" {
				return symbol.Invalid, false
			}
			return b.pool.Intern(ic.OuterName), true
		}
	}
	return symbol.Invalid, false
}

func (b *binaryClass) AccessFlags() uint16 { return b.cf.AccessFlags }

func (b *binaryClass) Superclass() (symbol.ClassSymbol, bool) {
	if b.cf.SuperClass == nil {
		return symbol.Invalid, false
	}
	return b.pool.Intern(*b.cf.SuperClass), true
}

func (b *binaryClass) Interfaces() []symbol.ClassSymbol {
	out := make([]symbol.ClassSymbol, len(b.cf.Interfaces))
	for i, name := range b.cf.Interfaces {
		out[i] = b.pool.Intern(name)
	}
	return out
}

func (b *binaryClass) Scope() *CompoundScope { return b.scope }

func (b *binaryClass) MemberType(simpleName string) (symbol.ClassSymbol, bool) {
	sym, ok := b.members[simpleName]
	return sym, ok
}

// DirEnv is a class-path loader rooted at a directory on disk, adapted from
// jacobin's LoadClassFromFile/loadClassFromBytes/ParseAndPostClass pipeline
// (classloader.go): given a symbol it resolves <root>/<binary-name>.class,
// reads it through the class-file reader, and caches the result as an
// immutable HeaderBoundClass. Unlike jacobin's loader, nothing is posted to
// a global mutable method area -- that posting step belongs to bytecode
// execution, out of this core's scope.
type DirEnv struct {
	root string
	pool *symbol.Pool

	mu    sync.Mutex
	cache map[symbol.ClassSymbol]HeaderBoundClass
}

// NewDirEnv creates a class-path loader rooted at root, interning and
// resolving names against pool.
func NewDirEnv(root string, pool *symbol.Pool) *DirEnv {
	return &DirEnv{root: root, pool: pool, cache: make(map[symbol.ClassSymbol]HeaderBoundClass)}
}

// Lookup implements Environment. A miss from disk (file absent, truncated,
// bad magic) is reported as false, not an error: spec §4.4 requires lookup
// to be total over symbols the binder will actually encounter, so a caller
// that probes a name outside the class path simply sees "not present" here
// and can fall back to a different environment in a composite.
func (d *DirEnv) Lookup(sym symbol.ClassSymbol) (HeaderBoundClass, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if hb, ok := d.cache[sym]; ok {
		return hb, true
	}

	name := d.pool.Name(sym)
	path := filepath.Join(d.root, name+".class")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	trace.Trace("DirEnv: loading " + path)

	cf, err := classfile.Read(raw)
	if err != nil {
		trace.Warning("DirEnv: " + path + ": " + err.Error())
		return nil, false
	}

	hb := &binaryClass{cf: cf, pool: d.pool, scope: nil, members: memberMapFromInnerClasses(cf, d.pool)}
	d.cache[sym] = hb
	return hb, true
}

// memberMapFromInnerClasses builds the simple-name -> symbol member-type map
// a loaded class file exposes, from its (already this-class-filtered)
// InnerClasses records (spec §4.3.3).
func memberMapFromInnerClasses(cf *classfile.ClassFile, pool *symbol.Pool) map[string]symbol.ClassSymbol {
	members := make(map[string]symbol.ClassSymbol)
	for _, ic := range cf.InnerClasses {
		if ic.OuterName == cf.ThisClass && ic.SimpleName != "" {
			members[ic.SimpleName] = pool.Intern(ic.InnerName)
		}
	}
	return members
}

// CompoundEnv composes a source store (classes currently being bound, whose
// keys are fixed up front but whose contents may still be growing) with a
// fallback loader for class-path dependencies, presenting both as the single
// uniform view §4.4 requires.
type CompoundEnv struct {
	source Environment
	loader Environment
}

// NewCompoundEnv composes source over loader: a symbol present in source
// always wins, since a class currently being compiled shadows any
// stale/same-named class file already on the class path.
func NewCompoundEnv(source, loader Environment) *CompoundEnv {
	return &CompoundEnv{source: source, loader: loader}
}

func (c *CompoundEnv) Lookup(sym symbol.ClassSymbol) (HeaderBoundClass, bool) {
	if c.source != nil {
		if hb, ok := c.source.Lookup(sym); ok {
			return hb, true
		}
	}
	if c.loader != nil {
		return c.loader.Lookup(sym)
	}
	return nil, false
}

// simpleName extracts the unqualified trailing component of a binary class
// name: the part after the last '$' (nested class) or '/' (package), or the
// whole name if neither separator is present.
func simpleName(binaryName string) string {
	if i := strings.LastIndexByte(binaryName, '$'); i >= 0 {
		return binaryName[i+1:]
	}
	if i := strings.LastIndexByte(binaryName, '/'); i >= 0 {
		return binaryName[i+1:]
	}
	return binaryName
}
