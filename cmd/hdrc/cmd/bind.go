/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacobin-labs/hdrc/internal/ast"
	"github.com/jacobin-labs/hdrc/internal/classfile"
	"github.com/jacobin-labs/hdrc/internal/hierarchy"
	"github.com/jacobin-labs/hdrc/internal/symbol"
	"github.com/jacobin-labs/hdrc/internal/trace"
)

var (
	fixturesDir  string
	classpathDir string
)

var bindCmd = &cobra.Command{
	Use:   "bind",
	Short: "Bind the headers of every declaration in a fixtures directory",
	Long: `bind loads every *.json declaration-tree fixture under --fixtures,
registers them (and their nested types) in a source store sharing one
compilation-unit scope, and hierarchy-binds each one against an optional
--classpath of pre-compiled .class dependencies. The resulting headers are
printed as JSON, one record per declared class.`,
	RunE: runBind,
}

func init() {
	bindCmd.Flags().StringVar(&fixturesDir, "fixtures", "", "directory of declaration-tree JSON fixtures (required)")
	bindCmd.Flags().StringVar(&classpathDir, "classpath", "", "directory of pre-compiled .class dependencies")
	bindCmd.MarkFlagRequired("fixtures")
	rootCmd.AddCommand(bindCmd)
}

// header is the JSON-printed view of one bound class: the subset of
// SourceHeaderBoundClass a downstream tool would actually want to see,
// with symbols resolved back to names for readability.
type header struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Owner       string   `json:"owner,omitempty"`
	AccessFlags []string `json:"accessFlags"`
	Visibility  string   `json:"visibility"`
	Superclass  string   `json:"superclass,omitempty"`
	Interfaces  []string `json:"interfaces,omitempty"`
}

func runBind(cmd *cobra.Command, args []string) error {
	pool := symbol.NewPool()

	entries, err := os.ReadDir(fixturesDir)
	if err != nil {
		return fmt.Errorf("hdrc: reading fixtures dir: %w", err)
	}

	var decls []*ast.ClassDecl
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(fixturesDir, e.Name()))
		if err != nil {
			return fmt.Errorf("hdrc: reading %s: %w", e.Name(), err)
		}
		decl, err := ast.DecodeFixture(raw, pool)
		if err != nil {
			return fmt.Errorf("hdrc: decoding %s: %w", e.Name(), err)
		}
		decls = append(decls, decl)
		trace.Trace("hdrc: loaded fixture " + e.Name())
	}

	// Every top-level fixture in the batch is treated as a same-package
	// sibling of every other: a minimal stand-in for the real import
	// resolution a source parser would otherwise have already attached to
	// the compilation unit (spec §4.5's single-type/on-demand import
	// sub-scopes are still exercised by scope_test.go and qualified_test.go
	// against synthetic scopes; this driver only needs package-level fallback).
	samepackage := make(map[string]symbol.ClassSymbol, len(decls))
	for _, d := range decls {
		samepackage[simpleName(pool.Name(d.Name))] = d.Name
	}
	unitScope := hierarchy.NewCompoundScope(
		hierarchy.NewPackageScope("", samepackage),
	)

	store := hierarchy.NewSourceStore(pool)
	for _, d := range decls {
		store.Add(d, d.Owner, unitScope)
	}

	var env hierarchy.Environment = store
	if classpathDir != "" {
		env = hierarchy.NewCompoundEnv(store, hierarchy.NewDirEnv(classpathDir, pool))
	}

	var all []*ast.ClassDecl
	for _, d := range decls {
		all = append(all, flattenNested(d)...)
	}

	var out []header
	for _, d := range all {
		bound, err := hierarchy.Bind(env, pool, d, unitScope)
		if err != nil {
			return fmt.Errorf("hdrc: binding %s: %w", pool.Name(d.Name), err)
		}
		store.SetBound(bound)
		trace.Trace("hdrc: bound " + pool.Name(d.Name))
		out = append(out, toHeader(bound, pool))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// simpleName extracts the unqualified trailing component of a binary class
// name, mirroring hierarchy's unexported helper of the same purpose: the
// part after the last '$' (nested class) or '/' (package), or the whole
// name if neither separator is present.
func simpleName(binaryName string) string {
	if i := strings.LastIndexByte(binaryName, '$'); i >= 0 {
		return binaryName[i+1:]
	}
	if i := strings.LastIndexByte(binaryName, '/'); i >= 0 {
		return binaryName[i+1:]
	}
	return binaryName
}

func flattenNested(d *ast.ClassDecl) []*ast.ClassDecl {
	result := []*ast.ClassDecl{d}
	for _, m := range d.Members {
		if m.Kind == ast.MemberNestedType && m.Nested != nil {
			result = append(result, flattenNested(m.Nested)...)
		}
	}
	return result
}

var flagBits = []struct {
	bit  uint16
	name string
}{
	{classfile.AccPublic, "PUBLIC"},
	{classfile.AccPrivate, "PRIVATE"},
	{classfile.AccProtected, "PROTECTED"},
	{classfile.AccStatic, "STATIC"},
	{classfile.AccFinal, "FINAL"},
	{classfile.AccSuper, "SUPER"},
	{classfile.AccInterface, "INTERFACE"},
	{classfile.AccAbstract, "ABSTRACT"},
	{classfile.AccAnnotation, "ANNOTATION"},
	{classfile.AccEnum, "ENUM"},
}

func flagNames(flags uint16) []string {
	var names []string
	for _, fb := range flagBits {
		if flags&fb.bit != 0 {
			names = append(names, fb.name)
		}
	}
	return names
}

func toHeader(b *hierarchy.SourceHeaderBoundClass, pool *symbol.Pool) header {
	h := header{
		Name:        pool.Name(b.Decl.Name),
		Kind:        b.Decl.Kind.String(),
		AccessFlags: flagNames(b.AccessFlags),
		Visibility:  b.Visibility.String(),
	}
	if b.Decl.Owner != symbol.Invalid {
		h.Owner = pool.Name(b.Decl.Owner)
	}
	if b.Superclass != symbol.Invalid {
		h.Superclass = pool.Name(b.Superclass)
	}
	for _, i := range b.Interfaces {
		h.Interfaces = append(h.Interfaces, pool.Name(i))
	}
	return h
}
