/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package ast

import (
	"reflect"
	"testing"
)

func TestQualifiedTypeFlattenOuterToInner(t *testing.T) {
	q := &QualifiedType{Base: &QualifiedType{Base: &QualifiedType{Name: "Outer"}, Name: "Mid"}, Name: "Inner"}
	got := q.Flatten()
	want := []string{"Outer", "Mid", "Inner"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
}

func TestSimpleTypeFlatten(t *testing.T) {
	got := SimpleType("Object").Flatten()
	want := []string{"Object"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
}

func TestModifiersHasAndWith(t *testing.T) {
	var m Modifiers
	if m.Has(Public) {
		t.Error("zero-value Modifiers should not have PUBLIC")
	}
	m = m.With(Public).With(Static)
	if !m.Has(Public) || !m.Has(Static) {
		t.Errorf("m = %b, want PUBLIC|STATIC", m)
	}
	if m.Has(Final) {
		t.Error("m should not have FINAL")
	}
}

func TestHasBodyBearingConstant(t *testing.T) {
	withBody := &ClassDecl{
		Kind: Enum,
		Members: []Member{
			{Kind: MemberNestedType, Nested: &ClassDecl{Modifiers: Modifiers(0).With(EnumImpl)}},
			{Kind: MemberNestedType, Nested: &ClassDecl{}},
		},
	}
	if !withBody.HasBodyBearingConstant() {
		t.Error("expected true: one constant carries ENUM_IMPL")
	}

	withoutBody := &ClassDecl{
		Kind: Enum,
		Members: []Member{
			{Kind: MemberNestedType, Nested: &ClassDecl{}},
		},
	}
	if withoutBody.HasBodyBearingConstant() {
		t.Error("expected false: no constant carries ENUM_IMPL")
	}
}

func TestIsTopLevel(t *testing.T) {
	top := &ClassDecl{}
	if !top.IsTopLevel() {
		t.Error("zero-value Owner should be top level")
	}
}
