/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "testing"

func TestReadBadMagic(t *testing.T) {
	if _, err := Read([]byte{0, 0, 0, 0}); err == nil {
		t.Error("expected BAD_MAGIC error")
	}
}

func TestReadBadVersion(t *testing.T) {
	b := newCFBuilder()
	b.major = 99 // outside [45, 52]
	thisIdx := b.addClass("Thing")
	b.setBody(AccSuper, thisIdx, 0, nil, count0(), count0(), count0())

	if _, err := Read(b.bytes()); err == nil {
		t.Error("expected BAD_VERSION error for major=99")
	}
}

func TestReadMinimalClass(t *testing.T) {
	b := newCFBuilder()
	thisIdx := b.addClass("com/example/Thing")
	objIdx := b.addClass("java/lang/Object")
	b.setBody(AccPublic|AccSuper, thisIdx, objIdx, nil, count0(), count0(), count0())

	cf, err := Read(b.bytes())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cf.ThisClass != "com/example/Thing" {
		t.Errorf("ThisClass = %q, want com/example/Thing", cf.ThisClass)
	}
	if cf.SuperClass == nil || *cf.SuperClass != "java/lang/Object" {
		t.Errorf("SuperClass = %v, want java/lang/Object", cf.SuperClass)
	}
	if !cf.Is(AccPublic) {
		t.Error("expected AccPublic set")
	}
}

func TestReadObjectHasNoSuperclass(t *testing.T) {
	b := newCFBuilder()
	thisIdx := b.addClass("java/lang/Object")
	b.setBody(AccPublic|AccSuper, thisIdx, 0, nil, count0(), count0(), count0())

	cf, err := Read(b.bytes())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cf.SuperClass != nil {
		t.Errorf("SuperClass = %v, want nil for java/lang/Object", *cf.SuperClass)
	}
}

func TestReadInterfacesInDeclarationOrder(t *testing.T) {
	b := newCFBuilder()
	thisIdx := b.addClass("com/example/Thing")
	objIdx := b.addClass("java/lang/Object")
	i1 := b.addClass("com/example/Alpha")
	i2 := b.addClass("com/example/Beta")
	i3 := b.addClass("com/example/Gamma")
	b.setBody(AccPublic|AccSuper, thisIdx, objIdx, []uint16{i1, i2, i3}, count0(), count0(), count0())

	cf, err := Read(b.bytes())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []string{"com/example/Alpha", "com/example/Beta", "com/example/Gamma"}
	if len(cf.Interfaces) != len(want) {
		t.Fatalf("Interfaces = %v, want %v", cf.Interfaces, want)
	}
	for i, w := range want {
		if cf.Interfaces[i] != w {
			t.Errorf("Interfaces[%d] = %q, want %q", i, cf.Interfaces[i], w)
		}
	}
}

func TestReadFieldConstantValue(t *testing.T) {
	b := newCFBuilder()
	thisIdx := b.addClass("com/example/Thing")
	objIdx := b.addClass("java/lang/Object")
	nameIdx := b.addUTF8("MAX")
	descIdx := b.addUTF8("I")
	cvAttrName := b.addUTF8(attrConstantValue)
	litIdx := b.addInt(42)

	f := field(AccPublic|AccStatic|AccFinal, nameIdx, descIdx, attr(cvAttrName, u16(litIdx)))
	b.setBody(AccPublic|AccSuper, thisIdx, objIdx, nil, section(f), count0(), count0())

	cf, err := Read(b.bytes())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Fields) != 1 {
		t.Fatalf("Fields = %v, want 1 entry", cf.Fields)
	}
	got := cf.Fields[0]
	if got.Name != "MAX" || got.Descriptor != "I" {
		t.Errorf("field = %+v, want name=MAX desc=I", got)
	}
	if got.ConstantValue == nil || got.ConstantValue.Kind != LiteralInt || got.ConstantValue.Int != 42 {
		t.Errorf("ConstantValue = %+v, want Int=42", got.ConstantValue)
	}
}

func TestReadMethodExceptionsAndSignature(t *testing.T) {
	b := newCFBuilder()
	thisIdx := b.addClass("com/example/Thing")
	objIdx := b.addClass("java/lang/Object")
	nameIdx := b.addUTF8("go")
	descIdx := b.addUTF8("()V")
	excAttrName := b.addUTF8(attrExceptions)
	excClassIdx := b.addClass("java/io/IOException")
	sigAttrName := b.addUTF8(attrSignature)
	sigIdx := b.addUTF8("()V^Ljava/io/IOException;")

	m := method(AccPublic, nameIdx, descIdx,
		attr(excAttrName, append(u16(1), u16(excClassIdx)...)),
		attr(sigAttrName, u16(sigIdx)),
	)
	b.setBody(AccPublic|AccSuper, thisIdx, objIdx, nil, count0(), section(m), count0())

	cf, err := Read(b.bytes())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Methods) != 1 {
		t.Fatalf("Methods = %v, want 1 entry", cf.Methods)
	}
	got := cf.Methods[0]
	if len(got.Exceptions) != 1 || got.Exceptions[0] != "java/io/IOException" {
		t.Errorf("Exceptions = %v, want [java/io/IOException]", got.Exceptions)
	}
	if got.Signature == nil || *got.Signature != "()V^Ljava/io/IOException;" {
		t.Errorf("Signature = %v", got.Signature)
	}
}

func TestUnknownAttributeSkipsExactLength(t *testing.T) {
	b := newCFBuilder()
	thisIdx := b.addClass("com/example/Thing")
	objIdx := b.addClass("java/lang/Object")
	fooName := b.addUTF8("Foo")
	payload := []byte{1, 2, 3, 4, 5, 6, 7}

	// a second, recognized attribute after Foo proves the cursor landed
	// exactly at start+4+len(payload): if it had drifted, this UTF8 lookup
	// (or the following Signature attribute) would fail to parse.
	sigAttrName := b.addUTF8(attrSignature)
	sigIdx := b.addUTF8("Lcom/example/Thing;")

	attrs := section(attr(fooName, payload), attr(sigAttrName, u16(sigIdx)))
	b.setBody(AccPublic|AccSuper, thisIdx, objIdx, nil, count0(), count0(), attrs)

	cf, err := Read(b.bytes())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cf.Signature == nil || *cf.Signature != "Lcom/example/Thing;" {
		t.Errorf("Signature = %v, want Lcom/example/Thing;, proving Foo was skipped exactly", cf.Signature)
	}
}

func TestInnerClassesFilteredToThisClass(t *testing.T) {
	b := newCFBuilder()
	thisIdx := b.addClass("com/example/Outer$Inner")
	objIdx := b.addClass("java/lang/Object")
	outerIdx := b.addClass("com/example/Outer")
	innerNameIdx := b.addUTF8("Inner")

	unrelatedThis := b.addClass("com/example/Other$Nested")
	unrelatedOuter := b.addClass("com/example/Other")
	unrelatedNameIdx := b.addUTF8("Nested")

	icAttrName := b.addUTF8(attrInnerClasses)
	records := append(u16(2),
		append(append(append(u16(thisIdx), u16(outerIdx)...), u16(innerNameIdx)...), u16(AccPublic|AccStatic)...)...)
	records = append(records,
		append(append(append(u16(unrelatedThis), u16(unrelatedOuter)...), u16(unrelatedNameIdx)...), u16(AccPublic)...)...)

	attrs := section(attr(icAttrName, records))
	b.setBody(AccPublic|AccSuper|AccStatic, thisIdx, objIdx, nil, count0(), count0(), attrs)

	cf, err := Read(b.bytes())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.InnerClasses) != 1 {
		t.Fatalf("InnerClasses = %+v, want exactly 1 record (mentioning this class)", cf.InnerClasses)
	}
	got := cf.InnerClasses[0]
	if got.InnerName != "com/example/Outer$Inner" || got.OuterName != "com/example/Outer" || got.SimpleName != "Inner" {
		t.Errorf("InnerClasses[0] = %+v", got)
	}
}

func TestAnnotationsSkippedWhenClassIsNotAnnotation(t *testing.T) {
	b := newCFBuilder()
	thisIdx := b.addClass("com/example/Thing")
	objIdx := b.addClass("java/lang/Object")

	annAttrName := b.addUTF8(attrRuntimeVisibleAnn)
	retDescIdx := b.addUTF8(retentionDescriptor)
	valueKeyIdx := b.addUTF8("value")
	policyTypeIdx := b.addUTF8(retentionPolicyDescriptor)
	runtimeConstIdx := b.addUTF8("RUNTIME")

	annContent := append(u16(1), u16(retDescIdx)...) // 1 annotation, then its type index
	annContent = append(annContent, u16(1)...)       // 1 pair
	annContent = append(annContent, u16(valueKeyIdx)...)
	annContent = append(annContent, 'e')
	annContent = append(annContent, u16(policyTypeIdx)...)
	annContent = append(annContent, u16(runtimeConstIdx)...)

	attrs := section(attr(annAttrName, annContent))
	// note: AccAnnotation is NOT set on this class
	b.setBody(AccPublic|AccSuper, thisIdx, objIdx, nil, count0(), count0(), attrs)

	cf, err := Read(b.bytes())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Annotations) != 0 {
		t.Errorf("Annotations = %+v, want empty (class is not itself an annotation declaration)", cf.Annotations)
	}
}

func TestRetentionRoundTrip(t *testing.T) {
	b := newCFBuilder()
	thisIdx := b.addClass("com/example/MyAnno")
	objIdx := b.addClass("java/lang/Object")
	annoIface := b.addClass("java/lang/annotation/Annotation")

	annAttrName := b.addUTF8(attrRuntimeVisibleAnn)
	retDescIdx := b.addUTF8(retentionDescriptor)
	valueKeyIdx := b.addUTF8("value")
	policyTypeIdx := b.addUTF8(retentionPolicyDescriptor)
	runtimeConstIdx := b.addUTF8("RUNTIME")

	annContent := append(u16(1), u16(retDescIdx)...) // 1 annotation, then its type index
	annContent = append(annContent, u16(1)...)       // 1 pair
	annContent = append(annContent, u16(valueKeyIdx)...)
	annContent = append(annContent, 'e')
	annContent = append(annContent, u16(policyTypeIdx)...)
	annContent = append(annContent, u16(runtimeConstIdx)...)

	attrs := section(attr(annAttrName, annContent))
	b.setBody(AccPublic|AccInterface|AccAbstract|AccAnnotation, thisIdx, objIdx, []uint16{annoIface}, count0(), count0(), attrs)

	cf, err := Read(b.bytes())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(cf.Annotations) != 1 {
		t.Fatalf("Annotations = %+v, want exactly 1 record", cf.Annotations)
	}
	got := cf.Annotations[0]
	if got.TypeDescriptor != retentionDescriptor || !got.Visible {
		t.Errorf("Annotations[0] = %+v, want TypeDescriptor=%s Visible=true", got, retentionDescriptor)
	}
	v, ok := got.Bindings["value"]
	if !ok || v.TypeName != retentionPolicyDescriptor || v.ConstName != "RUNTIME" {
		t.Errorf("Bindings[value] = %+v, ok=%v, want {%s RUNTIME}", v, ok, retentionPolicyDescriptor)
	}
}

func TestDeprecatedAttribute(t *testing.T) {
	b := newCFBuilder()
	thisIdx := b.addClass("com/example/Thing")
	objIdx := b.addClass("java/lang/Object")
	depAttrName := b.addUTF8(attrDeprecated)

	attrs := section(attr(depAttrName, nil))
	b.setBody(AccPublic|AccSuper, thisIdx, objIdx, nil, count0(), count0(), attrs)

	cf, err := Read(b.bytes())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !cf.Deprecated {
		t.Error("expected Deprecated=true")
	}
}
