/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"github.com/jacobin-labs/hdrc/internal/errs"
	"github.com/jacobin-labs/hdrc/internal/trace"
)

// The only annotation that influences header compilation is @Retention, and
// only when its value is an enum constant of RetentionPolicy (spec §4.3.4).
const (
	retentionDescriptor       = "Ljava/lang/annotation/Retention;"
	retentionPolicyDescriptor = "Ljava/lang/annotation/RetentionPolicy;"
)

// EnumValue is the enum-constant payload of a tag-'e' element value: a type
// descriptor and the constant's name within that type.
type EnumValue struct {
	TypeName  string
	ConstName string
}

// Annotation is a retained annotation record: a type descriptor, a fixed
// visibility of true (only RuntimeVisibleAnnotations is ever consumed), and
// the single value binding that survives discard (spec §4.3.4: "the
// annotation record for that case contains type descriptor, visibility flag
// true, and a single key->value binding").
type Annotation struct {
	TypeDescriptor string
	Visible        bool
	Bindings       map[string]EnumValue
}

// readAnnotations parses num_annotations annotation structures and returns
// only the ones worth retaining (i.e. a @Retention with a recognized enum
// value). Called only when the enclosing class is itself an annotation
// declaration (spec §4.3.3).
func readAnnotations(c *cursor, cp *ConstantPool) ([]Annotation, error) {
	num, err := c.u2()
	if err != nil {
		return nil, err
	}
	var kept []Annotation
	for i := 0; i < int(num); i++ {
		ann, anomalous, err := readAnnotation(c, cp)
		if err != nil {
			return nil, err
		}
		if anomalous {
			trace.Warning("classfile: duplicate @Retention value pair; the last one wins")
		}
		if ann.Visible {
			kept = append(kept, ann)
		}
	}
	return kept, nil
}

// readAnnotation parses one annotation structure (type descriptor + N
// key/value pairs). It always consumes exactly the bytes that make up the
// structure, whether or not the result is retained, so the cursor stays in
// sync with its siblings regardless of what kind of annotation this is.
//
// anomalous is true if more than one value-bearing pair for "value" was
// seen; per spec §9, the last one wins and the duplicate is merely flagged,
// not an error.
func readAnnotation(c *cursor, cp *ConstantPool) (ann Annotation, anomalous bool, err error) {
	typeIdx, err := c.u2()
	if err != nil {
		return Annotation{}, false, err
	}
	typeDesc, err := cp.UTF8(int(typeIdx))
	if err != nil {
		return Annotation{}, false, err
	}
	isRetention := typeDesc == retentionDescriptor

	numPairs, err := c.u2()
	if err != nil {
		return Annotation{}, false, err
	}

	var retained EnumValue
	sawValue := false
	for i := 0; i < int(numPairs); i++ {
		keyIdx, err := c.u2()
		if err != nil {
			return Annotation{}, false, err
		}
		key, err := cp.UTF8(int(keyIdx))
		if err != nil {
			return Annotation{}, false, err
		}

		wantRetain := isRetention && key == "value"
		ev, matched, err := readElementValue(c, cp, wantRetain)
		if err != nil {
			return Annotation{}, false, err
		}
		if matched {
			if sawValue {
				anomalous = true
			}
			retained = ev
			sawValue = true
		}
	}

	if isRetention && sawValue {
		return Annotation{
			TypeDescriptor: typeDesc,
			Visible:        true,
			Bindings:       map[string]EnumValue{"value": retained},
		}, anomalous, nil
	}
	return Annotation{}, anomalous, nil
}

// readElementValue parses one tagged element value, per the table in spec
// §4.3.4. wantRetain selects whether an 'e' tag should be decoded and
// returned (true only while reading @Retention.value); every other tag is
// parsed only far enough to keep the cursor in sync, then discarded.
func readElementValue(c *cursor, cp *ConstantPool, wantRetain bool) (ev EnumValue, matched bool, err error) {
	tag, err := c.u1()
	if err != nil {
		return EnumValue{}, false, err
	}

	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		if err := c.skip(2); err != nil { // 2-byte constant index
			return EnumValue{}, false, err
		}
		return EnumValue{}, false, nil

	case 'e':
		typeNameIdx, err := c.u2()
		if err != nil {
			return EnumValue{}, false, err
		}
		constNameIdx, err := c.u2()
		if err != nil {
			return EnumValue{}, false, err
		}
		if !wantRetain {
			return EnumValue{}, false, nil
		}
		typeName, err := cp.UTF8(int(typeNameIdx))
		if err != nil {
			return EnumValue{}, false, err
		}
		if typeName != retentionPolicyDescriptor {
			return EnumValue{}, false, nil
		}
		constName, err := cp.UTF8(int(constNameIdx))
		if err != nil {
			return EnumValue{}, false, err
		}
		return EnumValue{TypeName: typeName, ConstName: constName}, true, nil

	case 'c':
		if err := c.skip(2); err != nil { // 2-byte class-info index
			return EnumValue{}, false, err
		}
		return EnumValue{}, false, nil

	case '@':
		if _, _, err := readAnnotation(c, cp); err != nil {
			return EnumValue{}, false, err
		}
		return EnumValue{}, false, nil

	case '[':
		count, err := c.u2()
		if err != nil {
			return EnumValue{}, false, err
		}
		for i := 0; i < int(count); i++ {
			if _, _, err := readElementValue(c, cp, false); err != nil {
				return EnumValue{}, false, err
			}
		}
		return EnumValue{}, false, nil

	default:
		return EnumValue{}, false, errs.Wrapf(errs.BadTag, "unknown element-value tag %q", rune(tag))
	}
}
