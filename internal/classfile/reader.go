/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package classfile implements the class-file reader: the byte cursor, the
// constant-pool reader, and the sequential parse of one class file into a
// structured ClassFile value (spec §4.1-§4.3). The parse pipeline below
// follows jacobin's own parse() in src/classloader/parser.go step for step
// (magic -> version -> constant pool -> access flags -> this-class ->
// super-class -> interfaces -> fields -> methods -> class attributes), and
// the field/method/attribute structures are adapted from ParsedClass in
// src/classloader/classloader.go, trimmed to what a header compiler needs.
package classfile

import (
	"strconv"

	"github.com/jacobin-labs/hdrc/internal/errs"
	"github.com/jacobin-labs/hdrc/internal/trace"
)

const magic = 0xCAFEBABE

// Class-file access flags, per the published binary format. Jacobin decodes
// these with a sequence of "if accessFlags&0x0010 > 0" checks in
// parseAccessFlags (parser.go); AccessFlags here is the bitset those checks
// would set, exposed directly instead of as a dozen derived booleans.
const (
	AccPublic     uint16 = 0x0001
	AccPrivate    uint16 = 0x0002
	AccProtected  uint16 = 0x0004
	AccStatic     uint16 = 0x0008
	AccFinal      uint16 = 0x0010
	AccSuper      uint16 = 0x0020
	AccInterface  uint16 = 0x0200
	AccAbstract   uint16 = 0x0400
	AccSynthetic  uint16 = 0x1000
	AccAnnotation uint16 = 0x2000
	AccEnum       uint16 = 0x4000
	AccModule     uint16 = 0x8000
)

const (
	minSupportedMajor = 45
	maxSupportedMajor = 52
)

// Attribute names the reader recognizes. All others are skipped by length
// (spec §4.3).
const (
	attrConstantValue     = "ConstantValue"
	attrExceptions        = "Exceptions"
	attrSignature         = "Signature"
	attrInnerClasses      = "InnerClasses"
	attrRuntimeVisibleAnn = "RuntimeVisibleAnnotations"
	attrDeprecated        = "Deprecated"
)

// FieldInfo is one field's header-relevant information (spec §3).
type FieldInfo struct {
	AccessFlags   uint16
	Name          string
	Descriptor    string
	Signature     *string
	ConstantValue *Literal
}

// MethodInfo is one method's header-relevant information (spec §3). Code
// bodies are never parsed: this core does not type-check or verify bytecode
// (spec Non-goals).
type MethodInfo struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Signature   *string
	Exceptions  []string // thrown class names, internal form
}

// InnerClassRecord is one entry of the InnerClasses attribute that mentions
// the class currently being parsed, as either inner or outer (spec §4.3.3).
// An absent outer/inner-name index becomes an empty string sentinel, since 0
// is never a valid constant-pool index.
type InnerClassRecord struct {
	InnerName   string // internal-form class name of the inner class
	OuterName   string // internal-form class name of the enclosing class, "" if absent
	SimpleName  string // simple (unqualified) name, "" if absent (anonymous class)
	AccessFlags uint16
}

// ClassFile is the fully-parsed header-relevant content of one class file
// (spec §3, "ClassFile (output of reader)").
type ClassFile struct {
	MinorVersion int
	MajorVersion int

	AccessFlags uint16
	ThisClass   string
	Signature   *string
	SuperClass  *string // nil when the super_class index is 0 (the reader does not check that the class is java/lang/Object)
	Interfaces  []string

	Fields  []FieldInfo
	Methods []MethodInfo

	InnerClasses []InnerClassRecord
	Annotations  []Annotation // retention-relevant only (spec §4.3.3/§4.3.4)
	Deprecated   bool

	CP *ConstantPool // exposed for callers that need raw literal/name lookups
}

func (cf *ClassFile) Is(flag uint16) bool { return cf.AccessFlags&flag != 0 }

// Read parses one complete class file from raw bytes, per spec §4.3.
func Read(raw []byte) (*ClassFile, error) {
	c := newCursor(raw)

	m, err := c.u4()
	if err != nil {
		return nil, err
	}
	if m != magic {
		return nil, errs.Wrapf(errs.BadMagic, "expected magic 0xCAFEBABE, got 0x%08X", m)
	}

	minor, err := c.u2()
	if err != nil {
		return nil, err
	}
	major, err := c.u2()
	if err != nil {
		return nil, err
	}
	if int(major) < minSupportedMajor || int(major) > maxSupportedMajor {
		return nil, errs.Wrapf(errs.BadVersion, "unsupported major version %d (supported: [%d,%d])", major, minSupportedMajor, maxSupportedMajor)
	}
	trace.Trace("classfile.Read: major=" + strconv.Itoa(int(major)) + " minor=" + strconv.Itoa(int(minor)))

	cpCount, err := c.u2()
	if err != nil {
		return nil, err
	}
	cp, err := readConstantPool(c, int(cpCount))
	if err != nil {
		return nil, err
	}

	accessFlags, err := c.u2()
	if err != nil {
		return nil, err
	}

	thisClassIdx, err := c.u2()
	if err != nil {
		return nil, err
	}
	thisClass, err := cp.ClassInfo(int(thisClassIdx))
	if err != nil {
		return nil, err
	}

	superClassIdx, err := c.u2()
	if err != nil {
		return nil, err
	}
	var superClass *string
	if superClassIdx != 0 {
		name, err := cp.ClassInfo(int(superClassIdx))
		if err != nil {
			return nil, err
		}
		superClass = &name
	}

	interfaceCount, err := c.u2()
	if err != nil {
		return nil, err
	}
	interfaces := make([]string, 0, interfaceCount)
	for i := 0; i < int(interfaceCount); i++ {
		idx, err := c.u2()
		if err != nil {
			return nil, err
		}
		name, err := cp.ClassInfo(int(idx))
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, name)
	}

	fields, err := readFields(c, cp)
	if err != nil {
		return nil, err
	}

	methods, err := readMethods(c, cp)
	if err != nil {
		return nil, err
	}

	cf := &ClassFile{
		MinorVersion: int(minor),
		MajorVersion: int(major),
		AccessFlags:  accessFlags,
		ThisClass:    thisClass,
		SuperClass:   superClass,
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
		CP:           cp,
	}

	if err := readClassAttributes(c, cp, cf); err != nil {
		return nil, err
	}

	trace.Trace("classfile.Read: parsed " + thisClass)
	return cf, nil
}

func readFields(c *cursor, cp *ConstantPool) ([]FieldInfo, error) {
	count, err := c.u2()
	if err != nil {
		return nil, err
	}
	fields := make([]FieldInfo, 0, count)
	for i := 0; i < int(count); i++ {
		access, err := c.u2()
		if err != nil {
			return nil, err
		}
		nameIdx, err := c.u2()
		if err != nil {
			return nil, err
		}
		name, err := cp.UTF8(int(nameIdx))
		if err != nil {
			return nil, err
		}
		descIdx, err := c.u2()
		if err != nil {
			return nil, err
		}
		desc, err := cp.UTF8(int(descIdx))
		if err != nil {
			return nil, err
		}

		f := FieldInfo{AccessFlags: access, Name: name, Descriptor: desc}

		attrCount, err := c.u2()
		if err != nil {
			return nil, err
		}
		for j := 0; j < int(attrCount); j++ {
			attrNameIdx, err := c.u2()
			if err != nil {
				return nil, err
			}
			attrName, err := cp.UTF8(int(attrNameIdx))
			if err != nil {
				return nil, err
			}
			length, err := c.u4()
			if err != nil {
				return nil, err
			}

			switch attrName {
			case attrConstantValue:
				idx, err := c.u2()
				if err != nil {
					return nil, err
				}
				lit, err := cp.Constant(int(idx))
				if err != nil {
					return nil, err
				}
				f.ConstantValue = &lit
			case attrSignature:
				idx, err := c.u2()
				if err != nil {
					return nil, err
				}
				sig, err := cp.UTF8(int(idx))
				if err != nil {
					return nil, err
				}
				f.Signature = &sig
			default:
				if err := c.skip(int(length)); err != nil {
					return nil, err
				}
			}
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func readMethods(c *cursor, cp *ConstantPool) ([]MethodInfo, error) {
	count, err := c.u2()
	if err != nil {
		return nil, err
	}
	methods := make([]MethodInfo, 0, count)
	for i := 0; i < int(count); i++ {
		access, err := c.u2()
		if err != nil {
			return nil, err
		}
		nameIdx, err := c.u2()
		if err != nil {
			return nil, err
		}
		name, err := cp.UTF8(int(nameIdx))
		if err != nil {
			return nil, err
		}
		descIdx, err := c.u2()
		if err != nil {
			return nil, err
		}
		desc, err := cp.UTF8(int(descIdx))
		if err != nil {
			return nil, err
		}

		m := MethodInfo{AccessFlags: access, Name: name, Descriptor: desc}

		attrCount, err := c.u2()
		if err != nil {
			return nil, err
		}
		for j := 0; j < int(attrCount); j++ {
			attrNameIdx, err := c.u2()
			if err != nil {
				return nil, err
			}
			attrName, err := cp.UTF8(int(attrNameIdx))
			if err != nil {
				return nil, err
			}
			length, err := c.u4()
			if err != nil {
				return nil, err
			}

			switch attrName {
			case attrExceptions:
				excCount, err := c.u2()
				if err != nil {
					return nil, err
				}
				for k := 0; k < int(excCount); k++ {
					idx, err := c.u2()
					if err != nil {
						return nil, err
					}
					excName, err := cp.ClassInfo(int(idx))
					if err != nil {
						return nil, err
					}
					m.Exceptions = append(m.Exceptions, excName)
				}
			case attrSignature:
				idx, err := c.u2()
				if err != nil {
					return nil, err
				}
				sig, err := cp.UTF8(int(idx))
				if err != nil {
					return nil, err
				}
				m.Signature = &sig
			default:
				if err := c.skip(int(length)); err != nil {
					return nil, err
				}
			}
		}
		methods = append(methods, m)
	}
	return methods, nil
}

func readClassAttributes(c *cursor, cp *ConstantPool, cf *ClassFile) error {
	count, err := c.u2()
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		nameIdx, err := c.u2()
		if err != nil {
			return err
		}
		name, err := cp.UTF8(int(nameIdx))
		if err != nil {
			return err
		}
		length, err := c.u4()
		if err != nil {
			return err
		}

		switch name {
		case attrSignature:
			idx, err := c.u2()
			if err != nil {
				return err
			}
			sig, err := cp.UTF8(int(idx))
			if err != nil {
				return err
			}
			cf.Signature = &sig

		case attrInnerClasses:
			n, err := c.u2()
			if err != nil {
				return err
			}
			for j := 0; j < int(n); j++ {
				innerInfoIdx, err := c.u2()
				if err != nil {
					return err
				}
				outerInfoIdx, err := c.u2()
				if err != nil {
					return err
				}
				innerNameIdx, err := c.u2()
				if err != nil {
					return err
				}
				innerAccess, err := c.u2()
				if err != nil {
					return err
				}

				innerName, err := cp.ClassInfo(int(innerInfoIdx))
				if err != nil {
					return err
				}
				var outerName, simpleName string
				if outerInfoIdx != 0 {
					outerName, err = cp.ClassInfo(int(outerInfoIdx))
					if err != nil {
						return err
					}
				}
				if innerNameIdx != 0 {
					simpleName, err = cp.UTF8(int(innerNameIdx))
					if err != nil {
						return err
					}
				}

				if innerName == cf.ThisClass || outerName == cf.ThisClass {
					cf.InnerClasses = append(cf.InnerClasses, InnerClassRecord{
						InnerName:   innerName,
						OuterName:   outerName,
						SimpleName:  simpleName,
						AccessFlags: innerAccess,
					})
				}
			}

		case attrRuntimeVisibleAnn:
			if cf.AccessFlags&AccAnnotation != 0 {
				anns, err := readAnnotations(c, cp)
				if err != nil {
					return err
				}
				cf.Annotations = append(cf.Annotations, anns...)
			} else if err := c.skip(int(length)); err != nil {
				return err
			}

		case attrDeprecated:
			cf.Deprecated = true
			if length != 0 {
				if err := c.skip(int(length)); err != nil {
					return err
				}
			}

		default:
			if err := c.skip(int(length)); err != nil {
				return err
			}
		}
	}

	if cf.Annotations == nil {
		cf.Annotations = []Annotation{} // spec §9: "absent" is treated as empty downstream
	}
	return nil
}
