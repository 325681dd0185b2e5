/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "encoding/binary"

// cfBuilder assembles a well-formed class file byte by byte, the way
// jacobin's formatCheck_test.go hand-assembles ParsedClass/CPool fixtures
// directly rather than going through a real compiler. Constant-pool entries
// are appended in order and the builder tracks indices for its caller.
type cfBuilder struct {
	cp    [][]byte // one encoded entry per slot, index 0 unused
	body  []byte   // everything after the constant pool
	major uint16
}

func newCFBuilder() *cfBuilder {
	b := &cfBuilder{cp: [][]byte{nil}, major: 52}
	return b
}

func u16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

// addUTF8 appends a CONSTANT_Utf8 entry and returns its 1-based index.
func (b *cfBuilder) addUTF8(s string) uint16 {
	entry := append([]byte{tagUTF8}, u16(uint16(len(encodeModifiedUTF8(s))))...)
	entry = append(entry, encodeModifiedUTF8(s)...)
	b.cp = append(b.cp, entry)
	return uint16(len(b.cp) - 1)
}

// addClass appends a CONSTANT_Class entry naming an already-added UTF8 entry.
func (b *cfBuilder) addClass(name string) uint16 {
	nameIdx := b.addUTF8(name)
	entry := append([]byte{tagClass}, u16(nameIdx)...)
	b.cp = append(b.cp, entry)
	return uint16(len(b.cp) - 1)
}

func (b *cfBuilder) addInt(v int32) uint16 {
	entry := append([]byte{tagInteger}, u32(uint32(v))...)
	b.cp = append(b.cp, entry)
	return uint16(len(b.cp) - 1)
}

func (b *cfBuilder) addLong(v int64) uint16 {
	entry := append([]byte{tagLong}, u32(uint32(v>>32))...)
	entry = append(entry, u32(uint32(v))...)
	b.cp = append(b.cp, entry, nil) // second slot unused
	return uint16(len(b.cp) - 2)
}

// setBody assembles the post-constant-pool section of a class file from its
// component parts: access flags, this/super class indices, interfaces, and
// already-encoded fields/methods/attributes sections (each including its own
// leading count).
func (b *cfBuilder) setBody(access, thisIdx, superIdx uint16, interfaces []uint16, fields, methods, attrs []byte) {
	body := append([]byte{}, u16(access)...)
	body = append(body, u16(thisIdx)...)
	body = append(body, u16(superIdx)...)
	body = append(body, u16(uint16(len(interfaces)))...)
	for _, idx := range interfaces {
		body = append(body, u16(idx)...)
	}
	body = append(body, fields...)
	body = append(body, methods...)
	body = append(body, attrs...)
	b.body = body
}

// count0 is the two-byte zero-count section used for an empty
// fields/methods/attributes table.
func count0() []byte { return u16(0) }

// attr encodes one attribute: name index, length-prefixed content.
func attr(nameIdx uint16, content []byte) []byte {
	out := append([]byte{}, u16(nameIdx)...)
	out = append(out, u32(uint32(len(content)))...)
	out = append(out, content...)
	return out
}

// field encodes one field_info structure with the given (already-encoded)
// attribute entries.
func field(access, nameIdx, descIdx uint16, attrs ...[]byte) []byte {
	out := append([]byte{}, u16(access)...)
	out = append(out, u16(nameIdx)...)
	out = append(out, u16(descIdx)...)
	out = append(out, u16(uint16(len(attrs)))...)
	for _, a := range attrs {
		out = append(out, a...)
	}
	return out
}

// method encodes one method_info structure; identical shape to field.
func method(access, nameIdx, descIdx uint16, attrs ...[]byte) []byte {
	return field(access, nameIdx, descIdx, attrs...)
}

// section wraps a list of already-encoded entries (fields, methods, or
// top-level class attributes) with their leading count.
func section(entries ...[]byte) []byte {
	out := append([]byte{}, u16(uint16(len(entries)))...)
	for _, e := range entries {
		out = append(out, e...)
	}
	return out
}

// bytes finishes assembly and returns the complete class file.
func (b *cfBuilder) bytes() []byte {
	out := []byte{0xCA, 0xFE, 0xBA, 0xBE}
	out = append(out, u16(0)...)       // minor
	out = append(out, u16(b.major)...) // major
	out = append(out, u16(uint16(len(b.cp)))...)
	for i := 1; i < len(b.cp); i++ {
		if b.cp[i] == nil {
			continue // second half of a long/double, never emitted
		}
		out = append(out, b.cp[i]...)
	}
	out = append(out, b.body...)
	return out
}
