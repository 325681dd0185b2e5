/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "github.com/jacobin-labs/hdrc/internal/errs"

// cursor is a stateful reader over an immutable byte slice: unsigned
// big-endian 1/2/4-byte primitives plus skip, per spec §4.1. It owns the
// bytes it reads and is scoped to a single class-file parse (spec §5).
//
// Jacobin reads class-file integers with free functions like
// intFrom2Bytes(bytes, pos) that take and return an explicit position; this
// type folds that bookkeeping into a single cooperative reader instead, so
// every read site in reader.go just says c.u2() rather than threading pos
// through every call and return.
type cursor struct {
	buf []byte
	off int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

// pos returns the current 0-based offset into the buffer.
func (c *cursor) pos() int { return c.off }

// remaining reports how many unread bytes are left.
func (c *cursor) remaining() int { return len(c.buf) - c.off }

func (c *cursor) need(n int) error {
	if c.remaining() < n {
		return errs.Wrapf(errs.Truncated, "need %d bytes at offset %d, only %d remain", n, c.off, c.remaining())
	}
	return nil
}

// u1 reads one unsigned byte.
func (c *cursor) u1() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.buf[c.off]
	c.off++
	return v, nil
}

// u2 reads a 2-byte unsigned big-endian integer.
func (c *cursor) u2() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := uint16(c.buf[c.off])<<8 | uint16(c.buf[c.off+1])
	c.off += 2
	return v, nil
}

// u4 reads a 4-byte unsigned big-endian integer.
func (c *cursor) u4() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := uint32(c.buf[c.off])<<24 | uint32(c.buf[c.off+1])<<16 |
		uint32(c.buf[c.off+2])<<8 | uint32(c.buf[c.off+3])
	c.off += 4
	return v, nil
}

// bytes reads n raw bytes and advances past them. The returned slice aliases
// the cursor's backing array; callers that retain it must not mutate it.
func (c *cursor) bytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	v := c.buf[c.off : c.off+n]
	c.off += n
	return v, nil
}

// skip advances n bytes without reading them.
func (c *cursor) skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.off += n
	return nil
}
