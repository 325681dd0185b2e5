/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package errs defines the closed error taxonomy shared by the class-file
// reader and the hierarchy binder. Every error raised by this module wraps
// one of the Kind values below, so callers can classify failures with
// errors.Is without parsing message text.
package errs

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
)

// Kind identifies which of the taxonomy members in spec §7 an error belongs to.
type Kind string

const (
	Truncated     Kind = "TRUNCATED"      // class-file bytes ended mid-field
	BadMagic      Kind = "BAD_MAGIC"      // first four bytes != 0xCAFEBABE
	BadVersion    Kind = "BAD_VERSION"    // major version outside [45, 52]
	BadTag        Kind = "BAD_TAG"        // unknown element-value tag in an annotation
	Unresolved    Kind = "UNRESOLVED"     // a named type could not be resolved in any scope
	MissingMember Kind = "MISSING_MEMBER" // a member-type step of a qualified name failed
)

// classError is the concrete error value raised for every Kind above. It is
// deliberately a single type (a closed taxonomy doesn't need a hierarchy of
// error structs) so that wrapping and matching stay uniform.
type classError struct {
	kind Kind
	msg  string
}

func (e *classError) Error() string { return string(e.kind) + ": " + e.msg }

// Is lets errors.Is(err, errs.Of(errs.Truncated)) work by comparing Kind,
// since Kind itself isn't an error.
func (e *classError) Is(target error) bool {
	var other *classError
	if errors.As(target, &other) {
		return e.kind == other.kind
	}
	return false
}

// New builds an error of the given kind, annotated with the file and line of
// the immediate caller -- the same "detected by file: X, line: Y" annotation
// jacobin's cfe() attaches to every class-format error.
func New(kind Kind, msg string) error {
	return newAt(kind, msg, 2)
}

// Of constructs a sentinel of the given kind with no location annotation, for
// use as an errors.Is comparison target (errs.Of(errs.Truncated)).
func Of(kind Kind) error {
	return &classError{kind: kind}
}

// Wrapf is New with printf-style formatting.
func Wrapf(kind Kind, format string, args ...any) error {
	return newAt(kind, fmt.Sprintf(format, args...), 2)
}

func newAt(kind Kind, msg string, skip int) error {
	annotated := msg
	pc, _, _, ok := runtime.Caller(skip)
	if ok {
		fn := runtime.FuncForPC(pc)
		fileName, fileLine := fn.FileLine(pc)
		annotated = msg + " (detected by " + baseName(fileName) + ", line " + strconv.Itoa(fileLine) + ")"
	}
	return &classError{kind: kind, msg: annotated}
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
