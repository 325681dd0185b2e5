/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package trace is the header compiler's logging surface. It keeps jacobin's
// call shape (Trace/Warning/Error at the call sites that matter: one parse,
// one bind, per entry) but is backed by zerolog rather than jacobin's own
// unretrieved trace/log packages.
package trace

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.Mutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Timestamp().Logger().Level(zerolog.WarnLevel)
)

// Verbose turns on FINEST-equivalent tracing: every parse and bind step.
// Mirrors jacobin's globals.TraceClass / globals.TraceCloadi switches.
func Verbose(on bool) {
	mu.Lock()
	defer mu.Unlock()
	if on {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.WarnLevel)
	}
}

// SetOutput redirects trace output, for tests that need to capture it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger().Level(logger.GetLevel())
}

// Trace logs at FINEST-equivalent granularity: per-field, per-class detail.
func Trace(msg string) {
	mu.Lock()
	defer mu.Unlock()
	logger.Debug().Msg(msg)
}

// Warning logs a recoverable anomaly (e.g. a duplicate @Retention pair).
func Warning(msg string) {
	mu.Lock()
	defer mu.Unlock()
	logger.Warn().Msg(msg)
}

// Error logs a fatal parse/bind failure before it is returned to the caller.
func Error(msg string) {
	mu.Lock()
	defer mu.Unlock()
	logger.Error().Msg(msg)
}
