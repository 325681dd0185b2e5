/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Command hdrc is the external driver named in spec §6: it loads a
// directory of declaration-tree JSON fixtures (standing in for a real
// source parser, which is an external collaborator this core never
// implements) plus an optional class-path directory of .class dependency
// files, runs the hierarchy binder over every declared class, and prints
// the resulting headers. It is intentionally thin -- all the real work
// lives in internal/classfile and internal/hierarchy.
package main

import (
	"os"

	"github.com/jacobin-labs/hdrc/cmd/hdrc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
