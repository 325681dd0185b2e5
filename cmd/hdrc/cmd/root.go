/*
 * Jacobin VM - A Java virtual machine
 * Copyright (c) 2021-4 by the Jacobin authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jacobin-labs/hdrc/internal/trace"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "hdrc",
	Short: "Header-only binder for a class-based object language",
	Long: `hdrc reads declaration-tree fixtures and pre-compiled class files and
binds each declared class's header: access flags, visibility, enclosing
class, superclass, and implemented interfaces -- without compiling method
bodies to bytecode. Field signatures and annotations are not printed.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		trace.Verbose(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace every parse and bind step")
}
