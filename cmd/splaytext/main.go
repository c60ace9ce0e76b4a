/*
Command splaytext inspects text files through a line-indexed text buffer.

	splaytext stat FILE      show lines, sizes, line endings and index statistics
	splaytext cat FILE       print numbered lines, cut to the terminal width
	splaytext dot FILE       write the coarse line index in Graphviz DOT format
	splaytext html FILE      print the textual content of an HTML file
	splaytext convert IN OUT re-write a file with another line ending or encoding

Settings may be given as flags, as environment variables with prefix
SPLAYTEXT_ (e.g. SPLAYTEXT_BLOCK_SIZE) or in a file .splaytext.yaml in the
current directory or the home directory.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

Please refer to the LICENSE file for details.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	app := &app{out: out}
	rootCmd := &cobra.Command{
		Use:   "splaytext",
		Short: "Inspect text files with a line-indexed text buffer",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.configure(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default .splaytext.yaml in . or $HOME)")
	flags.Int("block-size", 0, "target block size of the byte vector")
	flags.Int("index-sparseness", 0, "lines per entry of the coarse line index")
	flags.Bool("fragmented", false, "keep blocks of the byte vector at full capacity")
	flags.Bool("validate", false, "validate the buffer after every operation (slow)")
	flags.StringP("encoding", "e", "", "encoding of input files, e.g. windows-1252 or utf-16le")
	flags.Bool("trace", false, "write debug traces to stderr")

	rootCmd.AddCommand(
		app.statCommand(),
		app.catCommand(),
		app.dotCommand(),
		app.htmlCommand(),
		app.convertCommand(),
	)
	rootCmd.SetOut(out)
	return rootCmd
}
