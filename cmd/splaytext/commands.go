package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/npillmayer/splaytext"
	"github.com/npillmayer/splaytext/html"
	"github.com/npillmayer/splaytext/linebuf"
	"github.com/npillmayer/splaytext/metrics"
	"github.com/npillmayer/splaytext/textfile"
	"github.com/npillmayer/uax/uax11"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/encoding/htmlindex"
)

func (a *app) load(name string) (*splaytext.Text, textfile.Info, error) {
	return textfile.Load(name, a.enc, a.cfg)
}

func (a *app) statCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stat FILE",
		Short: "Show lines, sizes, line endings and index statistics of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			text, info, err := a.load(args[0])
			if err != nil {
				return err
			}
			buf := text.Buffer()
			sum := metrics.Measure(text, uax11.ContextFromEnvironment())
			label := color.New(color.FgCyan)
			row := func(name, format string, args ...any) {
				label.Fprintf(a.out, "%-10s", name)
				fmt.Fprintf(a.out, format+"\n", args...)
			}
			row("file", "%s", info.Path)
			row("size", "%s on disk, %s of text", humanize.Bytes(uint64(info.Size)),
				humanize.Bytes(uint64(buf.ByteLen())))
			row("lines", "%s", humanize.Comma(int64(text.Count())))
			row("endings", "%s, dominant %s", info.Tally, text.LineEnding())
			row("bom", "%v", buf.HasBOM())
			row("words", "%s", humanize.Comma(int64(sum.Words)))
			row("graphemes", "%s", humanize.Comma(int64(sum.Graphemes)))
			row("width", "%d cells, line %d", sum.MaxWidth, sum.Widest+1)
			row("index", "%d entries, depth %d", buf.IndexEntries(), buf.IndexDepth())
			row("blocks", "%d", buf.BlockCount())
			return nil
		},
	}
}

func (a *app) catCommand() *cobra.Command {
	var width int
	var numbers, wrap bool
	cmd := &cobra.Command{
		Use:   "cat FILE",
		Short: "Print the lines of a file, cut to the terminal width",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			text, _, err := a.load(args[0])
			if err != nil {
				return err
			}
			if width < 0 {
				width = terminalWidth()
			}
			context := uax11.ContextFromEnvironment()
			digits := len(fmt.Sprint(text.Count()))
			lineno := color.New(color.FgYellow)
			for i, line := range text.Buffer().Lines() {
				avail := width
				if numbers {
					lineno.Fprintf(a.out, "%*d ", digits, i+1)
					avail -= digits + 1
				}
				pieces := []string{string(line)}
				if width > 0 && wrap {
					pieces = metrics.Wrap(pieces[0], max(avail, 1), context)
				}
				for j, s := range pieces {
					if j > 0 && numbers {
						fmt.Fprint(a.out, strings.Repeat(" ", digits+1))
					}
					if width > 0 {
						s = metrics.Truncate(s, max(avail, 0), context)
					}
					fmt.Fprintln(a.out, s)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", -1, "cut lines to this many cells, 0 for no limit (default terminal width)")
	cmd.Flags().BoolVarP(&numbers, "number", "n", true, "number the lines")
	cmd.Flags().BoolVar(&wrap, "wrap", false, "wrap long lines at line break opportunities instead of cutting them")
	return cmd
}

// terminalWidth returns the width of the terminal on stdout, or 0 if stdout
// is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

func (a *app) dotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dot FILE",
		Short: "Write the coarse line index of a file in Graphviz DOT format",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			text, _, err := a.load(args[0])
			if err != nil {
				return err
			}
			return text.Buffer().WriteIndexDot(a.out)
		},
	}
}

func (a *app) htmlCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "html FILE",
		Short: "Print the textual content of an HTML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			text, err := html.TextFromHTML(f)
			if err != nil {
				return err
			}
			if _, err := text.WriteText(a.out, linebuf.Unix); err != nil {
				return err
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}
}

func (a *app) convertCommand() *cobra.Command {
	var ending, target string
	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Re-write a file with another line ending or encoding",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			text, info, err := a.load(args[0])
			if err != nil {
				return err
			}
			le := text.LineEnding()
			if ending != "" {
				if le, err = linebuf.ParseLineEnding(strings.ToLower(ending)); err != nil {
					return err
				}
			}
			enc := a.enc
			if target != "" {
				if enc, err = htmlindex.Get(target); err != nil {
					return fmt.Errorf("encoding %q: %w", target, err)
				}
			}
			if err := textfile.Save(args[1], text, le, enc); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s → %s: %s lines, %s, line endings %s → %s\n",
				args[0], args[1], humanize.Comma(int64(text.Count())),
				humanize.Bytes(uint64(info.Size)), info.Tally, le)
			return nil
		},
	}
	cmd.Flags().StringVar(&ending, "ending", "", "line ending to write: crlf, cr or lf (default as found)")
	cmd.Flags().StringVar(&target, "to", "", "encoding to write (default the input encoding)")
	return cmd
}
