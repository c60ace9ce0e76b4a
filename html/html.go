/*
Package html creates texts from the textual content of HTML.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

Please refer to the LICENSE file for details.
*/
package html

import (
	"bytes"
	"io"
	"strings"
	"unicode"

	"github.com/npillmayer/splaytext"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// InnerText creates a text for the textual content of an HTML element and all
// its descendents. It resembles the text produced by
//
//	document.getElementById("myNode").innerText
//
// in JavaScript (except that html.InnerText cannot respect CSS styling suppressing
// the visibility of the node's descendents).
//
// Block-level elements and <br> start a new line. Scripts and style sheets
// are skipped.
func InnerText(n *html.Node) (*splaytext.Text, error) {
	if n == nil {
		return nil, splaytext.ErrIllegalArguments
	}
	var c collector
	c.collect(n)
	return splaytext.FromString(c.String()), nil
}

// TextFromHTML creates a text from the textual content of an HTML fragment.
// It does no interpretation of layout and styling, but extracts the pure text.
func TextFromHTML(input io.Reader) (*splaytext.Text, error) {
	nodes, err := html.ParseFragment(input, nil)
	if err != nil {
		return nil, err
	}
	var c collector
	for _, n := range nodes {
		c.collect(n)
	}
	return splaytext.FromString(c.String()), nil
}

type collector struct {
	bytes.Buffer
	pending bool // a line break is due before the next text
}

func (c *collector) collect(n *html.Node) {
	switch n.Type {
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Head, atom.Template:
			return
		case atom.Br:
			c.newline()
			c.pending = false
			return
		}
	case html.TextNode:
		if n.Parent != nil && n.Parent.DataAtom == atom.Pre {
			c.write(n.Data)
		} else {
			c.write(collapse(n.Data))
		}
		return
	}
	block := n.Type == html.ElementNode && isBlock(n.DataAtom)
	if block {
		c.pending = true
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.collect(ch)
	}
	if block {
		c.pending = true
	}
}

func (c *collector) write(text string) {
	if c.pending && c.Len() > 0 {
		if text = strings.TrimLeft(text, " "); text == "" {
			return
		}
		c.newline()
	} else if c.atLineStart() {
		text = strings.TrimLeft(text, " ")
	}
	if text == "" {
		return
	}
	c.pending = false
	if text[0] == ' ' && c.Len() > 0 && c.Bytes()[c.Len()-1] == ' ' {
		text = text[1:]
	}
	c.WriteString(text)
}

func (c *collector) atLineStart() bool {
	return c.Len() == 0 || c.Bytes()[c.Len()-1] == '\n'
}

// newline trims trailing blanks of the current line and starts a new one.
func (c *collector) newline() {
	c.trimRight()
	c.WriteByte('\n')
}

func (c *collector) trimRight() {
	n := c.Len()
	for n > 0 && c.Bytes()[n-1] == ' ' {
		n--
	}
	c.Truncate(n)
}

func (c *collector) String() string {
	c.trimRight()
	return c.Buffer.String()
}

// collapse replaces runs of white space by a single blank.
func collapse(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol, atom.Tr, atom.Table,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Pre, atom.Blockquote, atom.Section, atom.Article, atom.Header,
		atom.Footer, atom.Dd, atom.Dt, atom.Dl, atom.Hr:
		return true
	}
	return false
}
