// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package format provides a function to write a compiled document tree
// back out as Markdown that compiles to the same tree.
package format

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"zombiezen.com/go/mdhtml"
)

// Format writes the blocks under root as Markdown to the given writer.
// Blocks are separated by a single blank line,
// list items use "-" or consecutive numbers as markers,
// and nested lists are indented by the width of their parent's marker.
// Text is written as-is, so text that looks like Markdown syntax
// may not survive a round trip.
func Format(w io.Writer, root *mdhtml.Node) error {
	ww := &errWriter{w: w}
	formatBlocks(ww, root)
	return ww.err
}

func formatBlocks(w *errWriter, parent *mdhtml.Node) {
	for i := 0; i < parent.ChildCount(); i++ {
		if w.hasWritten {
			w.WriteString("\n")
		}
		formatBlock(w, parent.Child(i))
	}
}

func formatBlock(w *errWriter, b *mdhtml.Node) {
	if level := headingLevel(b.Tag()); level > 0 {
		w.WriteString(strings.Repeat("#", level))
		w.WriteString(" ")
		writeInlines(w, b)
		w.WriteString("\n")
		return
	}
	switch b.Tag() {
	case "blockquote":
		content := new(bytes.Buffer)
		formatBlocks(&errWriter{w: content}, b)
		writeQuoted(w, content.Bytes())
	case "pre":
		lang, _ := b.Attr("class")
		w.WriteString("```")
		w.WriteString(lang)
		w.WriteString("\n")
		if body := mdhtml.TextContent(b); body != "" {
			w.WriteString(body)
			w.WriteString("\n")
		}
		w.WriteString("```\n")
	case "hr":
		if w.hasWritten {
			w.WriteString("---\n")
		} else {
			// Disambiguate from front matter.
			w.WriteString("***\n")
		}
	case "ul", "ol":
		formatList(w, "", b)
	default:
		writeInlines(w, b)
		w.WriteString("\n")
	}
}

func formatList(w *errWriter, indent string, list *mdhtml.Node) {
	number := 1
	if start, ok := list.Attr("start"); ok {
		if n, err := strconv.Atoi(start); err == nil {
			number = n
		}
	}
	for i := 0; i < list.ChildCount(); i++ {
		item := list.Child(i)
		marker := "-"
		if list.Tag() == "ol" {
			marker = strconv.Itoa(number+i) + "."
		}
		w.WriteString(indent)
		w.WriteString(marker)
		w.WriteString(" ")
		childIndent := indent + strings.Repeat(" ", len(marker)+1)

		var nested []*mdhtml.Node
		var content []*mdhtml.Node
		for j := 0; j < item.ChildCount(); j++ {
			switch c := item.Child(j); c.Tag() {
			case "ul", "ol":
				nested = append(nested, c)
			default:
				content = append(content, c)
			}
		}
		for _, c := range content {
			switch {
			case c.Tag() == "pre":
				// Code lines are copied verbatim, without the item's indent.
				buf := new(bytes.Buffer)
				formatBlock(&errWriter{w: buf}, c)
				w.WriteString(strings.TrimSuffix(buf.String(), "\n"))
			case isBlock(c):
				buf := new(bytes.Buffer)
				formatBlock(&errWriter{w: buf}, c)
				indentedWrite(w, childIndent, strings.TrimSuffix(buf.String(), "\n"))
			default:
				writeInline(w, childIndent, c)
			}
		}
		w.WriteString("\n")
		for _, c := range nested {
			formatList(w, childIndent, c)
		}
	}
}

// writeQuoted writes the formatted content of a block quote,
// prefixing each line with a quote marker.
func writeQuoted(w *errWriter, content []byte) {
	content = bytes.TrimSuffix(content, []byte("\n"))
	for _, line := range bytes.Split(content, []byte("\n")) {
		if len(line) == 0 {
			w.WriteString(">\n")
			continue
		}
		w.WriteString("> ")
		w.Write(line)
		w.WriteString("\n")
	}
}

func writeInlines(w *errWriter, parent *mdhtml.Node) {
	for i := 0; i < parent.ChildCount(); i++ {
		writeInline(w, "", parent.Child(i))
	}
}

func writeInline(w *errWriter, indent string, n *mdhtml.Node) {
	mdhtml.Walk(n, &mdhtml.WalkOptions{
		Pre: func(c *mdhtml.Cursor) bool {
			return preInline(w, indent, c.Node())
		},
		Post: func(c *mdhtml.Cursor) bool {
			postInline(w, c.Node())
			return true
		},
	})
}

func preInline(w *errWriter, indent string, n *mdhtml.Node) (descend bool) {
	if n.IsText() {
		indentedWrite(w, indent, n.Text())
		return false
	}
	switch n.Tag() {
	case "em":
		w.WriteString("*")
	case "strong":
		w.WriteString("**")
	case "s", "del":
		w.WriteString("~~")
	case "a":
		w.WriteString("[")
	case "code":
		w.WriteString("`")
		w.WriteString(mdhtml.TextContent(n))
		w.WriteString("`")
		return false
	case "img":
		src, _ := n.Attr("src")
		alt, _ := n.Attr("alt")
		w.WriteString("![")
		w.WriteString(alt)
		w.WriteString("](")
		w.WriteString(src)
		w.WriteString(")")
		return false
	}
	return true
}

func postInline(w *errWriter, n *mdhtml.Node) {
	switch n.Tag() {
	case "em":
		w.WriteString("*")
	case "strong":
		w.WriteString("**")
	case "s", "del":
		w.WriteString("~~")
	case "a":
		href, _ := n.Attr("href")
		w.WriteString("](")
		w.WriteString(href)
		w.WriteString(")")
	}
}

// isBlock reports whether n is written as a block of its own.
func isBlock(n *mdhtml.Node) bool {
	switch n.Tag() {
	case "blockquote", "pre", "hr", "ul", "ol", "p":
		return true
	default:
		return headingLevel(n.Tag()) > 0
	}
}

// headingLevel returns the level of a heading tag like "h2" or zero.
func headingLevel(tag string) int {
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
		return 0
	}
	return int(tag[1] - '0')
}

func indentedWrite(w *errWriter, indent string, s string) {
	for {
		i := strings.IndexByte(s, '\n')
		if i == -1 {
			break
		}
		w.WriteString(s[:i+1])
		w.WriteString(indent)
		s = s[i+1:]
	}
	w.WriteString(s)
}

type errWriter struct {
	w          io.Writer
	hasWritten bool
	err        error
}

func (w *errWriter) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = w.w.Write(p)
	w.hasWritten = w.hasWritten || n > 0
	return n, w.err
}

func (w *errWriter) WriteString(s string) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = io.WriteString(w.w, s)
	w.hasWritten = w.hasWritten || n > 0
	return n, w.err
}
