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

package mdhtml

import (
	"fmt"
	"io"

	"go4.org/bytereplacer"
	"golang.org/x/net/html/atom"
)

// DefaultIndentWidth is the number of columns
// that a block-level element indents its children by
// when [HTMLRenderer.IndentWidth] is zero.
const DefaultIndentWidth = 4

// An HTMLRenderer converts a document tree into indented HTML.
//
// Block-level elements put their opening tag, each child, and their closing tag
// on lines of their own, indenting their children.
// Inline elements (paragraphs, headings, phrasing elements, and void elements)
// render their children on the same line with no added whitespace.
// Void elements never render children or a closing tag.
type HTMLRenderer struct {
	// IndentWidth is the number of spaces a block-level element's children
	// are indented by relative to the element.
	// If IndentWidth is zero, DefaultIndentWidth is used.
	IndentWidth int
	// If EscapeText is true, the renderer escapes HTML special characters
	// in text and attribute values.
	// By default, text is written exactly as it appears in the tree.
	EscapeText bool
}

// Render returns the HTML for the tree rooted at n
// using the default options for [HTMLRenderer].
func Render(n *Node) string {
	return string(new(HTMLRenderer).AppendNode(nil, n))
}

// RenderHTML writes the HTML for the tree rooted at n to w
// using the default options for [HTMLRenderer].
func RenderHTML(w io.Writer, n *Node) error {
	return new(HTMLRenderer).Render(w, n)
}

// Render writes the HTML for the tree rooted at n to w.
func (r *HTMLRenderer) Render(w io.Writer, n *Node) error {
	if _, err := w.Write(r.AppendNode(nil, n)); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// AppendNode appends the HTML for the tree rooted at n to dst
// and returns the resulting byte slice.
// The output has no trailing newline.
func (r *HTMLRenderer) AppendNode(dst []byte, n *Node) []byte {
	state := &renderState{
		HTMLRenderer: r,
		dst:          dst,
	}
	state.node(n, 0)
	return state.dst
}

type renderState struct {
	*HTMLRenderer
	dst []byte
}

func (r *renderState) indentWidth() int {
	if r.IndentWidth <= 0 {
		return DefaultIndentWidth
	}
	return r.IndentWidth
}

func (r *renderState) node(n *Node, indent int) {
	if n == nil {
		return
	}
	if n.IsText() {
		r.pad(indent)
		r.text(n.Text())
		return
	}

	inline := isInlineTag(n.Tag())
	r.pad(indent)
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, n.Tag()...)
	for _, attr := range n.Attrs() {
		r.dst = append(r.dst, ' ')
		r.dst = append(r.dst, attr.Name...)
		r.dst = append(r.dst, ` ="`...)
		r.text(attr.Value)
		r.dst = append(r.dst, '"')
	}
	r.dst = append(r.dst, '>')
	if !inline {
		r.dst = append(r.dst, '\n')
	}
	if isVoidTag(n.Tag()) {
		return
	}

	childIndent := 0
	if !inline {
		childIndent = indent + r.indentWidth()
	}
	for i := 0; i < n.ChildCount(); i++ {
		r.node(n.Child(i), childIndent)
		if !inline {
			r.dst = append(r.dst, '\n')
		}
	}
	if !inline {
		r.pad(indent)
	}
	r.dst = append(r.dst, "</"...)
	r.dst = append(r.dst, n.Tag()...)
	r.dst = append(r.dst, '>')
}

func (r *renderState) pad(indent int) {
	for i := 0; i < indent; i++ {
		r.dst = append(r.dst, ' ')
	}
}

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

func (r *renderState) text(s string) {
	if !r.EscapeText {
		r.dst = append(r.dst, s...)
		return
	}
	r.dst = append(r.dst, htmlEscaper.Replace([]byte(s))...)
}

// isVoidTag reports whether elements with the given tag
// never have children or a closing tag.
func isVoidTag(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Keygen, atom.Link, atom.Meta, atom.Param, atom.Source,
		atom.Track, atom.Wbr:
		return true
	default:
		return false
	}
}

// isInlineTag reports whether elements with the given tag
// render on a single line.
// Preformatted blocks are inline so that their content is not reindented.
func isInlineTag(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Em, atom.Strong, atom.I, atom.B, atom.S, atom.Del, atom.Span,
		atom.Code, atom.A, atom.Title, atom.Pre:
		return true
	default:
		return isVoidTag(tag)
	}
}

// DocumentOptions is the set of parameters for a full HTML document.
type DocumentOptions struct {
	// Title is the content of the document's title element.
	// If empty, "Title" is used.
	Title string
	// Lang is the document's language.
	// If empty, "en" is used.
	Lang string
}

func (opts *DocumentOptions) title() string {
	if opts == nil || opts.Title == "" {
		return "Title"
	}
	return opts.Title
}

func (opts *DocumentOptions) lang() string {
	if opts == nil || opts.Lang == "" {
		return "en"
	}
	return opts.Lang
}

const doctype = "<!DOCTYPE html>\n"

// NewDocument returns an html element
// with a head holding a UTF-8 charset declaration and a title,
// and a body whose only child is body.
// body must not already be attached to a parent.
// A nil opts is treated the same as a pointer to a zero DocumentOptions.
func NewDocument(body *Node, opts *DocumentOptions) *Node {
	meta := NewElement("meta")
	meta.SetAttr("charset", "UTF-8")
	doc := NewElement("html",
		NewElement("head",
			meta,
			newTextElement("title", opts.title()),
		),
		NewElement("body", body),
	)
	doc.SetAttr("lang", opts.lang())
	return doc
}

// WrapDocument renders body as the body of a complete HTML document
// using the default options for [HTMLRenderer] and [DocumentOptions].
func WrapDocument(body *Node) string {
	return string(new(HTMLRenderer).AppendDocument(nil, body, nil))
}

// AppendDocument appends a doctype line and the HTML for [NewDocument]
// to dst and returns the resulting byte slice.
func (r *HTMLRenderer) AppendDocument(dst []byte, body *Node, opts *DocumentOptions) []byte {
	dst = append(dst, doctype...)
	return r.AppendNode(dst, NewDocument(body, opts))
}

// RenderDocument writes body as the body of a complete HTML document to w.
func (r *HTMLRenderer) RenderDocument(w io.Writer, body *Node, opts *DocumentOptions) error {
	if _, err := w.Write(r.AppendDocument(nil, body, opts)); err != nil {
		return fmt.Errorf("render html document: %w", err)
	}
	return nil
}
