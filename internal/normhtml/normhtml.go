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

// Package normhtml canonicalizes HTML fragments
// so that rendered output can be compared without regard to indentation.
package normhtml

import (
	"bytes"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// Normalize strips insignificant differences from an HTML fragment.
// Outside of pre elements, runs of whitespace collapse to a single space
// and whitespace adjacent to block-level tags is removed.
// Attributes are sorted by name
// and character references are rewritten in a single canonical form.
func Normalize(s string) string {
	n := &normalizer{
		tok:  html.NewTokenizerFragment(strings.NewReader(s), "div"),
		last: html.StartTagToken,
	}
	for n.next() {
	}
	return string(n.out)
}

type normalizer struct {
	tok     *html.Tokenizer
	out     []byte
	last    html.TokenType
	lastTag string
	inPre   bool
}

func (n *normalizer) next() bool {
	tt := n.tok.Next()
	switch tt {
	case html.ErrorToken:
		return false
	case html.TextToken:
		n.text(n.tok.Text())
	case html.StartTagToken, html.SelfClosingTagToken:
		n.startTag()
	case html.EndTagToken:
		n.endTag()
	case html.CommentToken:
		n.out = append(n.out, n.tok.Raw()...)
	}
	n.last = tt
	if tt == html.SelfClosingTagToken {
		n.last = html.EndTagToken
	}
	return true
}

func (n *normalizer) text(data []byte) {
	afterTag := n.last == html.EndTagToken || n.last == html.StartTagToken
	if afterTag && n.lastTag == "br" {
		data = bytes.TrimLeft(data, "\n")
	}
	if !n.inPre {
		data = whitespaceRE.ReplaceAll(data, []byte(" "))
		if afterTag && isBlockTag(n.lastTag) {
			if n.last == html.StartTagToken {
				data = bytes.TrimLeftFunc(data, unicode.IsSpace)
			} else {
				data = bytes.TrimSpace(data)
			}
		}
	}
	n.out = append(n.out, htmlEscaper.Replace(bytes.Clone(data))...)
}

type attribute struct {
	key   string
	value string
}

func (n *normalizer) startTag() {
	name, hasAttr := n.tok.TagName()
	tag := string(name)
	if tag == "pre" {
		n.inPre = true
	}
	if isBlockTag(tag) {
		n.out = bytes.TrimRightFunc(n.out, unicode.IsSpace)
	}
	n.out = append(n.out, '<')
	n.out = append(n.out, tag...)
	var attrs []attribute
	for more := hasAttr; more; {
		var k, v []byte
		k, v, more = n.tok.TagAttr()
		attrs = append(attrs, attribute{string(k), string(v)})
	}
	slices.SortFunc(attrs, func(a, b attribute) int {
		return strings.Compare(a.key, b.key)
	})
	for _, attr := range attrs {
		n.out = append(n.out, ' ')
		n.out = append(n.out, attr.key...)
		if attr.value != "" {
			n.out = append(n.out, `="`...)
			n.out = append(n.out, html.EscapeString(attr.value)...)
			n.out = append(n.out, '"')
		}
	}
	n.out = append(n.out, '>')
	n.lastTag = tag
}

func (n *normalizer) endTag() {
	name, _ := n.tok.TagName()
	tag := string(name)
	if tag == "pre" {
		n.inPre = false
	} else if isBlockTag(tag) {
		n.out = bytes.TrimRightFunc(n.out, unicode.IsSpace)
	}
	n.out = append(n.out, "</"...)
	n.out = append(n.out, tag...)
	n.out = append(n.out, '>')
	n.lastTag = tag
}

// isBlockTag reports whether whitespace around the tag is insignificant.
func isBlockTag(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Article, atom.Aside, atom.Blockquote, atom.Body, atom.Caption,
		atom.Col, atom.Colgroup, atom.Dd, atom.Div, atom.Dl, atom.Dt, atom.Embed,
		atom.Fieldset, atom.Figcaption, atom.Figure, atom.Footer, atom.Form,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Head, atom.Header, atom.Hgroup, atom.Hr, atom.Html, atom.Li,
		atom.Meta, atom.Ol, atom.P, atom.Pre, atom.Section, atom.Table,
		atom.Tbody, atom.Td, atom.Tfoot, atom.Th, atom.Thead, atom.Title,
		atom.Tr, atom.Ul:
		return true
	default:
		return false
	}
}
