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

// Package mdhtml compiles a small dialect of Markdown into an HTML document tree
// and serializes that tree as indented HTML.
//
// Compilation happens in three stages.
// [Precompile] joins paragraph continuation lines
// so that each block's text sits on a single line.
// The block parser then classifies each line
// as a heading, block quote, fenced code block, thematic break, list item, or paragraph,
// tracking list nesting by marker indentation.
// Finally, [ParseInline] splits paragraph text into
// emphasis, strikethrough, code spans, links, and images.
package mdhtml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"go4.org/bytereplacer"
)

// tracer traces with key 'mdhtml.parse'.
func tracer() tracing.Trace {
	return tracing.Select("mdhtml.parse")
}

// sourceNormalizer converts line endings to "\n"
// and replaces NUL characters, which are never valid in HTML text.
var sourceNormalizer = bytereplacer.New(
	"\r\n", "\n",
	"\r", "\n",
	"\x00", "\uFFFD",
)

// Compile converts Markdown source into a document tree
// rooted at a "div" element.
// Each top-level block becomes a child of the root in source order.
// The only error Compile returns wraps [ErrStructuralViolation].
func Compile(source string) (*Node, error) {
	source = string(sourceNormalizer.Replace([]byte(source)))
	root := NewElement("div")
	if err := compileInto(root, Precompile(source)); err != nil {
		return nil, fmt.Errorf("compile markdown: %w", err)
	}
	return root, nil
}

// compileInto parses preprocessed source and appends its blocks to parent.
func compileInto(parent *Node, text string) error {
	p := &blockParser{lines: newLineBuffer(strings.Split(text, "\n"))}
	p.parseBlocks(parent)
	return p.err
}

// blockParser holds the state for parsing a sequence of blocks.
// Block quotes are parsed by a separate blockParser,
// so list state never leaks into or out of a quote.
type blockParser struct {
	lines *lineBuffer

	// levels is the stack of open lists, outermost first.
	levels []listLevel

	// err is the first error encountered.
	err error
}

// listLevel is an open list.
type listLevel struct {
	list *Node
	kind listKind
	// col is the column of the marker that opened the list.
	col int
}

// nests reports whether a list marker at the given column
// starts a list nested inside this level's last item.
func (level listLevel) nests(col int) bool {
	return col >= level.col+level.kind.unit()
}

type parseResult int8

const (
	// noMatch indicates the line does not start the block.
	noMatch parseResult = iota
	// matched indicates the block consumed the line
	// and possibly some lines following it.
	matched
)

// blockStarts is the ordered set of block recognizers.
// The first to match a line determines its block.
// A line that none match is paragraph text.
var blockStarts []func(p *blockParser, parent *Node, l line) parseResult

func init() {
	// List items parse their content with parseBlock,
	// which reads blockStarts.
	blockStarts = []func(p *blockParser, parent *Node, l line) parseResult{
		(*blockParser).parseHeading,
		(*blockParser).parseQuote,
		(*blockParser).parseCodeBlock,
		(*blockParser).parseThematicBreak,
		(*blockParser).parseOrderedList,
		(*blockParser).parseUnorderedList,
	}
}

// parseBlocks consumes all remaining lines, appending blocks to parent.
func (p *blockParser) parseBlocks(parent *Node) {
	for {
		p.lines.skipBlank()
		if !p.lines.more() || p.err != nil {
			return
		}
		p.parseBlock(parent, p.lines.next(), false)
	}
}

// parseBlock parses the block that starts with l.
// Paragraph text inside a list item is appended directly to the item
// instead of being wrapped in a paragraph.
func (p *blockParser) parseBlock(parent *Node, l line, inItem bool) {
	for _, start := range blockStarts {
		if start(p, parent, l) == matched {
			return
		}
	}
	children := ParseInline(strings.TrimSpace(l.text))
	if inItem {
		tracer().Debugf("list item text at column %d", l.col)
		p.appendChildren(parent, children)
		return
	}
	tracer().Debugf("paragraph")
	p.appendChild(parent, NewElement("p", children...))
}

func (p *blockParser) appendChild(parent, c *Node) {
	if err := parent.AppendChild(c); err != nil && p.err == nil {
		p.err = err
	}
}

func (p *blockParser) appendChildren(parent *Node, cs []*Node) {
	if err := parent.appendChildren(cs); err != nil && p.err == nil {
		p.err = err
	}
}

func (p *blockParser) parseHeading(parent *Node, l line) parseResult {
	h := parseATXHeading(l.text)
	if h.level == 0 {
		return noMatch
	}
	tracer().Debugf("heading level %d", h.level)
	p.appendChild(parent, newTextElement("h"+strconv.Itoa(h.level), h.content))
	return matched
}

// parseQuote collects the run of block quote lines starting with l
// and compiles their content as a nested document.
// A blank line between two quote lines stays part of the quote
// and separates paragraphs within it.
func (p *blockParser) parseQuote(parent *Node, l line) parseResult {
	content, ok := parseBlockQuote(l.text)
	if !ok {
		return noMatch
	}
	contents := []string{content}
	for p.lines.more() {
		m := p.lines.mark()
		p.lines.skipBlank()
		blank := p.lines.mark() > m
		next, ok := p.lines.peek()
		if !ok {
			p.lines.reset(m)
			break
		}
		content, ok := parseBlockQuote(next.text)
		if !ok {
			p.lines.reset(m)
			break
		}
		p.lines.next()
		if blank {
			contents = append(contents, "")
		}
		contents = append(contents, content)
	}
	tracer().Debugf("block quote with %d lines", len(contents))
	quote := NewElement("blockquote")
	if err := compileInto(quote, Precompile(strings.Join(contents, "\n"))); err != nil && p.err == nil {
		p.err = err
	}
	p.appendChild(parent, quote)
	return matched
}

// parseCodeBlock consumes a fenced code block.
// The lines between the fences are copied verbatim into a single text leaf.
// A block without a closing fence extends to the end of the input.
func (p *blockParser) parseCodeBlock(parent *Node, l line) parseResult {
	info, ok := parseFenceOpen(l.text)
	if !ok {
		return noMatch
	}
	var body []string
	for p.lines.more() {
		next := p.lines.next()
		if isFenceClose(next.text) {
			break
		}
		body = append(body, next.text)
	}
	pre := newTextElement("pre", strings.Join(body, "\n"))
	if lang := fenceLanguage(info); lang != "" {
		pre.SetAttr("class", lang)
	}
	tracer().Debugf("code block (%q) with %d lines", info, len(body))
	p.appendChild(parent, pre)
	return matched
}

func (p *blockParser) parseThematicBreak(parent *Node, l line) parseResult {
	if !isThematicBreak(l.text) {
		return noMatch
	}
	p.appendChild(parent, NewElement("hr"))
	return matched
}

func (p *blockParser) parseOrderedList(parent *Node, l line) parseResult {
	return p.parseListOfKind(parent, l, orderedList)
}

func (p *blockParser) parseUnorderedList(parent *Node, l line) parseResult {
	return p.parseListOfKind(parent, l, unorderedList)
}

func (p *blockParser) parseListOfKind(parent *Node, l line, kind listKind) parseResult {
	m, ok := parseListMarker(l.text)
	if !ok || m.kind != kind {
		return noMatch
	}
	p.parseList(parent, l, m)
	return matched
}

// parseList consumes a list starting with the item on l,
// along with every list item that follows it,
// however deeply nested.
//
// A marker indented at least one unit (the width of its list's markers)
// past the markers of the innermost open list starts a list
// nested in that list's last item.
// A marker indented less than one unit past the enclosing list's markers
// closes the innermost list, and this repeats for each level retreated.
// A marker of a different kind than the list it lands in
// closes that list and opens a new list of the marker's kind in its place.
// Any other non-blank line ends all open lists.
func (p *blockParser) parseList(parent *Node, l line, m listMarker) {
	p.levels = append(p.levels[:0], p.openList(parent, l, m))
	defer func() { p.levels = p.levels[:0] }()
	p.parseListItem(l, m)

	for p.err == nil {
		start := p.lines.mark()
		p.lines.skipBlank()
		if !p.lines.more() {
			p.lines.reset(start)
			return
		}
		l = p.lines.next()
		m, ok := parseListMarker(l.text)
		if !ok || isThematicBreak(l.text) {
			tracer().Debugf("list ends before %q", l.text)
			p.lines.back()
			return
		}
		col := l.col + m.col
		if top := p.levels[len(p.levels)-1]; top.nests(col) {
			p.levels = append(p.levels, p.openList(top.list.lastChild(), l, m))
			p.parseListItem(l, m)
			continue
		}
		for len(p.levels) > 1 && !p.levels[len(p.levels)-2].nests(col) {
			p.levels = p.levels[:len(p.levels)-1]
		}
		if top := p.levels[len(p.levels)-1]; top.kind != m.kind {
			if len(p.levels) == 1 {
				// Let the caller start a new top-level list.
				p.lines.back()
				return
			}
			p.levels = p.levels[:len(p.levels)-1]
			enclosing := p.levels[len(p.levels)-1]
			p.levels = append(p.levels, p.openList(enclosing.list.lastChild(), l, m))
		}
		p.parseListItem(l, m)
	}
}

// openList creates a list for the marker m found on l
// and appends it to parent.
func (p *blockParser) openList(parent *Node, l line, m listMarker) listLevel {
	list := NewElement(m.kind.tag())
	if m.kind == orderedList && m.number != 1 {
		list.SetAttr("start", strconv.Itoa(m.number))
	}
	col := l.col + m.col
	tracer().Debugf("open %s at column %d (depth %d)", m.kind.tag(), col, len(p.levels)+1)
	p.appendChild(parent, list)
	return listLevel{list: list, kind: m.kind, col: col}
}

// parseListItem appends an item to the innermost open list
// and parses the text after the marker as the item's content.
// If the text after the marker is itself a list item,
// it is pushed back to be read as the first item of a nested list.
func (p *blockParser) parseListItem(l line, m listMarker) {
	li := NewElement("li")
	p.appendChild(p.levels[len(p.levels)-1].list, li)
	content := line{
		text: l.text[m.contentStart:],
		col:  l.col + m.contentStart,
	}
	if isBlankLine(content.text) {
		return
	}
	p.lines.unwrap(content)
	if _, ok := parseListMarker(content.text); ok {
		return
	}
	p.parseBlock(li, p.lines.next(), true)
}
