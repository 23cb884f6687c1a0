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

import "strings"

// An inlineParser attempts to recognize an inline element starting at line[pos].
// It returns the element and the offset just past its end,
// or a nil node if the element does not start at pos.
type inlineParser func(line string, pos int) (elem *Node, end int)

// inlineParsers is the set of inline parsers in priority order.
// At each position, the first parser that matches wins.
var inlineParsers []inlineParser

func init() {
	// Assigned here because several parsers recurse through ParseInline.
	inlineParsers = []inlineParser{
		parseCodeSpan,
		parseEmphasis,
		parseStrikethrough,
		parseImage,
		parseLink,
	}
}

// ParseInline splits a line of text into text leaves and inline elements
// (emphasis, strong emphasis, strikethrough, code spans, links, and images),
// preserving their order.
// Elements are found left to right;
// text between elements becomes text leaves.
// A line with no inline elements yields a single text leaf equal to the line.
func ParseInline(line string) []*Node {
	var nodes []*Node
	plainStart := 0
	for pos := 0; pos < len(line); {
		elem, end := parseInlineAt(line, pos)
		if elem == nil {
			pos++
			continue
		}
		if plainStart < pos {
			nodes = append(nodes, NewText(line[plainStart:pos]))
		}
		nodes = append(nodes, elem)
		pos, plainStart = end, end
	}
	if len(nodes) == 0 {
		return []*Node{NewText(line)}
	}
	if plainStart < len(line) {
		nodes = append(nodes, NewText(line[plainStart:]))
	}
	return nodes
}

func parseInlineAt(line string, pos int) (elem *Node, end int) {
	for _, parse := range inlineParsers {
		if elem, end := parse(line, pos); elem != nil {
			return elem, end
		}
	}
	return nil, -1
}

// parseCodeSpan parses text surrounded by single backticks.
// The content is taken literally.
func parseCodeSpan(line string, pos int) (*Node, int) {
	if line[pos] != '`' {
		return nil, -1
	}
	contentStart := pos + 1
	n := strings.IndexByte(line[contentStart:], '`')
	if n < 0 {
		return nil, -1
	}
	contentEnd := contentStart + n
	return newTextElement("code", line[contentStart:contentEnd]), contentEnd + 1
}

// parseEmphasis parses text surrounded by runs of asterisks.
// The opening run is matched against the earliest closing run of the same length,
// trying shorter runs if the full run is not closed.
// An odd-length run produces emphasis (wrapping strong emphasis if longer than one),
// an even-length run produces strong emphasis.
func parseEmphasis(line string, pos int) (*Node, int) {
	run := 0
	for pos+run < len(line) && line[pos+run] == '*' {
		run++
	}
	for n := run; n > 0; n-- {
		contentStart := pos + n
		content, end := findClosingDelimiter(line, contentStart, line[pos:pos+n])
		if end < 0 {
			continue
		}
		children := ParseInline(content)
		var elem *Node
		switch {
		case n%2 == 0:
			elem = NewElement("strong", children...)
		case n > 1:
			elem = NewElement("em", NewElement("strong", children...))
		default:
			elem = NewElement("em", children...)
		}
		return elem, end
	}
	return nil, -1
}

// parseStrikethrough parses text surrounded by double tildes.
func parseStrikethrough(line string, pos int) (*Node, int) {
	const delim = "~~"
	if !strings.HasPrefix(line[pos:], delim) {
		return nil, -1
	}
	content, end := findClosingDelimiter(line, pos+len(delim), delim)
	if end < 0 {
		return nil, -1
	}
	return NewElement("s", ParseInline(content)...), end
}

// findClosingDelimiter finds the first occurrence of delim
// after at least one byte of content starting at contentStart.
// It returns the trimmed content and the offset just past the delimiter,
// or -1 if there is no such delimiter or the content is blank.
func findClosingDelimiter(line string, contentStart int, delim string) (content string, end int) {
	if contentStart+1 > len(line) {
		return "", -1
	}
	n := strings.Index(line[contentStart+1:], delim)
	if n < 0 {
		return "", -1
	}
	contentEnd := contentStart + 1 + n
	content = strings.TrimSpace(line[contentStart:contentEnd])
	if content == "" {
		return "", -1
	}
	return content, contentEnd + len(delim)
}

// parseImage parses an image of the form ![alt](src).
func parseImage(line string, pos int) (*Node, int) {
	if !strings.HasPrefix(line[pos:], "![") {
		return nil, -1
	}
	alt, src, end := parseLinkTail(line, pos+len("!["))
	if end < 0 {
		return nil, -1
	}
	img := NewElement("img")
	img.SetAttr("src", src)
	img.SetAttr("alt", alt)
	return img, end
}

// parseLink parses a link of the form [text](href).
// A '[' immediately preceded by '!' never starts a link,
// so that a malformed image is not read as a link.
func parseLink(line string, pos int) (*Node, int) {
	if line[pos] != '[' || (pos > 0 && line[pos-1] == '!') {
		return nil, -1
	}
	text, href, end := parseLinkTail(line, pos+len("["))
	if end < 0 {
		return nil, -1
	}
	a := NewElement("a", ParseInline(text)...)
	a.SetAttr("href", href)
	return a, end
}

// parseLinkTail parses the "text](destination)" part of a link or image
// starting just after the opening bracket.
func parseLinkTail(line string, start int) (text, dest string, end int) {
	textEnd := strings.Index(line[start:], "](")
	if textEnd < 0 {
		return "", "", -1
	}
	textEnd += start
	destStart := textEnd + len("](")
	destEnd := strings.IndexByte(line[destStart:], ')')
	if destEnd < 0 {
		return "", "", -1
	}
	destEnd += destStart
	return line[start:textEnd], line[destStart:destEnd], destEnd + 1
}
