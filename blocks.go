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

// codeBlockIndentLimit is the column width of an indent
// at which a line can no longer start a heading or a fence.
const codeBlockIndentLimit = 4

// quoteIndentLimit is the column width of an indent
// at which a line can no longer start a block quote.
const quoteIndentLimit = 5

// Per-level indentation units for nested lists,
// the typical width of a marker and its following space.
const (
	orderedListUnit   = 3
	unorderedListUnit = 2
)

// maxListNumberDigits is the longest ordered list number recognized.
const maxListNumberDigits = 9

func isBlankLine(line string) bool {
	for i := 0; i < len(line); i++ {
		if b := line[i]; !(b == '\r' || b == '\n' || b == ' ' || b == '\t') {
			return false
		}
	}
	return true
}

// spaceIndent returns the number of leading space characters in line.
func spaceIndent(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

func trimIndent(line string) string {
	return strings.TrimLeft(line, " \t")
}

func isSpaceOrTab(b byte) bool {
	return b == ' ' || b == '\t'
}

type atxHeading struct {
	level   int // 1-6
	content string
}

// parseATXHeading attempts to parse the line as a heading:
// up to three spaces of indentation, one to six '#' characters,
// at least one space or tab, and the heading text.
// The level is zero if the line is not a heading.
func parseATXHeading(line string) atxHeading {
	indent := spaceIndent(line)
	if indent >= codeBlockIndentLimit {
		return atxHeading{}
	}
	line = line[indent:]
	var h atxHeading
	for h.level < len(line) && line[h.level] == '#' {
		h.level++
	}
	if h.level == 0 || h.level > 6 {
		return atxHeading{}
	}
	i := h.level
	if i >= len(line) || !isSpaceOrTab(line[i]) {
		return atxHeading{}
	}
	for i < len(line) && isSpaceOrTab(line[i]) {
		i++
	}
	h.content = strings.TrimRight(line[i:], " \t")
	return h
}

// isHeadingLike reports whether the line begins with a run of '#' characters
// that would make it a heading if it were indented less.
// The preprocessor uses it to avoid merging into or out of headings.
func isHeadingLike(line string) bool {
	line = trimIndent(line)
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	return 1 <= n && n <= 6 && (n == len(line) || isSpaceOrTab(line[n]))
}

// parseBlockQuote attempts to parse a block quote marker
// from the beginning of the line.
// It returns the text after the marker (less one optional space)
// or false if the line does not begin with the marker.
func parseBlockQuote(line string) (content string, ok bool) {
	indent := spaceIndent(line)
	if indent >= quoteIndentLimit || indent >= len(line) || line[indent] != '>' {
		return "", false
	}
	content = line[indent+1:]
	if len(content) > 0 && content[0] == ' ' {
		content = content[1:]
	}
	return content, true
}

// parseFenceOpen attempts to parse the line as the start of a fenced code block.
// It returns the trimmed info string following the fence.
func parseFenceOpen(line string) (info string, ok bool) {
	indent := spaceIndent(line)
	if indent >= codeBlockIndentLimit {
		return "", false
	}
	n := fenceLength(line[indent:])
	if n < 3 {
		return "", false
	}
	info = line[indent+n:]
	if strings.IndexByte(info, '`') >= 0 {
		return "", false
	}
	return strings.TrimSpace(info), true
}

// isFenceClose reports whether the line closes a fenced code block.
func isFenceClose(line string) bool {
	indent := spaceIndent(line)
	if indent >= codeBlockIndentLimit {
		return false
	}
	n := fenceLength(line[indent:])
	return n >= 3 && isBlankLine(line[indent+n:])
}

func fenceLength(s string) int {
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}
	return n
}

// fenceLanguage returns the first word of a fence's info string.
func fenceLanguage(info string) string {
	words := strings.Fields(info)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

// isThematicBreak reports whether the line is a thematic break:
// three or more of the same '-', '_', or '*' character,
// optionally separated by spaces or tabs.
func isThematicBreak(line string) bool {
	if spaceIndent(line) >= codeBlockIndentLimit {
		return false
	}
	n := 0
	var want byte
	for i := 0; i < len(line); i++ {
		switch b := line[i]; b {
		case '-', '_', '*':
			if n == 0 {
				want = b
			} else if b != want {
				return false
			}
			n++
		case ' ', '\t', '\r', '\n':
			// Ignore
		default:
			return false
		}
	}
	return n >= 3
}

type listKind int8

const (
	orderedList listKind = 1 + iota
	unorderedList
)

func (kind listKind) tag() string {
	if kind == orderedList {
		return "ol"
	}
	return "ul"
}

// unit returns the number of columns a marker must be indented
// past its list's markers to start a nested list.
func (kind listKind) unit() int {
	if kind == orderedList {
		return orderedListUnit
	}
	return unorderedListUnit
}

type listMarker struct {
	kind   listKind
	col    int // column of the marker within the line
	number int // ordered list item number
	// contentStart is the byte offset in the line where the item text begins.
	contentStart int
}

// parseListMarker attempts to parse a list item marker at the start of the line:
// any number of spaces followed by either
// one of '-', '+', or '*' (unordered)
// or up to nine digits and a '.' or ')' (ordered),
// then a single space.
func parseListMarker(line string) (listMarker, bool) {
	m := listMarker{col: spaceIndent(line)}
	i := m.col
	switch {
	case i < len(line) && (line[i] == '-' || line[i] == '+' || line[i] == '*'):
		m.kind = unorderedList
		i++
	case i < len(line) && isASCIIDigit(line[i]):
		m.kind = orderedList
		for i < len(line) && isASCIIDigit(line[i]) {
			if i-m.col >= maxListNumberDigits {
				return listMarker{}, false
			}
			m.number = m.number*10 + int(line[i]-'0')
			i++
		}
		if i >= len(line) || (line[i] != '.' && line[i] != ')') {
			return listMarker{}, false
		}
		i++
	default:
		return listMarker{}, false
	}
	if i >= len(line) || line[i] != ' ' {
		return listMarker{}, false
	}
	m.contentStart = i + 1
	return m, true
}

// isListLike reports whether the line begins with something shaped like a list marker,
// followed by whitespace or the end of the line.
// The preprocessor uses it to avoid merging list items into the preceding line.
func isListLike(line string) bool {
	line = trimIndent(line)
	if len(line) == 0 {
		return false
	}
	i := 0
	switch {
	case line[0] == '-' || line[0] == '+' || line[0] == '*':
		i = 1
	case isASCIIDigit(line[0]):
		for i < len(line) && isASCIIDigit(line[i]) {
			i++
		}
		if i > maxListNumberDigits || i >= len(line) || (line[i] != '.' && line[i] != ')') {
			return false
		}
		i++
	default:
		return false
	}
	return i == len(line) || isSpaceOrTab(line[i])
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
