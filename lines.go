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

import "slices"

// line is a single line of preprocessed source.
type line struct {
	text string
	// col is the column in the source line where text begins.
	// It is nonzero for the remainder of a list item
	// that has been pushed back into the stream.
	col int
}

// lineBuffer is a cursor over a growable sequence of lines.
// The cursor sits between lines, like a text caret:
// next returns the line after the cursor and moves past it,
// and back moves the cursor before the line it just passed.
type lineBuffer struct {
	lines []line
	pos   int // index of the line returned by the next call to next
	last  int // index of the line most recently returned by next or back, or -1
}

func newLineBuffer(texts []string) *lineBuffer {
	b := &lineBuffer{
		lines: make([]line, len(texts)),
		last:  -1,
	}
	for i, s := range texts {
		b.lines[i] = line{text: s}
	}
	return b
}

// more reports whether there is a line after the cursor.
func (b *lineBuffer) more() bool {
	return b.pos < len(b.lines)
}

// next returns the line after the cursor and advances past it.
// It panics if there are no more lines.
func (b *lineBuffer) next() line {
	if !b.more() {
		panic("next called at end of lines")
	}
	l := b.lines[b.pos]
	b.last = b.pos
	b.pos++
	return l
}

// peek returns the line after the cursor without advancing.
func (b *lineBuffer) peek() (line, bool) {
	if !b.more() {
		return line{}, false
	}
	return b.lines[b.pos], true
}

// back moves the cursor before the line it most recently passed.
// It panics if the cursor is at the beginning.
func (b *lineBuffer) back() {
	if b.pos == 0 {
		panic("back called at beginning of lines")
	}
	b.pos--
	b.last = b.pos
}

// remove deletes the line most recently returned by next or back.
// It panics if there is no such line
// or the buffer has been modified since.
func (b *lineBuffer) remove() {
	if b.last < 0 {
		panic("remove called without a current line")
	}
	b.lines = slices.Delete(b.lines, b.last, b.last+1)
	if b.last < b.pos {
		b.pos--
	}
	b.last = -1
}

// insert adds a line at the cursor's position.
// The cursor ends up after the new line,
// so a following next call is unaffected.
func (b *lineBuffer) insert(l line) {
	b.lines = slices.Insert(b.lines, b.pos, l)
	b.pos++
	b.last = -1
}

// unwrap replaces the line most recently returned by next with l
// and moves the cursor before it, so that l is the next line read.
func (b *lineBuffer) unwrap(l line) {
	b.remove()
	b.insert(l)
	b.back()
}

// skipBlank advances the cursor past any blank lines.
func (b *lineBuffer) skipBlank() {
	for b.more() && isBlankLine(b.lines[b.pos].text) {
		b.pos++
		b.last = -1
	}
}

// mark returns the cursor position, for use with reset.
func (b *lineBuffer) mark() int {
	return b.pos
}

// reset moves the cursor back to a position returned by mark.
// Lines must not have been removed or inserted in between.
func (b *lineBuffer) reset(pos int) {
	b.pos = pos
	b.last = -1
}
