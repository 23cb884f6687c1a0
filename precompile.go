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

// Precompile normalizes Markdown source before block parsing.
// Outside of fenced code blocks, it joins each line
// that continues the previous line's paragraph onto that line
// (so every block's text ends up on a single line)
// and collapses runs of blank lines into a single empty line.
// Fenced code blocks, including their fences, are copied unchanged.
// This includes a fence that opens as the text of a list item.
// An unterminated fence extends to the end of the source.
func Precompile(source string) string {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	spanStart := 0
	for i := 0; i < len(lines); {
		if !opensFence(lines[i]) {
			i++
			continue
		}
		end := fenceRegionEnd(lines, i)
		out = mergeLines(out, lines[spanStart:i])
		out = append(out, lines[i:end]...)
		spanStart, i = end, end
	}
	out = mergeLines(out, lines[spanStart:])
	return strings.Join(out, "\n")
}

// opensFence reports whether line opens a fenced code block,
// either directly or after one or more list item markers.
func opensFence(line string) bool {
	for {
		if _, ok := parseFenceOpen(line); ok {
			return true
		}
		m, ok := parseListMarker(line)
		if !ok {
			return false
		}
		line = line[m.contentStart:]
	}
}

// fenceRegionEnd returns the index of the line after the fence
// that closes the code block opened at lines[start].
func fenceRegionEnd(lines []string, start int) int {
	for i := start + 1; i < len(lines); i++ {
		if isFenceClose(lines[i]) {
			return i + 1
		}
	}
	return len(lines)
}

// mergeLines appends the lines in span to dst,
// joining paragraph continuation lines and collapsing blank lines.
// Because a joined line starts the same way as the line it was joined onto,
// a single pass reaches the same result as repeatedly joining adjacent pairs.
func mergeLines(dst []string, span []string) []string {
	spanStart := len(dst)
	for _, line := range span {
		n := len(dst)
		if isBlankLine(line) {
			if n > spanStart && dst[n-1] == "" {
				continue
			}
			dst = append(dst, "")
			continue
		}
		if n > spanStart && continuesParagraph(dst[n-1]) && isContinuation(line) {
			// A bare marker followed by indented backticks stays split,
			// or the joined line would open a fence.
			if joined := dst[n-1] + " " + trimIndent(line); !opensFence(joined) {
				dst[n-1] = joined
				continue
			}
		}
		dst = append(dst, line)
	}
	return dst
}

// continuesParagraph reports whether the text on the line following prev
// may be joined onto prev.
func continuesParagraph(prev string) bool {
	return prev != "" &&
		!strings.HasPrefix(prev, "```") &&
		!isHeadingLike(prev) &&
		!isThematicBreak(prev)
}

// isContinuation reports whether line can be joined onto the preceding line,
// that is, whether it does not start a block of its own.
func isContinuation(line string) bool {
	return !isBlankLine(line) &&
		!strings.HasPrefix(line, "```") &&
		!isHeadingLike(line) &&
		!isListLike(line) &&
		!strings.HasPrefix(trimIndent(line), ">") &&
		!isThematicBreak(line)
}
