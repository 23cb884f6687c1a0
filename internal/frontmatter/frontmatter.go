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

// Package frontmatter separates a YAML metadata header from Markdown source.
package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is the set of document properties a header may set.
// Unknown keys are ignored.
type Metadata struct {
	Title string `yaml:"title"`
	Lang  string `yaml:"lang"`
}

const delimiter = "---"

// Split looks for a metadata header at the start of source:
// a line consisting of "---", YAML, and another line consisting of "---" or "...".
// If there is a header, Split returns the decoded metadata
// and the source that follows the header.
// Otherwise, it returns nil and source unchanged.
func Split(source string) (*Metadata, string, error) {
	first, rest, ok := cutLine(source)
	if !ok || first != delimiter {
		return nil, source, nil
	}
	var header strings.Builder
	for remaining := rest; ; {
		line, next, ok := cutLine(remaining)
		if line == delimiter || line == "..." {
			meta := new(Metadata)
			if err := yaml.Unmarshal([]byte(header.String()), meta); err != nil {
				return nil, source, fmt.Errorf("parse front matter: %w", err)
			}
			return meta, next, nil
		}
		if !ok {
			// No closing delimiter: not a header.
			return nil, source, nil
		}
		header.WriteString(line)
		header.WriteString("\n")
		remaining = next
	}
}

// cutLine returns the first line of s without its line ending,
// the text after it, and whether a line ending was found.
func cutLine(s string) (line, rest string, found bool) {
	line, rest, found = strings.Cut(s, "\n")
	return strings.TrimSuffix(line, "\r"), rest, found
}
