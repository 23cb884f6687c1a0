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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWalk(t *testing.T) {
	root, err := Compile("# Title\n\n- a *b*\n  - c\n\ntext")
	if err != nil {
		t.Fatal(err)
	}

	var events []string
	Walk(root, &WalkOptions{
		Pre: func(c *Cursor) bool {
			events = append(events, strings.Repeat(".", c.Depth())+describeForWalk(c.Node()))
			return c.Node().Tag() != "h1"
		},
		Post: func(c *Cursor) bool {
			if c.Node().Tag() == "li" {
				events = append(events, strings.Repeat(".", c.Depth())+"/li")
			}
			return true
		},
	})
	want := []string{
		"div",
		".h1",
		".ul",
		"..li",
		"...a ",
		"...em",
		"....b",
		"...ul",
		"....li",
		".....c",
		"..../li",
		"../li",
		".p",
		"..text",
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestWalkStop(t *testing.T) {
	root := NewElement("div", newTextElement("p", "a"), newTextElement("p", "b"))
	var visited []string
	Walk(root, &WalkOptions{
		Pre: func(c *Cursor) bool {
			if c.Node().IsText() {
				visited = append(visited, c.Node().Text())
			}
			return true
		},
		Post: func(c *Cursor) bool {
			return c.Node().Tag() != "p"
		},
	})
	if diff := cmp.Diff([]string{"a"}, visited); diff != "" {
		t.Errorf("visited (-want +got):\n%s", diff)
	}
}

func TestTextContent(t *testing.T) {
	root, err := Compile("Hello, **bold [world](/w)**!")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := TextContent(root), "Hello, bold world!"; got != want {
		t.Errorf("TextContent(...) = %q; want %q", got, want)
	}
}

func describeForWalk(n *Node) string {
	if n.IsText() {
		return n.Text()
	}
	return n.Tag()
}
