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
	"errors"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/net/html"
)

var treeOptions = cmp.Options{
	cmp.AllowUnexported(Node{}),
	cmpopts.EquateEmpty(),
}

func TestInsecureCharacters(t *testing.T) {
	root, err := Compile("Hello,\x00World")
	if err != nil {
		t.Fatal("Compile:", err)
	}
	want := NewElement("div", newTextElement("p", "Hello,\ufffdWorld"))
	if diff := cmp.Diff(want, root, treeOptions); diff != "" {
		t.Errorf("tree (-want +got):\n%s", diff)
	}
}

func TestCompile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mdhtml.parse")
	defer teardown()

	withAttr := func(n *Node, name, value string) *Node {
		n.SetAttr(name, value)
		return n
	}

	tests := []struct {
		name     string
		markdown string
		want     []*Node
	}{
		{
			name:     "Empty",
			markdown: "",
			want:     nil,
		},
		{
			name:     "OnlyBlankLines",
			markdown: "\n  \n\t\n",
			want:     nil,
		},
		{
			name:     "HeadingLevel1",
			markdown: "# Title",
			want:     []*Node{newTextElement("h1", "Title")},
		},
		{
			name:     "HeadingLevel6",
			markdown: "###### Small",
			want:     []*Node{newTextElement("h6", "Small")},
		},
		{
			name:     "SevenHashes",
			markdown: "####### Small",
			want:     []*Node{newTextElement("p", "####### Small")},
		},
		{
			name:     "HeadingContentNotInlineParsed",
			markdown: "## *not emphasized*",
			want:     []*Node{newTextElement("h2", "*not emphasized*")},
		},
		{
			name:     "LineEndings",
			markdown: "a\r\nb\rc",
			want:     []*Node{newTextElement("p", "a b c")},
		},
		{
			name:     "ParagraphTrimmed",
			markdown: "   padded   ",
			want:     []*Node{newTextElement("p", "padded")},
		},
		{
			name:     "HeadingInterruptsParagraph",
			markdown: "text\n# Heading\nmore",
			want: []*Node{
				newTextElement("p", "text"),
				newTextElement("h1", "Heading"),
				newTextElement("p", "more"),
			},
		},
		{
			name:     "CodeBlockOpaque",
			markdown: "```python\n# comment\n- not a list\n    *indented*\n```",
			want: []*Node{
				withAttr(newTextElement("pre", "# comment\n- not a list\n    *indented*"), "class", "python"),
			},
		},
		{
			name:     "CodeBlockEmpty",
			markdown: "```\n```",
			want:     []*Node{newTextElement("pre", "")},
		},
		{
			name:     "CodeBlockBlankLinesKept",
			markdown: "```\na\n\n\n\nb\n```\nafter",
			want: []*Node{
				newTextElement("pre", "a\n\n\n\nb"),
				newTextElement("p", "after"),
			},
		},
		{
			name:     "CodeBlockLanguageFirstWord",
			markdown: "```go linenos\nx\n```",
			want:     []*Node{withAttr(newTextElement("pre", "x"), "class", "go")},
		},
		{
			name:     "ThematicBreak",
			markdown: "* * *",
			want:     []*Node{NewElement("hr")},
		},
		{
			name:     "BlockQuoteContinuation",
			markdown: "> a\n> b\n\n> c",
			want: []*Node{
				NewElement("blockquote",
					newTextElement("p", "a b"),
					newTextElement("p", "c"),
				),
			},
		},
		{
			name:     "BlockQuoteHeading",
			markdown: "> # Quoted",
			want: []*Node{
				NewElement("blockquote", newTextElement("h1", "Quoted")),
			},
		},
		{
			name:     "BlockQuoteNested",
			markdown: ">> deep",
			want: []*Node{
				NewElement("blockquote",
					NewElement("blockquote", newTextElement("p", "deep")),
				),
			},
		},
		{
			name:     "ListsInsideAndOutsideQuote",
			markdown: "- a\n> - b\n- c",
			want: []*Node{
				NewElement("ul", newTextElement("li", "a")),
				NewElement("blockquote",
					NewElement("ul", newTextElement("li", "b")),
				),
				NewElement("ul", newTextElement("li", "c")),
			},
		},
		{
			name:     "UnorderedMarkers",
			markdown: "- a\n+ b\n* c",
			want: []*Node{
				NewElement("ul",
					newTextElement("li", "a"),
					newTextElement("li", "b"),
					newTextElement("li", "c"),
				),
			},
		},
		{
			name:     "OrderedParenMarker",
			markdown: "1) a\n2) b",
			want: []*Node{
				NewElement("ol",
					newTextElement("li", "a"),
					newTextElement("li", "b"),
				),
			},
		},
		{
			name:     "OrderedStart",
			markdown: "7. seven",
			want: []*Node{
				withAttr(NewElement("ol", newTextElement("li", "seven")), "start", "7"),
			},
		},
		{
			name:     "EmptyItem",
			markdown: "- \n- b",
			want: []*Node{
				NewElement("ul",
					NewElement("li"),
					newTextElement("li", "b"),
				),
			},
		},
		{
			name:     "ItemContinuationJoined",
			markdown: "- first\n  line\n- second",
			want: []*Node{
				NewElement("ul",
					newTextElement("li", "first line"),
					newTextElement("li", "second"),
				),
			},
		},
		{
			name:     "NestedThreeLevelsThenRetreatTwo",
			markdown: "1. a\n   - b\n     1. c\n2. d",
			want: []*Node{
				NewElement("ol",
					NewElement("li",
						NewText("a"),
						NewElement("ul",
							NewElement("li",
								NewText("b"),
								NewElement("ol", newTextElement("li", "c")),
							),
						),
					),
					newTextElement("li", "d"),
				),
			},
		},
		{
			name:     "RetreatOneLevel",
			markdown: "- a\n  - b\n    - c\n  - d",
			want: []*Node{
				NewElement("ul",
					NewElement("li",
						NewText("a"),
						NewElement("ul",
							NewElement("li",
								NewText("b"),
								NewElement("ul", newTextElement("li", "c")),
							),
							newTextElement("li", "d"),
						),
					),
				),
			},
		},
		{
			name:     "UnderIndentedNotNested",
			markdown: "1. a\n  2. b",
			want: []*Node{
				NewElement("ol",
					newTextElement("li", "a"),
					newTextElement("li", "b"),
				),
			},
		},
		{
			name:     "ParagraphEndsList",
			markdown: "- a\n  - b\n\nafter",
			want: []*Node{
				NewElement("ul",
					NewElement("li",
						NewText("a"),
						NewElement("ul", newTextElement("li", "b")),
					),
				),
				newTextElement("p", "after"),
			},
		},
		{
			name:     "ThematicBreakEndsList",
			markdown: "- a\n- - -",
			want: []*Node{
				NewElement("ul", newTextElement("li", "a")),
				NewElement("hr"),
			},
		},
		{
			name:     "HeadingInItem",
			markdown: "- ## Item",
			want: []*Node{
				NewElement("ul",
					NewElement("li", newTextElement("h2", "Item")),
				),
			},
		},
		{
			name:     "QuoteInItem",
			markdown: "- > quoted",
			want: []*Node{
				NewElement("ul",
					NewElement("li",
						NewElement("blockquote", newTextElement("p", "quoted")),
					),
				),
			},
		},
		{
			name:     "CodeBlockInItem",
			markdown: "- ```go\n  x := 1\n  ```\n- next\n\npara one\npara two",
			want: []*Node{
				NewElement("ul",
					NewElement("li", withAttr(newTextElement("pre", "  x := 1"), "class", "go")),
					NewElement("li", NewText("next")),
				),
				newTextElement("p", "para one para two"),
			},
		},
		{
			name:     "CodeBlockInNestedItem",
			markdown: "- a\n  - ```\n  b\n  ```\n- c",
			want: []*Node{
				NewElement("ul",
					NewElement("li",
						NewText("a"),
						NewElement("ul",
							NewElement("li", newTextElement("pre", "  b")),
						),
					),
					NewElement("li", NewText("c")),
				),
			},
		},
		{
			name:     "ItemInlineContent",
			markdown: "- **bold** item",
			want: []*Node{
				NewElement("ul",
					NewElement("li", newTextElement("strong", "bold"), NewText(" item")),
				),
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Compile(test.markdown)
			if err != nil {
				t.Fatal("Compile:", err)
			}
			want := NewElement("div", test.want...)
			if diff := cmp.Diff(want, got, treeOptions); diff != "" {
				t.Errorf("Compile(%q) (-want +got):\n%s", test.markdown, diff)
			}
		})
	}
}

func TestNestedListRender(t *testing.T) {
	root, err := Compile("1. a\n   1. b\n2. c")
	if err != nil {
		t.Fatal("Compile:", err)
	}
	const want = "<div>\n" +
		"    <ol>\n" +
		"        <li>\n" +
		"            a\n" +
		"            <ol>\n" +
		"                <li>\n" +
		"                    b\n" +
		"                </li>\n" +
		"            </ol>\n" +
		"        </li>\n" +
		"        <li>\n" +
		"            c\n" +
		"        </li>\n" +
		"    </ol>\n" +
		"</div>"
	if diff := cmp.Diff(want, Render(root)); diff != "" {
		t.Errorf("Render(...) (-want +got):\n%s", diff)
	}
}

func TestCompileSelectors(t *testing.T) {
	const markdown = "# Shopping\n" +
		"\n" +
		"1. fruit\n" +
		"   - [apples](https://example.com/apples)\n" +
		"   - pears\n" +
		"2. bread\n" +
		"\n" +
		"> remember the *milk*\n"
	root, err := Compile(markdown)
	if err != nil {
		t.Fatal("Compile:", err)
	}
	doc, err := html.Parse(strings.NewReader(WrapDocument(root)))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		selector string
		want     []string
	}{
		{"body > div > h1", []string{"Shopping"}},
		{"ol > li > ul > li", []string{"apples", "pears"}},
		{"ol > li > ul > li > a[href='https://example.com/apples']", []string{"apples"}},
		{"div > ol > li", []string{"fruit apples pears", "bread"}},
		{"blockquote > p > em", []string{"milk"}},
		{"head > title", []string{"Title"}},
		{"meta[charset='UTF-8']", []string{""}},
	}
	for _, test := range tests {
		var got []string
		for _, n := range cascadia.MustCompile(test.selector).MatchAll(doc) {
			got = append(got, strings.Join(strings.Fields(htmlText(n)), " "))
		}
		if diff := cmp.Diff(test.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s (-want +got):\n%s", test.selector, diff)
		}
	}
}

// htmlText returns the concatenated text of the parsed HTML node's descendants.
func htmlText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	sb := new(strings.Builder)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(htmlText(c))
		sb.WriteString(" ")
	}
	return sb.String()
}

func TestAppendChildToText(t *testing.T) {
	leaf := NewText("leaf")
	err := leaf.AppendChild(NewElement("em"))
	if !errors.Is(err, ErrStructuralViolation) {
		t.Errorf("AppendChild(...) = %v; want %v", err, ErrStructuralViolation)
	}
	if got := leaf.ChildCount(); got != 0 {
		t.Errorf("leaf.ChildCount() = %d; want 0", got)
	}
}
