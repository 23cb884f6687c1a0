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
	"fmt"
)

// ErrStructuralViolation is returned (possibly wrapped)
// when a child is attached to a node that holds literal text.
var ErrStructuralViolation = errors.New("text node cannot have children")

// Node is an element of a document tree.
// A node is either an element, which has a tag, attributes, and children,
// or a text leaf, which only has content.
//
// A parent exclusively owns its children:
// a node must only be attached to a single parent.
type Node struct {
	tag      string
	text     string
	isText   bool
	attrs    []Attribute
	children []*Node
}

// Attribute is a single name/value pair on an element.
type Attribute struct {
	Name  string
	Value string
}

// NewElement returns a new element node with the given tag
// and initial children. Nil children are skipped.
func NewElement(tag string, children ...*Node) *Node {
	n := &Node{tag: tag}
	for _, c := range children {
		if c != nil {
			n.children = append(n.children, c)
		}
	}
	return n
}

// NewText returns a new text leaf.
func NewText(s string) *Node {
	return &Node{text: s, isText: true}
}

// newTextElement returns an element whose only child is a text leaf.
func newTextElement(tag string, s string) *Node {
	return NewElement(tag, NewText(s))
}

// IsText reports whether n is a text leaf.
func (n *Node) IsText() bool {
	return n != nil && n.isText
}

// Tag returns the element's tag name
// or the empty string if n is nil or a text leaf.
func (n *Node) Tag() string {
	if n == nil {
		return ""
	}
	return n.tag
}

// Text returns the content of a text leaf
// or the empty string for elements.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return n.text
}

// ChildCount returns the number of children the node has.
// Calling ChildCount on nil returns 0.
func (n *Node) ChildCount() int {
	if n == nil {
		return 0
	}
	return len(n.children)
}

// Child returns the i'th child of the node.
func (n *Node) Child(i int) *Node {
	return n.children[i]
}

// lastChild returns the node's last child or nil.
func (n *Node) lastChild() *Node {
	if n.ChildCount() == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// AppendChild attaches c as the last child of n.
// It returns an error wrapping [ErrStructuralViolation]
// and leaves n unchanged if n is a text leaf.
func (n *Node) AppendChild(c *Node) error {
	if n.IsText() {
		return fmt.Errorf("append %s to %q: %w", c.describe(), n.text, ErrStructuralViolation)
	}
	n.children = append(n.children, c)
	return nil
}

// appendChildren attaches each of cs to n in order.
func (n *Node) appendChildren(cs []*Node) error {
	for _, c := range cs {
		if err := n.AppendChild(c); err != nil {
			return err
		}
	}
	return nil
}

// SetAttr sets an attribute on the element.
// Attributes keep the order in which they were first set;
// setting an existing name replaces its value in place.
func (n *Node) SetAttr(name, value string) {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Name: name, Value: value})
}

// Attr returns the value of the named attribute
// and whether it is present.
func (n *Node) Attr(name string) (value string, ok bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attrs returns the element's attributes in insertion order.
// The caller must not modify the returned slice.
func (n *Node) Attrs() []Attribute {
	if n == nil {
		return nil
	}
	return n.attrs
}

func (n *Node) describe() string {
	switch {
	case n == nil:
		return "nil node"
	case n.isText:
		return "text node"
	default:
		return "<" + n.tag + ">"
	}
}
