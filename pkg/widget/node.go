// Package widget is the toolkit-neutral structure produced by the renderer
// and driven by the submission controller.
package widget

import (
	"sort"
	"strings"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <input>, etc.
	KindText                // Plain text node
	KindRaw                 // Sanitised inline markup
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Props holds attributes. Values are strings or bools; a false bool is the
// same as an absent attribute.
type Props map[string]any

// Node is one element or text node of the tree.
type Node struct {
	Kind     Kind
	Tag      string
	Classes  []string
	Props    Props
	Children []*Node
	Text     string
}

// Element creates an element node. classes is a space separated list.
func Element(tag, classes string, props Props, children ...*Node) *Node {
	n := &Node{Kind: KindElement, Tag: tag, Props: Props{}}
	for _, class := range strings.Fields(classes) {
		n.AddClass(class)
	}
	for key, value := range props {
		n.SetProp(key, value)
	}
	n.Append(children...)
	return n
}

// Text creates a text node.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Raw creates a markup node. Callers must sanitise s first.
func Raw(s string) *Node {
	return &Node{Kind: KindRaw, Text: s}
}

// Append adds non-nil children.
func (n *Node) Append(children ...*Node) *Node {
	for _, child := range children {
		if child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

// Attr returns a string property, or "" when absent or not a string.
func (n *Node) Attr(key string) string {
	if n == nil {
		return ""
	}
	s, _ := n.Props[key].(string)
	return s
}

// Flag reports whether a boolean property is set.
func (n *Node) Flag(key string) bool {
	if n == nil {
		return false
	}
	b, _ := n.Props[key].(bool)
	return b
}

// SetProp stores a property. A false bool or nil removes it.
func (n *Node) SetProp(key string, value any) {
	if n.Props == nil {
		n.Props = Props{}
	}
	switch v := value.(type) {
	case nil:
		delete(n.Props, key)
	case bool:
		if !v {
			delete(n.Props, key)
			return
		}
		n.Props[key] = true
	default:
		n.Props[key] = value
	}
}

// PropKeys returns the property names sorted.
func (n *Node) PropKeys() []string {
	keys := make([]string, 0, len(n.Props))
	for key := range n.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// HasClass reports whether class is present.
func (n *Node) HasClass(class string) bool {
	if n == nil {
		return false
	}
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class once.
func (n *Node) AddClass(class string) {
	if class == "" || n.HasClass(class) {
		return
	}
	n.Classes = append(n.Classes, class)
}

// RemoveClass drops class.
func (n *Node) RemoveClass(class string) {
	out := n.Classes[:0]
	for _, c := range n.Classes {
		if c != class {
			out = append(out, c)
		}
	}
	n.Classes = out
}

// ToggleClass adds or removes class.
func (n *Node) ToggleClass(class string, on bool) {
	if on {
		n.AddClass(class)
		return
	}
	n.RemoveClass(class)
}

// TextContent concatenates every descendant text node.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText || n.Kind == KindRaw {
		return n.Text
	}
	var b strings.Builder
	for _, child := range n.Children {
		b.WriteString(child.TextContent())
	}
	return b.String()
}

// SetText replaces the children with a single text node, or none when s is
// empty.
func (n *Node) SetText(s string) {
	n.Children = nil
	if s != "" {
		n.Children = []*Node{Text(s)}
	}
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find returns the first node in document order matching fn.
func (n *Node) Find(fn func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if found != nil {
			return false
		}
		if fn(node) {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node in document order matching fn.
func (n *Node) FindAll(fn func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(node *Node) bool {
		if fn(node) {
			out = append(out, node)
		}
		return true
	})
	return out
}

// Clone deep-copies the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Kind:    n.Kind,
		Tag:     n.Tag,
		Text:    n.Text,
		Classes: append([]string(nil), n.Classes...),
	}
	if n.Props != nil {
		out.Props = make(Props, len(n.Props))
		for key, value := range n.Props {
			out.Props[key] = value
		}
	}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// ByClass matches elements carrying class.
func ByClass(class string) func(*Node) bool {
	return func(n *Node) bool {
		return n.Kind == KindElement && n.HasClass(class)
	}
}

// ByTag matches elements with tag.
func ByTag(tag string) func(*Node) bool {
	return func(n *Node) bool {
		return n.Kind == KindElement && n.Tag == tag
	}
}
