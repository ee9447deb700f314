package xacro

import (
	"encoding/xml"
	"io"
	"strings"
)

// Node is a single element in a robot description document. Attribute
// insertion order is kept so that output stays close to the input; Text is
// character data directly inside the element, Tail is character data
// between this element and its next sibling.
type Node struct {
	Tag       string
	Attrs     map[string]string
	AttrOrder []string
	Children  []*Node
	Text      string
	Tail      string
}

// NewNode creates an empty element with the given tag.
func NewNode(tag string) *Node {
	return &Node{
		Tag:   tag,
		Attrs: make(map[string]string),
	}
}

// SetAttr sets an attribute, appending to the insertion order on first use.
func (n *Node) SetAttr(name, value string) {
	if _, ok := n.Attrs[name]; !ok {
		n.AttrOrder = append(n.AttrOrder, name)
	}
	n.Attrs[name] = value
}

// Attr returns an attribute value, or the empty string if absent.
func (n *Node) Attr(name string) string {
	return n.Attrs[name]
}

// HasAttr reports whether the attribute is present, even if empty.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attrs[name]
	return ok
}

// Append adds a child at the end of the child list.
func (n *Node) Append(child *Node) {
	n.Children = append(n.Children, child)
}

// FindChild returns the first direct child with the given local tag name,
// or nil.
func (n *Node) FindChild(local string) *Node {
	for _, c := range n.Children {
		if LocalName(c.Tag) == local {
			return c
		}
	}
	return nil
}

// FindChildren returns all direct children with the given local tag name.
func (n *Node) FindChildren(local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if LocalName(c.Tag) == local {
			out = append(out, c)
		}
	}
	return out
}

// Clone deep-copies the node and its subtree.
func (n *Node) Clone() *Node {
	copied := &Node{
		Tag:       n.Tag,
		Attrs:     make(map[string]string, len(n.Attrs)),
		AttrOrder: append([]string(nil), n.AttrOrder...),
		Text:      n.Text,
		Tail:      n.Tail,
	}
	for k, v := range n.Attrs {
		copied.Attrs[k] = v
	}
	for _, c := range n.Children {
		copied.Children = append(copied.Children, c.Clone())
	}
	return copied
}

// qualifyName rebuilds the source-level tag or attribute name from the
// decoder's resolved form. The decoder maps a bound xacro prefix to the
// namespace URI and leaves an unbound prefix as-is, so both spellings
// collapse back to "xacro:local" here.
func qualifyName(name xml.Name) string {
	switch {
	case name.Space == "":
		return name.Local
	case name.Space == "xmlns":
		return "xmlns:" + name.Local
	case name.Space == XacroPrefix || strings.Contains(name.Space, XacroNamespaceMarker):
		return XacroPrefix + ":" + name.Local
	default:
		return "{" + name.Space + "}" + name.Local
	}
}

// ParseDocument reads a well-formed robot description into a Node tree.
// The root element must be <robot>; anything else fails before any
// collection or expansion runs.
func ParseDocument(r io.Reader) (*Node, error) {
	decoder := xml.NewDecoder(r)
	var root *Node
	var stack []*Node

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewParseError("malformed XML: "+err.Error(), "", int(decoder.InputOffset()))
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := NewNode(qualifyName(t.Name))
			for _, a := range t.Attr {
				node.SetAttr(qualifyName(a.Name), a.Value)
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, NewParseError("multiple root elements", node.Tag, int(decoder.InputOffset()))
				}
				root = node
			} else {
				stack[len(stack)-1].Append(node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			if len(parent.Children) == 0 {
				parent.Text += string(t)
			} else {
				parent.Children[len(parent.Children)-1].Tail += string(t)
			}
		}
	}

	if root == nil {
		return nil, NewParseError("document contains no elements", "", 0)
	}
	if LocalName(root.Tag) != "robot" {
		return nil, NewParseError("root element must be 'robot'", root.Tag, 0)
	}
	return root, nil
}

// ParseDocumentString is ParseDocument over an in-memory document.
func ParseDocumentString(content string) (*Node, error) {
	return ParseDocument(strings.NewReader(content))
}
