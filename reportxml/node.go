// Package reportxml builds, parses and serializes the XML report trees
// emitted by the variation pipeline. It is not a general XML library: it
// supports exactly the dialect the reports use, which is plain tags with
// double-quoted attributes and no embedded angle brackets.
package reportxml

import (
	"strings"

	"github.com/pkg/errors"
)

// Attributes holds the attributes of a single node, keyed by name.
type Attributes map[string]string

// Node is a single element in a report tree. Children are owned by their
// parent; the parent pointer is only a back reference and never keeps a
// detached subtree alive.
type Node struct {
	Name       string
	Attributes Attributes
	Content    string
	SelfClosed bool
	Children   []*Node

	parent *Node
}

// Parent returns the node this node is attached to, or nil for a detached
// node and for the root of a Document.
func (n *Node) Parent() *Node {
	return n.parent
}

// AddNode appends a new child element with the given name and attributes
// and returns it. The attribute map is copied, so the caller may reuse it.
// Appending a child to a self-closing node clears its self-closing flag.
func (n *Node) AddNode(name string, attrs Attributes) *Node {
	child := &Node{
		Name:       name,
		Attributes: Attributes{},
		parent:     n,
	}
	for key, value := range attrs {
		child.Attributes[key] = value
	}
	n.SelfClosed = false
	n.Children = append(n.Children, child)
	return child
}

// AddEmptyNode appends a new self-closing child element. The child is a
// leaf: it serializes as <name ... /> and anything later attached to it
// turns it back into a regular element.
func (n *Node) AddEmptyNode(name string, attrs Attributes) *Node {
	child := n.AddNode(name, attrs)
	child.SelfClosed = true
	return child
}

// RemoveChild detaches a direct child, comparing by identity. It reports
// whether the child was found among the node's children.
func (n *Node) RemoveChild(child *Node) bool {
	for i, candidate := range n.Children {
		if candidate == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Attr returns the value of the named attribute, or an empty string when
// the attribute is absent.
func (n *Node) Attr(name string) string {
	return n.Attributes[name]
}

// SetAttr sets an attribute, allocating the map when the node was built by
// hand with a nil one.
func (n *Node) SetAttr(name, value string) {
	if n.Attributes == nil {
		n.Attributes = Attributes{}
	}
	n.Attributes[name] = value
}

// appendContent accumulates parsed text into the node. Runs of text split
// by child elements are joined with a single space.
func (n *Node) appendContent(text string) {
	if n.Content == "" {
		n.Content = text
		return
	}
	n.Content += " " + text
}

// matches reports whether the node carries every attribute in the filter
// with exactly the given value. A nil or empty filter matches any node.
func (n *Node) matches(filter Attributes) bool {
	for key, want := range filter {
		got, ok := n.Attributes[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// FindNode returns the first descendant matching the path and attribute
// filter, or nil when nothing matches.
//
// A path without a slash names a single element and is searched for
// anywhere below the node: all direct children are checked first, then
// each child's subtree in order. A slash-separated path is walked level by
// level through direct children only, and the filter applies to the final
// segment alone.
func (n *Node) FindNode(path string, filter Attributes) *Node {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil
	}
	if len(segments) == 1 {
		return n.findAnywhere(segments[0], filter)
	}
	return n.findAlongPath(segments, filter)
}

// FindNodes returns every descendant matching the path and attribute
// filter, using the same path semantics as FindNode. The result is in
// document order and empty when nothing matches.
func (n *Node) FindNodes(path string, filter Attributes) []*Node {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil
	}
	var found []*Node
	if len(segments) == 1 {
		n.collectAnywhere(segments[0], filter, &found)
	} else {
		n.collectAlongPath(segments, filter, &found)
	}
	return found
}

func splitPath(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

func (n *Node) findAnywhere(name string, filter Attributes) *Node {
	for _, child := range n.Children {
		if child.Name == name && child.matches(filter) {
			return child
		}
	}
	for _, child := range n.Children {
		if match := child.findAnywhere(name, filter); match != nil {
			return match
		}
	}
	return nil
}

func (n *Node) findAlongPath(segments []string, filter Attributes) *Node {
	last := len(segments) == 1
	for _, child := range n.Children {
		if child.Name != segments[0] {
			continue
		}
		if last {
			if child.matches(filter) {
				return child
			}
			continue
		}
		if match := child.findAlongPath(segments[1:], filter); match != nil {
			return match
		}
	}
	return nil
}

func (n *Node) collectAnywhere(name string, filter Attributes, found *[]*Node) {
	for _, child := range n.Children {
		if child.Name == name && child.matches(filter) {
			*found = append(*found, child)
		}
		child.collectAnywhere(name, filter, found)
	}
}

func (n *Node) collectAlongPath(segments []string, filter Attributes, found *[]*Node) {
	last := len(segments) == 1
	for _, child := range n.Children {
		if child.Name != segments[0] {
			continue
		}
		if last {
			if child.matches(filter) {
				*found = append(*found, child)
			}
			continue
		}
		child.collectAlongPath(segments[1:], filter, found)
	}
}

// Position returns the index of the node among its parent's children,
// comparing by identity rather than by value so equal siblings keep
// distinct positions. Detached nodes report -1.
func (n *Node) Position() int {
	if n.parent == nil {
		return -1
	}
	for i, sibling := range n.parent.Children {
		if sibling == n {
			return i
		}
	}
	return -1
}

// MoveTo reorders the node among its siblings: the node is removed from
// its current slot and reinserted at the given index of the remaining
// children, so the index is interpreted after removal. An index equal to
// the number of remaining siblings appends.
func (n *Node) MoveTo(index int) error {
	if n.parent == nil {
		return errors.New("node is not attached to a parent")
	}
	siblings := n.parent.Children
	remaining := make([]*Node, 0, len(siblings)-1)
	for _, sibling := range siblings {
		if sibling != n {
			remaining = append(remaining, sibling)
		}
	}
	if index < 0 || index > len(remaining) {
		return errors.Errorf("cannot move %q to position %d: valid range is 0 to %d", n.Name, index, len(remaining))
	}
	reordered := make([]*Node, 0, len(siblings))
	reordered = append(reordered, remaining[:index]...)
	reordered = append(reordered, n)
	reordered = append(reordered, remaining[index:]...)
	n.parent.Children = reordered
	return nil
}
