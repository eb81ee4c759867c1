// Package tree projects a JSON value into the ordered lines of a
// collapsible tree view.
package tree

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsongrid/internal/models"
)

// NodeKind is the role a node plays in the projection.
type NodeKind int

const (
	// Leaf is a scalar value.
	Leaf NodeKind = iota
	// Empty is an empty object or array, drawn inline.
	Empty
	// Open starts a non-empty object or array. When collapsed it is the
	// only line of its container.
	Open
	// Close ends an expanded object or array.
	Close
)

func (k NodeKind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Empty:
		return "empty"
	case Open:
		return "open"
	case Close:
		return "close"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Node is one line of the tree view.
type Node struct {
	Kind  NodeKind
	Depth int
	// Key is the member name; HasKey is false for the root and array elements.
	Key    string
	HasKey bool
	// Index is the element position for array elements and -1 otherwise.
	Index     int
	Value     models.Value
	IsLast    bool
	Collapsed bool
	Path      Path
}

// Toggleable reports whether the node carries an expand/collapse affordance.
func (n Node) Toggleable() bool {
	return n.Kind == Open || n.Kind == Close
}

// Position places a value within its parent.
type Position struct {
	Path   Path
	Depth  int
	Key    string
	HasKey bool
	Index  int
	IsLast bool
}

// RootPosition is the position of a top-level value.
func RootPosition() Position {
	return Position{Path: Root, Index: -1, IsLast: true}
}

// ProjectRoot projects a whole document.
func ProjectRoot(v models.Value, lookup CollapseLookup) []Node {
	return Project(v, RootPosition(), lookup)
}

// Project returns the nodes for v at pos. Non-empty containers recurse into
// their children unless lookup reports them collapsed. A nil lookup
// expands everything.
func Project(v models.Value, pos Position, lookup CollapseLookup) []Node {
	if lookup == nil {
		lookup = Expanded
	}
	return project(nil, v, pos, lookup)
}

func project(out []Node, v models.Value, pos Position, lookup CollapseLookup) []Node {
	node := Node{
		Depth:  pos.Depth,
		Key:    pos.Key,
		HasKey: pos.HasKey,
		Index:  pos.Index,
		Value:  v,
		IsLast: pos.IsLast,
		Path:   pos.Path,
	}

	if !v.IsContainer() {
		node.Kind = Leaf
		return append(out, node)
	}
	if v.Len() == 0 {
		node.Kind = Empty
		return append(out, node)
	}

	node.Kind = Open
	node.Collapsed = lookup.IsCollapsed(pos.Path)
	out = append(out, node)
	if node.Collapsed {
		return out
	}

	if v.IsObject() {
		members := v.Members()
		for i, m := range members {
			out = project(out, m.Value, Position{
				Path:   pos.Path.Child(m.Key),
				Depth:  pos.Depth + 1,
				Key:    m.Key,
				HasKey: true,
				Index:  -1,
				IsLast: i == len(members)-1,
			}, lookup)
		}
	} else {
		items := v.Items()
		for i, item := range items {
			out = project(out, item, Position{
				Path:   pos.Path.Index(i),
				Depth:  pos.Depth + 1,
				Index:  i,
				IsLast: i == len(items)-1,
			}, lookup)
		}
	}

	closing := node
	closing.Kind = Close
	return append(out, closing)
}

// Text returns the node's line without indentation: the quoted key, the
// value or bracket, an ellipsis for collapsed containers, and a trailing
// comma unless the node is the last of its siblings.
func (n Node) Text() string {
	var sb strings.Builder
	if n.HasKey && n.Kind != Close {
		models.WriteQuoted(&sb, n.Key)
		sb.WriteString(": ")
	}

	opening, closing := "{", "}"
	if n.Value.IsArray() {
		opening, closing = "[", "]"
	}

	switch n.Kind {
	case Leaf:
		sb.WriteString(n.Value.Canonical())
	case Empty:
		sb.WriteString(opening + closing)
	case Open:
		sb.WriteString(opening)
		if !n.Collapsed {
			return sb.String()
		}
		sb.WriteString("...")
		sb.WriteString(closing)
	case Close:
		sb.WriteString(closing)
	}

	if !n.IsLast {
		sb.WriteByte(',')
	}
	return sb.String()
}

// Line returns Text indented by indent spaces per depth level.
func (n Node) Line(indent int) string {
	return strings.Repeat(" ", n.Depth*indent) + n.Text()
}

// Summary describes a container's size, such as "3 keys" or "1 item".
func (n Node) Summary() string {
	if !n.Value.IsContainer() {
		return ""
	}
	unit := "item"
	if n.Value.IsObject() {
		unit = "key"
	}
	count := n.Value.Len()
	if count != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s", count, unit)
}

// Lines renders nodes as indented text lines.
func Lines(nodes []Node, indent int) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Line(indent)
	}
	return out
}
