package hint

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTag is returned when a discriminator hint does not name a tag field.
	ErrMissingTag = errors.New("discriminator hint must end with a tag field name")
	// ErrConflictingHints is returned when two discriminator hints name
	// different tag fields for the same record.
	ErrConflictingHints = errors.New("conflicting discriminator hints")
)

// Node is one level of the hint tree. A nil *Node carries no hints; every
// accessor is safe to call on nil.
type Node struct {
	values   bool
	tag      string
	children map[string]*Node
	wildcard *Node

	// fields is the view of a tagged-union node without its own directives,
	// built once by Builder.Root.
	fields *Node
}

// IsValues reports whether a record at this path should be inferred as a
// homogeneous map.
func (n *Node) IsValues() bool {
	return n != nil && n.values
}

// DiscriminatorTag returns the tag field name for a tagged-union record at
// this path, or "" when there is none.
func (n *Node) DiscriminatorTag() string {
	if n == nil {
		return ""
	}
	return n.tag
}

// Child returns the hints for the record field key. The wildcard never
// matches a field name; it only addresses list elements and values entries.
func (n *Node) Child(key string) *Node {
	if n == nil {
		return nil
	}
	return n.children[key]
}

// Element returns the hints shared by every list element or values entry.
func (n *Node) Element() *Node {
	if n == nil {
		return nil
	}
	return n.wildcard
}

// Fields returns the hints for the fields of a tagged-union record: the same
// children without this node's own tag. It is nil when the record has no
// hinted fields.
func (n *Node) Fields() *Node {
	if n == nil {
		return nil
	}
	return n.fields
}

// Empty reports whether the node carries no hints at all.
func (n *Node) Empty() bool {
	return n == nil || (!n.values && n.tag == "" && len(n.children) == 0 && n.wildcard == nil)
}

func (n *Node) descend(s Segment) *Node {
	if s.Wildcard {
		if n.wildcard == nil {
			n.wildcard = &Node{}
		}
		return n.wildcard
	}
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	c, ok := n.children[s.Key]
	if !ok {
		c = &Node{}
		n.children[s.Key] = c
	}
	return c
}

// Builder accumulates hints before inference starts.
type Builder struct {
	root *Node
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{root: &Node{}}
}

// AddValues marks the record at path as a homogeneous map.
func (b *Builder) AddValues(path []Segment) {
	n := b.root
	for _, s := range path {
		n = n.descend(s)
	}
	n.values = true
}

// AddDiscriminator marks a tagged-union record. The last segment of path is
// the tag field; the segments before it address the record.
func (b *Builder) AddDiscriminator(path []Segment) error {
	if len(path) == 0 || path[len(path)-1].Wildcard {
		return fmt.Errorf("%w: %q", ErrMissingTag, FormatPointer(path))
	}
	n := b.root
	for _, s := range path[:len(path)-1] {
		n = n.descend(s)
	}
	tag := path[len(path)-1].Key
	if n.tag != "" && n.tag != tag {
		return fmt.Errorf("%w: %q and %q at %q", ErrConflictingHints, n.tag, tag, FormatPointer(path[:len(path)-1]))
	}
	n.tag = tag
	return nil
}

// Root returns the finished tree, or nil when no hints were added.
func (b *Builder) Root() *Node {
	if b.root.Empty() {
		return nil
	}
	b.root.link()
	return b.root
}

// link precomputes the fields view of every tagged-union node.
func (n *Node) link() {
	n.fields = nil
	if n.tag != "" && (len(n.children) > 0 || n.wildcard != nil) {
		n.fields = &Node{children: n.children, wildcard: n.wildcard}
	}
	for _, c := range n.children {
		c.link()
	}
	if n.wildcard != nil {
		n.wildcard.link()
	}
}

// Parse builds a hint tree from JSON Pointer strings.
func Parse(valuesPaths, discriminatorPaths []string) (*Node, error) {
	b := NewBuilder()
	for _, p := range valuesPaths {
		segs, err := ParsePointer(p)
		if err != nil {
			return nil, fmt.Errorf("values hint: %w", err)
		}
		b.AddValues(segs)
	}
	for _, p := range discriminatorPaths {
		segs, err := ParsePointer(p)
		if err != nil {
			return nil, fmt.Errorf("discriminator hint: %w", err)
		}
		if err := b.AddDiscriminator(segs); err != nil {
			return nil, err
		}
	}
	return b.Root(), nil
}
