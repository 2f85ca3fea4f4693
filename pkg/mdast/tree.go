package mdast

import (
	"errors"
	"fmt"
)

const slabSize = 256

var (
	// ErrNodeLimit is raised when a tree grows past its node limit.
	ErrNodeLimit = errors.New("mdast: node limit exceeded")

	// ErrFreedNode is returned when operating on a freed or unknown node.
	ErrFreedNode = errors.New("mdast: node is freed or out of range")

	// ErrNotText is returned when retyping a node that is not a text node.
	ErrNotText = errors.New("mdast: only text nodes can be retyped")
)

// Tree is an arena of nodes belonging to a single parse.
// Node IDs stay valid for the life of the tree; freed slots are never reused,
// so a stale ID resolves to nil instead of an unrelated node.
// A Tree is not safe for concurrent use.
type Tree struct {
	slabs [][]Node
	next  int
	live  int
	limit int
}

// TreeOption configures a Tree.
type TreeOption func(*Tree)

// WithNodeLimit caps the number of nodes a tree may allocate. Zero means no limit.
func WithNodeLimit(limit int) TreeOption {
	return func(t *Tree) {
		t.limit = limit
	}
}

// NewTree creates an empty tree.
func NewTree(opts ...TreeOption) *Tree {
	t := &Tree{next: 1}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// limitPanic carries ErrNodeLimit through the parser's call stack.
type limitPanic struct{ err error }

// RecoverLimit converts a node-limit panic raised by New into an error.
// It must be deferred directly by the function that owns the parse.
func RecoverLimit(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if lp, ok := r.(limitPanic); ok {
		*errp = lp.err
		return
	}
	panic(r)
}

// New allocates a detached node of the given kind.
// It panics with a value recognised by RecoverLimit when the node limit is hit.
func (t *Tree) New(kind NodeKind, pos SourcePosition) NodeID {
	if t.limit > 0 && t.next > t.limit {
		panic(limitPanic{err: fmt.Errorf("%w (%d nodes)", ErrNodeLimit, t.limit)})
	}

	id := t.next
	slab, slot := id/slabSize, id%slabSize
	if slab == len(t.slabs) {
		t.slabs = append(t.slabs, make([]Node, slabSize))
	}

	t.slabs[slab][slot] = Node{Kind: kind, Pos: pos}
	t.next++
	t.live++

	return NodeID(id)
}

// NewText allocates a detached text node.
func (t *Tree) NewText(text []byte, pos SourcePosition) NodeID {
	id := t.New(NodeText, pos)
	t.Node(id).Payload = &Literal{Text: text}
	return id
}

// Node returns the node for id, or nil if id is nil, freed or out of range.
// The returned pointer stays valid for the life of the tree.
func (t *Tree) Node(id NodeID) *Node {
	if id <= NilNode || int(id) >= t.next {
		return nil
	}
	n := &t.slabs[int(id)/slabSize][int(id)%slabSize]
	if n.Kind == kindFreed {
		return nil
	}
	return n
}

// Kind returns the kind of id, or the freed marker for absent nodes.
func (t *Tree) Kind(id NodeID) NodeKind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return kindFreed
}

// Live returns the number of allocated, unfreed nodes.
func (t *Tree) Live() int {
	return t.live
}

// Allocated returns the number of nodes ever allocated.
func (t *Tree) Allocated() int {
	return t.next - 1
}

// AppendChild appends child to parent, detaching it from any previous parent.
func (t *Tree) AppendChild(parent, child NodeID) {
	p, c := t.Node(parent), t.Node(child)
	if p == nil || c == nil {
		return
	}

	t.Unlink(child)

	c.Parent = parent
	c.Prev = p.LastChild

	if p.LastChild != NilNode {
		t.Node(p.LastChild).Next = child
	} else {
		p.FirstChild = child
	}

	p.LastChild = child
}

// PrependChild prepends child to parent.
func (t *Tree) PrependChild(parent, child NodeID) {
	p, c := t.Node(parent), t.Node(child)
	if p == nil || c == nil {
		return
	}

	t.Unlink(child)

	c.Parent = parent
	c.Next = p.FirstChild

	if p.FirstChild != NilNode {
		t.Node(p.FirstChild).Prev = child
	} else {
		p.LastChild = child
	}

	p.FirstChild = child
}

// InsertBefore inserts node before sibling. sibling must have a parent.
func (t *Tree) InsertBefore(sibling, node NodeID) {
	s, n := t.Node(sibling), t.Node(node)
	if s == nil || n == nil || s.Parent == NilNode || sibling == node {
		return
	}

	t.Unlink(node)

	parent := t.Node(s.Parent)
	n.Parent = s.Parent
	n.Prev = s.Prev
	n.Next = sibling

	if s.Prev != NilNode {
		t.Node(s.Prev).Next = node
	} else {
		parent.FirstChild = node
	}

	s.Prev = node
}

// InsertAfter inserts node after sibling. sibling must have a parent.
func (t *Tree) InsertAfter(sibling, node NodeID) {
	s, n := t.Node(sibling), t.Node(node)
	if s == nil || n == nil || s.Parent == NilNode || sibling == node {
		return
	}

	t.Unlink(node)

	parent := t.Node(s.Parent)
	n.Parent = s.Parent
	n.Prev = sibling
	n.Next = s.Next

	if s.Next != NilNode {
		t.Node(s.Next).Prev = node
	} else {
		parent.LastChild = node
	}

	s.Next = node
}

// Unlink detaches a node from its parent and siblings. Its children stay attached.
func (t *Tree) Unlink(id NodeID) {
	n := t.Node(id)
	if n == nil || n.Parent == NilNode {
		return
	}

	parent := t.Node(n.Parent)

	if n.Prev != NilNode {
		t.Node(n.Prev).Next = n.Next
	} else {
		parent.FirstChild = n.Next
	}

	if n.Next != NilNode {
		t.Node(n.Next).Prev = n.Prev
	} else {
		parent.LastChild = n.Prev
	}

	n.Parent = NilNode
	n.Prev = NilNode
	n.Next = NilNode
}

// Free unlinks a node and releases it together with its whole subtree.
func (t *Tree) Free(id NodeID) {
	n := t.Node(id)
	if n == nil {
		return
	}

	t.Unlink(id)

	for child := n.FirstChild; child != NilNode; {
		next := t.Node(child).Next
		t.Node(child).Parent = NilNode
		t.Free(child)
		child = next
	}

	*n = Node{Kind: kindFreed}
	t.live--
}

// Retype converts a text node into another kind in place, keeping its links
// and position. This is the only legal way for a node to change kind.
func (t *Tree) Retype(id NodeID, kind NodeKind, owner ExtensionRef, payload Payload) error {
	n := t.Node(id)
	if n == nil {
		return fmt.Errorf("retype node %d: %w", id, ErrFreedNode)
	}
	if n.Kind != NodeText {
		return fmt.Errorf("retype %s node %d: %w", n.Kind, id, ErrNotText)
	}

	n.Kind = kind
	n.Owner = owner
	n.Payload = payload

	return nil
}

// Children returns the direct children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}

	var children []NodeID
	for child := n.FirstChild; child != NilNode; child = t.Node(child).Next {
		children = append(children, child)
	}

	return children
}

// ChildCount returns the number of direct children.
func (t *Tree) ChildCount(id NodeID) int {
	n := t.Node(id)
	if n == nil {
		return 0
	}

	count := 0
	for child := n.FirstChild; child != NilNode; child = t.Node(child).Next {
		count++
	}

	return count
}

// Literal returns the literal text of id, or nil.
func (t *Tree) Literal(id NodeID) []byte {
	if n := t.Node(id); n != nil {
		return n.Literal()
	}
	return nil
}

// SetLiteral replaces the literal text of a node.
func (t *Tree) SetLiteral(id NodeID, text []byte) {
	n := t.Node(id)
	if n == nil {
		return
	}
	if lit, ok := n.Payload.(*Literal); ok {
		lit.Text = text
		return
	}
	n.Payload = &Literal{Text: text}
}

// TextContent concatenates the literal text of all descendants of id.
func (t *Tree) TextContent(id NodeID) []byte {
	var buf []byte

	_ = Walk(t, id, func(_ NodeID, n *Node) error {
		switch n.Kind {
		case NodeText, NodeCodeSpan:
			buf = append(buf, n.Literal()...)
		case NodeSoftBreak, NodeHardBreak:
			buf = append(buf, '\n')
		}
		return nil
	}, nil)

	return buf
}
