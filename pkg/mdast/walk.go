package mdast

import (
	"errors"
	"iter"
)

// ErrSkipChildren returned from an enter callback skips the node's
// children. Its leave callback still runs.
var ErrSkipChildren = errors.New("skip children")

// WalkFunc visits one node. A non-nil error other than ErrSkipChildren
// stops the walk.
type WalkFunc func(id NodeID, n *Node) error

// Walk visits the subtree at root depth first, calling enter before a
// node's children and leave after them. Either callback may be nil. The
// first error, other than ErrSkipChildren from enter, is returned.
func Walk(t *Tree, root NodeID, enter, leave WalkFunc) error {
	n := t.Node(root)
	if n == nil {
		return nil
	}

	descend := true
	if enter != nil {
		switch err := enter(root, n); {
		case errors.Is(err, ErrSkipChildren):
			descend = false
		case err != nil:
			return err
		}
	}

	if descend {
		for child := n.FirstChild; child != NilNode; child = t.Node(child).Next {
			if err := Walk(t, child, enter, leave); err != nil {
				return err
			}
		}
	}

	if leave != nil {
		return leave(root, n)
	}
	return nil
}

// Preorder iterates the subtree at root in document order. A node's
// children are read after it is yielded, so the loop body may rewrite
// them.
func Preorder(t *Tree, root NodeID) iter.Seq2[NodeID, *Node] {
	return func(yield func(NodeID, *Node) bool) {
		preorder(t, root, yield)
	}
}

func preorder(t *Tree, id NodeID, yield func(NodeID, *Node) bool) bool {
	n := t.Node(id)
	if n == nil {
		return true
	}
	if !yield(id, n) {
		return false
	}
	for child := n.FirstChild; child != NilNode; child = t.Node(child).Next {
		if !preorder(t, child, yield) {
			return false
		}
	}
	return true
}

// FindByKind returns every node of kind below and including root, in
// document order.
func FindByKind(t *Tree, root NodeID, kind NodeKind) []NodeID {
	var ids []NodeID
	for id, n := range Preorder(t, root) {
		if n.Kind == kind {
			ids = append(ids, id)
		}
	}
	return ids
}

// FindFirst returns the first node in document order that match accepts,
// or NilNode.
func FindFirst(t *Tree, root NodeID, match func(*Node) bool) NodeID {
	for id, n := range Preorder(t, root) {
		if match(n) {
			return id
		}
	}
	return NilNode
}
