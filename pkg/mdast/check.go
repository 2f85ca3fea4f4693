package mdast

import (
	"errors"
	"fmt"
)

// ErrMalformedTree is wrapped by every error returned from Check.
var ErrMalformedTree = errors.New("malformed tree")

// Check validates the subtree rooted at root: parent and sibling links must
// be symmetric, and every positioned node must have end >= start, lie within
// its parent's span, and not start before its previous sibling.
// Nodes without a valid position are skipped by the position checks.
func (t *Tree) Check(root NodeID) error {
	if t.Node(root) == nil {
		return fmt.Errorf("%w: root %d is not a live node", ErrMalformedTree, root)
	}
	return t.checkNode(root)
}

func (t *Tree) checkNode(id NodeID) error {
	n := t.Node(id)

	if n.Pos.IsValid() && n.Pos.End().Compare(n.Pos.Start()) < 0 {
		return fmt.Errorf("%w: %s node %d ends before it starts", ErrMalformedTree, n.Kind, id)
	}

	prev := NilNode
	var prevPos SourcePosition

	for child := n.FirstChild; child != NilNode; {
		c := t.Node(child)
		if c == nil {
			return fmt.Errorf("%w: %s node %d links to freed child %d", ErrMalformedTree, n.Kind, id, child)
		}
		if c.Parent != id {
			return fmt.Errorf("%w: child %d of %d has parent %d", ErrMalformedTree, child, id, c.Parent)
		}
		if c.Prev != prev {
			return fmt.Errorf("%w: child %d of %d has prev %d, want %d", ErrMalformedTree, child, id, c.Prev, prev)
		}

		if c.Pos.IsValid() {
			if n.Pos.IsValid() && !n.Pos.Contains(c.Pos) {
				return fmt.Errorf("%w: %s node %d %v escapes parent %s %v",
					ErrMalformedTree, c.Kind, child, c.Pos, n.Kind, n.Pos)
			}
			if prevPos.IsValid() && c.Pos.Start().Compare(prevPos.Start()) < 0 {
				return fmt.Errorf("%w: %s node %d starts before its previous sibling",
					ErrMalformedTree, c.Kind, child)
			}
			prevPos = c.Pos
		}

		if err := t.checkNode(child); err != nil {
			return err
		}

		prev = child
		child = c.Next
	}

	if n.LastChild != prev {
		return fmt.Errorf("%w: %s node %d has last child %d, want %d", ErrMalformedTree, n.Kind, id, n.LastChild, prev)
	}

	return nil
}
