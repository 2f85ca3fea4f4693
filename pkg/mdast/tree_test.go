package mdast_test

import (
	"errors"
	"testing"

	"github.com/yaklabco/inlinemark/pkg/mdast"
)

func span(sl, sc, el, ec int) mdast.SourcePosition {
	return mdast.SourcePosition{StartLine: sl, StartColumn: sc, EndLine: el, EndColumn: ec}
}

func TestTree_New(t *testing.T) {
	t.Parallel()

	tree := mdast.NewTree()
	id := tree.New(mdast.NodeParagraph, span(1, 1, 1, 5))

	if id.IsNil() {
		t.Fatal("expected non-nil id")
	}

	node := tree.Node(id)
	if node.Kind != mdast.NodeParagraph {
		t.Errorf("expected Paragraph, got %s", node.Kind)
	}
	if node.Parent != mdast.NilNode || node.FirstChild != mdast.NilNode || node.LastChild != mdast.NilNode {
		t.Error("expected no parent and no children")
	}
	if tree.Live() != 1 || tree.Allocated() != 1 {
		t.Errorf("live=%d allocated=%d", tree.Live(), tree.Allocated())
	}
	if tree.Node(mdast.NilNode) != nil {
		t.Error("NilNode must resolve to nil")
	}
}

func TestTree_PointersStableAcrossGrowth(t *testing.T) {
	t.Parallel()

	tree := mdast.NewTree()
	first := tree.NewText([]byte("x"), mdast.SourcePosition{})
	ptr := tree.Node(first)

	for range 1000 {
		tree.New(mdast.NodeText, mdast.SourcePosition{})
	}

	if tree.Node(first) != ptr {
		t.Error("node pointer moved after arena growth")
	}
}

func TestTree_AppendChild(t *testing.T) {
	t.Parallel()

	tree := mdast.NewTree()
	parent := tree.New(mdast.NodeDocument, mdast.SourcePosition{})
	child1 := tree.New(mdast.NodeParagraph, mdast.SourcePosition{})
	child2 := tree.New(mdast.NodeHeading, mdast.SourcePosition{})

	tree.AppendChild(parent, child1)

	p := tree.Node(parent)
	if p.FirstChild != child1 || p.LastChild != child1 {
		t.Error("first child not set correctly")
	}
	if tree.Node(child1).Parent != parent {
		t.Error("child1 parent not set")
	}

	tree.AppendChild(parent, child2)

	if p.FirstChild != child1 {
		t.Error("first child should still be child1")
	}
	if p.LastChild != child2 {
		t.Error("last child should be child2")
	}
	if tree.Node(child1).Next != child2 || tree.Node(child2).Prev != child1 {
		t.Error("sibling links not set correctly")
	}
	if err := tree.Check(parent); err != nil {
		t.Error(err)
	}
}

func TestTree_AppendChildMovesNode(t *testing.T) {
	t.Parallel()

	tree := mdast.NewTree()
	a := tree.New(mdast.NodeParagraph, mdast.SourcePosition{})
	b := tree.New(mdast.NodeParagraph, mdast.SourcePosition{})
	child := tree.New(mdast.NodeText, mdast.SourcePosition{})

	tree.AppendChild(a, child)
	tree.AppendChild(b, child)

	if tree.ChildCount(a) != 0 {
		t.Error("child should have left its old parent")
	}
	if tree.ChildCount(b) != 1 || tree.Node(child).Parent != b {
		t.Error("child should belong to the new parent")
	}
}

func TestTree_PrependAndInsert(t *testing.T) {
	t.Parallel()

	tree := mdast.NewTree()
	parent := tree.New(mdast.NodeParagraph, mdast.SourcePosition{})
	b := tree.New(mdast.NodeText, mdast.SourcePosition{})
	a := tree.New(mdast.NodeText, mdast.SourcePosition{})
	d := tree.New(mdast.NodeText, mdast.SourcePosition{})
	c := tree.New(mdast.NodeText, mdast.SourcePosition{})
	e := tree.New(mdast.NodeText, mdast.SourcePosition{})

	tree.AppendChild(parent, b)
	tree.PrependChild(parent, a)
	tree.AppendChild(parent, d)
	tree.InsertBefore(d, c)
	tree.InsertAfter(d, e)

	got := tree.Children(parent)
	want := []mdast.NodeID{a, b, c, d, e}

	if len(got) != len(want) {
		t.Fatalf("got %d children, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("child %d = %d, want %d", i, got[i], want[i])
		}
	}
	if err := tree.Check(parent); err != nil {
		t.Error(err)
	}
}

func TestTree_Unlink(t *testing.T) {
	t.Parallel()

	tree := mdast.NewTree()
	parent := tree.New(mdast.NodeParagraph, mdast.SourcePosition{})
	a := tree.New(mdast.NodeText, mdast.SourcePosition{})
	b := tree.New(mdast.NodeText, mdast.SourcePosition{})
	c := tree.New(mdast.NodeText, mdast.SourcePosition{})

	tree.AppendChild(parent, a)
	tree.AppendChild(parent, b)
	tree.AppendChild(parent, c)

	tree.Unlink(b)

	if tree.Node(a).Next != c || tree.Node(c).Prev != a {
		t.Error("siblings not relinked")
	}
	if tree.Node(b).Parent != mdast.NilNode {
		t.Error("unlinked node still has parent")
	}
	if tree.Node(b) == nil {
		t.Error("unlink must not free the node")
	}
	if err := tree.Check(parent); err != nil {
		t.Error(err)
	}
}

func TestTree_FreeSubtree(t *testing.T) {
	t.Parallel()

	tree := mdast.NewTree()
	parent := tree.New(mdast.NodeParagraph, mdast.SourcePosition{})
	emph := tree.New(mdast.NodeEmphasis, mdast.SourcePosition{})
	inner := tree.NewText([]byte("x"), mdast.SourcePosition{})
	tail := tree.NewText([]byte("y"), mdast.SourcePosition{})

	tree.AppendChild(parent, emph)
	tree.AppendChild(emph, inner)
	tree.AppendChild(parent, tail)

	tree.Free(emph)

	if tree.Node(emph) != nil || tree.Node(inner) != nil {
		t.Error("freed subtree still resolves")
	}
	if tree.Node(parent).FirstChild != tail {
		t.Error("parent not relinked after free")
	}
	if tree.Live() != 2 {
		t.Errorf("live = %d, want 2", tree.Live())
	}

	// Freed slots are not reused.
	next := tree.New(mdast.NodeText, mdast.SourcePosition{})
	if next == emph || next == inner {
		t.Error("freed id was reused")
	}
	if err := tree.Check(parent); err != nil {
		t.Error(err)
	}
}

func TestTree_Retype(t *testing.T) {
	t.Parallel()

	tree := mdast.NewTree()
	parent := tree.New(mdast.NodeParagraph, mdast.SourcePosition{})
	text := tree.NewText([]byte("||"), span(1, 1, 1, 2))
	tree.AppendChild(parent, text)

	kind := mdast.FirstExtensionKind
	if err := tree.Retype(text, kind, 1, &mdast.ExtensionData{}); err != nil {
		t.Fatal(err)
	}

	node := tree.Node(text)
	if node.Kind != kind || node.Owner != 1 || node.Parent != parent {
		t.Errorf("unexpected node after retype: %+v", node)
	}

	err := tree.Retype(text, kind, 1, nil)
	if !errors.Is(err, mdast.ErrNotText) {
		t.Errorf("expected ErrNotText, got %v", err)
	}

	tree.Free(text)
	err = tree.Retype(text, kind, 1, nil)
	if !errors.Is(err, mdast.ErrFreedNode) {
		t.Errorf("expected ErrFreedNode, got %v", err)
	}
}

func TestTree_NodeLimit(t *testing.T) {
	t.Parallel()

	build := func() (err error) {
		defer mdast.RecoverLimit(&err)

		tree := mdast.NewTree(mdast.WithNodeLimit(3))
		for range 4 {
			tree.New(mdast.NodeText, mdast.SourcePosition{})
		}
		return nil
	}

	if err := build(); !errors.Is(err, mdast.ErrNodeLimit) {
		t.Errorf("expected ErrNodeLimit, got %v", err)
	}
}

func TestTree_RecoverLimitRepanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("expected foreign panic to propagate, got %v", r)
		}
	}()

	func() (err error) {
		defer mdast.RecoverLimit(&err)
		panic("boom")
	}() //nolint:errcheck // panics before returning
}

func TestTree_TextContent(t *testing.T) {
	t.Parallel()

	tree := mdast.NewTree()
	para := tree.New(mdast.NodeParagraph, mdast.SourcePosition{})
	emph := tree.New(mdast.NodeEmphasis, mdast.SourcePosition{})
	tree.AppendChild(para, tree.NewText([]byte("a "), mdast.SourcePosition{}))
	tree.AppendChild(para, emph)
	tree.AppendChild(emph, tree.NewText([]byte("b"), mdast.SourcePosition{}))
	tree.AppendChild(para, tree.New(mdast.NodeSoftBreak, mdast.SourcePosition{}))
	tree.AppendChild(para, tree.NewText([]byte("c"), mdast.SourcePosition{}))
	code := tree.New(mdast.NodeCodeSpan, mdast.SourcePosition{})
	tree.SetLiteral(code, []byte(" d"))
	tree.AppendChild(emph, code)

	if got := string(tree.TextContent(para)); got != "a b d\nc" {
		t.Errorf("TextContent() = %q", got)
	}
	if got := tree.TextContent(emph); string(got) != "b d" {
		t.Errorf("TextContent(emph) = %q", got)
	}
	if got := tree.TextContent(mdast.NilNode); got != nil {
		t.Errorf("TextContent(NilNode) = %q, want nil", got)
	}
}

func TestTree_Check(t *testing.T) {
	t.Parallel()

	t.Run("child escapes parent", func(t *testing.T) {
		t.Parallel()

		tree := mdast.NewTree()
		parent := tree.New(mdast.NodeParagraph, span(1, 1, 1, 5))
		tree.AppendChild(parent, tree.NewText([]byte("x"), span(1, 4, 1, 9)))

		if err := tree.Check(parent); !errors.Is(err, mdast.ErrMalformedTree) {
			t.Errorf("expected ErrMalformedTree, got %v", err)
		}
	})

	t.Run("siblings out of order", func(t *testing.T) {
		t.Parallel()

		tree := mdast.NewTree()
		parent := tree.New(mdast.NodeParagraph, span(1, 1, 1, 10))
		tree.AppendChild(parent, tree.NewText([]byte("b"), span(1, 5, 1, 6)))
		tree.AppendChild(parent, tree.NewText([]byte("a"), span(1, 1, 1, 2)))

		if err := tree.Check(parent); !errors.Is(err, mdast.ErrMalformedTree) {
			t.Errorf("expected ErrMalformedTree, got %v", err)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		t.Parallel()

		tree := mdast.NewTree()
		node := tree.New(mdast.NodeText, span(2, 5, 2, 1))

		if err := tree.Check(node); !errors.Is(err, mdast.ErrMalformedTree) {
			t.Errorf("expected ErrMalformedTree, got %v", err)
		}
	})

	t.Run("unpositioned nodes pass", func(t *testing.T) {
		t.Parallel()

		tree := mdast.NewTree()
		parent := tree.New(mdast.NodeParagraph, span(1, 1, 1, 10))
		tree.AppendChild(parent, tree.New(mdast.NodeSoftBreak, mdast.SourcePosition{}))

		if err := tree.Check(parent); err != nil {
			t.Error(err)
		}
	})
}
