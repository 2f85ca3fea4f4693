package inline_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/inlinemark/pkg/ext"
	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// stubExt is a configurable extension for exercising the host and the scanner.
type stubExt struct {
	name     string
	triggers []byte
	compat   bool
	match    func(p *inline.Parser, self inline.Handle) mdast.NodeID
}

func (e *stubExt) Name() string { return e.name }

func (e *stubExt) TypeName(self inline.Handle, n *mdast.Node) string {
	if n != nil && n.Kind == self.Kind {
		return e.name
	}
	return "<unknown>"
}

func (e *stubExt) CanContain(self inline.Handle, n *mdast.Node, child mdast.NodeKind) bool {
	return n != nil && n.Kind == self.Kind && child.IsInline()
}

func (e *stubExt) TriggerChars() []byte { return e.triggers }

func (e *stubExt) EmphasisCompatible() bool { return e.compat }

func (e *stubExt) MatchInline(p *inline.Parser, self inline.Handle, _ mdast.NodeID, _ byte) mdast.NodeID {
	if e.match == nil {
		return mdast.NilNode
	}
	return e.match(p, self)
}

// bare registers without implementing InlineMatcher.
type bare struct{ name string }

func (e *bare) Name() string { return e.name }

func (*bare) TypeName(inline.Handle, *mdast.Node) string { return "<unknown>" }

func (*bare) CanContain(inline.Handle, *mdast.Node, mdast.NodeKind) bool { return false }

// consumeOne returns a matcher producing an empty node of the caller's kind
// over the trigger byte.
func consumeOne(p *inline.Parser, self inline.Handle) mdast.NodeID {
	start := p.Offset()
	p.Advance(1)
	return extensionNode(p, self, start, p.Offset())
}

func extensionNode(p *inline.Parser, self inline.Handle, start, end int) mdast.NodeID {
	tree := p.Tree()
	node := tree.New(self.Kind, p.Chunk().Span(start, end))
	tree.Node(node).Owner = self.Ref
	return node
}

func builtinHost(t testing.TB, names ...string) *inline.Host {
	t.Helper()

	host, err := ext.NewHost(names)
	require.NoError(t, err)
	return host
}

// parse runs the inline parser over src under a fresh paragraph and returns
// the paragraph's children as s-expressions.
func parse(t testing.TB, host *inline.Host, opts inline.Options, src string) string {
	t.Helper()

	got, err := dump(host, opts, src)
	require.NoError(t, err)
	return got
}

func dump(host *inline.Host, opts inline.Options, src string) (string, error) {
	tree := mdast.NewTree()
	para := tree.New(mdast.NodeParagraph, mdast.SourcePosition{})

	p := inline.NewParser(host, tree, opts)
	if err := p.Parse(para, inline.ChunkFromString(src)); err != nil {
		return "", err
	}
	if err := tree.Check(para); err != nil {
		return "", err
	}

	var parts []string
	for _, child := range tree.Children(para) {
		parts = append(parts, sexp(host, tree, child))
	}
	return strings.Join(parts, " "), nil
}

func sexp(host *inline.Host, tree *mdast.Tree, id mdast.NodeID) string {
	n := tree.Node(id)

	switch n.Kind {
	case mdast.NodeText:
		return strconv.Quote(string(n.Literal()))
	case mdast.NodeCodeSpan:
		return "(code " + strconv.Quote(string(n.Literal())) + ")"
	}

	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(host.TypeName(n))
	for child := n.FirstChild; child != mdast.NilNode; child = tree.Node(child).Next {
		sb.WriteString(" ")
		sb.WriteString(sexp(host, tree, child))
	}
	sb.WriteString(")")
	return sb.String()
}
