package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

const maxLiteralWidth = 40

// TreeOptions controls FormatTree output.
type TreeOptions struct {
	// Positions appends each node's source span.
	Positions bool
}

// FormatTree renders the subtree under root as an indented outline.
// Extension node names come from host; nil treats every extension kind as
// unknown.
func (s *Styles) FormatTree(doc *mdast.Document, host *inline.Host, opts TreeOptions) string {
	var builder strings.Builder
	s.writeNode(&builder, doc.Tree, host, doc.Root, "", "", opts)
	return builder.String()
}

func (s *Styles) writeNode(
	builder *strings.Builder,
	tree *mdast.Tree,
	host *inline.Host,
	id mdast.NodeID,
	prefix, childPrefix string,
	opts TreeOptions,
) {
	node := tree.Node(id)
	if node == nil {
		return
	}

	builder.WriteString(s.Guide.Render(prefix))
	builder.WriteString(s.nodeLabel(node, host))
	if attrs := nodeAttrs(node); attrs != "" {
		builder.WriteString(" ")
		builder.WriteString(s.Attribute.Render(attrs))
	}
	if lit := node.Literal(); lit != nil {
		builder.WriteString(" ")
		builder.WriteString(s.Literal.Render(strconv.Quote(truncateString(string(lit), maxLiteralWidth))))
	}
	if opts.Positions && node.Pos.IsValid() {
		builder.WriteString(" ")
		builder.WriteString(s.Position.Render(formatSpan(node.Pos)))
	}
	builder.WriteString("\n")

	children := tree.Children(id)
	for i, child := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}
		s.writeNode(builder, tree, host, child, childPrefix+branch, childPrefix+next, opts)
	}
}

func (s *Styles) nodeLabel(node *mdast.Node, host *inline.Host) string {
	if node.Kind.IsBase() {
		return s.Kind.Render(node.Kind.TypeName())
	}
	name := "<unknown>"
	if host != nil {
		name = host.TypeName(node)
	}
	return s.ExtKind.Render(name)
}

func nodeAttrs(node *mdast.Node) string {
	switch p := node.Payload.(type) {
	case *mdast.HeadingAttrs:
		if p.Setext {
			return fmt.Sprintf("level=%d setext", p.Level)
		}
		return fmt.Sprintf("level=%d", p.Level)
	case *mdast.ListAttrs:
		if p.Ordered {
			return fmt.Sprintf("ordered start=%d delim=%q tight=%t", p.Start, p.Delimiter, p.Tight)
		}
		return fmt.Sprintf("bullet=%q tight=%t", p.BulletMarker, p.Tight)
	case *mdast.CodeBlockAttrs:
		if lang := p.Language(); lang != "" {
			return "info=" + strconv.Quote(lang)
		}
		if p.Fenced {
			return "fenced"
		}
	case *mdast.Delimited:
		return fmt.Sprintf("marker=%q", p.Marker)
	case *mdast.ExtensionData:
		if len(p.Content) > 0 {
			return "content=" + strconv.Quote(truncateString(string(p.Content), maxLiteralWidth))
		}
	}
	return ""
}

func formatSpan(sp mdast.SourcePosition) string {
	return fmt.Sprintf("[%d:%d-%d:%d]", sp.StartLine, sp.StartColumn, sp.EndLine, sp.EndColumn)
}
