// Package block parses block structure with goldmark and hands the text of
// every paragraph and heading to the inline parser.
package block

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// Parser builds documents. It is safe for concurrent use when its Host is
// frozen; every Parse gets its own tree and inline parser.
type Parser struct {
	host     *inline.Host
	opts     inline.Options
	treeOpts []mdast.TreeOption
	gm       parser.Parser
}

// New creates a block parser that runs inline parsing with host and opts.
func New(host *inline.Host, opts inline.Options, treeOpts ...mdast.TreeOption) *Parser {
	host.Freeze()
	return &Parser{
		host:     host,
		opts:     opts,
		treeOpts: treeOpts,
		gm:       newGoldmarkParser(),
	}
}

// Host returns the extension host used for inline parsing.
func (p *Parser) Host() *inline.Host {
	return p.host
}

// Options returns the inline option bits.
func (p *Parser) Options() inline.Options {
	return p.opts
}

// Parse builds the document for content. goldmark finds the blocks, then
// the mapper copies them into the tree and inline-parses each paragraph
// and heading. The content is copied, so callers may reuse their buffer.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*mdast.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	doc := mdast.NewDocument(path, bytes.Clone(content), p.treeOpts...)
	blocks := p.gm.Parse(text.NewReader(doc.Content), parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	m := newMapper(doc, inline.NewParser(p.host, doc.Tree, p.opts))
	if err := m.mapDocument(blocks); err != nil {
		if path == "" {
			path = "<stdin>"
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// newGoldmarkParser registers block parsers only. Inline syntax belongs to
// the inline package and paragraph transformers are left out, so every
// paragraph keeps its raw lines.
//
//nolint:ireturn // goldmark parser.Parser is an external interface type
func newGoldmarkParser() parser.Parser {
	return parser.NewParser(parser.WithBlockParsers(parser.DefaultBlockParsers()...))
}
