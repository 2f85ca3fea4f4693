// Package engine wires block parsing, inline parsing and rendering into one
// configured pipeline.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/inlinemark/pkg/block"
	"github.com/yaklabco/inlinemark/pkg/config"
	"github.com/yaklabco/inlinemark/pkg/ext"
	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
	"github.com/yaklabco/inlinemark/pkg/render"
)

// Result contains the outcome of converting a single document.
type Result struct {
	// Document is the parsed tree.
	Document *mdast.Document

	// Output is the rendered document.
	Output []byte

	// Format is the backend Output was rendered with.
	Format render.Format

	// Duration covers parsing and rendering.
	Duration time.Duration
}

// Nodes returns the number of live nodes in the parsed tree.
func (r *Result) Nodes() int {
	if r.Document == nil {
		return 0
	}
	return r.Document.Tree.Live()
}

// Engine coordinates parsing and rendering.
type Engine struct {
	// Parser parses Markdown files into Documents.
	Parser Parser

	// Host holds the registered extensions.
	Host *inline.Host

	// Format is the default output backend.
	Format render.Format

	// RenderOptions configures the backends.
	RenderOptions render.Options

	// Logger receives debug diagnostics.
	Logger *log.Logger

	treeOpts []mdast.TreeOption
}

// NewEngine creates a new Engine with the given parser and host.
func NewEngine(parser Parser, host *inline.Host, format render.Format, opts render.Options) *Engine {
	return &Engine{
		Parser:        parser,
		Host:          host,
		Format:        format,
		RenderOptions: opts,
		Logger:        log.New(io.Discard),
	}
}

// FromConfig builds an engine with the configured extensions registered in
// order and a goldmark-backed block parser.
func FromConfig(cfg *config.Config, logger *log.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	host, err := ext.NewHost(cfg.Extensions, inline.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("register extensions: %w", err)
	}

	format := cfg.Format
	if format == "" {
		format = render.FormatHTML
	}

	treeOpts := []mdast.TreeOption{mdast.WithNodeLimit(cfg.NodeLimit())}
	parser := block.New(host, cfg.Options(), treeOpts...)

	e := NewEngine(parser, host, format, cfg.RenderOptions())
	e.Logger = logger
	e.treeOpts = treeOpts

	return e, nil
}

// Options returns the parser option bits.
func (e *Engine) Options() inline.Options {
	return e.RenderOptions.Flags
}

// Parse parses a whole Markdown document.
func (e *Engine) Parse(ctx context.Context, path string, content []byte) (*mdast.Document, error) {
	doc, err := e.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	e.Logger.Debug("parsed document", "path", path, "nodes", doc.Tree.Live())

	return doc, nil
}

// ParseInline parses text as the content of a single paragraph, skipping
// block structure. Leading '>' or '#' characters stay inline.
func (e *Engine) ParseInline(ctx context.Context, text string) (*mdast.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	doc := mdast.NewDocument("", []byte(text), e.treeOpts...)

	para := doc.Tree.New(mdast.NodeParagraph, doc.Node(doc.Root).Pos)
	doc.Tree.AppendChild(doc.Root, para)

	if text == "" {
		return doc, nil
	}

	var builder inline.ChunkBuilder
	builder.Add(doc.Content, 0, mdast.Position{Line: 1, Column: 1})
	builder.TrimRight()

	p := inline.NewParser(e.Host, doc.Tree, e.Options())
	if err := p.Parse(para, builder.Chunk()); err != nil {
		return nil, fmt.Errorf("parse inline: %w", err)
	}

	return doc, nil
}

// Render writes doc to w in the engine's format.
func (e *Engine) Render(w io.Writer, doc *mdast.Document) error {
	return e.RenderAs(w, doc, e.Format)
}

// RenderAs writes doc to w in the given format.
func (e *Engine) RenderAs(w io.Writer, doc *mdast.Document, format render.Format) error {
	if err := render.Render(w, doc, e.Host, format, e.RenderOptions); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return nil
}

// Convert parses content and renders it in the engine's format.
func (e *Engine) Convert(ctx context.Context, path string, content []byte) (*Result, error) {
	start := time.Now()

	doc, err := e.Parse(ctx, path, content)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := e.Render(&buf, doc); err != nil {
		return nil, err
	}

	result := &Result{
		Document: doc,
		Output:   buf.Bytes(),
		Format:   e.Format,
		Duration: time.Since(start),
	}

	e.Logger.Debug("converted document",
		"path", path,
		"format", e.Format,
		"bytes", len(result.Output),
		"duration", result.Duration)

	return result, nil
}
