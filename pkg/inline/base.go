package inline

import (
	"bytes"

	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// handleText emits literal text up to the next special byte. Trailing spaces
// before a newline are dropped; the newline handler decides on a hard break.
func (p *Parser) handleText() {
	start := p.pos
	end := start + 1
	for end < p.chunk.Len() && !p.isSpecial(p.chunk.At(end)) {
		end++
	}
	p.pos = end

	textEnd := end
	if p.chunk.At(end) == '\n' {
		for textEnd > start && (p.chunk.At(textEnd-1) == ' ' || p.chunk.At(textEnd-1) == '\t') {
			textEnd--
		}
	}

	if textEnd > start {
		p.appendText(start, textEnd)
	}
}

func (p *Parser) handleNewline() {
	nl := p.pos
	p.pos++

	spaces := nl
	for spaces > 0 && p.chunk.At(spaces-1) == ' ' {
		spaces--
	}

	kind, start := mdast.NodeSoftBreak, nl
	if nl-spaces >= 2 {
		kind, start = mdast.NodeHardBreak, spaces
	}

	p.skipSpaces()

	p.tree.AppendChild(p.parent, p.tree.New(kind, p.chunk.Span(start, nl+1)))
}

func (p *Parser) skipSpaces() {
	for p.chunk.At(p.pos) == ' ' || p.chunk.At(p.pos) == '\t' {
		p.pos++
	}
}

// handleBackslash handles escapes and backslash hard breaks.
func (p *Parser) handleBackslash() {
	start := p.pos
	p.pos++

	next := p.chunk.At(p.pos)
	switch {
	case p.pos < p.chunk.Len() && IsPunct(next):
		p.pos++
		text := p.tree.NewText(p.chunk.Slice(start+1, p.pos), p.chunk.Span(start, p.pos))
		p.tree.AppendChild(p.parent, text)
	case next == '\n':
		p.pos++
		p.skipSpaces()
		p.tree.AppendChild(p.parent, p.tree.New(mdast.NodeHardBreak, p.chunk.Span(start, start+2)))
	default:
		p.appendText(start, start+1)
	}
}

// handleBackticks parses a code span, or emits the backtick run as text when
// no closing run of the same length follows.
func (p *Parser) handleBackticks() {
	start := p.pos
	for p.chunk.At(p.pos) == '`' {
		p.pos++
	}
	n := p.pos - start

	closeStart, ok := p.scanToClosingBackticks(n)
	if !ok {
		p.pos = start + n
		p.appendText(start, start+n)
		return
	}

	content := bytes.ReplaceAll(p.chunk.Slice(start+n, closeStart), []byte{'\n'}, []byte{' '})
	if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' &&
		len(bytes.TrimLeft(content, " ")) > 0 {
		content = content[1 : len(content)-1]
	}

	p.pos = closeStart + n

	node := p.tree.New(mdast.NodeCodeSpan, p.chunk.Span(start, p.pos))
	p.tree.SetLiteral(node, content)
	p.tree.AppendChild(p.parent, node)
}

// scanToClosingBackticks looks for a backtick run of exactly n after the
// cursor. Run positions seen during a failed scan are remembered, so a chunk
// full of unmatched openers stays linear.
func (p *Parser) scanToClosingBackticks(n int) (int, bool) {
	if n > maxBackticks {
		return 0, false
	}
	if p.scannedBackticks && p.backticks[n] < p.pos {
		return 0, false
	}

	for i := p.pos; i < p.chunk.Len(); {
		if p.chunk.At(i) != '`' {
			i++
			continue
		}

		runStart := i
		for p.chunk.At(i) == '`' {
			i++
		}
		length := i - runStart

		if length <= maxBackticks {
			p.backticks[length] = runStart
		}
		if length == n {
			return runStart, true
		}
	}

	p.scannedBackticks = true

	return 0, false
}

// handleEmphasis pushes a base emphasis delimiter for a run of '*' or '_'.
func (p *Parser) handleEmphasis(c byte) {
	start := p.pos
	run := ScanRun(p.chunk, start, 0, c)
	p.pos += run.Count

	var canOpen, canClose bool
	if c == '_' {
		canOpen = run.LeftFlanking && (!run.RightFlanking || run.PunctBefore)
		canClose = run.RightFlanking && (!run.LeftFlanking || run.PunctAfter)
	} else {
		canOpen = run.LeftFlanking
		canClose = run.RightFlanking
	}

	node := p.appendText(start, p.pos)

	if canOpen || canClose {
		p.delims.Push(Delimiter{
			Char:     c,
			CanOpen:  canOpen,
			CanClose: canClose,
			Node:     node,
			Length:   run.Count,
			Offset:   start,
		})
	}
}
