package mdast

import "cmp"

// Position is a 1-based line and byte column. The zero value means unknown.
type Position struct {
	Line   int
	Column int
}

// IsValid reports whether both coordinates are set.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Compare orders positions by line, then column.
func (p Position) Compare(q Position) int {
	return cmp.Or(cmp.Compare(p.Line, q.Line), cmp.Compare(p.Column, q.Column))
}

// SourcePosition is an inclusive range of source text, the shape cmark
// reports as data-sourcepos.
type SourcePosition struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Span joins two positions into a SourcePosition.
func Span(start, end Position) SourcePosition {
	return SourcePosition{start.Line, start.Column, end.Line, end.Column}
}

func (sp SourcePosition) Start() Position { return Position{sp.StartLine, sp.StartColumn} }

func (sp SourcePosition) End() Position { return Position{sp.EndLine, sp.EndColumn} }

// IsValid reports whether both ends are set.
func (sp SourcePosition) IsValid() bool {
	return sp.Start().IsValid() && sp.End().IsValid()
}

// Contains reports whether other lies within sp.
func (sp SourcePosition) Contains(other SourcePosition) bool {
	return sp.Start().Compare(other.Start()) <= 0 && other.End().Compare(sp.End()) <= 0
}

// Union is the smallest span covering sp and other. An invalid operand is
// ignored.
func (sp SourcePosition) Union(other SourcePosition) SourcePosition {
	switch {
	case !sp.IsValid():
		return other
	case !other.IsValid():
		return sp
	}

	start, end := sp.Start(), sp.End()
	if other.Start().Compare(start) < 0 {
		start = other.Start()
	}
	if other.End().Compare(end) > 0 {
		end = other.End()
	}
	return Span(start, end)
}
