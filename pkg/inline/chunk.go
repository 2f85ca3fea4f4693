package inline

import (
	"sort"

	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// Segment maps a chunk offset to the source position of that byte.
// Every byte up to the next segment lies on the same source line.
type Segment struct {
	Offset int
	Pos    mdast.Position
}

// Chunk is an immutable view over the bytes of one inline span.
// It never copies or owns the underlying buffer.
type Chunk struct {
	data   []byte
	origin int
	segs   []Segment
}

// NewChunk creates a chunk over data whose first byte sits at start in the
// source and at byte offset origin in the document. Newlines inside data start
// new source lines at column 1.
func NewChunk(data []byte, origin int, start mdast.Position) Chunk {
	if !start.IsValid() {
		start = mdast.Position{Line: 1, Column: 1}
	}

	segs := []Segment{{Offset: 0, Pos: start}}
	line := start.Line
	for i, c := range data {
		if c == '\n' && i+1 < len(data) {
			line++
			segs = append(segs, Segment{Offset: i + 1, Pos: mdast.Position{Line: line, Column: 1}})
		}
	}

	return Chunk{data: data, origin: origin, segs: segs}
}

// ChunkFromString is shorthand for a chunk at line 1, column 1.
func ChunkFromString(s string) Chunk {
	return NewChunk([]byte(s), 0, mdast.Position{Line: 1, Column: 1})
}

// ChunkBuilder joins source line segments into one chunk, keeping positions
// correct when block markers or indentation have been stripped.
type ChunkBuilder struct {
	data   []byte
	origin int
	segs   []Segment
}

// Add appends text whose first byte is at pos in the source.
func (b *ChunkBuilder) Add(text []byte, sourceOffset int, pos mdast.Position) {
	if len(b.segs) == 0 {
		b.origin = sourceOffset
	}
	b.segs = append(b.segs, Segment{Offset: len(b.data), Pos: pos})
	b.data = append(b.data, text...)
}

// TrimRight removes trailing spaces, tabs and newlines from the chunk.
func (b *ChunkBuilder) TrimRight() {
	end := len(b.data)
	for end > 0 && isTrimSpace(b.data[end-1]) {
		end--
	}
	b.data = b.data[:end]

	for len(b.segs) > 1 && b.segs[len(b.segs)-1].Offset >= end {
		b.segs = b.segs[:len(b.segs)-1]
	}
}

// Chunk returns the assembled chunk.
func (b *ChunkBuilder) Chunk() Chunk {
	if len(b.segs) == 0 {
		return Chunk{segs: []Segment{{Pos: mdast.Position{Line: 1, Column: 1}}}}
	}
	return Chunk{data: b.data, origin: b.origin, segs: b.segs}
}

func isTrimSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Len returns the chunk length in bytes.
func (c Chunk) Len() int {
	return len(c.data)
}

// At returns the byte at i, or 0 when i is out of range.
func (c Chunk) At(i int) byte {
	if i < 0 || i >= len(c.data) {
		return 0
	}
	return c.data[i]
}

// Slice returns the bytes in [i, j). The result aliases the chunk.
func (c Chunk) Slice(i, j int) []byte {
	i = max(i, 0)
	j = min(j, len(c.data))
	if i >= j {
		return nil
	}
	return c.data[i:j]
}

// Bytes returns the whole chunk.
func (c Chunk) Bytes() []byte {
	return c.data
}

// Origin returns the document offset of the chunk's first byte.
func (c Chunk) Origin() int {
	return c.origin
}

// Position returns the source line and column of the byte at offset.
// Offsets at or past the end map one column past the last byte.
func (c Chunk) Position(offset int) mdast.Position {
	if len(c.segs) == 0 {
		return mdast.Position{Line: 1, Column: offset + 1}
	}

	idx := sort.Search(len(c.segs), func(i int) bool {
		return c.segs[i].Offset > offset
	}) - 1
	idx = max(idx, 0)

	seg := c.segs[idx]
	return mdast.Position{Line: seg.Pos.Line, Column: seg.Pos.Column + offset - seg.Offset}
}

// Span returns the inclusive source span of the bytes in [start, end).
func (c Chunk) Span(start, end int) mdast.SourcePosition {
	if end <= start {
		end = start + 1
	}
	return mdast.Span(c.Position(start), c.Position(end-1))
}

// Sub returns the chunk restricted to [i, j), keeping source positions.
func (c Chunk) Sub(i, j int) Chunk {
	i = max(i, 0)
	j = min(j, len(c.data))
	if i > j {
		i = j
	}

	sub := Chunk{data: c.data[i:j], origin: c.origin + i}
	sub.segs = append(sub.segs, Segment{Offset: 0, Pos: c.Position(i)})
	for _, seg := range c.segs {
		if seg.Offset > i && seg.Offset < j {
			sub.segs = append(sub.segs, Segment{Offset: seg.Offset - i, Pos: seg.Pos})
		}
	}

	return sub
}
