package inline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/inlinemark/pkg/inline"
	"github.com/yaklabco/inlinemark/pkg/mdast"
)

func pos(line, col int) mdast.Position {
	return mdast.Position{Line: line, Column: col}
}

func TestChunk_Position(t *testing.T) {
	t.Parallel()

	c := inline.ChunkFromString("ab\ncd")

	assert.Equal(t, 5, c.Len())
	assert.Equal(t, pos(1, 1), c.Position(0))
	assert.Equal(t, pos(1, 3), c.Position(2))
	assert.Equal(t, pos(2, 1), c.Position(3))
	assert.Equal(t, pos(2, 3), c.Position(5), "past the end maps one column past the last byte")

	assert.Equal(t, mdast.Span(pos(1, 2), pos(2, 1)), c.Span(1, 4))
	assert.Equal(t, mdast.Span(pos(1, 1), pos(1, 1)), c.Span(0, 0), "empty span covers one byte")
}

func TestChunk_NewChunkOffset(t *testing.T) {
	t.Parallel()

	c := inline.NewChunk([]byte("x\ny"), 40, pos(7, 5))

	assert.Equal(t, 40, c.Origin())
	assert.Equal(t, pos(7, 5), c.Position(0))
	assert.Equal(t, pos(8, 1), c.Position(2))

	invalid := inline.NewChunk([]byte("x"), 0, mdast.Position{})
	assert.Equal(t, pos(1, 1), invalid.Position(0))
}

func TestChunk_Accessors(t *testing.T) {
	t.Parallel()

	c := inline.ChunkFromString("hello")

	assert.Equal(t, byte('h'), c.At(0))
	assert.Equal(t, byte(0), c.At(-1))
	assert.Equal(t, byte(0), c.At(5))

	assert.Equal(t, []byte("ell"), c.Slice(1, 4))
	assert.Equal(t, []byte("hello"), c.Slice(-3, 99))
	assert.Nil(t, c.Slice(3, 3))
	assert.Equal(t, []byte("hello"), c.Bytes())
}

func TestChunk_Sub(t *testing.T) {
	t.Parallel()

	c := inline.NewChunk([]byte("ab\ncd\nef"), 100, pos(3, 4))
	sub := c.Sub(1, 7)

	assert.Equal(t, []byte("b\ncd\ne"), sub.Bytes())
	assert.Equal(t, 101, sub.Origin())
	assert.Equal(t, pos(3, 5), sub.Position(0))
	assert.Equal(t, pos(4, 1), sub.Position(2))
	assert.Equal(t, pos(5, 1), sub.Position(5))

	empty := c.Sub(6, 2)
	assert.Equal(t, 0, empty.Len())
}

func TestChunkBuilder(t *testing.T) {
	t.Parallel()

	// Two lines of a block quote with "> " stripped from each.
	var b inline.ChunkBuilder
	b.Add([]byte("foo\n"), 12, pos(2, 3))
	b.Add([]byte("bar"), 18, pos(3, 3))
	c := b.Chunk()

	assert.Equal(t, []byte("foo\nbar"), c.Bytes())
	assert.Equal(t, 12, c.Origin())
	assert.Equal(t, pos(2, 3), c.Position(0))
	assert.Equal(t, pos(2, 6), c.Position(3))
	assert.Equal(t, pos(3, 3), c.Position(4))
	assert.Equal(t, pos(3, 5), c.Position(6))
}

func TestChunkBuilder_TrimRight(t *testing.T) {
	t.Parallel()

	var b inline.ChunkBuilder
	b.Add([]byte("foo  \n"), 0, pos(1, 1))
	b.Add([]byte(" \t\n"), 6, pos(2, 1))
	b.TrimRight()
	c := b.Chunk()

	assert.Equal(t, []byte("foo"), c.Bytes())
	assert.Equal(t, pos(1, 3), c.Position(2))
	assert.Equal(t, pos(1, 4), c.Position(3))
}

func TestChunkBuilder_Empty(t *testing.T) {
	t.Parallel()

	var b inline.ChunkBuilder
	c := b.Chunk()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, pos(1, 1), c.Position(0))
}
