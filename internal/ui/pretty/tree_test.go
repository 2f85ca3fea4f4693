package pretty_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/inlinemark/internal/ui/pretty"
	"github.com/yaklabco/inlinemark/pkg/config"
	"github.com/yaklabco/inlinemark/pkg/engine"
)

func TestFormatTree(t *testing.T) {
	t.Parallel()

	eng, err := engine.FromConfig(config.NewConfig(), nil)
	require.NoError(t, err)

	doc, err := eng.Parse(context.Background(), "t.md", []byte("# Hi\n\nA ||b||\n"))
	require.NoError(t, err)

	styles := pretty.NewStyles(false)

	out := styles.FormatTree(doc, eng.Host, pretty.TreeOptions{})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	require.NotEmpty(t, lines)
	assert.Equal(t, "document", lines[0])
	assert.Equal(t, "├── heading level=1", lines[1])
	assert.Equal(t, `│   └── text "Hi"`, lines[2])
	assert.Equal(t, "└── paragraph", lines[3])
	assert.Contains(t, out, "    └── spoiler\n")
	assert.Contains(t, out, `        └── text "b"`)
	assert.NotContains(t, out, "[1:")

	withPos := styles.FormatTree(doc, eng.Host, pretty.TreeOptions{Positions: true})
	assert.Contains(t, withPos, "document [1:1-")
}

func TestFormatTree_UnknownExtension(t *testing.T) {
	t.Parallel()

	eng, err := engine.FromConfig(config.NewConfig(), nil)
	require.NoError(t, err)

	doc, err := eng.Parse(context.Background(), "t.md", []byte("x^abc\n"))
	require.NoError(t, err)

	out := pretty.NewStyles(false).FormatTree(doc, nil, pretty.TreeOptions{})
	assert.Contains(t, out, "<unknown>")
	assert.NotContains(t, out, "superscript")
}
