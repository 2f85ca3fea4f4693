package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/inlinemark/internal/ui/pretty"
)

func TestNewStyles(t *testing.T) {
	t.Parallel()

	plain := pretty.NewStyles(false)
	for _, st := range []string{
		plain.Bold.Render("spoiler"),
		plain.Error.Render("spoiler"),
		plain.Literal.Render("spoiler"),
		plain.ExtKind.Render("spoiler"),
	} {
		assert.Equal(t, "spoiler", st)
	}

	// Without a terminal lipgloss may drop the escapes, so only the text
	// is certain.
	colored := pretty.NewStyles(true)
	assert.Contains(t, colored.Kind.Render("Text"), "Text")
	assert.True(t, colored.Kind.GetBold())
	assert.False(t, plain.Kind.GetBold())
}

func TestIsColorEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled("always", &buf))
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout))
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "buffers are not terminals")
	assert.False(t, pretty.IsColorEnabled("", &buf))
	assert.False(t, pretty.IsColorEnabled("sometimes", &buf))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout))
	assert.True(t, pretty.IsColorEnabled("always", os.Stdout), "always beats NO_COLOR")
}
