package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/inlinemark/internal/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"DEBUG":   log.DebugLevel,
		"Info":    log.InfoLevel,
		"warn":    log.WarnLevel,
		"warning": log.WarnLevel,
		" error ": log.ErrorLevel,
		"":        log.InfoLevel,
		"verbose": log.InfoLevel,
	}

	for input, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(input), "ParseLevel(%q)", input)
		assert.Equal(t, want, logging.New(input).GetLevel(), "New(%q)", input)
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info")
	logger.Debug("hidden")
	logger.Info("rendered", logging.FieldPath, "doc.md", logging.FieldNodes, 12)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "rendered")
	assert.Contains(t, out, "path=doc.md")
	assert.Contains(t, out, "nodes=12")
}

func TestNewInteractive(t *testing.T) {
	t.Parallel()

	logger := logging.NewInteractive()
	require.NotNil(t, logger)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
	assert.Equal(t, "inlinemark", logger.GetPrefix())
}

// Default is process-wide state, so these subtests run serially.
func TestDefault(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	require.Same(t, original, logging.Default(), "Default is stable")

	replacement := logging.New("error")
	logging.SetDefault(replacement)
	assert.Same(t, replacement, logging.Default())

	logging.SetLevel("debug")
	assert.Equal(t, log.DebugLevel, replacement.GetLevel())

	assert.Same(t, replacement, logging.FromContext(context.Background()))
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info")

	ctx := logging.WithLogger(context.Background(), logger)
	assert.Same(t, logger, logging.FromContext(ctx))

	//nolint:staticcheck // nil context is part of the contract
	assert.Same(t, logger, logging.FromContext(logging.WithLogger(nil, logger)))
	assert.NotNil(t, logging.FromContext(logging.WithLogger(context.Background(), nil)))
}
