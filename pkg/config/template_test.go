package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/inlinemark/pkg/config"
)

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts config.TemplateOptions
	}{
		{name: "minimal", opts: config.TemplateOptions{}},
		{name: "full", opts: config.TemplateOptions{Full: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := config.GenerateTemplate(tt.opts)
			require.NoError(t, err)
			assert.Contains(t, string(data), "# inlinemark configuration")

			// Generated templates must load cleanly.
			cfg, err := config.FromYAML(data)
			require.NoError(t, err)
			assert.Equal(t, config.NewConfig().Extensions, cfg.Extensions)
			assert.Equal(t, config.SpoilerDiscord, cfg.SpoilerStyle)
		})
	}
}

func TestGenerateTemplate_Full(t *testing.T) {
	t.Parallel()

	data, err := config.GenerateTemplate(config.TemplateOptions{Full: true})
	require.NoError(t, err)

	cfg, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMaxNodes, cfg.MaxNodes)
	assert.Contains(t, cfg.Ignore, "vendor/**")
	assert.Contains(t, string(data), "# Raised text after ^")
}

func TestGenerateTemplate_JSON(t *testing.T) {
	t.Parallel()

	data, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "discord", doc["spoiler_style"])
	assert.Equal(t, "html", doc["format"])
	assert.Len(t, doc["extensions"], 3)
}
