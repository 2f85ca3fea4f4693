package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/inlinemark/internal/cli"
)

// runCLI executes the root command with an isolated config file.
func runCLI(t *testing.T, cfgYAML, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), ".inlinemark.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfgYAML), 0644))

	cmd := cli.NewRootCommand(testInfo)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))

	cmd.SetArgs(append([]string{args[0], "--config", cfgFile, "--color", "never"}, args[1:]...))
	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func writeMarkdown(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestIntegration_RenderFile(t *testing.T) {
	t.Parallel()

	mdFile := writeMarkdown(t, t.TempDir(), "test.md", "Hello ||secret|| and x^2\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "html default",
			want: "<p>Hello <span class=\"spoiler\">secret</span> and x<sup>2</sup></p>\n",
		},
		{
			name: "latex",
			args: []string{"--to", "latex"},
			want: `Hello \spoiler{secret} and x^{2}`,
		},
		{
			name: "commonmark round trip",
			args: []string{"--to", "commonmark"},
			want: "Hello ||secret|| and x^2\n",
		},
		{
			name: "superscript only",
			args: []string{"-e", "superscript"},
			want: "<p>Hello ||secret|| and x<sup>2</sup></p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string{"render"}, tt.args...)
			args = append(args, mdFile)

			stdout, _, err := runCLI(t, "format: html\n", "", args...)
			require.NoError(t, err)
			assert.Contains(t, stdout, tt.want)
		})
	}
}

func TestIntegration_RenderStdin(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, "spoiler_style: reddit\n", "a >!b!< ||c||\n", "render", "-")
	require.NoError(t, err)
	assert.Equal(t, "<p>a <span class=\"spoiler\">b</span> ||c||</p>\n", stdout)
}

func TestIntegration_RenderInline(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, "", "# not ^(a heading)\n", "render", "--inline", "-")
	require.NoError(t, err)
	assert.Equal(t, "<p># not <sup>a heading</sup></p>\n", stdout)
}

func TestIntegration_RenderOutDir(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "site")
	writeMarkdown(t, srcDir, "a.md", "~~gone~~\n")
	writeMarkdown(t, srcDir, "docs/b.md", "# B\n")

	_, stderr, err := runCLI(t, "", "", "render", "--out-dir", outDir, srcDir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "2 files rendered")

	// Inputs outside the working directory keep only their base name.
	got, err := os.ReadFile(filepath.Join(outDir, "a.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p><del>gone</del></p>\n", string(got))
}

func TestIntegration_InvalidFormat(t *testing.T) {
	t.Parallel()

	mdFile := writeMarkdown(t, t.TempDir(), "test.md", "x\n")

	_, _, err := runCLI(t, "", "", "render", "--to", "docx", mdFile)
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrInvalidUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCodeFromError(err))
}

func TestIntegration_InvalidConfig(t *testing.T) {
	t.Parallel()

	mdFile := writeMarkdown(t, t.TempDir(), "test.md", "x\n")

	_, _, err := runCLI(t, "extensions:\n  - emoji\n", "", "render", mdFile)
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrInvalidConfig)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCodeFromError(err))
}

func TestIntegration_Dump(t *testing.T) {
	t.Parallel()

	mdFile := writeMarkdown(t, t.TempDir(), "test.md", "# Title\n\nA ||b||\n")

	stdout, _, err := runCLI(t, "", "", "dump", mdFile)
	require.NoError(t, err)
	assert.Contains(t, stdout, "document [1:1-")
	assert.Contains(t, stdout, "heading level=1")
	assert.Contains(t, stdout, "└── spoiler")

	stdout, _, err = runCLI(t, "", "", "dump", "--no-positions", mdFile)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "[1:")
}

func TestIntegration_ExtensionsJSON(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, "extensions:\n  - strikethrough\n  - spoiler\n", "", "extensions", "--format", "json")
	require.NoError(t, err)

	var infos []struct {
		Order   int      `json:"order"`
		Name    string   `json:"name"`
		Formats []string `json:"formats"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "strikethrough", infos[0].Name)
	assert.Equal(t, "spoiler", infos[1].Name)
	assert.Equal(t, 2, infos[1].Order)
	assert.Contains(t, infos[1].Formats, "html")
}

func TestIntegration_ExtensionsTable(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, "", "", "extensions", "--all")
	require.NoError(t, err)
	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "spoiler")
	assert.Contains(t, stdout, "superscript")
	assert.Contains(t, stdout, "strikethrough")
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "custom.yml")

	_, _, err := runCLI(t, "", "", "init", "--full", "--output", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "spoiler_style: discord")

	_, _, err = runCLI(t, "", "", "init", "--output", out)
	require.Error(t, err, "existing file needs --force")

	_, _, err = runCLI(t, "", "", "init", "--force", "--output", out)
	require.NoError(t, err)
}

func TestIntegration_Config(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, "spoiler_style: reddit\nextensions: [strikethrough]\nwidth: 60\n", "", "config")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "# effective inlinemark configuration\n# sources: defaults"), stdout)
	assert.Contains(t, stdout, ".inlinemark.yml")
	assert.Contains(t, stdout, "extensions:\n  - strikethrough\n")
	assert.Contains(t, stdout, "spoiler_style: reddit\n")
	assert.Contains(t, stdout, "width: 60\n")
	assert.Contains(t, stdout, "format: html\n")

	_, _, err = runCLI(t, "", "", "config", "extra")
	require.Error(t, err)
}
