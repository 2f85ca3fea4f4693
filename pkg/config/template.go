package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/yaklabco/inlinemark/pkg/ext"
	"github.com/yaklabco/inlinemark/pkg/render"
)

const (
	templateHeader = "# inlinemark configuration\n# See: https://github.com/yaklabco/inlinemark\n"
	commentWidth   = 70
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every setting and extension.
	Full bool

	// Format is "yaml" (the default) or "json".
	Format string
}

// setting is one documented top-level key of a generated template.
type setting struct {
	key     string
	comment string
	value   any
	// minimal settings appear in every template; the rest only in full ones.
	minimal bool
}

// templateIgnore seeds the ignore list of full and JSON templates.
func templateIgnore() []string {
	return []string{"vendor/**", "node_modules/**", ".git/**"}
}

func settings() []setting {
	formats := make([]string, 0, len(render.Formats()))
	for _, f := range render.Formats() {
		formats = append(formats, f.String())
	}

	return []setting{
		{"spoiler_style", "Spoiler syntax: discord (||x||) or reddit (>!x!<)", SpoilerDiscord, true},
		{"format", "Output format: " + strings.Join(formats, ", "), render.FormatHTML, true},
		{"width", "Wrap commonmark and plaintext output at this width (0 = no wrapping)", 0, true},
		{"sourcepos", "Emit source positions in xml and html output", false, false},
		{"hard_breaks", "Render soft breaks as hard breaks", false, false},
		{"no_breaks", "Render soft breaks as spaces", false, false},
		{"unsafe", "Pass raw HTML through instead of omitting it", false, false},
		{"detect_code_language", "Guess a language for code blocks without an info string", false, false},
		{"max_nodes", "Maximum number of nodes per document", DefaultMaxNodes, false},
		{"ignore", "File patterns to skip when rendering directories", templateIgnore(), false},
	}
}

// GenerateTemplate renders a starter configuration file. Every template
// loads back to the defaults.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return jsonTemplate()
	}

	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	if opts.Full {
		buf.WriteString("#\n# Every setting is listed with its default value.\n")
	}

	comment(&buf, "", "Extensions to register, in order. Earlier extensions see a trigger first.")
	buf.WriteString("extensions:\n")
	for _, name := range ext.Builtins() {
		if opts.Full {
			comment(&buf, "  ", ext.Describe(name))
		}
		fmt.Fprintf(&buf, "  - %s\n", name)
	}

	for _, s := range settings() {
		if !s.minimal && !opts.Full {
			continue
		}
		comment(&buf, "", s.comment)
		if list, ok := s.value.([]string); ok {
			fmt.Fprintf(&buf, "%s:\n", s.key)
			for _, item := range list {
				fmt.Fprintf(&buf, "  - %q\n", item)
			}
			continue
		}
		fmt.Fprintf(&buf, "%s: %v\n", s.key, s.value)
	}

	return buf.Bytes(), nil
}

// comment writes text as a blank line then wrapped comment lines.
func comment(buf *bytes.Buffer, indent, text string) {
	buf.WriteByte('\n')
	for line := range strings.Lines(wordwrap.String(text, commentWidth)) {
		buf.WriteString(indent + "# " + strings.TrimRight(line, " \n") + "\n")
	}
}

func jsonTemplate() ([]byte, error) {
	doc := map[string]any{"extensions": ext.Builtins()}
	for _, s := range settings() {
		doc[s.key] = s.value
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}
