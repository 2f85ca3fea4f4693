package cli

import (
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/inlinemark/internal/ui/pretty"
)

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable }}
  {{ command .UseLine }}{{ end }}
{{- if .HasAvailableSubCommands }}
  {{ command .CommandPath }} [command]{{ end }}
{{- if .HasExample }}

{{ heading "Examples:" }}
{{ dim .Example }}{{ end }}
{{- if .HasAvailableSubCommands }}

{{ heading "Commands:" }}
{{- range .Commands }}{{ if or .IsAvailableCommand (eq .Name "help") }}
  {{ subcommand (pad .Name .NamePadding) }} {{ .Short }}{{ end }}{{ end }}{{ end }}
{{- if .HasAvailableLocalFlags }}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}{{ end }}
{{- if .HasAvailableInheritedFlags }}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}{{ end }}
{{- if .HasAvailableSubCommands }}

Use "{{ command (print .CommandPath " [command] --help") }}" for more about a command.{{ end }}
`

const helpTemplate = `{{ with or .Long .Short }}{{ trim . }}

{{ end }}` + usageTemplate

// helpTheme maps template functions onto pretty styles.
type helpTheme struct {
	command, heading, subcommand, flag, dim lipgloss.Style
}

func newHelpTheme(color bool) helpTheme {
	s := pretty.NewStyles(color)
	return helpTheme{
		command:    s.Kind,
		heading:    s.Warning,
		subcommand: s.ExtKind,
		flag:       s.Attribute,
		dim:        s.Dim,
	}
}

// applyHelp installs styled help and usage on root and, through
// inheritance, every subcommand. Color follows --color at print time.
func applyHelp(root *cobra.Command) {
	render := func(name, text string, cmd *cobra.Command) error {
		out := cmd.OutOrStdout()
		mode, _ := cmd.Flags().GetString("color")
		theme := newHelpTheme(pretty.IsColorEnabled(mode, out))
		return theme.execute(out, name, text, cmd)
	}

	root.SetUsageFunc(func(cmd *cobra.Command) error {
		return render("usage", usageTemplate, cmd)
	})
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if err := render("help", helpTemplate, cmd); err != nil {
			cmd.PrintErrln(err)
		}
	})
}

func (h helpTheme) execute(w io.Writer, name, text string, cmd *cobra.Command) error {
	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"command":    h.command.Render,
		"heading":    h.heading.Render,
		"subcommand": h.subcommand.Render,
		"dim":        h.dim.Render,
		"flags":      h.flags,
		"pad":        pad,
		"trim":       trimLines,
	}).Parse(text)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, cmd)
}

// flags styles pflag's aligned usage block. Lines not starting with a flag
// are wrapped description text and pass through.
func (h helpTheme) flags(set *pflag.FlagSet) string {
	var b strings.Builder
	for line := range strings.Lines(strings.TrimSuffix(set.FlagUsages(), "\n")) {
		line = strings.TrimSuffix(line, "\n")
		body := strings.TrimLeft(line, " ")
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if !strings.HasPrefix(body, "-") {
			b.WriteString(line)
			continue
		}

		b.WriteString(line[:len(line)-len(body)])
		names, desc, _ := strings.Cut(body, "  ")
		for i, tok := range strings.Fields(names) {
			if i > 0 {
				b.WriteByte(' ')
			}
			name, comma := strings.CutSuffix(tok, ",")
			switch {
			case strings.HasPrefix(name, "-"):
				b.WriteString(h.flag.Render(name))
			default:
				b.WriteString(h.dim.Render(name))
			}
			if comma {
				b.WriteByte(',')
			}
		}
		if desc != "" {
			b.WriteString("  " + desc)
		}
	}
	return b.String()
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(width-len(s), 0))
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
