// Package langdetect guesses the language of unlabelled code blocks so
// renderers can tag them. Detection goes through go-enry: an interpreter
// line decides outright, then a short table of telltale signatures, then
// enry's classifier restricted to languages commonly fenced in Markdown.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// classifierCandidates bounds enry's Bayesian classifier. Languages outside
// this list are never guessed.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// fenceTags maps enry language names to the info strings people write.
//
//nolint:gochecknoglobals // Read-only lookup table.
var fenceTags = map[string]string{
	"Shell":      "bash",
	"C++":        "cpp",
	"Dockerfile": "dockerfile",
}

// sample is a code block prepared once for every signature.
type sample struct {
	raw     []byte
	trimmed []byte
	text    string
	upper   string
}

func newSample(code []byte) sample {
	trimmed := bytes.TrimSpace(code)
	text := string(code)
	return sample{
		raw:     code,
		trimmed: trimmed,
		text:    text,
		upper:   strings.ToUpper(strings.TrimSpace(text)),
	}
}

// signature recognises one language from unambiguous surface features.
type signature struct {
	lang  string
	match func(s sample) bool
}

// signatures are tried in order; earlier entries are more specific.
//
//nolint:gochecknoglobals // Read-only lookup table.
var signatures = []signature{
	{"go", func(s sample) bool {
		return bytes.HasPrefix(s.trimmed, []byte("package "))
	}},
	{"python", looksLikePython},
	{"html", func(s sample) bool {
		lower := bytes.ToLower(s.trimmed)
		return containsAny(lower, "<!doctype html", "<html", "<head>", "<body>")
	}},
	{"json", func(s sample) bool {
		return (bytes.HasPrefix(s.trimmed, []byte("{")) || bytes.HasPrefix(s.trimmed, []byte("["))) &&
			bytes.IndexByte(s.trimmed, '"') >= 0
	}},
	{"dockerfile", func(s sample) bool {
		return bytes.HasPrefix(s.trimmed, []byte("FROM ")) ||
			(bytes.Contains(s.raw, []byte("\nFROM ")) && bytes.Contains(s.raw, []byte("\nRUN "))) ||
			(bytes.Contains(s.raw, []byte("WORKDIR ")) && bytes.Contains(s.raw, []byte("COPY ")))
	}},
	{"sql", func(s sample) bool {
		for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(s.upper, verb) {
				return true
			}
		}
		return false
	}},
	{"rust", func(s sample) bool {
		return containsAny(s.raw, "fn main()", "println!", "let mut ")
	}},
	{"javascript", func(s sample) bool {
		return containsAny(s.raw, "=>", "const ", "let ", "console.log")
	}},
	{"yaml", looksLikeYAML},
}

// Detect guesses a fence tag for code. It reports false when nothing is
// confident enough to label the block.
func Detect(code []byte) (string, bool) {
	if len(bytes.TrimSpace(code)) == 0 {
		return "", false
	}

	if lang, safe := enry.GetLanguageByShebang(code); safe {
		return FenceTag(lang), true
	}

	s := newSample(code)
	for _, sig := range signatures {
		if sig.match(s) {
			return sig.lang, true
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(code, classifierCandidates); safe && lang != "" {
		return FenceTag(lang), true
	}

	return "", false
}

// FenceTag converts an enry language name such as "Shell" or "C++" to the
// tag written after a code fence.
func FenceTag(lang string) string {
	if tag, ok := fenceTags[lang]; ok {
		return tag
	}
	return strings.ToLower(lang)
}

func looksLikePython(s sample) bool {
	if strings.Contains(s.text, "def ") && strings.Contains(s.text, "):") {
		return true
	}
	if strings.Contains(s.text, "__name__") || strings.Contains(s.text, "__main__") {
		return true
	}
	// Go spells a block import "import (".
	if !strings.Contains(s.text, "import ") || strings.Contains(s.text, "import (") {
		return false
	}
	return strings.Contains(s.text, "from ") || bytes.HasPrefix(s.trimmed, []byte("import "))
}

// looksLikeYAML wants at least two "key: value" or "- item" lines that do
// not read as code.
func looksLikeYAML(s sample) bool {
	keys := 0
	for _, line := range bytes.Split(s.raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		switch {
		case len(line) == 0, line[0] == '#':
			continue
		case bytes.HasPrefix(line, []byte("- ")):
			keys++
		case bytes.Contains(line, []byte(": ")) &&
			bytes.IndexAny(line, "({") < 0 && line[0] != '"':
			keys++
		}
	}
	return keys >= 2
}

func containsAny(b []byte, needles ...string) bool {
	for _, needle := range needles {
		if bytes.Contains(b, []byte(needle)) {
			return true
		}
	}
	return false
}
