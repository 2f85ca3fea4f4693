package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/inlinemark/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want string
	}{
		{"interpreter line", "#!/bin/sh\necho hello", "bash"},
		{"interpreter beats signatures", "#!/bin/bash\ndef foo():\n    pass", "bash"},
		{"env interpreter", "#!/usr/bin/env python3\nprint('hello')", "python"},
		{"go package clause", "package main\n\nfunc main() {}\n", "go"},
		{"python main guard", "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()", "python"},
		{"python from-import", "from os import path\n", "python"},
		{"go block import is not python", "import (\n\t\"fmt\"\n)\n", ""},
		{"html document", "<!DOCTYPE html>\n<html><body></body></html>", "html"},
		{"json object", `{"key": "value", "n": 1}`, "json"},
		{"dockerfile", "FROM golang:1.25\nWORKDIR /app\nCOPY . .\nRUN go build", "dockerfile"},
		{"sql in lower case", "select * from users;", "sql"},
		{"rust", "fn main() {\n    println!(\"hi\");\n}", "rust"},
		{"javascript", "const x = () => 42;\nconsole.log(x());", "javascript"},
		{"yaml", "key: value\nother: 123\nlist:\n  - a\n  - b", "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := langdetect.Detect([]byte(tt.code))
			if tt.want == "" {
				assert.NotEqual(t, "python", got)
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect_Unlabelled(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"", "  \n\t", "just some text without any code patterns"} {
		got, ok := langdetect.Detect([]byte(code))
		assert.False(t, ok, "Detect(%q)", code)
		assert.Empty(t, got)
	}
}

func TestFenceTag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bash", langdetect.FenceTag("Shell"))
	assert.Equal(t, "cpp", langdetect.FenceTag("C++"))
	assert.Equal(t, "typescript", langdetect.FenceTag("TypeScript"))
}

func BenchmarkDetect(b *testing.B) {
	samples := map[string][]byte{
		"go":         []byte("package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}"),
		"classifier": []byte("int main(void) {\n  return 0;\n}\n"),
		"empty":      nil,
	}

	for name, code := range samples {
		b.Run(name, func(b *testing.B) {
			for range b.N {
				langdetect.Detect(code)
			}
		})
	}
}
