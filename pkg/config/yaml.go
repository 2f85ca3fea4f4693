package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlIndent matches the indentation of generated templates.
const yamlIndent = 2

// ToYAML encodes the persisted fields of c. A non-empty header is written
// first as a block of comment lines.
func (c *Config) ToYAML(header string) ([]byte, error) {
	var buf bytes.Buffer
	for line := range strings.Lines(header) {
		buf.WriteString("# " + strings.TrimRight(line, "\n") + "\n")
	}
	if buf.Len() > 0 {
		buf.WriteByte('\n')
	}

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML decodes a configuration file. Unknown keys are an error and an
// empty document yields a zero Config.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return &cfg, nil
}

// Clone returns a copy of c that shares no slices with it.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Extensions = slices.Clone(c.Extensions)
	out.Ignore = slices.Clone(c.Ignore)
	return &out
}
