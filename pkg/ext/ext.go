// Package ext is the catalog of built-in extensions. Registration is always
// explicit: callers choose which extensions a Host gets and in which order.
package ext

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yaklabco/inlinemark/pkg/ext/spoiler"
	"github.com/yaklabco/inlinemark/pkg/ext/strikethrough"
	"github.com/yaklabco/inlinemark/pkg/ext/superscript"
	"github.com/yaklabco/inlinemark/pkg/inline"
)

// ErrUnknownExtension is returned for names not in the catalog.
var ErrUnknownExtension = errors.New("unknown extension")

// Builtins returns the catalog names in their default registration order.
func Builtins() []string {
	return []string{spoiler.Name, superscript.Name, strikethrough.Name}
}

// IsBuiltin reports whether name is in the catalog.
func IsBuiltin(name string) bool {
	return slices.Contains(Builtins(), name)
}

// Describe returns a one-line summary of the named extension.
func Describe(name string) string {
	switch name {
	case spoiler.Name:
		return "Hidden text between || pairs, or >! and !< in reddit style"
	case superscript.Name:
		return "Raised text after ^, either one word or a parenthesised span"
	case strikethrough.Name:
		return "Struck text between one or two tildes"
	default:
		return ""
	}
}

// New returns a fresh instance of the named extension.
func New(name string) (inline.Extension, error) {
	switch name {
	case spoiler.Name:
		return spoiler.New(), nil
	case superscript.Name:
		return superscript.New(), nil
	case strikethrough.Name:
		return strikethrough.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, name)
	}
}

// Register adds the named extensions to host in the order given.
// With no names, every builtin is registered. Repeated names after the
// first are skipped.
func Register(host *inline.Host, names ...string) error {
	if len(names) == 0 {
		names = Builtins()
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		extension, err := New(name)
		if err != nil {
			return err
		}
		if _, err := host.Register(extension); err != nil {
			return err
		}
	}

	return nil
}

// NewHost creates a host with the named extensions registered.
func NewHost(names []string, opts ...inline.HostOption) (*inline.Host, error) {
	host := inline.NewHost(opts...)
	if err := Register(host, names...); err != nil {
		return nil, err
	}
	return host, nil
}
