package inline

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/inlinemark/pkg/mdast"
)

var (
	// ErrHostFrozen is returned when registering after the first parser was created.
	ErrHostFrozen = errors.New("extension host is frozen")

	// ErrDuplicateExtension is returned when two extensions share a name.
	ErrDuplicateExtension = errors.New("duplicate extension")

	// ErrKindSpaceExhausted is returned when no node kinds are left to allocate.
	ErrKindSpaceExhausted = errors.New("node kind space exhausted")
)

// Handle identifies a registered extension inside one Host.
// It is passed back to every callback so one extension value can be
// registered with several hosts.
type Handle struct {
	Ref  mdast.ExtensionRef
	Kind mdast.NodeKind
	Name string
}

// Extension is the capability every extension provides.
type Extension interface {
	// Name is the unique extension identity.
	Name() string

	// TypeName returns a stable debug name for n, or "<unknown>" when the
	// extension does not own n.
	TypeName(self Handle, n *mdast.Node) string

	// CanContain reports whether n, owned by this extension, may hold a
	// child of the given kind.
	CanContain(self Handle, n *mdast.Node, child mdast.NodeKind) bool
}

// InlineMatcher is implemented by extensions that introduce inline syntax.
type InlineMatcher interface {
	// TriggerChars lists the bytes that route into MatchInline.
	TriggerChars() []byte

	// EmphasisCompatible reports whether the extension's delimiters resolve
	// interleaved with base emphasis.
	EmphasisCompatible() bool

	// MatchInline is called with the parser positioned on c. It returns
	// mdast.NilNode to decline, leaving the offset unchanged, or a detached
	// node after advancing the offset by at least one byte.
	MatchInline(p *Parser, self Handle, parent mdast.NodeID, c byte) mdast.NodeID
}

// DelimiterInserter is implemented by extensions with paired delimiters.
type DelimiterInserter interface {
	// InsertFromDelimiters turns a matched opener and closer into a node and
	// returns the delimiter from which resolution resumes.
	InsertFromDelimiters(p *Parser, self Handle, opener, closer DelimID) DelimID
}

// Registration describes an extension registered with a Host.
type Registration struct {
	Handle             Handle
	Extension          Extension
	Triggers           []byte
	EmphasisCompatible bool

	matcher  InlineMatcher
	inserter DelimiterInserter
}

// Host is the extension registry. It is populated once, frozen by the first
// call to NewParser, and read-only afterwards, so any number of parses may
// share it concurrently.
type Host struct {
	mu       sync.Mutex
	frozen   atomic.Bool
	logger   *log.Logger
	nextKind mdast.NodeKind
	maxKind  mdast.NodeKind

	records  []*Registration
	byName   map[string]*Registration
	triggers [256][]*Registration
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger attaches a logger for registration diagnostics.
func WithLogger(logger *log.Logger) HostOption {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithKindLimit restricts the host to n extension kinds.
func WithKindLimit(n int) HostOption {
	return func(h *Host) {
		limit := int(mdast.FirstExtensionKind) + n - 1
		if limit < int(mdast.MaxExtensionKind) {
			h.maxKind = mdast.NodeKind(max(limit, int(mdast.FirstExtensionKind)-1))
		}
	}
}

// NewHost creates an empty, unfrozen host.
func NewHost(opts ...HostOption) *Host {
	h := &Host{
		logger:   log.New(io.Discard),
		nextKind: mdast.FirstExtensionKind,
		maxKind:  mdast.MaxExtensionKind,
		byName:   make(map[string]*Registration),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds ext to the host, allocating a fresh node kind for it.
// Extensions sharing a trigger character are tried in registration order.
func (h *Host) Register(ext Extension) (Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := ext.Name()

	if h.frozen.Load() {
		return Handle{}, fmt.Errorf("register %q: %w", name, ErrHostFrozen)
	}
	if _, exists := h.byName[name]; exists {
		return Handle{}, fmt.Errorf("register %q: %w", name, ErrDuplicateExtension)
	}
	if h.nextKind > h.maxKind {
		return Handle{}, fmt.Errorf("register %q: %w", name, ErrKindSpaceExhausted)
	}

	reg := &Registration{
		Handle: Handle{
			Ref:  mdast.ExtensionRef(len(h.records) + 1),
			Kind: h.nextKind,
			Name: name,
		},
		Extension: ext,
	}
	h.nextKind++

	if matcher, ok := ext.(InlineMatcher); ok {
		reg.matcher = matcher
		reg.EmphasisCompatible = matcher.EmphasisCompatible()
		for _, c := range matcher.TriggerChars() {
			if slices.Contains(reg.Triggers, c) {
				continue
			}
			reg.Triggers = append(reg.Triggers, c)
			h.triggers[c] = append(h.triggers[c], reg)
		}
	}
	if inserter, ok := ext.(DelimiterInserter); ok {
		reg.inserter = inserter
	}

	h.records = append(h.records, reg)
	h.byName[name] = reg

	h.logger.Debug("registered extension",
		"name", name,
		"kind", int(reg.Handle.Kind),
		"triggers", string(reg.Triggers))

	return reg.Handle, nil
}

// MustRegister is like Register but panics on error.
func (h *Host) MustRegister(ext Extension) Handle {
	handle, err := h.Register(ext)
	if err != nil {
		panic(err)
	}
	return handle
}

// Freeze ends registration. It is idempotent.
func (h *Host) Freeze() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.frozen.Swap(true) {
		h.logger.Debug("extension host frozen", "extensions", len(h.records))
	}
}

// Frozen reports whether registration has ended.
func (h *Host) Frozen() bool {
	return h.frozen.Load()
}

// Extensions returns all registrations in registration order.
func (h *Host) Extensions() []*Registration {
	return slices.Clone(h.records)
}

// Lookup returns the registration for ref.
func (h *Host) Lookup(ref mdast.ExtensionRef) (*Registration, bool) {
	if ref == 0 || int(ref) > len(h.records) {
		return nil, false
	}
	return h.records[ref-1], true
}

// ByName returns the registration for name.
func (h *Host) ByName(name string) (*Registration, bool) {
	reg, ok := h.byName[name]
	return reg, ok
}

// ByKind returns the registration that owns kind.
func (h *Host) ByKind(kind mdast.NodeKind) (*Registration, bool) {
	if !kind.IsExtension() {
		return nil, false
	}
	idx := int(kind - mdast.FirstExtensionKind)
	if idx >= len(h.records) {
		return nil, false
	}
	return h.records[idx], true
}

// Triggers returns the registrations listening on c, in registration order.
func (h *Host) Triggers(c byte) []*Registration {
	return h.triggers[c]
}

// IsTrigger reports whether any extension listens on c.
func (h *Host) IsTrigger(c byte) bool {
	return len(h.triggers[c]) > 0
}

// TypeName returns the debug name of n. Foreign extension kinds report
// "<unknown>".
func (h *Host) TypeName(n *mdast.Node) string {
	if n == nil {
		return "<unknown>"
	}
	if n.Kind.IsBase() {
		return n.Kind.TypeName()
	}
	if reg, ok := h.ByKind(n.Kind); ok {
		return reg.Extension.TypeName(reg.Handle, n)
	}
	return "<unknown>"
}

// IsInline reports whether kind is an inline kind known to this host.
func (h *Host) IsInline(kind mdast.NodeKind) bool {
	if kind.IsBase() {
		return kind.IsInline()
	}
	_, ok := h.ByKind(kind)
	return ok
}

// CanContain reports whether parent may hold a child of the given kind.
func (h *Host) CanContain(parent *mdast.Node, child mdast.NodeKind) bool {
	if parent == nil {
		return false
	}

	if !parent.Kind.IsBase() {
		reg, ok := h.ByKind(parent.Kind)
		return ok && reg.Extension.CanContain(reg.Handle, parent, child)
	}

	switch parent.Kind {
	case mdast.NodeDocument, mdast.NodeBlockquote, mdast.NodeListItem:
		return child.IsBlock() && child != mdast.NodeDocument && child != mdast.NodeListItem
	case mdast.NodeList:
		return child == mdast.NodeListItem
	case mdast.NodeParagraph, mdast.NodeHeading, mdast.NodeEmphasis, mdast.NodeStrong:
		return h.IsInline(child)
	default:
		return false
	}
}
