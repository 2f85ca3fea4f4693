package mdast

// Payload is the kind-specific data carried by a node.
// The set of payload types is closed; extensions store their own data in
// ExtensionData.
type Payload interface {
	payload()
}

// Literal holds text content for text, code span and raw HTML nodes.
type Literal struct {
	Text []byte
}

// Delimited holds the marker character for emphasis and strong nodes.
type Delimited struct {
	// Marker is '*' or '_'.
	Marker byte
}

// HeadingAttrs holds attributes for heading nodes.
type HeadingAttrs struct {
	// Level is the heading level (1-6).
	Level int

	// Setext is true for underlined headings.
	Setext bool
}

// ListAttrs holds attributes for list nodes.
type ListAttrs struct {
	// Ordered is true for ordered lists (1., 2., etc.).
	Ordered bool

	// BulletMarker is the bullet character used ('-', '+', '*').
	BulletMarker byte

	// Start is the starting number for ordered lists.
	Start int

	// Delimiter is the delimiter for ordered lists ('.' or ')').
	Delimiter byte

	// Tight is true if this is a tight list (no blank lines between items).
	Tight bool
}

// CodeBlockAttrs holds attributes for code block and HTML block nodes.
type CodeBlockAttrs struct {
	// Fenced is false for indented code blocks.
	Fenced bool

	// FenceChar is the fence character ('`' or '~').
	FenceChar byte

	// FenceLength is the number of fence characters.
	FenceLength int

	// Info is the info string (language identifier, etc.).
	Info string

	// Text is the block content.
	Text []byte
}

// ExtensionData holds extension-owned content.
type ExtensionData struct {
	// Content is source text captured by the extension, if any.
	Content []byte

	// Value is opaque extension state.
	Value any
}

func (*Literal) payload()        {}
func (*Delimited) payload()      {}
func (*HeadingAttrs) payload()   {}
func (*ListAttrs) payload()      {}
func (*CodeBlockAttrs) payload() {}
func (*ExtensionData) payload()  {}

// Language returns the first word of the info string.
func (c *CodeBlockAttrs) Language() string {
	for i := 0; i < len(c.Info); i++ {
		if c.Info[i] == ' ' || c.Info[i] == '\t' {
			return c.Info[:i]
		}
	}
	return c.Info
}
