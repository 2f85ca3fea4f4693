package mdast

import "strconv"

// NodeKind classifies the type of an AST node.
//
// Kinds below FirstExtensionKind form the fixed base set. Kinds at or above it
// are allocated at runtime by an extension host and are only meaningful
// together with that host.
type NodeKind uint16

// Node kinds for block-level and inline-level elements.
const (
	NodeDocument NodeKind = iota

	// Block-level nodes.
	NodeParagraph
	NodeHeading
	NodeList
	NodeListItem
	NodeBlockquote
	NodeCodeBlock
	NodeThematicBreak
	NodeHTMLBlock

	// Inline-level nodes.
	NodeText
	NodeSoftBreak
	NodeHardBreak
	NodeCodeSpan
	NodeHTMLInline
	NodeEmphasis
	NodeStrong

	numBaseKinds
)

const (
	// FirstExtensionKind is the first kind handed out to extensions.
	FirstExtensionKind NodeKind = 0x100

	// MaxExtensionKind is the last kind an extension may be given.
	MaxExtensionKind NodeKind = 0xfffe

	// kindFreed marks a tombstoned arena slot.
	kindFreed NodeKind = 0xffff
)

var kindNames = [numBaseKinds]string{
	NodeDocument:      "Document",
	NodeParagraph:     "Paragraph",
	NodeHeading:       "Heading",
	NodeList:          "List",
	NodeListItem:      "ListItem",
	NodeBlockquote:    "Blockquote",
	NodeCodeBlock:     "CodeBlock",
	NodeThematicBreak: "ThematicBreak",
	NodeHTMLBlock:     "HTMLBlock",
	NodeText:          "Text",
	NodeSoftBreak:     "SoftBreak",
	NodeHardBreak:     "HardBreak",
	NodeCodeSpan:      "CodeSpan",
	NodeHTMLInline:    "HTMLInline",
	NodeEmphasis:      "Emphasis",
	NodeStrong:        "Strong",
}

// typeNames are the lowercase names used in tree dumps and XML output.
var typeNames = [numBaseKinds]string{
	NodeDocument:      "document",
	NodeParagraph:     "paragraph",
	NodeHeading:       "heading",
	NodeList:          "list",
	NodeListItem:      "item",
	NodeBlockquote:    "block_quote",
	NodeCodeBlock:     "code_block",
	NodeThematicBreak: "thematic_break",
	NodeHTMLBlock:     "html_block",
	NodeText:          "text",
	NodeSoftBreak:     "softbreak",
	NodeHardBreak:     "linebreak",
	NodeCodeSpan:      "code",
	NodeHTMLInline:    "html_inline",
	NodeEmphasis:      "emph",
	NodeStrong:        "strong",
}

func (k NodeKind) String() string {
	switch {
	case k < numBaseKinds:
		return kindNames[k]
	case k == kindFreed:
		return "Freed"
	default:
		return "Extension(" + strconv.Itoa(int(k)) + ")"
	}
}

// TypeName returns the lowercase name of a base kind.
// Extension kinds report "<unknown>"; their names come from the owning extension.
func (k NodeKind) TypeName() string {
	if k < numBaseKinds {
		return typeNames[k]
	}
	return "<unknown>"
}

// IsBase reports whether k belongs to the fixed base set.
func (k NodeKind) IsBase() bool {
	return k < numBaseKinds
}

// IsExtension reports whether k lies in the extension range.
func (k NodeKind) IsExtension() bool {
	return k >= FirstExtensionKind && k <= MaxExtensionKind
}

// IsBlock returns true for base block-level kinds.
func (k NodeKind) IsBlock() bool {
	return k <= NodeHTMLBlock
}

// IsInline returns true for base inline-level kinds.
// Extension kinds are classified by the host that allocated them.
func (k NodeKind) IsInline() bool {
	return k >= NodeText && k < numBaseKinds
}

// NodeID addresses a node inside a Tree.
type NodeID int32

// NilNode is the absent node.
const NilNode NodeID = 0

// IsNil reports whether id refers to no node.
func (id NodeID) IsNil() bool {
	return id == NilNode
}

// ExtensionRef identifies the extension that owns a node. Zero is the base grammar.
type ExtensionRef uint16

// Node represents a single node in the document tree.
// Links are indices into the owning Tree rather than pointers.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Tree structure links.
	Parent     NodeID
	FirstChild NodeID
	LastChild  NodeID
	Prev       NodeID
	Next       NodeID

	// Pos is the inclusive source span of the node.
	Pos SourcePosition

	// Owner is the extension that created or retyped this node.
	Owner ExtensionRef

	// Payload holds kind-specific data.
	Payload Payload
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != NilNode
}

// Literal returns the literal text payload, or nil if the node has none.
func (n *Node) Literal() []byte {
	if lit, ok := n.Payload.(*Literal); ok {
		return lit.Text
	}
	return nil
}
