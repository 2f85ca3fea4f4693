package inline

import "github.com/yaklabco/inlinemark/pkg/mdast"

// resolvePass selects which delimiters a resolution pass considers.
type resolvePass uint8

const (
	passNone resolvePass = iota

	// passInterleaved resolves base emphasis together with the delimiters of
	// emphasis-compatible extensions.
	passInterleaved

	// passDeferred resolves the remaining extension delimiters.
	passDeferred
)

// resolve pairs delimiters bottom-up and empties the stack. Anything left
// unpaired stays in the tree as literal text.
func (p *Parser) resolve() {
	p.pass = passInterleaved
	p.processDelimiters()

	p.pass = passDeferred
	p.processDelimiters()

	p.pass = passNone
	for id := p.delims.Last(); id != NoDelim; id = p.delims.Last() {
		p.delims.Remove(id)
	}
}

func (p *Parser) compatible(owner mdast.ExtensionRef) bool {
	if owner == 0 {
		return true
	}
	reg, ok := p.host.Lookup(owner)
	return ok && reg.EmphasisCompatible
}

// eligible reports whether d takes part in the current pass.
func (p *Parser) eligible(d *Delimiter) bool {
	switch p.pass {
	case passInterleaved:
		return p.compatible(d.Owner)
	case passDeferred:
		return !p.compatible(d.Owner)
	default:
		return false
	}
}

// deferred reports whether d must survive the current pass untouched.
func (p *Parser) deferred(d *Delimiter) bool {
	return p.pass == passInterleaved && !p.compatible(d.Owner)
}

// processDelimiters walks closers left to right and pairs each with the
// nearest eligible opener below it. Per character, closer length mod 3 and
// whether the closer can also open, floors records how far down a failed
// search already looked, keeping the pass linear.
func (p *Parser) processDelimiters() {
	var floors [2][3][256]DelimID

	closer := p.delims.First()
	for closer != NoDelim {
		c := p.delims.Get(closer)
		if !c.CanClose || !p.eligible(c) {
			closer = p.delims.Next(closer)
			continue
		}

		both := 0
		if c.CanOpen {
			both = 1
		}
		floor := &floors[both][c.Length%3][c.Char]
		opener, found := p.findOpener(closer, c, *floor)

		if found {
			closer = p.insert(opener, closer)
			continue
		}

		old := closer
		closer = p.delims.Next(closer)
		*floor = old
		if !c.CanOpen {
			// Nothing later can pair with a closer that cannot open.
			p.delims.Remove(old)
		}
	}
}

func (p *Parser) findOpener(closer DelimID, c *Delimiter, floor DelimID) (DelimID, bool) {
	for id := p.delims.Previous(closer); id != NoDelim && id >= floor; id = p.delims.Previous(id) {
		o := p.delims.Get(id)
		if !o.CanOpen || o.Char != c.Char || o.Owner != c.Owner {
			continue
		}

		if c.Owner == 0 {
			// Rule of three: a run that can both open and close may not
			// pair when the lengths sum to a multiple of three, unless both do.
			oddMatch := (c.CanOpen || o.CanClose) &&
				(o.Length+c.Length)%3 == 0 &&
				!(o.Length%3 == 0 && c.Length%3 == 0)
			if oddMatch {
				continue
			}
		}

		return id, true
	}

	return NoDelim, false
}

// insert dispatches a matched pair to its owner and returns where to resume.
func (p *Parser) insert(opener, closer DelimID) DelimID {
	c := p.delims.Get(closer)
	if c.Owner == 0 {
		return p.insertEmphasis(opener, closer)
	}

	fallback := p.delims.Next(closer)

	reg, ok := p.host.Lookup(c.Owner)
	if !ok || reg.inserter == nil {
		return fallback
	}

	next := reg.inserter.InsertFromDelimiters(p, reg.Handle, opener, closer)

	// An inserter that hands back the same closer untouched would loop forever.
	if next == closer {
		next = fallback
	}
	if next != NoDelim && p.delims.Get(next) == nil {
		next = fallback
		if p.delims.Get(next) == nil {
			next = NoDelim
		}
	}

	return next
}

// insertEmphasis wraps the nodes between opener and closer in an emphasis or
// strong node, consuming one or two characters from each run.
func (p *Parser) insertEmphasis(opener, closer DelimID) DelimID {
	o, c := p.delims.Get(opener), p.delims.Get(closer)
	openNode, closeNode := p.tree.Node(o.Node), p.tree.Node(c.Node)
	if openNode == nil || closeNode == nil || openNode.Parent != closeNode.Parent {
		return p.delims.Next(closer)
	}

	openText, closeText := openNode.Literal(), closeNode.Literal()

	use := 1
	kind := mdast.NodeEmphasis
	if len(openText) >= 2 && len(closeText) >= 2 {
		use = 2
		kind = mdast.NodeStrong
	}
	openLeft, closeLeft := len(openText)-use, len(closeText)-use

	// The opener keeps its leftmost characters; the closer its rightmost.
	openStart, closeStart := openNode.Pos.Start(), closeNode.Pos.Start()
	emphStart := mdast.Position{Line: openStart.Line, Column: openStart.Column + openLeft}
	emphEnd := mdast.Position{Line: closeStart.Line, Column: closeStart.Column + use - 1}

	p.tree.SetLiteral(o.Node, openText[:openLeft])
	openNode.Pos.EndColumn = openStart.Column + openLeft - 1
	p.tree.SetLiteral(c.Node, closeText[use:])
	closeNode.Pos.StartColumn = closeStart.Column + use

	for id := p.delims.Previous(closer); id != NoDelim && id != opener; {
		prev := p.delims.Previous(id)
		if !p.deferred(p.delims.Get(id)) {
			p.delims.Remove(id)
		}
		id = prev
	}

	emph := p.tree.New(kind, mdast.Span(emphStart, emphEnd))
	p.tree.Node(emph).Payload = &mdast.Delimited{Marker: c.Char}

	for child := openNode.Next; child != mdast.NilNode && child != c.Node; {
		next := p.tree.Node(child).Next
		p.tree.AppendChild(emph, child)
		child = next
	}
	p.tree.InsertAfter(o.Node, emph)

	if openLeft == 0 {
		p.tree.Free(o.Node)
		p.delims.Remove(opener)
	}

	next := closer
	if closeLeft == 0 {
		p.tree.Free(c.Node)
		next = p.delims.Next(closer)
		p.delims.Remove(closer)
	}

	return next
}

// InsertSpan performs the standard paired-delimiter insertion on behalf of
// an extension: the opener's text node is retyped to self.Kind with payload,
// every node strictly between opener and closer becomes its child, its span
// is extended to the closer's end, the closer's node is freed and the
// delimiters from closer back to opener are removed.
//
// It returns false without touching the tree or stack when the pair cannot
// be joined: either node is gone, they have different parents, or the
// opener's node was already retyped.
func (p *Parser) InsertSpan(self Handle, opener, closer DelimID, payload mdast.Payload) bool {
	o, c := p.delims.Get(opener), p.delims.Get(closer)
	if o == nil || c == nil {
		return false
	}

	openNode, closeNode := p.tree.Node(o.Node), p.tree.Node(c.Node)
	if openNode == nil || closeNode == nil || openNode.Parent != closeNode.Parent {
		return false
	}

	if err := p.tree.Retype(o.Node, self.Kind, self.Ref, payload); err != nil {
		return false
	}

	for child := openNode.Next; child != mdast.NilNode && child != c.Node; {
		next := p.tree.Node(child).Next
		p.tree.AppendChild(o.Node, child)
		child = next
	}

	openNode.Pos = mdast.Span(openNode.Pos.Start(), closeNode.Pos.End())
	p.tree.Free(c.Node)

	for id := closer; id != NoDelim && id != opener; {
		prev := p.delims.Previous(id)
		if id == closer || !p.deferred(p.delims.Get(id)) {
			p.delims.Remove(id)
		}
		id = prev
	}
	p.delims.Remove(opener)

	return true
}
