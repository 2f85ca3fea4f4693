package inline

import (
	"errors"
	"fmt"

	"github.com/yaklabco/inlinemark/pkg/mdast"
)

// DelimID addresses a delimiter inside a Stack.
// IDs grow in push order, so comparing two live IDs compares stack order.
type DelimID int32

// NoDelim is the absent delimiter.
const NoDelim DelimID = 0

// ErrBrokenStack is wrapped by every error returned from Stack.Check.
var ErrBrokenStack = errors.New("broken delimiter stack")

// Delimiter is a candidate opener or closer discovered during the scan.
// Node refers to the literal node the delimiter came from; the stack never
// frees it.
type Delimiter struct {
	// Char is the trigger character the delimiter represents.
	Char byte

	CanOpen  bool
	CanClose bool

	// Node is the literal node holding the delimiter text.
	Node mdast.NodeID

	// Length is the original run length.
	Length int

	// Offset is the chunk offset of the run.
	Offset int

	// Owner is the extension that pushed the delimiter. Zero is base emphasis.
	Owner mdast.ExtensionRef

	prev, next DelimID
	removed    bool
}

// Stack is an arena-backed doubly-linked delimiter stack.
// Removed records stay in the arena, so stale IDs resolve to nil.
type Stack struct {
	recs    []Delimiter
	head    DelimID
	tail    DelimID
	pushes  int
	removes int
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{recs: make([]Delimiter, 1, 16)}
}

// Push appends d on top of the stack and returns its ID.
func (s *Stack) Push(d Delimiter) DelimID {
	if len(s.recs) == 0 {
		s.recs = make([]Delimiter, 1, 16)
	}

	id := DelimID(len(s.recs))
	d.prev, d.next, d.removed = s.tail, NoDelim, false
	s.recs = append(s.recs, d)

	if s.tail != NoDelim {
		s.recs[s.tail].next = id
	} else {
		s.head = id
	}
	s.tail = id
	s.pushes++

	return id
}

// Get returns the delimiter for id, or nil if it was removed.
func (s *Stack) Get(id DelimID) *Delimiter {
	if id <= NoDelim || int(id) >= len(s.recs) || s.recs[id].removed {
		return nil
	}
	return &s.recs[id]
}

// Remove unlinks id in O(1). The neighbours are relinked before the record is
// retired, so walking backward with a saved Previous stays valid.
func (s *Stack) Remove(id DelimID) {
	d := s.Get(id)
	if d == nil {
		return
	}

	if d.prev != NoDelim {
		s.recs[d.prev].next = d.next
	} else {
		s.head = d.next
	}

	if d.next != NoDelim {
		s.recs[d.next].prev = d.prev
	} else {
		s.tail = d.prev
	}

	d.prev, d.next, d.removed = NoDelim, NoDelim, true
	s.removes++
}

// Previous returns the delimiter below id.
func (s *Stack) Previous(id DelimID) DelimID {
	if d := s.Get(id); d != nil {
		return d.prev
	}
	return NoDelim
}

// Next returns the delimiter above id.
func (s *Stack) Next(id DelimID) DelimID {
	if d := s.Get(id); d != nil {
		return d.next
	}
	return NoDelim
}

// First returns the bottom of the stack.
func (s *Stack) First() DelimID {
	return s.head
}

// Last returns the top of the stack.
func (s *Stack) Last() DelimID {
	return s.tail
}

// Len returns the number of delimiters on the stack.
func (s *Stack) Len() int {
	return s.pushes - s.removes
}

// Check verifies that the stack is a single chain with symmetric links and
// that its length matches pushes minus removals.
func (s *Stack) Check() error {
	count := 0
	prev := NoDelim

	for id := s.head; id != NoDelim; id = s.recs[id].next {
		if int(id) >= len(s.recs) {
			return fmt.Errorf("%w: link to unknown delimiter %d", ErrBrokenStack, id)
		}
		d := &s.recs[id]
		if d.removed {
			return fmt.Errorf("%w: removed delimiter %d still linked", ErrBrokenStack, id)
		}
		if d.prev != prev {
			return fmt.Errorf("%w: delimiter %d has prev %d, want %d", ErrBrokenStack, id, d.prev, prev)
		}
		if prev != NoDelim && id <= prev {
			return fmt.Errorf("%w: delimiter %d out of push order", ErrBrokenStack, id)
		}

		count++
		if count > len(s.recs) {
			return fmt.Errorf("%w: cycle detected", ErrBrokenStack)
		}
		prev = id
	}

	if s.tail != prev {
		return fmt.Errorf("%w: tail is %d, want %d", ErrBrokenStack, s.tail, prev)
	}
	if count != s.Len() {
		return fmt.Errorf("%w: %d linked, %d pushes minus %d removals", ErrBrokenStack, count, s.pushes, s.removes)
	}

	return nil
}
