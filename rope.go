package orgtree

import "strings"

// Rope is the module's text-storage primitive: an immutable, cheaply
// shareable run of UTF-8 bytes. Section text is carried as a Rope rather
// than a plain string so that slicing a large document into sections never
// copies bytes -- Go's string header already shares its backing array across
// slices and substrings, which gives Rope its "cheap slicing" property for
// free. Concatenation (used by level-adjustment in Arena; the emitter
// writes through ropeBuilder's strings.Builder instead) allocates, same as
// ropey's Rope::append would for a large enough rope to trigger a
// rebalance.
//
// Rope never exposes a mutable byte buffer; every operation that looks like
// a mutation returns a new Rope.
type Rope struct {
	s string
}

// RopeFromString wraps s as a Rope with no copying.
func RopeFromString(s string) Rope {
	return Rope{s: s}
}

// String returns the rope's contents as a plain string (O(1); no copy).
func (r Rope) String() string {
	return r.s
}

// Len returns the length in bytes.
func (r Rope) Len() int {
	return len(r.s)
}

// IsEmpty reports whether the rope has zero bytes.
func (r Rope) IsEmpty() bool {
	return len(r.s) == 0
}

// Slice returns the byte range [start:end) as a Rope. Panics under the same
// conditions as a Go string slice expression.
func (r Rope) Slice(start, end int) Rope {
	return Rope{s: r.s[start:end]}
}

// SliceFrom returns the byte range [start:len) as a Rope.
func (r Rope) SliceFrom(start int) Rope {
	return Rope{s: r.s[start:]}
}

// Append concatenates other onto r, returning a new Rope.
func (r Rope) Append(other Rope) Rope {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	var b strings.Builder
	b.Grow(r.Len() + other.Len())
	b.WriteString(r.s)
	b.WriteString(other.s)
	return Rope{s: b.String()}
}

// AppendString concatenates s onto r, returning a new Rope.
func (r Rope) AppendString(s string) Rope {
	return r.Append(RopeFromString(s))
}

// WithPrefix returns a new Rope with prefix prepended.
func (r Rope) WithPrefix(prefix string) Rope {
	return RopeFromString(prefix).Append(r)
}

// Byte returns the byte at index i.
func (r Rope) Byte(i int) byte {
	return r.s[i]
}

// Equal reports whether two ropes hold identical bytes.
func (r Rope) Equal(other Rope) bool {
	return r.s == other.s
}

// ropeBuilder accumulates sections during emission, tracking whether a
// separating newline is owed before the next write -- mirrors the
// owe_newline bookkeeping in the original section_tree_to_rope.
type ropeBuilder struct {
	b          strings.Builder
	oweNewline bool
}

func (rb *ropeBuilder) writeSection(text Rope) {
	if rb.oweNewline {
		rb.b.WriteByte('\n')
	}
	rb.b.WriteString(text.String())
	rb.oweNewline = true
}

func (rb *ropeBuilder) finish(terminalNewline bool) Rope {
	if terminalNewline && rb.oweNewline {
		rb.b.WriteByte('\n')
	}
	return RopeFromString(rb.b.String())
}
