package orgtree

import "strings"

// Document is the result of parsing one input: an Arena, the root section
// handle, and the two flags needed to round-trip edge cases that would
// otherwise be lost between "no root content" and "root content is the
// empty string" (Section 3, Section 4.2's "edge cases the flags exist to
// preserve").
type Document struct {
	Arena *Arena
	Root  Section

	// EmptyRootSection is true exactly when no bytes of the original input
	// precede its first headline: the input is empty or starts with a
	// headline line. Input such as "\n" or "\n* x" leaves it false.
	EmptyRootSection bool

	// TerminalNewline records whether the original input ended with '\n'.
	TerminalNewline bool
}

// headlineLevel implements the headline predicate (Section 4.2): starting
// at column 0 of line, count consecutive '*'; if at least one and the
// immediately following byte is ASCII space 0x20, the count is the level.
// Tabs, CR, and Unicode whitespace never qualify as the separator.
func headlineLevel(line string) (uint16, bool) {
	i := 0
	for i < len(line) && line[i] == '*' {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != ' ' {
		return 0, false
	}
	return uint16(i), true
}

// isHeadlineLine reports whether line (with no leading newline) opens a
// headline, per the same predicate as headlineLevel.
func isHeadlineLine(line string) bool {
	_, ok := headlineLevel(line)
	return ok
}

// Parse implements the structure parser (Section 4.2): it tokenizes input
// purely on the basis of the headline predicate at column 0 of each line,
// with no lookahead past a single line boundary.
func Parse(input string) *Document {
	arena := NewArena()
	root, emptyRootSection, terminalNewline := parseInto(arena, input)
	return &Document{Arena: arena, Root: root, EmptyRootSection: emptyRootSection, TerminalNewline: terminalNewline}
}

// parseInto runs the structure parser against input, allocating all nodes
// in arena (which may already hold unrelated nodes -- this is what lets
// Arena.NewSection reuse the same algorithm for a standalone fragment).
func parseInto(arena *Arena, input string) (root Section, emptyRootSection, terminalNewline bool) {
	if input == "" {
		root = arena.newNode(sectionData{level: 0, text: RopeFromString("")})
		return root, true, false
	}

	lines := splitKeepingOffsets(input)

	// Root span: consume lines from the start until the first headline line
	// (or EOF).
	rootEnd := len(input)
	firstHeadline := -1
	for idx, ln := range lines {
		if isHeadlineLine(input[ln.start:ln.end]) {
			firstHeadline = idx
			rootEnd = ln.start
			break
		}
	}

	rootText := input[0:rootEnd]
	// Strip the single newline that separates the root span from the next
	// headline (it is not part of the root's text): rootEnd lands on the
	// headline's own start, so rootText still ends with that '\n' here.
	// Without a headline, the input's own final '\n' is stripped the same
	// way and reproduced on emission from TerminalNewline.
	rootText = strings.TrimSuffix(rootText, "\n")

	// empty_root_section is true exactly when zero original bytes preceded
	// the first headline (Section 4.2 step 3): "* x" (no root at all) gets
	// true, but "\n* x" (a blank line swallowed into the root) gets false
	// even though both trim down to an empty root text -- the emitter
	// (emit.go) uses this distinction to tell "no root" from "root present
	// but empty" and reproduce the swallowed blank line.
	emptyRoot := rootEnd == 0
	root = arena.newNode(sectionData{level: 0, text: RopeFromString(rootText)})

	type frame struct {
		sec   Section
		level uint16 // uint16 level; root's is 0
	}
	stack := []frame{{sec: root, level: 0}}

	if firstHeadline >= 0 {
		for i := firstHeadline; i < len(lines); {
			ln := lines[i]
			level, _ := headlineLevel(input[ln.start:ln.end])

			// Consume this headline line plus following non-headline lines.
			start := ln.start
			j := i + 1
			for j < len(lines) && !isHeadlineLine(input[lines[j].start:lines[j].end]) {
				j++
			}
			end := len(input)
			if j < len(lines) {
				end = lines[j].start
			}
			text := input[start:end]
			text = strings.TrimSuffix(text, "\n")

			for len(stack) > 0 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}
			parent := stack[len(stack)-1].sec
			node := arena.newNode(sectionData{level: level, text: RopeFromString(text)})
			arena.appendChild(parent.id, node.id)
			stack = append(stack, frame{sec: node, level: level})

			i = j
		}
	}

	terminalNewline = input[len(input)-1] == '\n'

	return root, emptyRoot, terminalNewline
}

type lineSpan struct {
	start, end int // end is exclusive; the span includes the line's trailing '\n' when present
}

// splitKeepingOffsets splits input into lines delimited by '\n', returning
// each line's [start,end) span including its trailing '\n' when present (so
// that consumers can tell where the next line begins). The predicate checks
// above only ever look at input[start:end], which naturally includes the
// trailing newline -- harmless, since headlineLevel never matches past the
// stars-then-space prefix.
func splitKeepingOffsets(input string) []lineSpan {
	var out []lineSpan
	start := 0
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			out = append(out, lineSpan{start: start, end: i + 1})
			start = i + 1
		}
	}
	if start < len(input) {
		out = append(out, lineSpan{start: start, end: len(input)})
	}
	return out
}

// At locates the section whose text span contains byte offset pos in the
// document's emitted form, along with the offset relative to that
// section's own text start. Returns ok=false if pos is out of range or
// falls on a separating newline rather than inside any section's text. A
// section with empty text is located at its own start offset (relOffset
// 0), even when that offset holds a separating or final newline.
func (d *Document) At(pos int) (sec Section, relOffset int, ok bool) {
	_, spans := d.emitSpans()
	if pos < 0 {
		return Section{}, 0, false
	}
	for _, sp := range spans {
		if pos >= sp.start && pos < sp.end {
			return sp.section, pos - sp.start, true
		}
		if pos == sp.end && sp.start == sp.end {
			return sp.section, 0, true
		}
	}
	return Section{}, 0, false
}
