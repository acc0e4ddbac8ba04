package orgtree

// textSpan records where one section's own text landed in an emitted byte
// stream, for Document.At.
type textSpan struct {
	section    Section
	start, end int
}

// emitSpans renders the document to text and records, for every section
// that actually contributed bytes, the [start,end) range of its own text
// within the result. Mirrors section_tree_to_rope: DFS pre-order, exactly
// one '\n' between adjacent emitted section texts, with the root slot
// suppressed when it contributed zero original bytes (EmptyRootSection)
// and its text is empty.
func (d *Document) emitSpans() (string, []textSpan) {
	var order []Section
	rootText := d.Root.Text(d.Arena)

	suppressRoot := rootText.IsEmpty() && d.EmptyRootSection
	if !suppressRoot {
		order = append(order, d.Root)
	}
	order = append(order, d.Root.Descendants(d.Arena)[1:]...) // descendants excluding root itself, already DFS pre-order

	rb := ropeBuilder{}
	var spans []textSpan
	cursor := 0
	for _, sec := range order {
		text := sec.Text(d.Arena)
		if rb.oweNewline {
			cursor++ // the separating '\n' ropeBuilder is about to write
		}
		rb.writeSection(text)
		spans = append(spans, textSpan{section: sec, start: cursor, end: cursor + text.Len()})
		cursor += text.Len()
	}

	out := rb.finish(d.TerminalNewline)
	return out.String(), spans
}

// Emit reconstructs the document's text. For any Document produced by
// Parse, Emit reproduces the original input byte-for-byte (Section 4.2's
// round-trip contract).
func (d *Document) Emit() string {
	text, _ := d.emitSpans()
	return text
}
