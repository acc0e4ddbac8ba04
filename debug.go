package orgtree

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sanity-io/litter"
)

// Dump renders v as a deeply-expanded Go literal, for use in test failure
// messages and manual inspection -- the same role litter plays in
// donaldgifford-makefmt's own test helpers.
func Dump(v any) string {
	return litter.Sdump(v)
}

// DumpTree renders a section and its descendants as an indented outline,
// one line per section: level, a text preview, and the section's arena id.
// Meant for debugging tree-shape mismatches without reaching for Dump's
// full field-by-field output.
func DumpTree(a *Arena, sec Section) string {
	var b strings.Builder
	dumpTree(&b, a, sec, 0)
	return b.String()
}

func dumpTree(b *strings.Builder, a *Arena, sec Section, depth int) {
	text := sec.Text(a).String()
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[:nl] + "..."
	}
	fmt.Fprintf(b, "%s#%d (level %d): %q\n", strings.Repeat("  ", depth), sec.id, sec.Level(a), text)
	for _, child := range sec.Children(a) {
		dumpTree(b, a, child, depth+1)
	}
}

// DiffStrings returns a unified diff between want and got, empty if they are
// equal. The round-trip property test attaches it to its failure message so
// a failure shows exactly where two large texts diverge.
func DiffStrings(name, want, got string) string {
	if want == got {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: name + " (want)",
		ToFile:   name + " (got)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("%s: want %q, got %q (diff failed: %v)", name, want, got, err)
	}
	return text
}
