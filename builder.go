package orgtree

import (
	"reflect"
	"strings"
)

// HeadlineBuilder assembles a Headline's fields, validates them, and emits
// them as text -- the inverse of ParseHeadline (Section 4.6).
type HeadlineBuilder struct {
	Level     uint16
	Keyword   string // "" means none
	Priority  rune   // 0 means none
	Commented bool
	Title     string
	RawTags   string // "" means none; stored with wrapping colons, e.g. ":work:home:"

	Deadline  Timestamp
	Scheduled Timestamp
	Closed    Timestamp

	Body string
}

// NewHeadlineBuilder returns a builder for a headline at the given level
// with no other fields set.
func NewHeadlineBuilder(level uint16) *HeadlineBuilder {
	return &HeadlineBuilder{Level: level}
}

// BuilderFromHeadline seeds a builder from an already-parsed Headline, for
// editing it and emitting a new text.
func BuilderFromHeadline(h Headline) *HeadlineBuilder {
	return &HeadlineBuilder{
		Level:     h.Level,
		Keyword:   h.Keyword,
		Priority:  h.Priority,
		Commented: h.Commented,
		Title:     h.Title,
		RawTags:   h.RawTags,
		Deadline:  h.Deadline,
		Scheduled: h.Scheduled,
		Closed:    h.Closed,
		Body:      h.Body.String(),
	}
}

func (b *HeadlineBuilder) tags() []string {
	if b.RawTags == "" {
		return nil
	}
	trimmed := strings.Trim(b.RawTags, ":")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, ":")
}

func (b *HeadlineBuilder) setTags(tags []string) {
	if len(tags) == 0 {
		b.RawTags = ""
		return
	}
	b.RawTags = ":" + strings.Join(tags, ":") + ":"
}

// AddTag appends t to the tag list, preserving existing order and
// duplicates.
func (b *HeadlineBuilder) AddTag(t string) {
	b.setTags(append(b.tags(), t))
}

// ClearTag removes every occurrence of t from the tag list.
func (b *HeadlineBuilder) ClearTag(t string) {
	var out []string
	for _, x := range b.tags() {
		if x != t {
			out = append(out, x)
		}
	}
	b.setTags(out)
}

// RemoveTags removes every occurrence of each tag in remove.
func (b *HeadlineBuilder) RemoveTags(remove []string) {
	drop := make(map[string]bool, len(remove))
	for _, r := range remove {
		drop[r] = true
	}
	var out []string
	for _, x := range b.tags() {
		if !drop[x] {
			out = append(out, x)
		}
	}
	b.setTags(out)
}

// SetTags replaces the tag list with tags, verbatim.
func (b *HeadlineBuilder) SetTags(tags []string) {
	b.setTags(append([]string(nil), tags...))
}

// UpdateTags appends tags to the existing list, deduplicating the combined
// result first if dedup is true.
func (b *HeadlineBuilder) UpdateTags(tags []string, dedup bool) {
	merged := append(b.tags(), tags...)
	if dedup {
		merged = dedupStrings(merged)
	}
	b.setTags(merged)
}

// CanonicalTags deduplicates the tag list and drops empty entries.
func (b *HeadlineBuilder) CanonicalTags() {
	var out []string
	for _, t := range dedupStrings(b.tags()) {
		if t != "" {
			out = append(out, t)
		}
	}
	b.setTags(out)
}

func dedupStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// validate checks the partial validation rules from Section 4.6: level >=
// 1; priority, if present, is an uppercase ASCII letter; raw tags, if
// present, are wrapped in ':' and match [A-Za-z0-9@#%:_]* (see
// isValidRawTags); keyword, if present, belongs to ctx's
// keyword set; body contains no line matching the headline predicate.
func (b *HeadlineBuilder) validate(ctx *Context) error {
	if b.Level < 1 {
		return &HeadlineError{Kind: ErrInvalidLevel, Field: "level"}
	}
	if b.Priority != 0 && (b.Priority < 'A' || b.Priority > 'Z') {
		return &HeadlineError{Kind: ErrInvalidPriority, Field: "priority", Value: string(b.Priority)}
	}
	if !isValidRawTags(b.RawTags) {
		return &HeadlineError{Kind: ErrInvalidTags, Field: "tags", Value: b.RawTags}
	}
	if b.Keyword != "" && !ctx.HasKeyword(b.Keyword) {
		return &HeadlineError{Kind: ErrInvalidKeyword, Field: "keyword", Value: b.Keyword}
	}
	if containsHeadlineLine(b.Body) {
		return &HeadlineError{Kind: ErrInvalidBody, Field: "body"}
	}
	return nil
}

// ToText validates b and emits it as text:
// stars + space [+ keyword + space] [+ "[#" + pri + "]" + space]
// [+ "COMMENT" + (space if title non-empty)] + title
// [+ " " + raw_tags] [+ "\n" + planning-line] [+ "\n" + body]
func (b *HeadlineBuilder) ToText(ctx *Context) (string, error) {
	if err := b.validate(ctx); err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := uint16(0); i < b.Level; i++ {
		sb.WriteByte('*')
	}
	sb.WriteByte(' ')

	if b.Keyword != "" {
		sb.WriteString(b.Keyword)
		sb.WriteByte(' ')
	}
	if b.Priority != 0 {
		sb.WriteString("[#")
		sb.WriteRune(b.Priority)
		sb.WriteString("] ")
	}
	if b.Commented {
		sb.WriteString("COMMENT")
		if b.Title != "" {
			sb.WriteByte(' ')
		}
	}
	sb.WriteString(b.Title)
	if b.RawTags != "" {
		sb.WriteByte(' ')
		sb.WriteString(b.RawTags)
	}

	body := b.Body
	if planningLine := emitPlanningLine(planning{deadline: b.Deadline, scheduled: b.Scheduled, closed: b.Closed}); planningLine != "" {
		if body != "" {
			body = planningLine + "\n" + body
		} else {
			body = planningLine
		}
	}
	if body != "" {
		sb.WriteByte('\n')
		sb.WriteString(body)
	}

	return sb.String(), nil
}

func (b *HeadlineBuilder) toHeadline() Headline {
	return Headline{
		Level:      b.Level,
		Keyword:    b.Keyword,
		HasKeyword: b.Keyword != "",
		Priority:   b.Priority,
		Commented:  b.Commented,
		Title:      b.Title,
		RawTags:    b.RawTags,
		Deadline:   b.Deadline,
		Scheduled:  b.Scheduled,
		Closed:     b.Closed,
		Body:       RopeFromString(b.Body),
	}
}

func headlinesEqual(a, b Headline) bool {
	return a.Level == b.Level &&
		a.Keyword == b.Keyword &&
		a.HasKeyword == b.HasKeyword &&
		a.Priority == b.Priority &&
		a.Commented == b.Commented &&
		a.Title == b.Title &&
		a.RawTags == b.RawTags &&
		reflect.DeepEqual(a.Deadline, b.Deadline) &&
		reflect.DeepEqual(a.Scheduled, b.Scheduled) &&
		reflect.DeepEqual(a.Closed, b.Closed) &&
		a.Body.Equal(b.Body)
}

// Headline emits b, then re-parses the result with ParseHeadline; the
// re-parsed value must equal b's own fields under a structural equality
// check. This is the anti-injection guard (Section 4.6): it rejects titles
// that sneak in keywords, priority cookies, tag patterns, or a stray
// COMMENT marker that would change the semantics.
func (b *HeadlineBuilder) Headline(ctx *Context) (Headline, error) {
	text, err := b.ToText(ctx)
	if err != nil {
		return Headline{}, err
	}

	arena := NewArena()
	root, _, _ := parseInto(arena, text)
	children := root.Children(arena)
	if len(children) != 1 || !root.Text(arena).IsEmpty() {
		return Headline{}, &HeadlineError{Kind: ErrInvalidHeadline, Field: "text"}
	}
	doc := &Document{Arena: arena, Root: root}

	reparsed, err := ParseHeadline(doc, children[0], ctx)
	if err != nil {
		return Headline{}, err
	}

	if !headlinesEqual(reparsed, b.toHeadline()) {
		return Headline{}, &HeadlineError{Kind: ErrNonEquivalentReparse, Field: "headline"}
	}
	return reparsed, nil
}
