package orgtree

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Headline is the semantic view of a single section's title line plus its
// planning line and body (Section 3 "Headline view").
type Headline struct {
	Level      uint16
	Keyword    string // "" means none
	HasKeyword bool
	Priority   rune // 0 means none
	Commented  bool
	Title      string
	RawTags    string // "" means none; colon-delimited, e.g. ":work:home:"

	// Deadline, Scheduled, and Closed carry the planning line's timestamps
	// (Supplement C) -- nil when the keyword was absent from the line.
	Deadline  Timestamp
	Scheduled Timestamp
	Closed    Timestamp

	Body Rope
}

// Tags splits RawTags into its component tags, preserving original order
// and duplicates.
func (h Headline) Tags() []string {
	if h.RawTags == "" {
		return nil
	}
	trimmed := strings.Trim(h.RawTags, ":")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, ":")
}

// HasTag reports whether t appears as a non-empty ':'-separated component
// of RawTags (Section 8 property 5).
func (h Headline) HasTag(t string) bool {
	if t == "" {
		return false
	}
	for _, tag := range h.Tags() {
		if tag == t {
			return true
		}
	}
	return false
}

// ParseHeadline decomposes sec's text into a Headline under ctx's keyword
// set. sec must have level >= 1; its text is guaranteed by the arena
// invariants to start with level '*' characters followed by one ASCII
// space.
func ParseHeadline(d *Document, sec Section, ctx *Context) (Headline, error) {
	level := sec.Level(d.Arena)
	if level == 0 {
		return Headline{}, &HeadlineError{Kind: ErrInvalidHeadline, Field: "level"}
	}
	text := sec.Text(d.Arena).String()

	nl := strings.IndexByte(text, '\n')
	var titleLine, rest string
	if nl < 0 {
		titleLine, rest = text, ""
	} else {
		titleLine, rest = text[:nl], text[nl+1:]
	}

	stars, ok := headlineLevel(titleLine)
	if !ok || stars != level {
		return Headline{}, &HeadlineError{Kind: ErrInvalidHeadline, Field: "stars"}
	}
	line := titleLine[stars+1:] // drop stars and the one separating space

	h := Headline{Level: level}

	// 2. Keyword: "[ ]*<token>" where token is a maximal run of
	// non-whitespace characters (any whitespace, Unicode included) that is
	// a member of ctx's keyword set.
	trimmed := strings.TrimLeft(line, " ")
	tokEnd := strings.IndexFunc(trimmed, unicode.IsSpace)
	token := trimmed
	if tokEnd >= 0 {
		token = trimmed[:tokEnd]
	}
	if token != "" && ctx.HasKeyword(token) {
		h.Keyword = token
		h.HasKeyword = true
		if tokEnd >= 0 {
			line = trimmed[tokEnd:]
		} else {
			line = ""
		}
	}
	// Else: keyword unmatched; line is left exactly as it was before the
	// keyword attempt (no input consumed beyond what was already there).

	// 3. Priority: optional ASCII spaces/tabs then "[#X]".
	priLine := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(priLine, "[#") && len(priLine) >= 4 && priLine[3] == ']' {
		c := priLine[2]
		if c >= 'A' && c <= 'Z' {
			h.Priority = rune(c)
			line = priLine[4:]
		}
	}

	// 4. Tags: scanned from the end of the remaining line (ASCII whitespace
	// only -- space and tab).
	rtrimmed := strings.TrimRight(line, " \t")
	lastSpace := strings.LastIndexAny(rtrimmed, " \t")
	word := rtrimmed
	wordStart := 0
	if lastSpace >= 0 {
		word = rtrimmed[lastSpace+1:]
		wordStart = lastSpace + 1
	}
	if isValidRawTags(word) && len(word) >= 2 {
		h.RawTags = word
		line = rtrimmed[:wordStart]
	} else {
		line = rtrimmed
	}

	// 5. Title: ASCII-trimmed remainder.
	title := strings.Trim(line, " \t")

	// 6. COMMENT flag: "COMMENT" alone, or followed by any Unicode
	// whitespace (not just ASCII space/tab).
	if title == "COMMENT" {
		h.Commented = true
		title = ""
	} else if after := strings.TrimPrefix(title, "COMMENT"); after != title {
		if r, size := utf8.DecodeRuneInString(after); size > 0 && unicode.IsSpace(r) {
			h.Commented = true
			title = strings.TrimLeftFunc(after, unicode.IsSpace)
		}
	}
	h.Title = title

	// Planning line: the body's first line, if it parses as one or more
	// KEYWORD: <timestamp> pairs.
	bodyText := rest
	if pl, remainder, ok := parsePlanningLine(bodyText); ok {
		h.Deadline = pl.deadline
		h.Scheduled = pl.scheduled
		h.Closed = pl.closed
		bodyText = remainder
	}
	h.Body = RopeFromString(bodyText)

	return h, nil
}

// isValidRawTags reports whether s is empty, or starts and ends with ':' and
// is a full match of [A-Za-z0-9@#%:_]*, accepting Unicode alphanumerics in
// addition to ASCII (Section 4.4 step 4, and Section 9's open-question
// resolution: require a FULL match, not a matched-prefix). "a:" and ":a"
// are rejected for lacking a wrapping colon.
func isValidRawTags(s string) bool {
	if s == "" {
		return true
	}
	if !strings.HasPrefix(s, ":") || !strings.HasSuffix(s, ":") {
		return false
	}
	for _, r := range s {
		if r == ':' || r == '@' || r == '#' || r == '%' || r == '_' {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
