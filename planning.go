package orgtree

import "strings"

// planning holds the parsed fields of a planning line: zero or more of
// DEADLINE/SCHEDULED/CLOSED, each nil if its keyword was absent.
//
// This sub-parser is native to orgtree -- the original source
// (original_source/) delegates all planning-line handling to an embedded
// Org-element library behind an optional integration feature. Section 4.4
// redesigns this as a first-class parser built only on this module's own
// timestamp grammar (timestamp.go); see SPEC_FULL.md Section C.
type planning struct {
	deadline, scheduled, closed Timestamp
}

var planningKeywords = []string{"DEADLINE", "SCHEDULED", "CLOSED"}

func matchPlanningKeyword(s string, pos int) (string, int, bool) {
	for _, kw := range planningKeywords {
		if strings.HasPrefix(s[pos:], kw) {
			return kw, pos + len(kw), true
		}
	}
	return "", pos, false
}

func skipPlanningSpace(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
		pos++
	}
	return pos
}

// parsePlanningLine recognizes body's first line as a planning line: a
// sequence of space/tab-separated "KEYWORD: <timestamp>" pairs covering
// the entire line (trailing whitespace aside). On success it returns the
// parsed fields and body with that line (and its terminating '\n')
// removed; on failure it returns body unchanged. Duplicate keywords within
// the line resolve last-wins (Section 8 property 6).
func parsePlanningLine(body string) (planning, string, bool) {
	nl := strings.IndexByte(body, '\n')
	var line, rest string
	if nl < 0 {
		line, rest = body, ""
	} else {
		line, rest = body[:nl], body[nl+1:]
	}

	pos := 0
	var result planning
	matchedAny := false

	for {
		save := pos
		pos = skipPlanningSpace(line, pos)
		if pos >= len(line) {
			break
		}

		kw, n, ok := matchPlanningKeyword(line, pos)
		if !ok {
			pos = save
			break
		}
		pos = n

		if pos >= len(line) || line[pos] != ':' {
			pos = save
			break
		}
		pos++
		pos = skipPlanningSpace(line, pos)

		ts, n2, ok := parseTimestampAt(line, pos)
		if !ok {
			pos = save
			break
		}
		pos = n2
		matchedAny = true

		switch kw {
		case "DEADLINE":
			result.deadline = ts
		case "SCHEDULED":
			result.scheduled = ts
		case "CLOSED":
			result.closed = ts
		}
	}

	if !matchedAny || strings.Trim(line[pos:], " \t") != "" {
		return planning{}, body, false
	}
	return result, rest, true
}

// emitPlanningLine renders a planning line in Org's canonical keyword
// order, omitting nil fields, or "" if all three are nil.
func emitPlanningLine(p planning) string {
	var parts []string
	if p.deadline != nil {
		parts = append(parts, "DEADLINE: "+p.deadline.Emit())
	}
	if p.scheduled != nil {
		parts = append(parts, "SCHEDULED: "+p.scheduled.Emit())
	}
	if p.closed != nil {
		parts = append(parts, "CLOSED: "+p.closed.Emit())
	}
	return strings.Join(parts, " ")
}
