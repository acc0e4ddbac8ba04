package orgtree

import (
	"fmt"
	"strconv"
	"strings"
)

// Timestamp is the Org timestamp sum type (Section 3): exactly one of
// Point, Range, TimeRange, or Diary. Modeled as an interface rather than a
// closed Rust enum, the idiomatic Go translation of a sum type with
// per-variant behavior.
type Timestamp interface {
	// Emit renders the timestamp back to Org syntax. Parsing Emit's output
	// always reproduces an equal value (Section 8 property 7); it is not
	// guaranteed to reproduce the exact original bytes (a day name, for
	// instance, is recognized while parsing but is not part of the data
	// model and is never re-emitted).
	Emit() string
	isTimestamp()
}

// Interval is a repeater or delay's magnitude: a positive integer and a
// unit drawn from {h,d,w,m,y}.
type Interval struct {
	N    int
	Unit byte
}

func (iv Interval) emit() string {
	return strconv.Itoa(iv.N) + string(iv.Unit)
}

// Repeater is a timestamp cookie's repeater component: mark is one of
// "+", "++", ".+".
type Repeater struct {
	Mark     string
	Interval Interval
}

// Delay is a timestamp cookie's delay component: mark is one of "-", "--".
type Delay struct {
	Mark     string
	Interval Interval
}

// RepeaterAndDelay is a Point's optional cookie: an optional repeater and
// an optional delay, in either order in the source text (canonical
// emission always places the repeater first).
type RepeaterAndDelay struct {
	Repeater *Repeater
	Delay    *Delay
}

func (rd RepeaterAndDelay) Emit() string {
	var parts []string
	if rd.Repeater != nil {
		parts = append(parts, rd.Repeater.Mark+rd.Repeater.Interval.emit())
	}
	if rd.Delay != nil {
		parts = append(parts, rd.Delay.Mark+rd.Delay.Interval.emit())
	}
	return strings.Join(parts, " ")
}

// Point is a single timestamp instant: a date, an optional time, and an
// optional cookie, bracketed by <...> (Active) or [...] (Inactive).
type Point struct {
	Active  bool
	Year    int
	Month   int
	Day     int
	HasTime bool
	Hour    int
	Minute  int
	Cookie  RepeaterAndDelay
}

func (Point) isTimestamp() {}

func (p Point) Emit() string {
	open, close := "[", "]"
	if p.Active {
		open, close = "<", ">"
	}
	s := open + formatDate(p.Year, p.Month, p.Day)
	if p.HasTime {
		s += fmt.Sprintf(" %02d:%02d", p.Hour, p.Minute)
	}
	if cookie := p.Cookie.Emit(); cookie != "" {
		s += " " + cookie
	}
	return s + close
}

// Range is two points with the same activity, joined by "--"; parsing
// forces End's Active equal to Start's Active (Section 3). A Range built
// directly as a struct literal is not checked.
type Range struct {
	Start Point
	End   Point
}

func (Range) isTimestamp() {}

func (r Range) Emit() string {
	return r.Start.Emit() + "--" + r.End.Emit()
}

// TimeRange is a single date with two times sharing it ("09:00-10:30"),
// inside one bracket pair.
type TimeRange struct {
	Start             Point // Start.HasTime is always true
	EndHour, EndMinute int
}

func (TimeRange) isTimestamp() {}

func (tr TimeRange) Emit() string {
	open, close := "[", "]"
	if tr.Start.Active {
		open, close = "<", ">"
	}
	s := open + formatDate(tr.Start.Year, tr.Start.Month, tr.Start.Day)
	s += fmt.Sprintf(" %02d:%02d-%02d:%02d", tr.Start.Hour, tr.Start.Minute, tr.EndHour, tr.EndMinute)
	if cookie := tr.Start.Cookie.Emit(); cookie != "" {
		s += " " + cookie
	}
	return s + close
}

// Diary is a "<%%(sexp)>" timestamp; Text is the sexp body without the
// wrapping delimiters.
type Diary struct {
	Text string
}

func (Diary) isTimestamp() {}

func (d Diary) Emit() string {
	return "<%%(" + d.Text + ")>"
}

func formatDate(y, mo, d int) string {
	return fmt.Sprintf("%04d-%02d-%02d", y, mo, d)
}

// ParseTimestamp parses s as a single timestamp value; s must be consumed
// in its entirety (no trailing bytes). Returns ok=false for anything not
// recognized by the grammar -- a non-match, not a hard error (Section 7).
func ParseTimestamp(s string) (Timestamp, bool) {
	ts, n, ok := parseTimestampAt(s, 0)
	if !ok || n != len(s) {
		return nil, false
	}
	return ts, true
}

// parseTimestampAt tries, in order, diary | range | time-range | point
// (Section 4.5), each anchored on an unmistakable prefix so no alternative
// ever backtracks across more than its own attempt.
func parseTimestampAt(s string, pos int) (Timestamp, int, bool) {
	if ts, n, ok := parseDiaryAt(s, pos); ok {
		return ts, n, true
	}
	if ts, n, ok := parseRangeAt(s, pos); ok {
		return ts, n, true
	}
	if ts, n, ok := parseTimeRangeAt(s, pos); ok {
		return ts, n, true
	}
	if p, n, ok := parsePointAt(s, pos); ok {
		return p, n, true
	}
	return nil, pos, false
}

func parseDiaryAt(s string, pos int) (Timestamp, int, bool) {
	const prefix = "<%%("
	if !strings.HasPrefix(s[pos:], prefix) {
		return nil, pos, false
	}
	start := pos + len(prefix)
	rel := strings.IndexByte(s[start:], '>')
	if rel < 0 {
		return nil, pos, false
	}
	gt := start + rel
	if gt == start || s[gt-1] != ')' {
		return nil, pos, false
	}
	body := s[start : gt-1]
	if strings.ContainsRune(body, '\n') {
		return nil, pos, false
	}
	return Diary{Text: body}, gt + 1, true
}

func parseRangeAt(s string, pos int) (Timestamp, int, bool) {
	start, n1, ok := parsePointAt(s, pos)
	if !ok {
		return nil, pos, false
	}
	p := n1
	if p+2 > len(s) || s[p:p+2] != "--" {
		return nil, pos, false
	}
	p += 2
	end, n2, ok := parsePointAt(s, p)
	if !ok {
		return nil, pos, false
	}
	end.Active = start.Active
	return Range{Start: start, End: end}, n2, true
}

func parseTimeRangeAt(s string, pos int) (Timestamp, int, bool) {
	if pos >= len(s) {
		return nil, pos, false
	}
	openCh := s[pos]
	if openCh != '<' && openCh != '[' {
		return nil, pos, false
	}
	active := openCh == '<'
	p := pos + 1

	date, n, ok := parseDateAt(s, p)
	if !ok {
		return nil, pos, false
	}
	p = n

	if p >= len(s) || s[p] != ' ' {
		return nil, pos, false
	}
	p++
	t1, n, ok := parseTimeAt(s, p)
	if !ok {
		return nil, pos, false
	}
	p = n

	if p >= len(s) || s[p] != '-' {
		return nil, pos, false
	}
	p++
	t2, n, ok := parseTimeAt(s, p)
	if !ok {
		return nil, pos, false
	}
	p = n

	start := Point{Active: active, Year: date.year, Month: date.month, Day: date.day, HasTime: true, Hour: t1.hour, Minute: t1.minute}

	save := p
	if p < len(s) && s[p] == ' ' {
		cookie, n2 := parseCookieAt(s, p+1)
		if cookie.Repeater != nil || cookie.Delay != nil {
			start.Cookie = cookie
			p = n2
		} else {
			p = save
		}
	}

	p = parseTrailingJunkAt(s, p)
	if p >= len(s) {
		return nil, pos, false
	}
	closeCh := s[p]
	if closeCh != '>' && closeCh != ']' {
		return nil, pos, false
	}
	p++

	return TimeRange{Start: start, EndHour: t2.hour, EndMinute: t2.minute}, p, true
}

func parsePointAt(s string, pos int) (Point, int, bool) {
	if pos >= len(s) {
		return Point{}, pos, false
	}
	openCh := s[pos]
	if openCh != '<' && openCh != '[' {
		return Point{}, pos, false
	}
	active := openCh == '<'
	p := pos + 1

	date, n, ok := parseDateAt(s, p)
	if !ok {
		return Point{}, pos, false
	}
	p = n

	pt := Point{Active: active, Year: date.year, Month: date.month, Day: date.day}

	save := p
	if p < len(s) && s[p] == ' ' {
		if t, n2, ok := parseTimeAt(s, p+1); ok {
			pt.HasTime = true
			pt.Hour, pt.Minute = t.hour, t.minute
			p = n2
		} else {
			p = save
		}
	}

	save = p
	if p < len(s) && s[p] == ' ' {
		cookie, n2 := parseCookieAt(s, p+1)
		if cookie.Repeater != nil || cookie.Delay != nil {
			pt.Cookie = cookie
			p = n2
		} else {
			p = save
		}
	}

	p = parseTrailingJunkAt(s, p)
	if p >= len(s) {
		return Point{}, pos, false
	}
	closeCh := s[p]
	if closeCh != '>' && closeCh != ']' {
		return Point{}, pos, false
	}
	p++

	return pt, p, true
}

type dateVal struct {
	year, month, day int
}

// parseDateAt parses "yyyy-mm-dd [space dayname]". dayname is an optional,
// unchecked, non-whitespace run containing no digit and no '+'/'-' --
// distinguishing it from a following "[space time]", which always contains
// a digit. It is recognized but not retained in the data model (Section 3
// defines no dayname field).
func parseDateAt(s string, pos int) (dateVal, int, bool) {
	y, n, ok := parseFixedDigits(s, pos, 4)
	if !ok {
		return dateVal{}, pos, false
	}
	p := n
	if p >= len(s) || s[p] != '-' {
		return dateVal{}, pos, false
	}
	p++
	mo, n, ok := parseFixedDigits(s, p, 2)
	if !ok {
		return dateVal{}, pos, false
	}
	p = n
	if p >= len(s) || s[p] != '-' {
		return dateVal{}, pos, false
	}
	p++
	d, n, ok := parseFixedDigits(s, p, 2)
	if !ok {
		return dateVal{}, pos, false
	}
	p = n

	if !validCalendarDate(y, mo, d) {
		return dateVal{}, pos, false
	}

	if p < len(s) && s[p] == ' ' {
		start := p + 1
		end := start
		for end < len(s) && s[end] != ' ' && s[end] != '>' && s[end] != ']' && s[end] != '\n' {
			end++
		}
		token := s[start:end]
		if token != "" && !containsDigitOrSign(token) {
			p = end
		}
	}

	return dateVal{year: y, month: mo, day: d}, p, true
}

func containsDigitOrSign(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isASCIIDigit(c) || c == '+' || c == '-' {
			return true
		}
	}
	return false
}

func validCalendarDate(y, mo, d int) bool {
	if mo < 1 || mo > 12 || d < 1 {
		return false
	}
	days := [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	max := days[mo-1]
	if mo == 2 && isLeapYear(y) {
		max = 29
	}
	return d <= max
}

func isLeapYear(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

type timeVal struct {
	hour, minute int
}

// parseTimeAt parses "h" or "hh" ":" "mm" (hour 1-2 digits, minute exactly
// 2 digits).
func parseTimeAt(s string, pos int) (timeVal, int, bool) {
	start := pos
	p := pos
	n := 0
	for p < len(s) && isASCIIDigit(s[p]) && n < 3 {
		p++
		n++
	}
	if n == 0 || n > 2 {
		return timeVal{}, start, false
	}
	hour, _ := strconv.Atoi(s[start:p])
	if p >= len(s) || s[p] != ':' {
		return timeVal{}, start, false
	}
	p++
	if p+2 > len(s) || !isASCIIDigit(s[p]) || !isASCIIDigit(s[p+1]) {
		return timeVal{}, start, false
	}
	minute, _ := strconv.Atoi(s[p : p+2])
	p += 2
	if p < len(s) && isASCIIDigit(s[p]) {
		return timeVal{}, start, false
	}
	return timeVal{hour: hour, minute: minute}, p, true
}

func isASCIIDigit(c byte) bool { return c >= '0' && c <= '9' }

// parseFixedDigits requires exactly n ASCII digits at pos.
func parseFixedDigits(s string, pos, n int) (int, int, bool) {
	if pos+n > len(s) {
		return 0, pos, false
	}
	for i := 0; i < n; i++ {
		if !isASCIIDigit(s[pos+i]) {
			return 0, pos, false
		}
	}
	v, err := strconv.Atoi(s[pos : pos+n])
	if err != nil {
		return 0, pos, false
	}
	return v, pos + n, true
}

// parseCookieAt parses an optional repeater-and-delay: repeater then
// (space) delay, delay then (space) repeater, a single repeater, a single
// delay, or nothing (Section 4.5).
func parseCookieAt(s string, pos int) (RepeaterAndDelay, int) {
	var rd RepeaterAndDelay

	if r, n, ok := parseRepeaterAt(s, pos); ok {
		rd.Repeater = &r
		p := n
		save := p
		if p < len(s) && s[p] == ' ' {
			p++
		}
		if d, n2, ok := parseDelayAt(s, p); ok {
			rd.Delay = &d
			return rd, n2
		}
		return rd, save
	}

	if d, n, ok := parseDelayAt(s, pos); ok {
		rd.Delay = &d
		p := n
		save := p
		if p < len(s) && s[p] == ' ' {
			p++
		}
		if r, n2, ok := parseRepeaterAt(s, p); ok {
			rd.Repeater = &r
			return rd, n2
		}
		return rd, save
	}

	return rd, pos
}

var repeaterMarks = []string{".+", "++", "+"}
var delayMarks = []string{"--", "-"}

func parseRepeaterAt(s string, pos int) (Repeater, int, bool) {
	for _, m := range repeaterMarks {
		if strings.HasPrefix(s[pos:], m) {
			if iv, n, ok := parseIntervalAt(s, pos+len(m)); ok {
				return Repeater{Mark: m, Interval: iv}, n, true
			}
		}
	}
	return Repeater{}, pos, false
}

func parseDelayAt(s string, pos int) (Delay, int, bool) {
	for _, m := range delayMarks {
		if strings.HasPrefix(s[pos:], m) {
			if iv, n, ok := parseIntervalAt(s, pos+len(m)); ok {
				return Delay{Mark: m, Interval: iv}, n, true
			}
		}
	}
	return Delay{}, pos, false
}

var intervalUnits = "hdwmy"

func parseIntervalAt(s string, pos int) (Interval, int, bool) {
	start := pos
	p := pos
	for p < len(s) && isASCIIDigit(s[p]) {
		p++
	}
	if p == start {
		return Interval{}, pos, false
	}
	n, err := strconv.Atoi(s[start:p])
	if err != nil || n <= 0 {
		return Interval{}, pos, false
	}
	if p >= len(s) || strings.IndexByte(intervalUnits, s[p]) < 0 {
		return Interval{}, pos, false
	}
	return Interval{N: n, Unit: s[p]}, p + 1, true
}

// parseTrailingJunkAt consumes any run of characters that are not '>',
// ']', or '\n' -- content like habit annotations (".+1d/1w") that the
// grammar tolerates and discards (Section 4.5 notes).
func parseTrailingJunkAt(s string, pos int) int {
	p := pos
	for p < len(s) && s[p] != '>' && s[p] != ']' && s[p] != '\n' {
		p++
	}
	return p
}
