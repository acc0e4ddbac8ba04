package orgtree

import "testing"

// TestParseTimestampS6 covers scenario S6.
func TestParseTimestampS6(t *testing.T) {
	ts, ok := ParseTimestamp("<2020-01-01 Mon 09:00-10:30 .+1w -2d>")
	if !ok {
		t.Fatal("want a successful parse")
	}
	tr, isTimeRange := ts.(TimeRange)
	if !isTimeRange {
		t.Fatalf("want a TimeRange, got %T", ts)
	}
	if !tr.Start.Active {
		t.Error("want active")
	}
	if tr.Start.Year != 2020 || tr.Start.Month != 1 || tr.Start.Day != 1 {
		t.Errorf("date: want 2020-01-01, got %04d-%02d-%02d", tr.Start.Year, tr.Start.Month, tr.Start.Day)
	}
	if !tr.Start.HasTime || tr.Start.Hour != 9 || tr.Start.Minute != 0 {
		t.Errorf("start time: want 09:00, got %02d:%02d (has=%v)", tr.Start.Hour, tr.Start.Minute, tr.Start.HasTime)
	}
	if tr.EndHour != 10 || tr.EndMinute != 30 {
		t.Errorf("end time: want 10:30, got %02d:%02d", tr.EndHour, tr.EndMinute)
	}
	if tr.Start.Cookie.Repeater == nil || tr.Start.Cookie.Repeater.Mark != ".+" || tr.Start.Cookie.Repeater.Interval != (Interval{1, 'w'}) {
		t.Errorf("repeater: want (.+, 1w), got %+v", tr.Start.Cookie.Repeater)
	}
	if tr.Start.Cookie.Delay == nil || tr.Start.Cookie.Delay.Mark != "-" || tr.Start.Cookie.Delay.Interval != (Interval{2, 'd'}) {
		t.Errorf("delay: want (-, 2d), got %+v", tr.Start.Cookie.Delay)
	}
}

func TestParsePointBasic(t *testing.T) {
	ts, ok := ParseTimestamp("<2021-06-15>")
	if !ok {
		t.Fatal("want a successful parse")
	}
	p, isPoint := ts.(Point)
	if !isPoint {
		t.Fatalf("want a Point, got %T", ts)
	}
	if !p.Active || p.Year != 2021 || p.Month != 6 || p.Day != 15 || p.HasTime {
		t.Errorf("got %+v", p)
	}
}

func TestParsePointInactive(t *testing.T) {
	ts, ok := ParseTimestamp("[2021-06-15]")
	if !ok {
		t.Fatal("want a successful parse")
	}
	p := ts.(Point)
	if p.Active {
		t.Error("want inactive (bracketed with [ ])")
	}
}

func TestParseRange(t *testing.T) {
	ts, ok := ParseTimestamp("<2021-01-01>--<2021-01-05>")
	if !ok {
		t.Fatal("want a successful parse")
	}
	r, isRange := ts.(Range)
	if !isRange {
		t.Fatalf("want a Range, got %T", ts)
	}
	if r.Start.Day != 1 || r.End.Day != 5 {
		t.Errorf("got start=%d end=%d", r.Start.Day, r.End.Day)
	}
	if r.End.Active != r.Start.Active {
		t.Error("want End.Active forced equal to Start.Active")
	}
}

func TestParseDiary(t *testing.T) {
	ts, ok := ParseTimestamp("<%%(diary-float 1 3 2)>")
	if !ok {
		t.Fatal("want a successful parse")
	}
	d, isDiary := ts.(Diary)
	if !isDiary {
		t.Fatalf("want a Diary, got %T", ts)
	}
	if d.Text != "diary-float 1 3 2" {
		t.Errorf("want %q, got %q", "diary-float 1 3 2", d.Text)
	}
}

func TestInvalidCalendarDateRejected(t *testing.T) {
	if _, ok := ParseTimestamp("<2021-02-30>"); ok {
		t.Error("want Feb 30 rejected")
	}
	if _, ok := ParseTimestamp("<2021-13-01>"); ok {
		t.Error("want month 13 rejected")
	}
}

func TestLeapYearFebruary29(t *testing.T) {
	if _, ok := ParseTimestamp("<2020-02-29>"); !ok {
		t.Error("want Feb 29 2020 (leap year) accepted")
	}
	if _, ok := ParseTimestamp("<2021-02-29>"); ok {
		t.Error("want Feb 29 2021 (non-leap year) rejected")
	}
}

func TestDaynameDiscardedNotRoundTripped(t *testing.T) {
	ts, ok := ParseTimestamp("<2021-06-15 Tue>")
	if !ok {
		t.Fatal("want a successful parse")
	}
	if got := ts.Emit(); got != "<2021-06-15>" {
		t.Errorf("want dayname dropped on re-emission, got %q", got)
	}
}

// TestTimestampRoundTripProperty is property 7: parse(emit(T)) == T,
// checked by comparing the re-parsed value's emitted form against emit(T).
func TestTimestampRoundTripProperty(t *testing.T) {
	values := []Timestamp{
		Point{Active: true, Year: 2024, Month: 12, Day: 31},
		Point{Active: false, Year: 1999, Month: 1, Day: 1, HasTime: true, Hour: 23, Minute: 59},
		Point{
			Active: true, Year: 2020, Month: 1, Day: 1, HasTime: true, Hour: 9, Minute: 0,
			Cookie: RepeaterAndDelay{Repeater: &Repeater{Mark: "++", Interval: Interval{2, 'w'}}},
		},
		Range{
			Start: Point{Active: true, Year: 2021, Month: 1, Day: 1},
			End:   Point{Active: true, Year: 2021, Month: 1, Day: 5},
		},
		TimeRange{
			Start:   Point{Active: true, Year: 2020, Month: 1, Day: 1, HasTime: true, Hour: 9, Minute: 0},
			EndHour: 10, EndMinute: 30,
		},
		Diary{Text: "diary-float 1 3 2"},
	}
	for _, want := range values {
		text := want.Emit()
		got, ok := ParseTimestamp(text)
		if !ok {
			t.Fatalf("ParseTimestamp(%q): want success", text)
		}
		if got.Emit() != want.Emit() {
			t.Errorf("round-trip: emit(parse(%q)) = %q, want %q", text, got.Emit(), want.Emit())
		}
	}
}

func TestParseTimestampRequiresFullConsumption(t *testing.T) {
	if _, ok := ParseTimestamp("<2021-06-15> trailing garbage"); ok {
		t.Error("want trailing bytes after the timestamp to reject the whole-string parse")
	}
}
