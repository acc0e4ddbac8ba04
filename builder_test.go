package orgtree

import (
	"errors"
	"testing"
)

func TestHeadlineBuilderToTextAssembly(t *testing.T) {
	b := NewHeadlineBuilder(2)
	b.Keyword = "TODO"
	b.Priority = 'A'
	b.Commented = true
	b.Title = "Task title"
	b.SetTags([]string{"work", "home"})

	text, err := b.ToText(DefaultContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "** TODO [#A] COMMENT Task title :work:home:"
	if text != want {
		t.Errorf("want %q, got %q", want, text)
	}
}

func TestHeadlineBuilderToTextMinimal(t *testing.T) {
	b := NewHeadlineBuilder(1)
	b.Title = "Just a title"
	text, err := b.ToText(DefaultContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "* Just a title" {
		t.Errorf("want %q, got %q", "* Just a title", text)
	}
}

func TestHeadlineBuilderToTextCommentedNoTitle(t *testing.T) {
	b := NewHeadlineBuilder(1)
	b.Commented = true
	text, err := b.ToText(DefaultContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "* COMMENT" {
		t.Errorf("want no trailing space when title is empty, got %q", text)
	}
}

func TestHeadlineBuilderToTextWithPlanningAndBody(t *testing.T) {
	b := NewHeadlineBuilder(1)
	b.Title = "Task"
	b.Deadline, _ = ParseTimestamp("<2020-01-01>")
	b.Body = "extra notes"

	text, err := b.ToText(DefaultContext())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "* Task\nDEADLINE: <2020-01-01>\nextra notes"
	if text != want {
		t.Errorf("want %q, got %q", want, text)
	}
}

func TestHeadlineBuilderValidation(t *testing.T) {
	ctx := DefaultContext()

	tests := []struct {
		name string
		b    func() *HeadlineBuilder
		kind error
	}{
		{"level zero", func() *HeadlineBuilder { return NewHeadlineBuilder(0) }, ErrInvalidLevel},
		{"bad priority", func() *HeadlineBuilder {
			b := NewHeadlineBuilder(1)
			b.Priority = '1'
			return b
		}, ErrInvalidPriority},
		{"bad tags", func() *HeadlineBuilder {
			b := NewHeadlineBuilder(1)
			b.RawTags = "not-wrapped"
			return b
		}, ErrInvalidTags},
		{"bad keyword", func() *HeadlineBuilder {
			b := NewHeadlineBuilder(1)
			b.Keyword = "MAYBE"
			return b
		}, ErrInvalidKeyword},
		{"body contains headline", func() *HeadlineBuilder {
			b := NewHeadlineBuilder(1)
			b.Body = "* sneaky headline"
			return b
		}, ErrInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b().ToText(ctx)
			if err == nil {
				t.Fatal("want an error")
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("want error wrapping %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestHeadlineBuilderTagOperations(t *testing.T) {
	b := NewHeadlineBuilder(1)

	b.AddTag("a")
	b.AddTag("b")
	if want := []string{"a", "b"}; !stringSlicesEqual(b.tags(), want) {
		t.Fatalf("after AddTag: want %v, got %v", want, b.tags())
	}

	b.AddTag("a") // duplicates preserved by AddTag
	if want := []string{"a", "b", "a"}; !stringSlicesEqual(b.tags(), want) {
		t.Fatalf("after duplicate AddTag: want %v, got %v", want, b.tags())
	}

	b.ClearTag("a")
	if want := []string{"b"}; !stringSlicesEqual(b.tags(), want) {
		t.Fatalf("after ClearTag(a): want %v, got %v", want, b.tags())
	}

	b.SetTags([]string{"x", "y", "z"})
	b.RemoveTags([]string{"y"})
	if want := []string{"x", "z"}; !stringSlicesEqual(b.tags(), want) {
		t.Fatalf("after RemoveTags: want %v, got %v", want, b.tags())
	}

	b.UpdateTags([]string{"x", "w"}, true)
	if want := []string{"x", "z", "w"}; !stringSlicesEqual(b.tags(), want) {
		t.Fatalf("after UpdateTags(dedup): want %v, got %v", want, b.tags())
	}

	b.AddTag("")
	b.CanonicalTags()
	if want := []string{"x", "z", "w"}; !stringSlicesEqual(b.tags(), want) {
		t.Fatalf("after CanonicalTags: want %v, got %v", want, b.tags())
	}
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestHeadlineBuilderRoundTrip is property 4: parse(B.to_text()).to_builder()
// reproduces B's own fields.
func TestHeadlineBuilderRoundTrip(t *testing.T) {
	ctx := DefaultContext()
	b := NewHeadlineBuilder(2)
	b.Keyword = "TODO"
	b.Priority = 'B'
	b.Title = "Ship it"
	b.SetTags([]string{"work", "urgent"})
	b.Deadline, _ = ParseTimestamp("<2020-01-01>")
	b.Body = "more detail"

	h, err := b.Headline(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Level != 2 || h.Keyword != "TODO" || h.Priority != 'B' || h.Title != "Ship it" {
		t.Errorf("got %+v", h)
	}
	if h.RawTags != ":work:urgent:" {
		t.Errorf("tags: want %q, got %q", ":work:urgent:", h.RawTags)
	}
	if h.Deadline == nil || h.Deadline.Emit() != "<2020-01-01>" {
		t.Errorf("deadline: got %v", h.Deadline)
	}
	if h.Body.String() != "more detail" {
		t.Errorf("body: want %q, got %q", "more detail", h.Body.String())
	}
}

func TestHeadlineBuilderFromHeadlineRoundTrips(t *testing.T) {
	ctx := DefaultContext()
	original := parseOneHeadline(t, "** TODO [#A] Task :a:b:", ctx)

	b := BuilderFromHeadline(original)
	reparsed, err := b.Headline(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !headlinesEqual(original, reparsed) {
		t.Errorf("BuilderFromHeadline round-trip mismatch: %+v vs %+v", original, reparsed)
	}
}

// TestHeadlineBuilderAntiInjection is the anti-injection guard described by
// Section 4.6: a title that itself looks like a tag block must not silently
// change the parsed field structure.
func TestHeadlineBuilderAntiInjection(t *testing.T) {
	ctx := DefaultContext()
	b := NewHeadlineBuilder(1)
	b.Title = "Title :injected:"

	_, err := b.Headline(ctx)
	if err == nil {
		t.Fatal("want ErrNonEquivalentReparse: the title's trailing colon-run re-parses as tags")
	}
	if !errors.Is(err, ErrNonEquivalentReparse) {
		t.Errorf("want ErrNonEquivalentReparse, got %v", err)
	}
}
