package writing

import (
	"strings"
	"testing"
)

func joinSegments(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestAnnotate_OrderAndOverlap(t *testing.T) {
	answer := "Ths is a smple sentense."
	errs := []WritingError{
		{Original: "sentense", Start: 15, End: 23},
		{Original: "Ths", Start: 0, End: 3},
		{Original: "smple sen", Start: 9, End: 18}, // overlaps the last one once sorted
		{Original: "smple", Start: 9, End: 14},
		{Original: "", Start: 5, End: 5}, // zero width
	}

	segs := Annotate(answer, errs)
	if got := joinSegments(segs); got != answer {
		t.Fatalf("segments do not rebuild the answer: %q", got)
	}

	var marked []string
	for _, s := range segs {
		if s.Error != nil {
			marked = append(marked, s.Text)
		}
	}
	want := []string{"Ths", "smple", "sentense"}
	if strings.Join(marked, "|") != strings.Join(want, "|") {
		t.Errorf("marked = %v, want %v", marked, want)
	}
}

func TestAnnotate_StrictlyIncreasing(t *testing.T) {
	answer := "ünïcode text with errors"
	errs := []WritingError{
		{Start: 18, End: 24},
		{Start: 0, End: 7},
		{Start: 3, End: 10},
		{Start: 8, End: 12},
	}
	segs := Annotate(answer, errs)

	pos := 0
	prev := -1
	for _, s := range segs {
		if pos <= prev {
			t.Fatalf("segment starts not increasing at %d", pos)
		}
		if s.Text == "" {
			t.Fatalf("empty segment at %d", pos)
		}
		prev = pos
		pos += len([]rune(s.Text))
	}
	if joinSegments(segs) != answer {
		t.Fatalf("segments do not rebuild the answer")
	}
}

func TestAnnotate_NoErrors(t *testing.T) {
	segs := Annotate("plain", nil)
	if len(segs) != 1 || segs[0].Error != nil || segs[0].Text != "plain" {
		t.Errorf("got %+v", segs)
	}
	if Annotate("", nil) != nil {
		t.Errorf("empty answer should have no segments")
	}
}
