package practice

import (
	"errors"
	"testing"
	"time"

	"github.com/abhisek/penwise/internal/exam"
	"github.com/abhisek/penwise/internal/writing"
)

var (
	testEssay = exam.Task{Key: "essay", Name: "Essay", Time: "2 minutes", Words: "3-5 words"}
	testExam  = exam.Exam{Key: "demo", Label: "Demo", Tasks: []exam.Task{testEssay}}
)

func doingState(t *testing.T) State {
	t.Helper()
	s := State{}
	steps := []Event{
		SelectEvent{Selection: Selection{Exam: testExam, Task: testEssay}},
		PreviewEvent{Preview: &writing.Preview{Question: "Discuss."}},
		StartEvent{ID: "s1", Now: time.Unix(100, 0)},
	}
	for _, ev := range steps {
		var err error
		if s, err = Reduce(s, ev); err != nil {
			t.Fatalf("%T: %v", ev, err)
		}
	}
	return s
}

func TestStartTypeCancel(t *testing.T) {
	s := doingState(t)

	if s.Mode != ModeDoing {
		t.Fatalf("mode = %s, want doing", s.Mode)
	}
	if s.Remaining != 120 || s.MinWords != 3 {
		t.Fatalf("remaining = %d, minWords = %d", s.Remaining, s.MinWords)
	}
	if s.Snapshot == nil || s.Snapshot.Preview.Question != "Discuss." || s.Snapshot.ID != "s1" {
		t.Fatalf("snapshot = %+v", s.Snapshot)
	}

	s, err := Reduce(s, EditEvent{Text: "one two three four"})
	if err != nil {
		t.Fatal(err)
	}
	if s.WordCount != 4 || !CanSubmit(s) {
		t.Fatalf("wordCount = %d, canSubmit = %v", s.WordCount, CanSubmit(s))
	}

	s, err = Reduce(s, CancelEvent{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Mode != ModeCreation || s.Snapshot != nil || s.Answer != "" || s.Remaining != 0 || s.WordCount != 0 {
		t.Fatalf("after cancel: %+v", s)
	}
	if s.Preview == nil || s.Preview.Question != "Discuss." {
		t.Fatalf("preview should survive cancel")
	}
}

func TestCancelClearsInFlightFlags(t *testing.T) {
	s := doingState(t)
	s.Evaluating = true
	s.Suggesting = true

	s, err := Reduce(s, CancelEvent{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Evaluating || s.Suggesting {
		t.Fatalf("evaluating = %v, suggesting = %v after cancel", s.Evaluating, s.Suggesting)
	}
}

func TestInvalidTransitionsLeaveStateUnchanged(t *testing.T) {
	creation := State{Selection: Selection{Exam: testExam, Task: testEssay}}
	doing := doingState(t)

	tests := []struct {
		name string
		s    State
		ev   Event
	}{
		{"edit in creation", creation, EditEvent{Text: "x"}},
		{"tick in creation", creation, TickEvent{}},
		{"retry in creation", creation, RetryEvent{}},
		{"cancel in creation", creation, CancelEvent{}},
		{"start without preview", creation, StartEvent{ID: "x"}},
		{"select in doing", doing, SelectEvent{}},
		{"preview in doing", doing, PreviewEvent{Preview: &writing.Preview{}}},
		{"start in doing", doing, StartEvent{ID: "x"}},
		{"retry in doing", doing, RetryEvent{}},
		{"evaluated without result", doing, EvaluatedEvent{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reduce(tt.s, tt.ev)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("err = %v, want ErrInvalidTransition", err)
			}
			if got.Mode != tt.s.Mode || got.Answer != tt.s.Answer || got.Remaining != tt.s.Remaining {
				t.Errorf("state changed on invalid transition")
			}
		})
	}
}

func TestStartRequiresTask(t *testing.T) {
	s := State{Preview: &writing.Preview{Question: "Q"}}
	if _, err := Reduce(s, StartEvent{ID: "x"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v", err)
	}
}

func TestSelectClearsPreviewOnlyWhenTaskChanges(t *testing.T) {
	other := exam.Task{Key: "other", Time: "5 minutes", Words: "10 words"}
	s := State{
		Selection: Selection{Exam: testExam, Task: testEssay},
		Preview:   &writing.Preview{Question: "Q"},
	}

	s, _ = Reduce(s, SelectEvent{Selection: Selection{Exam: testExam, Task: testEssay, Topic: "Health"}})
	if s.Preview == nil {
		t.Fatal("topic change should keep the preview")
	}

	s, _ = Reduce(s, SelectEvent{Selection: Selection{Exam: testExam, Task: other}})
	if s.Preview != nil {
		t.Fatal("task change should clear the preview")
	}
}

func TestTickFloorsAtZero(t *testing.T) {
	s := doingState(t)
	for range 500 {
		s, _ = Reduce(s, TickEvent{})
	}
	if s.Remaining != 0 {
		t.Fatalf("remaining = %d", s.Remaining)
	}
}

func TestGateMonotonicity(t *testing.T) {
	base := doingState(t)

	// More words never closes an open gate.
	for remaining := 1; remaining <= 3; remaining++ {
		wasOpen := false
		for words := 0; words <= 10; words++ {
			s := base
			s.Remaining, s.WordCount = remaining, words
			open := CanSubmit(s)
			if wasOpen && !open {
				t.Fatalf("gate closed when words grew to %d", words)
			}
			wasOpen = open
		}
	}

	// Less time never opens a closed gate.
	for words := 0; words <= 10; words++ {
		wasClosed := false
		for remaining := 5; remaining >= 0; remaining-- {
			s := base
			s.Remaining, s.WordCount = remaining, words
			open := CanSubmit(s)
			if wasClosed && open {
				t.Fatalf("gate opened when time fell to %d", remaining)
			}
			wasClosed = !open
		}
	}

	s := base
	s.WordCount, s.Remaining = 100, 100
	for _, mode := range []Mode{ModeCreation, ModeChecker} {
		s.Mode = mode
		if CanSubmit(s) {
			t.Errorf("gate open in %s", mode)
		}
	}
}

func TestRetryResetsAnswerAndTimer(t *testing.T) {
	s := doingState(t)
	s, _ = Reduce(s, EditEvent{Text: "a b c d"})
	s, _ = Reduce(s, SuggestionsEvent{Items: []string{"idea"}})
	for range 30 {
		s, _ = Reduce(s, TickEvent{})
	}
	s, err := Reduce(s, EvaluatedEvent{Evaluation: &writing.Evaluation{Score: 6}})
	if err != nil || s.Mode != ModeChecker {
		t.Fatalf("evaluated: mode = %s, err = %v", s.Mode, err)
	}
	snapID := s.Snapshot.ID

	s, err = Reduce(s, RetryEvent{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Mode != ModeDoing {
		t.Fatalf("mode = %s", s.Mode)
	}
	if s.Answer != "" || s.WordCount != 0 || s.Evaluation != nil || s.Suggestions != nil {
		t.Errorf("attempt not reset: %+v", s)
	}
	if s.Remaining != 120 {
		t.Errorf("remaining = %d, want full allowance", s.Remaining)
	}
	if s.Snapshot.ID != snapID {
		t.Errorf("retry must keep the snapshot")
	}
}

func TestPreviewIsCopied(t *testing.T) {
	p := &writing.Preview{Question: "Q1"}
	s, _ := Reduce(State{}, PreviewEvent{Preview: p})
	p.Question = "mutated"
	if s.Preview.Question != "Q1" {
		t.Fatal("reducer kept a reference to the caller's preview")
	}
}
