package practice

import (
	"fmt"
	"slices"
	"time"

	"github.com/abhisek/penwise/internal/exam"
	"github.com/abhisek/penwise/internal/writing"
)

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

type (
	// SelectEvent changes the exam, task, topic or focus.
	SelectEvent struct{ Selection Selection }

	// PreviewEvent installs a freshly generated question.
	PreviewEvent struct{ Preview *writing.Preview }

	// StartEvent freezes the preview and starts writing.
	StartEvent struct {
		ID  string
		Now time.Time
	}

	// EditEvent replaces the answer text.
	EditEvent struct{ Text string }

	// TickEvent is one second of countdown.
	TickEvent struct{}

	// SuggestionsEvent replaces the planning ideas.
	SuggestionsEvent struct{ Items []string }

	// EvaluatedEvent delivers the examiner's verdict.
	EvaluatedEvent struct{ Evaluation *writing.Evaluation }

	// RetryEvent rewrites the same question from scratch.
	RetryEvent struct{}

	// CancelEvent abandons the session and returns to Creation.
	CancelEvent struct{}
)

func (SelectEvent) isEvent()      {}
func (PreviewEvent) isEvent()     {}
func (StartEvent) isEvent()       {}
func (EditEvent) isEvent()        {}
func (TickEvent) isEvent()        {}
func (SuggestionsEvent) isEvent() {}
func (EvaluatedEvent) isEvent()   {}
func (RetryEvent) isEvent()       {}
func (CancelEvent) isEvent()      {}

// Reduce applies ev to s and returns the new state. It is pure: on error the
// returned state is s unchanged.
func Reduce(s State, ev Event) (State, error) {
	next := s
	switch ev := ev.(type) {
	case SelectEvent:
		if s.Mode != ModeCreation {
			return s, invalid(s, ev)
		}
		if ev.Selection.Exam.Key != s.Selection.Exam.Key || ev.Selection.Task.Key != s.Selection.Task.Key {
			next.Preview = nil
		}
		next.Selection = ev.Selection

	case PreviewEvent:
		if s.Mode != ModeCreation || ev.Preview == nil {
			return s, invalid(s, ev)
		}
		p := *ev.Preview
		next.Preview = &p

	case StartEvent:
		if s.Mode != ModeCreation {
			return s, invalid(s, ev)
		}
		if s.Preview == nil {
			return s, fmt.Errorf("%w: no question generated", ErrInvalidTransition)
		}
		if !s.Selection.HasTask() {
			return s, fmt.Errorf("%w: no task selected", ErrInvalidTransition)
		}
		next.Mode = ModeDoing
		next.Snapshot = &Snapshot{
			ID:        ev.ID,
			Exam:      s.Selection.Exam,
			Task:      s.Selection.Task,
			Topic:     s.Selection.Topic,
			Preview:   *s.Preview,
			StartedAt: ev.Now,
		}
		next.MinWords = s.Selection.Task.MinWords()
		resetAttempt(&next)

	case EditEvent:
		if s.Mode != ModeDoing {
			return s, invalid(s, ev)
		}
		next.Answer = ev.Text
		next.WordCount = exam.WordCount(ev.Text)

	case TickEvent:
		if s.Mode != ModeDoing {
			return s, invalid(s, ev)
		}
		if next.Remaining > 0 {
			next.Remaining--
		}

	case SuggestionsEvent:
		if s.Mode != ModeDoing {
			return s, invalid(s, ev)
		}
		next.Suggestions = slices.Clone(ev.Items)

	case EvaluatedEvent:
		if s.Mode != ModeDoing || ev.Evaluation == nil {
			return s, invalid(s, ev)
		}
		next.Mode = ModeChecker
		next.Evaluation = ev.Evaluation

	case RetryEvent:
		if s.Mode != ModeChecker {
			return s, invalid(s, ev)
		}
		next.Mode = ModeDoing
		resetAttempt(&next)

	case CancelEvent:
		if s.Mode != ModeDoing && s.Mode != ModeChecker {
			return s, invalid(s, ev)
		}
		next.Mode = ModeCreation
		next.Snapshot = nil
		next.Answer = ""
		next.WordCount = 0
		next.MinWords = 0
		next.Remaining = 0
		next.Suggestions = nil
		next.Evaluation = nil
		next.Evaluating = false
		next.Suggesting = false

	default:
		return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
	}
	return next, nil
}

// resetAttempt clears the answer and restores the full allowance for the
// frozen task.
func resetAttempt(s *State) {
	s.Answer = ""
	s.WordCount = 0
	s.Suggestions = nil
	s.Evaluation = nil
	s.LastError = nil
	s.Remaining = s.Snapshot.Task.Minutes() * 60
}

func invalid(s State, ev Event) error {
	return fmt.Errorf("%w: %T in %s", ErrInvalidTransition, ev, s.Mode)
}
