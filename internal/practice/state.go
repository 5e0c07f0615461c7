// Package practice owns a writing session: the Creation → Doing → Checker
// state machine, the countdown and the submission gate.
package practice

import (
	"errors"
	"slices"
	"time"

	"github.com/abhisek/penwise/internal/exam"
	"github.com/abhisek/penwise/internal/writing"
)

// Mode is the phase of the writing session.
type Mode int

const (
	ModeCreation Mode = iota // Choosing a task and generating a question
	ModeDoing                // Writing the answer against the clock
	ModeChecker              // Reviewing the evaluation
)

func (m Mode) String() string {
	switch m {
	case ModeCreation:
		return "creation"
	case ModeDoing:
		return "doing"
	case ModeChecker:
		return "checker"
	}
	return "unknown"
}

var (
	// ErrInvalidTransition is returned for an event the current mode does
	// not accept. The state is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrBusy is returned when a generation or evaluation is already in
	// flight. Requests are not queued.
	ErrBusy = errors.New("request already in progress")
)

// Selection is what the learner picked in Creation.
type Selection struct {
	Exam  exam.Exam
	Task  exam.Task
	Topic string
	Focus string
}

// HasTask reports whether a task is selected.
func (s Selection) HasTask() bool {
	return s.Task.Key != ""
}

// Snapshot freezes the question and task when writing starts. It is never
// modified afterwards.
type Snapshot struct {
	ID        string
	Exam      exam.Exam
	Task      exam.Task
	Topic     string
	Preview   writing.Preview
	StartedAt time.Time
}

// State is the full session state. Values returned by Machine.State are
// copies and safe to read from any goroutine.
type State struct {
	Mode      Mode
	Selection Selection

	// Preview is the latest generated question; nil until one exists.
	Preview *writing.Preview

	// Snapshot is set in Doing and Checker.
	Snapshot *Snapshot

	Answer    string
	WordCount int
	MinWords  int

	// Remaining is the countdown in seconds. It never goes below zero.
	Remaining int

	Suggestions []string
	Evaluation  *writing.Evaluation

	// Busy flags. At most one generation and one evaluation run at a time.
	Loading    bool
	Evaluating bool
	Suggesting bool

	// LastError is the most recent failure, shown until dismissed.
	LastError error
}

// CanSubmit is the submission gate: writing, time left and enough words.
func CanSubmit(s State) bool {
	return s.Mode == ModeDoing && s.Remaining > 0 && s.WordCount >= s.MinWords
}

// clone returns a copy that shares no mutable memory with s.
func (s State) clone() State {
	c := s
	c.Suggestions = slices.Clone(s.Suggestions)
	if s.Preview != nil {
		p := *s.Preview
		c.Preview = &p
	}
	if s.Snapshot != nil {
		snap := *s.Snapshot
		c.Snapshot = &snap
	}
	return c
}
