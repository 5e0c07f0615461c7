package store

import (
	"slices"
	"time"
)

// SessionSummary folds the events of one writing session.
type SessionSummary struct {
	SessionID string
	Exam      string
	Task      string
	Topic     string
	StartedAt time.Time
	LastAt    time.Time

	// Attempts counts the start plus every retry.
	Attempts    int
	Evaluations int
	BestScore   float64
	LastScore   float64

	// Outcome is the most recent action, e.g. "evaluated" or "cancel".
	Outcome string
	Events  []SessionEventRecord
}

// SummarizeSessions groups records by session, newest session first.
// Records may arrive in any order.
func SummarizeSessions(records []SessionEventRecord) []SessionSummary {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b SessionEventRecord) int {
		switch {
		case a.Sequence < b.Sequence:
			return -1
		case a.Sequence > b.Sequence:
			return 1
		}
		return 0
	})

	index := make(map[string]int)
	var out []SessionSummary
	for _, r := range sorted {
		i, ok := index[r.SessionID]
		if !ok {
			i = len(out)
			index[r.SessionID] = i
			out = append(out, SessionSummary{
				SessionID: r.SessionID,
				Exam:      r.Exam,
				Task:      r.Task,
				Topic:     r.Topic,
				StartedAt: r.Timestamp,
			})
		}
		s := &out[i]
		s.LastAt = r.Timestamp
		s.Outcome = r.Action
		s.Events = append(s.Events, r)

		switch r.Action {
		case ActionStart, ActionRetry:
			s.Attempts++
		case ActionEvaluated:
			s.Evaluations++
			s.LastScore = r.Score
			if r.Score > s.BestScore {
				s.BestScore = r.Score
			}
		}
	}

	slices.Reverse(out)
	return out
}
