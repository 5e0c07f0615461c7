package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/penwise/internal/router"
	"github.com/abhisek/penwise/internal/store"
)

// fakeRepo serves canned session events; everything else is unused here.
type fakeRepo struct {
	store.EventRepo
	records []store.SessionEventRecord
	err     error
}

func (f *fakeRepo) QuerySessionEvents(context.Context, store.QueryOpts) ([]store.SessionEventRecord, error) {
	return f.records, f.err
}

func record(seq int64, action string, score float64) store.SessionEventRecord {
	return store.SessionEventRecord{
		Sequence:  seq,
		Timestamp: time.Date(2026, 5, 4, 10, int(seq), 0, 0, time.UTC),
		SessionEventData: store.SessionEventData{
			SessionID: "s1", Action: action, Exam: "ielts", Task: "ielts-essay",
			Topic: "Education", WordCount: 260, RemainingSecs: 300, Score: score,
		},
	}
}

func load(t *testing.T, repo *fakeRepo) *HistoryScreen {
	t.Helper()
	s := New(repo)
	msg := s.Init()()
	s.Update(msg)
	return s
}

func TestHistoryListsSessions(t *testing.T) {
	s := load(t, &fakeRepo{records: []store.SessionEventRecord{
		record(3, store.ActionEvaluated, 7),
		record(2, store.ActionSubmit, 0),
		record(1, store.ActionStart, 0),
	}})

	require.Len(t, s.sessions, 1)
	view := s.View(100, 30)
	assert.Contains(t, view, "IELTS")
	assert.Contains(t, view, "best 7.0")
	assert.NotContains(t, view, "score 7.0")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view = s.View(100, 30)
	assert.Contains(t, view, "score 7.0")
	assert.Contains(t, view, "topic: Education")
}

func TestHistoryEmptyAndError(t *testing.T) {
	s := load(t, &fakeRepo{})
	assert.Contains(t, s.View(100, 30), "No sessions yet")

	s = load(t, &fakeRepo{err: errors.New("disk gone")})
	assert.Contains(t, s.View(100, 30), "disk gone")
}

func TestHistoryEscapePops(t *testing.T) {
	s := load(t, &fakeRepo{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}
