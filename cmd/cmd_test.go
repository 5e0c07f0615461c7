package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/penwise/internal/store"
)

// isolate points every config source at a temp dir and returns the DB path.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	for _, k := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"PENWISE_PROVIDER", "PENWISE_MODEL", "PENWISE_API_KEYS", "PENWISE_BASE_URL",
	} {
		t.Setenv(k, "")
	}
	db := filepath.Join(home, "penwise.db")
	t.Setenv("PENWISE_DB", db)
	return db
}

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestVersion(t *testing.T) {
	out := execute(t, "", "version")
	assert.Equal(t, "penwise (devel)\n", out)
}

func TestExamsListsCatalog(t *testing.T) {
	out := execute(t, "", "exams")
	assert.Contains(t, out, "IELTS (ielts)")
	assert.Contains(t, out, "task2")
	assert.Contains(t, out, "TOEFL")
	assert.Contains(t, out, "(coming soon)")
}

func TestGenerateRecordsLLMEvent(t *testing.T) {
	isolate(t)

	out := execute(t, "", "--provider", "mock", "generate", "--exam", "ielts", "--task", "task2")
	assert.Contains(t, out, "IELTS · Task 2")
	assert.Contains(t, out, "Discuss both views and give your own opinion.")

	out = execute(t, "", "--provider", "mock", "llm", "list")
	assert.Contains(t, out, "question-gen")

	out = execute(t, "", "--provider", "mock", "llm", "stats")
	assert.Contains(t, out, "Usage by Purpose")
	assert.Contains(t, out, "TOTAL")
}

func TestEvaluateFromStdin(t *testing.T) {
	isolate(t)

	answer := "Universities should do both. Employment matters, but so does curiosity."
	out := execute(t, answer, "--provider", "mock",
		"evaluate", "--question", "Discuss both views.", "--answer-file", "-")

	assert.Contains(t, out, "Overall band: 6.0")
	assert.Contains(t, out, "TR 6.0   CC 6.0   GRA 5.5   LR 6.5")
}

func TestHistory(t *testing.T) {
	db := isolate(t)

	out := execute(t, "", "history")
	assert.Contains(t, out, "No practice sessions recorded yet.")

	s, err := store.Open(db)
	require.NoError(t, err)
	repo := s.EventRepo()
	ctx := context.Background()
	base := store.SessionEventData{SessionID: "s1", Exam: "ielts", Task: "task2", Topic: "Education"}
	for _, ev := range []store.SessionEventData{
		{Action: store.ActionStart},
		{Action: store.ActionSubmit, WordCount: 260, RemainingSecs: 120},
		{Action: store.ActionEvaluated, WordCount: 260, Score: 6.5},
	} {
		ev.SessionID, ev.Exam, ev.Task, ev.Topic = base.SessionID, base.Exam, base.Task, base.Topic
		require.NoError(t, repo.AppendSessionEvent(ctx, ev))
	}
	require.NoError(t, s.Close())

	out = execute(t, "", "history", "--verbose")
	assert.Contains(t, out, "ielts")
	assert.Contains(t, out, "6.5")
	assert.Contains(t, out, "evaluated")
	assert.Contains(t, out, "260 words")
}
