package llm

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/abhisek/penwise/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLogging_RecordsRequests(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	mock := NewMockProvider(
		MockResponse{Text: "a question", Usage: Usage{InputTokens: 10, OutputTokens: 4}},
		MockResponse{Err: &GenerationError{StatusCode: 429, Message: "slow down"}},
	)
	p := WithLogging(mock, ProviderMock, s.EventRepo())

	ctx := WithPurpose(context.Background(), PurposeQuestion)
	_, err = p.Generate(ctx, UserPrompt("write one"))
	require.NoError(t, err)

	ctx = WithSession(WithPurpose(context.Background(), PurposeEvaluation), "s1")
	req := UserPrompt("grade it")
	req.JSON = true
	_, err = p.Generate(ctx, req)
	require.Error(t, err)

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	failed, ok := events[0], events[1]
	assert.Equal(t, PurposeEvaluation, failed.Purpose)
	assert.Equal(t, "s1", failed.SessionID)
	assert.False(t, failed.Success)
	assert.Equal(t, "slow down", failed.ErrorMessage)
	assert.Contains(t, failed.RequestBody, "[format: json]")

	assert.Equal(t, PurposeQuestion, ok.Purpose)
	assert.Empty(t, ok.SessionID)
	assert.True(t, ok.Success)
	assert.Equal(t, "mock", ok.Provider)
	assert.Equal(t, "a question", ok.ResponseBody)
	assert.Equal(t, 10, ok.InputTokens)
	assert.Contains(t, ok.RequestBody, "[user]\nwrite one")
}

type failingRepo struct{ store.EventRepo }

func (failingRepo) AppendLLMRequest(context.Context, store.LLMRequestEventData) error {
	return errors.New("disk full")
}

func TestWithLogging_StoreFailureIsNotFatal(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Text: "ok"}), ProviderMock, failingRepo{})
	resp, err := p.Generate(context.Background(), UserPrompt("x"))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
}

func TestContextDefaults(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
	assert.Empty(t, SessionFrom(context.Background()))
}
