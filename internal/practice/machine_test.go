package practice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/penwise/internal/exam"
	"github.com/abhisek/penwise/internal/llm"
	"github.com/abhisek/penwise/internal/store"
	"github.com/abhisek/penwise/internal/writing"
)

type fakeQuestions struct {
	preview  *writing.Preview
	err      error
	block    chan struct{}
	calls    int
	mu       sync.Mutex
	ideas    []string
	suggests int
}

func (f *fakeQuestions) Generate(ctx context.Context, built string) (*writing.Preview, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.preview, nil
}

func (f *fakeQuestions) Suggest(context.Context, string, exam.Task) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggests++
	return f.ideas, nil
}

type fakeGrader struct {
	result *writing.Evaluation
	err    error
	block  chan struct{}
	mu     sync.Mutex
	inputs []writing.EvaluationInput
	// sessions holds the session ID each request was tagged with.
	sessions []string
}

func (f *fakeGrader) Evaluate(ctx context.Context, in writing.EvaluationInput) (*writing.Evaluation, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	f.sessions = append(f.sessions, llm.SessionFrom(ctx))
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.result, f.err
}

func (f *fakeGrader) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputs)
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []store.SessionEventData
}

func (r *fakeRecorder) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return nil
}

func (r *fakeRecorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

func testCatalog(t *testing.T) *exam.Catalog {
	t.Helper()
	c, err := exam.NewCatalog([]exam.Exam{{
		Key:   "demo",
		Label: "Demo",
		Tasks: []exam.Task{
			{Key: "essay", Name: "Essay", Time: "1 minute", Words: "3 words"},
			{Key: "off", Name: "Off", Time: "1 minute", Words: "3 words", Disabled: true},
		},
	}})
	require.NoError(t, err)
	return c
}

type fixture struct {
	m   *Machine
	q   *fakeQuestions
	g   *fakeGrader
	rec *fakeRecorder
}

func newFixture(t *testing.T, tick time.Duration) *fixture {
	t.Helper()
	f := &fixture{
		q:   &fakeQuestions{preview: &writing.Preview{Question: "Discuss."}},
		g:   &fakeGrader{result: &writing.Evaluation{Score: 6.5}},
		rec: &fakeRecorder{},
	}
	f.m = NewMachine(Options{
		Catalog:   testCatalog(t),
		Questions: f.q,
		Grader:    f.g,
		Recorder:  f.rec,
		Tick:      tick,
		NewID:     func() string { return "session-1" },
	})
	t.Cleanup(f.m.Close)
	return f
}

func (f *fixture) startWriting(t *testing.T) {
	t.Helper()
	require.NoError(t, f.m.Generate(context.Background()))
	require.NoError(t, f.m.Start())
}

func TestMachine_DefaultSelection(t *testing.T) {
	f := newFixture(t, time.Hour)
	s := f.m.State()
	assert.Equal(t, ModeCreation, s.Mode)
	assert.Equal(t, exam.TaskKey("essay"), s.Selection.Task.Key)
	assert.Equal(t, exam.RandomTopic, s.Selection.Topic)
}

func TestMachine_FullSession(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.startWriting(t)

	s := f.m.State()
	require.Equal(t, ModeDoing, s.Mode)
	assert.Equal(t, 60, s.Remaining)
	assert.Equal(t, "Discuss.", s.Snapshot.Preview.Question)

	require.NoError(t, f.m.Edit("one two three"))
	require.NoError(t, f.m.Submit(context.Background()))

	s = f.m.State()
	assert.Equal(t, ModeChecker, s.Mode)
	assert.Equal(t, 6.5, s.Evaluation.Score)
	require.Len(t, f.g.inputs, 1)
	assert.Equal(t, "one two three", f.g.inputs[0].Answer)
	assert.Equal(t, "Discuss.", f.g.inputs[0].Question)
	assert.Equal(t, []string{"session-1"}, f.g.sessions)

	require.NoError(t, f.m.Retry())
	assert.Equal(t, ModeDoing, f.m.State().Mode)
	require.NoError(t, f.m.Cancel())
	assert.Equal(t, ModeCreation, f.m.State().Mode)

	assert.Equal(t, []string{
		store.ActionStart, store.ActionSubmit, store.ActionEvaluated, store.ActionRetry, store.ActionCancel,
	}, f.rec.actions())
	assert.Equal(t, 6.5, f.rec.events[2].Score)
	assert.Equal(t, "session-1", f.rec.events[0].SessionID)
}

func TestMachine_SelectDisabledTask(t *testing.T) {
	f := newFixture(t, time.Hour)
	err := f.m.Select("demo", "off", "", "")
	assert.ErrorIs(t, err, exam.ErrTaskDisabled)
	assert.ErrorIs(t, f.m.Select("nope", "essay", "", ""), exam.ErrUnknownExam)
}

func TestMachine_GenerateBusy(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.q.block = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- f.m.Generate(context.Background()) }()

	require.Eventually(t, func() bool { return f.m.State().Loading }, time.Second, time.Millisecond)
	assert.ErrorIs(t, f.m.Generate(context.Background()), ErrBusy)
	assert.ErrorIs(t, f.m.Start(), ErrBusy)

	close(f.q.block)
	require.NoError(t, <-done)
	s := f.m.State()
	assert.False(t, s.Loading)
	assert.NotNil(t, s.Preview)
	assert.Equal(t, 1, f.q.calls)
}

func TestMachine_GenerateFailureKeepsMode(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.q.err = &llm.ConfigurationError{}

	err := f.m.Generate(context.Background())
	var cfgErr *llm.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))

	s := f.m.State()
	assert.Equal(t, ModeCreation, s.Mode)
	assert.False(t, s.Loading)
	assert.True(t, errors.As(s.LastError, &cfgErr))

	f.m.DismissError()
	assert.Nil(t, f.m.State().LastError)
}

func TestMachine_CancelledGenerateIsNotAnError(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.q.block = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.m.Generate(ctx) }()
	require.Eventually(t, func() bool { return f.m.State().Loading }, time.Second, time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	s := f.m.State()
	assert.False(t, s.Loading)
	assert.Nil(t, s.LastError)
}

func TestMachine_SubmitGate(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.startWriting(t)

	require.NoError(t, f.m.Edit("too short"))
	assert.ErrorIs(t, f.m.Submit(context.Background()), ErrCannotSubmit)
	assert.Equal(t, 0, f.g.calls())
}

func TestMachine_SubmitFormatErrorStaysInDoing(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.g.result = nil
	f.g.err = &writing.EvaluationFormatError{Raw: "nope"}
	f.startWriting(t)
	require.NoError(t, f.m.Edit("one two three"))

	err := f.m.Submit(context.Background())
	var fmtErr *writing.EvaluationFormatError
	require.True(t, errors.As(err, &fmtErr))

	s := f.m.State()
	assert.Equal(t, ModeDoing, s.Mode)
	assert.False(t, s.Evaluating)
	assert.Equal(t, "one two three", s.Answer, "answer survives a failed evaluation")
	assert.True(t, errors.As(s.LastError, &fmtErr))
}

func TestMachine_SubmitBusyAndEditLocked(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.g.block = make(chan struct{})
	f.startWriting(t)
	require.NoError(t, f.m.Edit("one two three"))

	done := make(chan error, 1)
	go func() { done <- f.m.Submit(context.Background()) }()
	require.Eventually(t, func() bool { return f.m.State().Evaluating }, time.Second, time.Millisecond)

	assert.ErrorIs(t, f.m.Submit(context.Background()), ErrBusy)
	assert.ErrorIs(t, f.m.Edit("changed"), ErrBusy)

	close(f.g.block)
	require.NoError(t, <-done)
	assert.Equal(t, ModeChecker, f.m.State().Mode)
	assert.Equal(t, 1, f.g.calls())
}

func TestMachine_CancelDuringEvaluationDiscardsResult(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.g.block = make(chan struct{})
	f.startWriting(t)
	require.NoError(t, f.m.Edit("one two three"))

	done := make(chan error, 1)
	go func() { done <- f.m.Submit(context.Background()) }()
	require.Eventually(t, func() bool { return f.m.State().Evaluating }, time.Second, time.Millisecond)

	require.NoError(t, f.m.Cancel())
	close(f.g.block)
	require.NoError(t, <-done)

	s := f.m.State()
	assert.Equal(t, ModeCreation, s.Mode)
	assert.Nil(t, s.Evaluation)
}

func TestMachine_CancelDuringEvaluationFreesNextSession(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.g.block = make(chan struct{})
	f.startWriting(t)
	require.NoError(t, f.m.Edit("one two three"))

	done := make(chan error, 1)
	go func() { done <- f.m.Submit(context.Background()) }()
	require.Eventually(t, func() bool { return f.m.State().Evaluating }, time.Second, time.Millisecond)

	require.NoError(t, f.m.Cancel())
	assert.False(t, f.m.State().Evaluating)

	require.NoError(t, f.m.Start())
	require.NoError(t, f.m.Edit("fresh answer here"))

	close(f.g.block)
	require.NoError(t, <-done)

	s := f.m.State()
	assert.Equal(t, ModeDoing, s.Mode, "the old verdict must not end the new attempt")
	assert.False(t, s.Evaluating)
	assert.Nil(t, s.Evaluation)
	assert.Equal(t, "fresh answer here", s.Answer)
	require.NoError(t, f.m.Edit("fresh answer here again"))
}

func TestMachine_EvaluationSurvivesCountdownExpiry(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.g.block = make(chan struct{})
	f.startWriting(t)
	require.NoError(t, f.m.Edit("one two three"))

	done := make(chan error, 1)
	go func() { done <- f.m.Submit(context.Background()) }()
	require.Eventually(t, func() bool { return f.m.State().Evaluating }, time.Second, time.Millisecond)

	// Run the final second of the countdown by hand.
	f.m.mu.Lock()
	f.m.state.Remaining = 1
	run := f.m.run
	f.m.mu.Unlock()
	f.m.tick(run)
	require.Equal(t, 0, f.m.State().Remaining)

	close(f.g.block)
	require.NoError(t, <-done)

	s := f.m.State()
	assert.Equal(t, ModeChecker, s.Mode)
	assert.False(t, s.Evaluating)
}

func TestCountdownZeroBlocksWithoutSubmitting(t *testing.T) {
	f := newFixture(t, time.Millisecond)
	f.startWriting(t)
	require.NoError(t, f.m.Edit("one two three four"))

	require.Eventually(t, func() bool { return f.m.State().Remaining == 0 }, 5*time.Second, 5*time.Millisecond)

	s := f.m.State()
	assert.Equal(t, ModeDoing, s.Mode, "reaching zero must not leave Doing")
	assert.False(t, CanSubmit(s))
	assert.Equal(t, 0, f.g.calls(), "reaching zero must not submit")
	assert.ErrorIs(t, f.m.Submit(context.Background()), ErrCannotSubmit)

	require.Eventually(t, func() bool { return !f.m.timer.Running() }, time.Second, time.Millisecond)
}

func TestMachine_StaleTicksIgnored(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.startWriting(t)

	f.m.mu.Lock()
	stale := f.m.run - 1
	f.m.mu.Unlock()

	f.m.tick(stale)
	assert.Equal(t, 60, f.m.State().Remaining)

	f.m.mu.Lock()
	live := f.m.run
	f.m.mu.Unlock()
	f.m.tick(live)
	assert.Equal(t, 59, f.m.State().Remaining)
}

func TestMachine_RetryRestartsCountdown(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.startWriting(t)
	require.NoError(t, f.m.Edit("one two three"))

	f.m.mu.Lock()
	first := f.m.run
	f.m.mu.Unlock()

	require.NoError(t, f.m.Submit(context.Background()))
	assert.False(t, f.m.timer.Running())

	require.NoError(t, f.m.Retry())
	f.m.mu.Lock()
	second := f.m.run
	f.m.mu.Unlock()
	assert.NotEqual(t, first, second)
	assert.True(t, f.m.timer.Running())

	// Ticks from the first attempt no longer count.
	f.m.tick(first)
	assert.Equal(t, 60, f.m.State().Remaining)
}

func TestMachine_Suggest(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.q.ideas = []string{"Compare costs", "Give an example"}

	assert.ErrorIs(t, f.m.Suggest(context.Background()), ErrInvalidTransition)

	f.startWriting(t)
	require.NoError(t, f.m.Suggest(context.Background()))
	assert.Equal(t, []string{"Compare costs", "Give an example"}, f.m.State().Suggestions)
}

func TestMachine_Subscribe(t *testing.T) {
	f := newFixture(t, time.Hour)
	ch := f.m.Subscribe()

	require.NoError(t, f.m.Generate(context.Background()))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change signal")
	}

	f.m.Close()
	// Drain any pending signal, then expect the channel to be closed.
	for range ch {
	}
}
