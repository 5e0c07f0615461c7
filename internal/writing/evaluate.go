package writing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/abhisek/penwise/internal/exam"
	"github.com/abhisek/penwise/internal/llm"
	"github.com/abhisek/penwise/internal/prompt"
)

// EvaluationInput is what gets assessed: the frozen question and the
// learner's full answer for a task.
type EvaluationInput struct {
	Exam     exam.Exam
	Task     exam.Task
	Question string
	Answer   string
}

// Evaluator grades answers through the generation provider.
type Evaluator struct {
	provider llm.Provider
}

// NewEvaluator creates an Evaluator over the given provider.
func NewEvaluator(provider llm.Provider) *Evaluator {
	return &Evaluator{provider: provider}
}

// Evaluate makes a single grading attempt. Provider errors are returned
// unchanged; an unreadable reply is an *EvaluationFormatError.
func (e *Evaluator) Evaluate(ctx context.Context, in EvaluationInput) (*Evaluation, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeEvaluation)

	req := llm.UserPrompt(prompt.Evaluation(in.Exam, in.Task, in.Question, in.Answer))
	req.JSON = true

	resp, err := e.provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return ParseEvaluation(resp.Text, in.Answer)
}

// ParseEvaluation extracts and normalizes an examiner reply for answer.
func ParseEvaluation(raw, answer string) (*Evaluation, error) {
	obj, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	ev := Normalize(obj, answer)
	ev.Raw = strings.TrimSpace(raw[strings.Index(raw, "{") : strings.LastIndex(raw, "}")+1])
	return ev, nil
}

var (
	errNoJSONObject = errors.New("no JSON object found")
	errTrailingJSON = errors.New("unexpected data after JSON object")
)

// ExtractJSON decodes the text between the first '{' and the last '}'.
// Code fences and chatter around the object are ignored.
func ExtractJSON(raw string) (map[string]any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, &EvaluationFormatError{Raw: raw, Err: errNoJSONObject}
	}

	dec := json.NewDecoder(strings.NewReader(raw[start : end+1]))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, &EvaluationFormatError{Raw: raw, Err: err}
	}
	if dec.More() {
		return nil, &EvaluationFormatError{Raw: raw, Err: errTrailingJSON}
	}
	return obj, nil
}
