package writing

import "fmt"

// EvaluationFormatError means the examiner's reply did not contain a usable
// JSON object.
type EvaluationFormatError struct {
	Raw string
	Err error
}

func (e *EvaluationFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("the evaluation response could not be read: %v", e.Err)
	}
	return "the evaluation response could not be read"
}

func (e *EvaluationFormatError) Unwrap() error { return e.Err }
