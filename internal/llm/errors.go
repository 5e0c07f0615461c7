package llm

import "fmt"

// ConfigurationError means no usable credential is available. It is
// returned before any network I/O.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return "configure an API key: " + e.Reason
	}
	return "configure an API key: no generation credential is available"
}

// GenerationError is a non-success response or transport failure from the
// generation endpoint. Message prefers the upstream error text.
type GenerationError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GenerationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return statusMessage(e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("generation request failed: %v", e.Err)
	}
	return "generation request failed"
}

func (e *GenerationError) Unwrap() error { return e.Err }

func statusMessage(code int) string {
	return fmt.Sprintf("generation request failed with status %d", code)
}

// upstreamError builds a GenerationError from a provider API error.
func upstreamError(code int, message string, err error) *GenerationError {
	if message == "" {
		message = statusMessage(code)
	}
	return &GenerationError{StatusCode: code, Message: message, Err: err}
}

// transportError builds a GenerationError for failures that never produced
// an HTTP status (DNS, timeouts, refused connections).
func transportError(err error) *GenerationError {
	return &GenerationError{
		Message: "could not reach the generation service; check your network connection and try again",
		Err:     err,
	}
}
