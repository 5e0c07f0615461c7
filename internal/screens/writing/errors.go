package writing

import (
	"errors"
	"fmt"

	"github.com/abhisek/penwise/internal/llm"
	wr "github.com/abhisek/penwise/internal/writing"
)

// describeError turns a machine error into a line for the error box.
func describeError(err error) string {
	var cfgErr *llm.ConfigurationError
	var genErr *llm.GenerationError
	var fmtErr *wr.EvaluationFormatError

	switch {
	case errors.As(err, &cfgErr):
		return "No API key is configured. Set PENWISE_API_KEYS or GEMINI_API_KEY and restart."
	case errors.As(err, &genErr):
		if genErr.StatusCode != 0 {
			return fmt.Sprintf("The model request failed (%d): %s", genErr.StatusCode, genErr.Error())
		}
		return "The model request failed: " + genErr.Error()
	case errors.As(err, &fmtErr):
		return "The evaluation could not be read. Your answer is kept; submit again."
	}
	return err.Error()
}
