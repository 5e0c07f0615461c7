package prompt

import (
	"fmt"
	"strings"

	"github.com/abhisek/penwise/internal/exam"
)

// evaluationContract is the JSON shape the examiner is asked to return.
// Responses are still parsed defensively; nothing here is enforced.
const evaluationContract = `{
  "score": <number, overall band>,
  "bandScores": {"overall": <number>, "TR": <number>, "CC": <number>, "GRA": <number>, "LR": <number>},
  "overallFeedback": "<2-4 sentences>",
  "errors": [
    {"type": "grammar|vocabulary|spelling|punctuation|coherence", "original": "<exact text from the answer>",
     "correction": "<corrected text>", "explanation": "<why>", "startPos": <int>, "endPos": <int>}
  ],
  "paragraphOptimizations": [{"paragraph": <int, 1-based>, "original": "<text>", "optimized": "<text>", "explanation": "<why>"}],
  "vocabularyHighlights": [{"word": "<word or phrase used>", "alternatives": ["<better option>"], "explanation": "<why>"}],
  "sentenceDiversifications": [{"original": "<sentence>", "alternatives": ["<rewrite>"], "explanation": "<why>"}],
  "sampleEssays": [{"level": "<band, e.g. 6.5>", "content": "<full essay>"}, {"level": "<higher band>", "content": "<full essay>"}]
}`

// Evaluation builds the examiner prompt for a finished answer. startPos and
// endPos are character offsets into the answer exactly as given.
func Evaluation(ex exam.Exam, task exam.Task, question, answer string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a certified %s writing examiner. Assess the candidate's answer to %s.\n\n", ex.Label, task.Name)
	fmt.Fprintf(&b, "Target length: %s\n", task.Words)
	if task.MinParagraphs > 0 {
		fmt.Fprintf(&b, "Expected paragraphs: at least %d\n", task.MinParagraphs)
	}
	b.WriteString("\nQUESTION:\n")
	b.WriteString(question)
	b.WriteString("\n\nANSWER:\n")
	b.WriteString(answer)
	b.WriteString("\n\n")

	b.WriteString("Return ONLY a single JSON object, with no markdown fences and no text before or after it, in this shape:\n")
	b.WriteString(evaluationContract)
	b.WriteString("\n\nBand scores use the official 0-9 scale in steps of 0.5. ")
	b.WriteString("Provide two sample essays: one at the candidate's current level and one a full band higher.")
	return b.String()
}
