package writing

import (
	"context"
	"regexp"
	"strings"

	"github.com/abhisek/penwise/internal/exam"
	"github.com/abhisek/penwise/internal/llm"
	"github.com/abhisek/penwise/internal/prompt"
)

// Generator turns a built prompt into a question preview.
type Generator struct {
	provider llm.Provider
}

// NewGenerator creates a Generator over the given provider.
func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{provider: provider}
}

// Generate issues one generation request. Provider errors are returned
// unchanged so callers can classify them with errors.As.
func (g *Generator) Generate(ctx context.Context, built string) (*Preview, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestion)

	resp, err := g.provider.Generate(ctx, llm.UserPrompt(built))
	if err != nil {
		return nil, err
	}
	return ParsePreview(resp.Text), nil
}

// ParsePreview separates the optional chart block from the question text
// and strips generator boilerplate from what remains.
func ParsePreview(text string) *Preview {
	rest, chart := splitChart(text)
	question := StripBoilerplate(rest)
	if question == "" {
		question = llm.EmptyResultText
	}
	return &Preview{Question: question, Chart: chart}
}

// Suggest asks for short planning ideas for question. It returns at most
// maxSuggestions items.
func (g *Generator) Suggest(ctx context.Context, question string, task exam.Task) ([]string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeSuggestion)

	resp, err := g.provider.Generate(ctx, llm.UserPrompt(prompt.SuggestionPrompt(question, task)))
	if err != nil {
		return nil, err
	}
	return parseSuggestions(resp.Text), nil
}

const maxSuggestions = 3

var bulletRe = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+(.+)$`)

// parseSuggestions keeps bulleted or numbered lines. A reply without any
// bullets is taken line by line.
func parseSuggestions(text string) []string {
	var bullets, plain []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
		if line == "" {
			continue
		}
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			bullets = append(bullets, strings.TrimSpace(m[1]))
			continue
		}
		plain = append(plain, line)
	}

	items := bullets
	if len(items) == 0 {
		items = plain
	}
	if len(items) > maxSuggestions {
		items = items[:maxSuggestions]
	}
	if items == nil {
		items = []string{}
	}
	return items
}
