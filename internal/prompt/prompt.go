// Package prompt builds question-generation prompts for writing tasks.
package prompt

import (
	"fmt"
	"strings"

	"github.com/abhisek/penwise/internal/exam"
)

// Input is everything the learner selected before generating a question.
type Input struct {
	Exam exam.Exam
	Task exam.Task

	// Topic is a topic from Task.Topics, exam.RandomTopic, or custom free text.
	Topic string

	// Focus is an optional learner-supplied focus string.
	Focus string
}

const generatorInstruction = `You are an examiner writing an official English writing exam question.
Return ONLY the core question that a candidate would read. Do not add a title, heading, section label,
numbering, answer, model essay, tips, or any instructions about how to answer.`

const negativeInstruction = `Do NOT include any of the following in your output:
- time limits or phrases such as "You should spend about 20 minutes on this task"
- word-count requirements such as "Write at least 250 words"
- section headers, task labels or markdown headings such as "Task 2:" or "## Question"
- lead-ins such as "Write about the following topic:"
- bold text, commentary, or explanations of the question`

const chartInstruction = "After the question, append exactly one fenced code block that starts with ```json and contains " +
	`a single object with the keys "chartType" (one of "bar", "pie", "line"), "chartData" (an object with ` +
	`"labels": [string] and "datasets": [{"label": string, "data": [number]}]) and optionally "chartOptions" ` +
	`(an object with "title" and "unit"). The data must match the question.`

// Build renders the generation prompt. It is pure and deterministic.
func Build(in Input) string {
	var b strings.Builder

	b.WriteString(generatorInstruction)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Exam: %s\n", in.Exam.Label)
	fmt.Fprintf(&b, "Task: %s\n", in.Task.Name)
	if in.Task.Description != "" {
		fmt.Fprintf(&b, "Task description: %s\n", in.Task.Description)
	}
	fmt.Fprintf(&b, "Time allowed: %s\n", in.Task.Time)
	fmt.Fprintf(&b, "Word count: %s\n", in.Task.Words)

	if line := topicLine(in); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if focus := strings.TrimSpace(in.Focus); focus != "" {
		fmt.Fprintf(&b, "Learner focus: %s\n", focus)
	}

	b.WriteString("\n")
	b.WriteString(negativeInstruction)

	if rule, ok := lookupAugmentation(in.Exam.Key, in.Task.Key); ok {
		b.WriteString("\n\n")
		b.WriteString(rule.Text)
	}

	if in.Task.Chart {
		b.WriteString("\n\n")
		b.WriteString(chartInstruction)
	}

	return b.String()
}

func topicLine(in Input) string {
	if !in.Task.HasTopics() {
		return ""
	}
	topic := strings.TrimSpace(in.Topic)
	if topic == "" || strings.EqualFold(topic, exam.RandomTopic) {
		return fmt.Sprintf("Topic: choose one at random from %s", strings.Join(in.Task.Topics, ", "))
	}
	return fmt.Sprintf("Topic: %s", topic)
}

// SuggestionPrompt asks for brief planning ideas for a question already in play.
func SuggestionPrompt(question string, task exam.Task) string {
	var b strings.Builder
	b.WriteString("You are an English writing coach. A candidate is answering the question below.\n\n")
	fmt.Fprintf(&b, "QUESTION:\n%s\n\n", question)
	fmt.Fprintf(&b, "Target length: %s\n\n", task.Words)
	b.WriteString("Give exactly 3 short planning ideas, one per line, each starting with \"- \". ")
	b.WriteString("Do not write any part of the answer for the candidate.")
	return b.String()
}
