package writing

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/penwise/internal/practice"
	"github.com/abhisek/penwise/internal/ui/components"
	"github.com/abhisek/penwise/internal/ui/theme"
	wr "github.com/abhisek/penwise/internal/writing"
)

func (s *Screen) View(width, height int) string {
	s.resize(width, height)

	var body string
	switch s.state.Mode {
	case practice.ModeDoing:
		body = s.renderDoing(width)
	case practice.ModeChecker:
		body = s.report.View()
	default:
		body = s.renderCreation(width)
	}

	var footer []string
	if s.state.LastError != nil {
		footer = append(footer, theme.ErrorBox.Width(components.ContentWidth(width)).
			Render(describeError(s.state.LastError)))
	}
	if s.notice != "" {
		footer = append(footer, lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice))
	}
	if len(footer) == 0 {
		return body
	}
	return body + "\n" + strings.Join(footer, "\n")
}

// resize adapts the editor and report to the content area.
func (s *Screen) resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	cw := components.ContentWidth(width)

	s.editor.SetWidth(cw)
	s.editor.SetHeight(max(height/3, 5))

	s.report.SetWidth(width)
	s.report.SetHeight(max(height-3, 5))
	s.refreshReport()
}

func (s *Screen) renderCreation(width int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(s.exams.View(s.field == fieldExam) + "\n")
	b.WriteString(s.tasks.View(s.field == fieldTask) + "\n")
	if task, ok := s.currentTask(); ok {
		facts := fmt.Sprintf("%s · %s", task.Time, task.Words)
		b.WriteString(theme.Hint.Render("        "+facts) + "\n")
	}
	if len(s.topics.Options) > 0 {
		b.WriteString(s.topics.View(s.field == fieldTopic) + "\n")
	}
	b.WriteString(s.focus.View() + "\n\n")

	switch {
	case s.state.Loading:
		b.WriteString(s.spinner.View() + " Generating a question...")
	case s.state.Preview != nil:
		b.WriteString(components.Card("Question", renderPreview(s.state.Preview, cw-4), cw))
	default:
		b.WriteString(theme.Hint.Render("Press Enter to generate a question."))
	}
	return b.String()
}

func renderPreview(p *wr.Preview, width int) string {
	text := lipgloss.NewStyle().Width(width).Render(p.Question)
	if p.Chart != nil {
		text += "\n\n" + wr.RenderChart(p.Chart, width)
	}
	return text
}

func (s *Screen) renderDoing(width int) string {
	st := s.state
	cw := components.ContentWidth(width)
	var b strings.Builder

	if snap := st.Snapshot; snap != nil {
		b.WriteString(theme.Label.Render(snap.Exam.Label+" · "+snap.Task.Name) + "\n")
		b.WriteString(components.Card("", renderPreview(&snap.Preview, cw-4), cw) + "\n")
	}

	if len(st.Suggestions) > 0 {
		var ideas strings.Builder
		for _, item := range st.Suggestions {
			ideas.WriteString("• " + item + "\n")
		}
		b.WriteString(components.Card("Ideas", strings.TrimRight(ideas.String(), "\n"), cw) + "\n")
	}

	b.WriteString(s.editor.View() + "\n")
	b.WriteString(components.NewWordMeter(st.WordCount, st.MinWords, cw).View() + "\n")

	if st.Snapshot != nil && st.Snapshot.Task.MinParagraphs > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Paragraphs: %d (aim for at least %d)",
			countParagraphs(st.Answer), st.Snapshot.Task.MinParagraphs)) + "\n")
	}

	switch {
	case s.confirmCancel:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render("Abandon this answer? (y/n)"))
	case st.Evaluating:
		b.WriteString(s.spinner.View() + " Evaluating your answer...")
	case st.Suggesting:
		b.WriteString(s.spinner.View() + " Thinking of ideas...")
	case st.Remaining == 0:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("Time is up."))
	default:
		b.WriteString(components.NewButton("Submit", "Ctrl+S", practice.CanSubmit(st)).View())
	}
	return b.String()
}

// countParagraphs counts blocks of text separated by blank lines.
func countParagraphs(text string) int {
	n := 0
	inPara := false
	for line := range strings.SplitSeq(text, "\n") {
		if strings.TrimSpace(line) == "" {
			inPara = false
			continue
		}
		if !inPara {
			n++
			inPara = true
		}
	}
	return n
}

func (s *Screen) refreshReport() {
	st := s.state
	if st.Evaluation == nil || st.Snapshot == nil || s.width == 0 {
		s.report.SetContent("")
		return
	}
	s.report.SetContent(renderReport(st.Evaluation, st.Answer, components.ContentWidth(s.width)))
}

// renderReport lays out the full evaluation for the scrolling viewport.
func renderReport(ev *wr.Evaluation, answer string, width int) string {
	inner := width - 4
	var sections []string

	score := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
		Render(fmt.Sprintf("Overall %.1f", ev.Score))
	bands := fmt.Sprintf("TR %.1f   CC %.1f   GRA %.1f   LR %.1f",
		ev.Bands.TR, ev.Bands.CC, ev.Bands.GRA, ev.Bands.LR)
	sections = append(sections, score+"   "+theme.Subtitle.Render(bands))

	if ev.Feedback != "" {
		sections = append(sections, components.Card("Feedback",
			lipgloss.NewStyle().Width(inner).Render(ev.Feedback), width))
	}

	sections = append(sections, components.Card("Your answer",
		lipgloss.NewStyle().Width(inner).Render(renderAnnotated(answer, ev.Errors)), width))

	if len(ev.Errors) > 0 {
		var b strings.Builder
		for i, e := range ev.Errors {
			kind := theme.ErrorStyle(e.Type).UnsetUnderline().Bold(true).Render(orDefault(e.Type, "issue"))
			fmt.Fprintf(&b, "%d. %s  %q → %q\n", i+1, kind, e.Original, e.Correction)
			if e.Explanation != "" {
				b.WriteString(theme.Hint.Width(inner).Render("   "+e.Explanation) + "\n")
			}
		}
		sections = append(sections, components.Card("Corrections", strings.TrimRight(b.String(), "\n"), width))
	}

	if len(ev.Paragraphs) > 0 {
		var b strings.Builder
		for _, p := range ev.Paragraphs {
			fmt.Fprintf(&b, "Paragraph %d\n", p.Paragraph)
			b.WriteString(theme.Subtitle.Width(inner).Render(p.Original) + "\n")
			b.WriteString(theme.Body.Width(inner).Render("→ "+p.Optimized) + "\n")
			if p.Explanation != "" {
				b.WriteString(theme.Hint.Width(inner).Render(p.Explanation) + "\n")
			}
			b.WriteString("\n")
		}
		sections = append(sections, components.Card("Paragraph rewrites", strings.TrimRight(b.String(), "\n"), width))
	}

	if len(ev.Vocabulary) > 0 {
		var b strings.Builder
		for _, v := range ev.Vocabulary {
			fmt.Fprintf(&b, "%s → %s\n", theme.Label.Render(v.Word), strings.Join(v.Alternatives, ", "))
			if v.Explanation != "" {
				b.WriteString(theme.Hint.Width(inner).Render("   "+v.Explanation) + "\n")
			}
		}
		sections = append(sections, components.Card("Vocabulary", strings.TrimRight(b.String(), "\n"), width))
	}

	if len(ev.Sentences) > 0 {
		var b strings.Builder
		for _, sd := range ev.Sentences {
			b.WriteString(theme.Subtitle.Width(inner).Render(sd.Original) + "\n")
			for _, alt := range sd.Alternatives {
				b.WriteString(theme.Body.Width(inner).Render("  • "+alt) + "\n")
			}
			b.WriteString("\n")
		}
		sections = append(sections, components.Card("Sentence variety", strings.TrimRight(b.String(), "\n"), width))
	}

	for _, sample := range ev.Samples {
		sections = append(sections, components.Card("Sample answer ("+orDefault(sample.Level, "model")+")",
			lipgloss.NewStyle().Width(inner).Render(sample.Content), width))
	}

	return strings.Join(sections, "\n")
}

// renderAnnotated highlights each error span in the color of its category.
func renderAnnotated(answer string, errs []wr.WritingError) string {
	var b strings.Builder
	for _, seg := range wr.Annotate(answer, errs) {
		if seg.Error == nil {
			b.WriteString(seg.Text)
			continue
		}
		b.WriteString(theme.ErrorStyle(seg.Error.Type).Render(seg.Text))
	}
	return b.String()
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
