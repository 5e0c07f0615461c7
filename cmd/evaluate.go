package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/penwise/internal/exam"
	"github.com/abhisek/penwise/internal/writing"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Grade an answer to a question and print the review",
	Example: `  penwise evaluate --question-file q.txt --answer-file essay.txt
  cat essay.txt | penwise evaluate --question "Some people think..." --answer-file -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		examKey, _ := cmd.Flags().GetString("exam")
		taskKey, _ := cmd.Flags().GetString("task")
		asJSON, _ := cmd.Flags().GetBool("json")

		e, t, err := exam.DefaultCatalog().Lookup(exam.ExamKey(examKey), exam.TaskKey(taskKey))
		if err != nil {
			return err
		}

		question, err := readQuestion(cmd)
		if err != nil {
			return err
		}
		answerFile, _ := cmd.Flags().GetString("answer-file")
		answer, err := readInput(cmd, answerFile)
		if err != nil {
			return fmt.Errorf("read answer: %w", err)
		}
		if strings.TrimSpace(answer) == "" {
			return errors.New("answer is empty")
		}

		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		ev, err := svc.evaluator.Evaluate(cmd.Context(), writing.EvaluationInput{
			Exam:     e,
			Task:     t,
			Question: question,
			Answer:   answer,
		})
		if err != nil {
			return fmt.Errorf("evaluate: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			fmt.Fprintln(out, ev.Raw)
			return nil
		}
		printEvaluation(out, ev, exam.WordCount(answer), t)
		return nil
	},
}

func init() {
	f := evaluateCmd.Flags()
	f.StringP("exam", "e", string(exam.ExamIELTS), "Exam key (see 'penwise exams')")
	f.StringP("task", "t", string(exam.TaskIELTSEssay), "Task key within the exam")
	f.StringP("question", "q", "", "Question text")
	f.String("question-file", "", "Read the question from a file")
	f.StringP("answer-file", "a", "", "Read the answer from a file (- for stdin)")
	f.Bool("json", false, "Print the examiner's JSON instead of the formatted review")

	evaluateCmd.MarkFlagsMutuallyExclusive("question", "question-file")
	evaluateCmd.MarkFlagsOneRequired("question", "question-file")
	_ = evaluateCmd.MarkFlagRequired("answer-file")
}

func readQuestion(cmd *cobra.Command) (string, error) {
	if q, _ := cmd.Flags().GetString("question"); q != "" {
		return q, nil
	}
	path, _ := cmd.Flags().GetString("question-file")
	q, err := readInput(cmd, path)
	if err != nil {
		return "", fmt.Errorf("read question: %w", err)
	}
	if strings.TrimSpace(q) == "" {
		return "", errors.New("question is empty")
	}
	return q, nil
}

// readInput reads path, or the command's stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func printEvaluation(out io.Writer, ev *writing.Evaluation, words int, t exam.Task) {
	sep := strings.Repeat("─", 72)

	fmt.Fprintf(out, "Overall band: %.1f    (%d words, target %s)\n", ev.Score, words, t.Words)
	fmt.Fprintf(out, "TR %.1f   CC %.1f   GRA %.1f   LR %.1f\n",
		ev.Bands.TR, ev.Bands.CC, ev.Bands.GRA, ev.Bands.LR)

	if ev.Feedback != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "FEEDBACK")
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, ev.Feedback)
	}

	if len(ev.Errors) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintf(out, "ERRORS (%d)\n", len(ev.Errors))
		fmt.Fprintln(out, sep)
		for _, we := range ev.Errors {
			fmt.Fprintf(out, "[%s] %q → %q\n", orDash(we.Type), we.Original, we.Correction)
			if we.Explanation != "" {
				fmt.Fprintf(out, "    %s\n", we.Explanation)
			}
		}
	}

	if len(ev.Paragraphs) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "PARAGRAPHS")
		fmt.Fprintln(out, sep)
		for _, p := range ev.Paragraphs {
			fmt.Fprintf(out, "Paragraph %d\n  %s\n", p.Paragraph, p.Optimized)
			if p.Explanation != "" {
				fmt.Fprintf(out, "  (%s)\n", p.Explanation)
			}
		}
	}

	if len(ev.Vocabulary) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "VOCABULARY")
		fmt.Fprintln(out, sep)
		for _, v := range ev.Vocabulary {
			fmt.Fprintf(out, "%s → %s\n", v.Word, strings.Join(v.Alternatives, ", "))
		}
	}

	if len(ev.Sentences) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "SENTENCE VARIETY")
		fmt.Fprintln(out, sep)
		for _, s := range ev.Sentences {
			fmt.Fprintf(out, "%s\n", s.Original)
			for _, alt := range s.Alternatives {
				fmt.Fprintf(out, "  • %s\n", alt)
			}
		}
	}

	for _, s := range ev.Samples {
		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintf(out, "SAMPLE (%s)\n", orDash(s.Level))
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, s.Content)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
