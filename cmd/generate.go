package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/penwise/internal/exam"
	"github.com/abhisek/penwise/internal/writing"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one exam question and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		examKey, _ := cmd.Flags().GetString("exam")
		taskKey, _ := cmd.Flags().GetString("task")
		topic, _ := cmd.Flags().GetString("topic")
		focus, _ := cmd.Flags().GetString("focus")

		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		m := svc.newMachine()
		defer m.Close()

		if err := m.Select(exam.ExamKey(examKey), exam.TaskKey(taskKey), topic, focus); err != nil {
			return fmt.Errorf("select task: %w", err)
		}
		if err := m.Generate(cmd.Context()); err != nil {
			return fmt.Errorf("generate question: %w", err)
		}

		st := m.State()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s · %s · %s · %s\n",
			st.Selection.Exam.Label, st.Selection.Task.Name, st.Selection.Task.Time, st.Selection.Task.Words)
		fmt.Fprintln(out, strings.Repeat("─", 72))
		fmt.Fprintln(out, st.Preview.Question)
		if st.Preview.Chart != nil {
			fmt.Fprintln(out)
			fmt.Fprintln(out, writing.RenderChart(st.Preview.Chart, 72))
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("exam", "e", string(exam.ExamIELTS), "Exam key (see 'penwise exams')")
	generateCmd.Flags().StringP("task", "t", string(exam.TaskIELTSEssay), "Task key within the exam")
	generateCmd.Flags().String("topic", exam.RandomTopic, "Topic name or free text")
	generateCmd.Flags().String("focus", "", "Optional focus, e.g. \"environment and cities\"")
}
