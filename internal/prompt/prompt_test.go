package prompt

import (
	"strings"
	"testing"

	"github.com/abhisek/penwise/internal/exam"
)

func mustLookup(t *testing.T, e exam.ExamKey, k exam.TaskKey) (exam.Exam, exam.Task) {
	t.Helper()
	ex, task, err := exam.DefaultCatalog().Lookup(e, k)
	if err != nil {
		t.Fatalf("lookup %s/%s: %v", e, k, err)
	}
	return ex, task
}

func TestBuild_SectionOrder(t *testing.T) {
	ex, task := mustLookup(t, exam.ExamIELTS, exam.TaskIELTSEssay)
	p := Build(Input{Exam: ex, Task: task, Topic: "Technology", Focus: "use of smartphones"})

	markers := []string{
		"Return ONLY the core question",
		"Exam: IELTS",
		"Time allowed: 40 minutes",
		"Word count: ~250 words",
		"Topic: Technology",
		"Learner focus: use of smartphones",
		"Do NOT include",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(p, m)
		if idx < 0 {
			t.Fatalf("prompt missing %q:\n%s", m, p)
		}
		if idx <= last {
			t.Errorf("%q appears out of order", m)
		}
		last = idx
	}
}

func TestBuild_RandomTopicListsAllTopics(t *testing.T) {
	ex, task := mustLookup(t, exam.ExamIELTS, exam.TaskIELTSEssay)
	for _, topic := range []string{"", exam.RandomTopic, "random"} {
		p := Build(Input{Exam: ex, Task: task, Topic: topic})
		if !strings.Contains(p, "choose one at random from") {
			t.Errorf("topic %q: expected random topic line", topic)
		}
		for _, want := range task.Topics {
			if !strings.Contains(p, want) {
				t.Errorf("topic %q: missing %q", topic, want)
			}
		}
	}
}

func TestBuild_NoTopicLineWithoutTopics(t *testing.T) {
	ex, task := mustLookup(t, exam.ExamTOEFL, exam.TaskTOEFLIntegrated)
	p := Build(Input{Exam: ex, Task: task, Topic: "Technology"})
	if strings.Contains(p, "Topic:") {
		t.Error("did not expect a topic line for a task without topics")
	}
	if strings.Contains(p, "Learner focus") {
		t.Error("did not expect a focus line without focus")
	}
}

func TestBuild_LetterAugmentation(t *testing.T) {
	ex, task := mustLookup(t, exam.ExamIELTS, exam.TaskIELTSLetter)
	p := Build(Input{Exam: ex, Task: task})
	if !strings.Contains(p, "EXACTLY three bullet points") {
		t.Error("expected letter structure rule")
	}
	if strings.Count(p, LetterLeadIn) < 3 {
		t.Error("expected lead-in in the rule and both examples")
	}
	if strings.Contains(p, "neutral context") {
		t.Error("essay rule leaked into letter prompt")
	}
}

func TestBuild_EssayAugmentationOnlyForExactMatch(t *testing.T) {
	ex, task := mustLookup(t, exam.ExamIELTS, exam.TaskIELTSEssay)
	if p := Build(Input{Exam: ex, Task: task}); !strings.Contains(p, "neutral context") {
		t.Error("expected essay rule for IELTS task 2")
	}

	ex, task = mustLookup(t, exam.ExamCET4, exam.TaskCETEssay)
	if p := Build(Input{Exam: ex, Task: task}); strings.Contains(p, "neutral context") {
		t.Error("essay rule must not apply to other exams")
	}
}

func TestBuild_ChartInstruction(t *testing.T) {
	ex, task := mustLookup(t, exam.ExamIELTS, exam.TaskIELTSAcademic)
	p := Build(Input{Exam: ex, Task: task})
	if !strings.Contains(p, "```json") || !strings.Contains(p, "chartType") {
		t.Error("expected chart instruction for chart-bearing task")
	}

	ex, task = mustLookup(t, exam.ExamIELTS, exam.TaskIELTSEssay)
	if p := Build(Input{Exam: ex, Task: task}); strings.Contains(p, "chartType") {
		t.Error("did not expect chart instruction")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	ex, task := mustLookup(t, exam.ExamIELTS, exam.TaskIELTSLetter)
	in := Input{Exam: ex, Task: task, Topic: "Complaint", Focus: "formal tone"}
	if Build(in) != Build(in) {
		t.Error("Build is not deterministic")
	}
}

func TestEvaluation_EmbedsQuestionAndAnswer(t *testing.T) {
	ex, task := mustLookup(t, exam.ExamIELTS, exam.TaskIELTSEssay)
	got := Evaluation(ex, task, "Discuss both views.", "Some people think...")

	for _, want := range []string{
		"QUESTION:\nDiscuss both views.",
		"ANSWER:\nSome people think...",
		"Return ONLY a single JSON object",
		`"bandScores"`,
		`"sampleEssays"`,
		"Expected paragraphs: at least 4",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("evaluation prompt missing %q", want)
		}
	}
}
