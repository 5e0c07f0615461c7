package exam

import (
	"errors"
	"fmt"
)

// ExamKey identifies an exam family in the catalog.
type ExamKey string

// TaskKey identifies a writing task within an exam.
type TaskKey string

const (
	ExamIELTS ExamKey = "ielts"
	ExamTOEFL ExamKey = "toefl"
	ExamCET4  ExamKey = "cet4"
	ExamCET6  ExamKey = "cet6"
)

const (
	TaskIELTSAcademic TaskKey = "task1-academic"
	TaskIELTSLetter   TaskKey = "task1-general"
	TaskIELTSEssay    TaskKey = "task2"

	TaskTOEFLIntegrated TaskKey = "integrated"
	TaskTOEFLDiscussion TaskKey = "academic-discussion"

	TaskCETEssay       TaskKey = "essay"
	TaskCETTranslation TaskKey = "translation"
)

// RandomTopic asks the generator to pick one of the task's topics itself.
const RandomTopic = "Random"

var (
	ErrUnknownExam  = errors.New("unknown exam")
	ErrUnknownTask  = errors.New("unknown task")
	ErrTaskDisabled = errors.New("task is disabled")
)

// Exam is an immutable catalog entry for a proficiency-test family.
type Exam struct {
	Key     ExamKey
	Label   string
	Info    string
	Purpose string
	Tasks   []Task
}

// Task is a writing exercise type within an Exam.
type Task struct {
	Key         TaskKey
	Name        string
	Description string

	// Time is the nominal allowance as free text, e.g. "20 minutes".
	Time string

	// Words is the nominal word-count target as free text, e.g. "150-225 words".
	Words string

	// Topics is the optional topic list offered during question creation.
	Topics []string

	// MinParagraphs is advisory guidance shown while answering. Zero means none.
	MinParagraphs int

	// Chart is set for task types whose question carries visual data.
	Chart bool

	Disabled bool
}

// Minutes returns the parsed time allowance.
func (t Task) Minutes() int {
	return ParseMinutes(t.Time)
}

// MinWords returns the minimum word count required to submit.
func (t Task) MinWords() int {
	return ParseMinWords(t.Words)
}

// HasTopics reports whether the task offers a topic list.
func (t Task) HasTopics() bool {
	return len(t.Topics) > 0
}

// Task returns the task with the given key.
func (e Exam) Task(key TaskKey) (Task, error) {
	for _, t := range e.Tasks {
		if t.Key == key {
			return t, nil
		}
	}
	return Task{}, fmt.Errorf("%w: %s/%s", ErrUnknownTask, e.Key, key)
}

// FirstEnabledTask returns the first task that is not disabled.
func (e Exam) FirstEnabledTask() (Task, bool) {
	for _, t := range e.Tasks {
		if !t.Disabled {
			return t, true
		}
	}
	return Task{}, false
}

// Catalog is an ordered, read-only set of exams.
type Catalog struct {
	exams []Exam
	byKey map[ExamKey]int
}

// NewCatalog builds a catalog from exam definitions. Duplicate exam keys
// or duplicate task keys within an exam are rejected.
func NewCatalog(exams []Exam) (*Catalog, error) {
	c := &Catalog{
		exams: make([]Exam, len(exams)),
		byKey: make(map[ExamKey]int, len(exams)),
	}
	copy(c.exams, exams)

	for i, e := range c.exams {
		if e.Key == "" {
			return nil, fmt.Errorf("exam at index %d has no key", i)
		}
		if _, dup := c.byKey[e.Key]; dup {
			return nil, fmt.Errorf("duplicate exam key %q", e.Key)
		}
		seen := make(map[TaskKey]bool, len(e.Tasks))
		for _, t := range e.Tasks {
			if seen[t.Key] {
				return nil, fmt.Errorf("duplicate task key %q in exam %q", t.Key, e.Key)
			}
			seen[t.Key] = true
		}
		c.byKey[e.Key] = i
	}
	return c, nil
}

// Exams returns all exams in display order.
func (c *Catalog) Exams() []Exam {
	out := make([]Exam, len(c.exams))
	copy(out, c.exams)
	return out
}

// Exam returns the exam with the given key.
func (c *Catalog) Exam(key ExamKey) (Exam, error) {
	i, ok := c.byKey[key]
	if !ok {
		return Exam{}, fmt.Errorf("%w: %s", ErrUnknownExam, key)
	}
	return c.exams[i], nil
}

// Lookup resolves an (exam, task) pair and rejects disabled tasks.
func (c *Catalog) Lookup(examKey ExamKey, taskKey TaskKey) (Exam, Task, error) {
	e, err := c.Exam(examKey)
	if err != nil {
		return Exam{}, Task{}, err
	}
	t, err := e.Task(taskKey)
	if err != nil {
		return Exam{}, Task{}, err
	}
	if t.Disabled {
		return Exam{}, Task{}, fmt.Errorf("%w: %s/%s", ErrTaskDisabled, examKey, taskKey)
	}
	return e, t, nil
}
