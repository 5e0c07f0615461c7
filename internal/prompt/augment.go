package prompt

import "github.com/abhisek/penwise/internal/exam"

// Augmentation is an extra structural rule appended for one exam task.
type Augmentation struct {
	Name string
	Text string
}

type augmentKey struct {
	exam exam.ExamKey
	task exam.TaskKey
}

// LetterLeadIn introduces the three required bullet points in letter tasks.
const LetterLeadIn = "In your letter:"

var letterRule = Augmentation{
	Name: "formal-letter",
	Text: `Structure rules for this letter task:
- Describe a realistic everyday situation in 1-3 sentences, then write a single sentence telling the candidate to write a letter to a specific person.
- Then write the exact line "` + LetterLeadIn + `" followed by EXACTLY three bullet points, each starting with "- ".
- Each bullet is a short imperative sub-requirement. Never more or fewer than three.

Example 1:
You recently stayed at a hotel and left a valuable item in your room.
Write a letter to the hotel manager.
` + LetterLeadIn + `
- describe the item you left behind
- explain where you think you left it
- say what you would like the manager to do

Example 2:
Your neighbour has been playing loud music late at night for several weeks.
Write a letter to your neighbour.
` + LetterLeadIn + `
- explain how the noise is affecting you
- suggest a solution to the problem
- say what you will do if the situation does not improve`,
}

var essayRule = Augmentation{
	Name: "essay-context",
	Text: `Structure rules for this essay task:
- Begin with one or two sentences of neutral context that introduce the issue.
- Then give the directive sentence on its own line, such as "To what extent do you agree or disagree?" or "Discuss both views and give your own opinion."
- Do not number or label the parts.`,
}

// augmentations is the static (exam, task) → rule table.
var augmentations = map[augmentKey]Augmentation{
	{exam.ExamIELTS, exam.TaskIELTSLetter}: letterRule,
	{exam.ExamIELTS, exam.TaskIELTSEssay}:  essayRule,
}

func lookupAugmentation(e exam.ExamKey, t exam.TaskKey) (Augmentation, bool) {
	a, ok := augmentations[augmentKey{e, t}]
	return a, ok
}
