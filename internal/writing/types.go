package writing

// Preview is a generated question ready to be shown to the learner.
// It is replaced wholesale when the learner regenerates.
type Preview struct {
	Question string
	Chart    *ChartDescriptor
}

// BandScores is the four-axis band breakdown plus the overall band.
// Axes the examiner omitted are 0.
type BandScores struct {
	Overall float64
	TR      float64 // task response / achievement
	CC      float64 // coherence and cohesion
	GRA     float64 // grammatical range and accuracy
	LR      float64 // lexical resource
}

// WritingError is one localized problem in the answer. Start and End are
// rune offsets into the answer with 0 <= Start <= End <= len(answer).
type WritingError struct {
	Type        string
	Original    string
	Correction  string
	Explanation string
	Start       int
	End         int
}

// ParagraphOptimization is a rewritten paragraph. Paragraph is the number
// the examiner gave it, as reported.
type ParagraphOptimization struct {
	Paragraph   int
	Original    string
	Optimized   string
	Explanation string
}

// VocabularyHighlight suggests stronger alternatives for a word in the answer.
type VocabularyHighlight struct {
	Word         string
	Alternatives []string
	Explanation  string
}

// SentenceDiversification offers other structures for one sentence.
type SentenceDiversification struct {
	Original     string
	Alternatives []string
	Explanation  string
}

// SampleEssay is a model answer at a stated band, e.g. "Band 7".
type SampleEssay struct {
	Level   string
	Content string
}

// Evaluation is the normalized examiner verdict for one submitted answer.
// Every slice is non-nil.
type Evaluation struct {
	Score      float64
	Bands      BandScores
	Feedback   string
	Errors     []WritingError
	Paragraphs []ParagraphOptimization
	Vocabulary []VocabularyHighlight
	Sentences  []SentenceDiversification
	Samples    []SampleEssay

	// Raw is the JSON object the examiner returned.
	Raw string
}
