package writing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Alias tables are probed in order and matched case-insensitively.
var (
	overallAliases = []string{"overall", "overallBand", "overall_band", "overallScore", "overall_score"}
	trAliases      = []string{"TR", "taskResponse", "task_response", "taskAchievement", "task_achievement", "TA"}
	ccAliases      = []string{"CC", "coherenceAndCohesion", "coherence_and_cohesion", "coherence"}
	graAliases     = []string{"GRA", "grammaticalRangeAndAccuracy", "grammatical_range_and_accuracy", "grammar"}
	lrAliases      = []string{"LR", "lexicalResource", "lexical_resource", "vocabulary"}

	bandObjectAliases = []string{"bandScores", "band_scores", "scores", "bands"}
	scoreAliases      = []string{"score", "overallScore", "overall_score", "totalScore"}
	feedbackAliases   = []string{"overallFeedback", "overall_feedback", "feedback", "summary"}

	errorsAliases     = []string{"errors", "writingErrors", "writing_errors", "mistakes"}
	paragraphAliases  = []string{"paragraphOptimizations", "paragraph_optimizations", "paragraphs"}
	vocabularyAliases = []string{"vocabularyHighlights", "vocabulary_highlights", "vocabulary"}
	sentenceAliases   = []string{"sentenceDiversifications", "sentence_diversifications", "sentences"}
	sampleAliases     = []string{"sampleEssays", "sample_essays", "samples"}
)

// NormalizeBandScores reads the band breakdown from m. Values may be numbers
// or numeric strings; anything missing or unreadable is 0.
func NormalizeBandScores(m map[string]any) BandScores {
	return BandScores{
		Overall: lookupFloat(m, overallAliases),
		TR:      lookupFloat(m, trAliases),
		CC:      lookupFloat(m, ccAliases),
		GRA:     lookupFloat(m, graAliases),
		LR:      lookupFloat(m, lrAliases),
	}
}

// Normalize builds a fully typed Evaluation from a decoded examiner reply.
// Error offsets are clamped to answer, and entries without usable offsets
// are located through their original text.
func Normalize(obj map[string]any, answer string) *Evaluation {
	bandSrc := obj
	if nested, ok := lookup(obj, bandObjectAliases).(map[string]any); ok {
		bandSrc = nested
	}

	ev := &Evaluation{
		Bands:      NormalizeBandScores(bandSrc),
		Feedback:   lookupString(obj, feedbackAliases),
		Errors:     []WritingError{},
		Paragraphs: []ParagraphOptimization{},
		Vocabulary: []VocabularyHighlight{},
		Sentences:  []SentenceDiversification{},
		Samples:    []SampleEssay{},
	}

	if v, ok := toFloat(lookup(obj, scoreAliases)); ok {
		ev.Score = v
	} else {
		ev.Score = ev.Bands.Overall
	}
	if ev.Bands.Overall == 0 {
		ev.Bands.Overall = ev.Score
	}

	for _, m := range lookupObjects(obj, errorsAliases) {
		ev.Errors = append(ev.Errors, normalizeError(m, answer))
	}
	for _, m := range lookupObjects(obj, paragraphAliases) {
		p, _ := toFloat(lookup(m, []string{"paragraph", "index", "paragraphIndex"}))
		ev.Paragraphs = append(ev.Paragraphs, ParagraphOptimization{
			Paragraph:   int(p),
			Original:    lookupString(m, []string{"original", "before"}),
			Optimized:   lookupString(m, []string{"optimized", "improved", "after", "suggestion"}),
			Explanation: lookupString(m, []string{"explanation", "reason"}),
		})
	}
	for _, m := range lookupObjects(obj, vocabularyAliases) {
		ev.Vocabulary = append(ev.Vocabulary, VocabularyHighlight{
			Word:         lookupString(m, []string{"word", "original", "phrase"}),
			Alternatives: stringList(lookup(m, []string{"alternatives", "suggestions", "suggestion", "better"})),
			Explanation:  lookupString(m, []string{"explanation", "reason", "note"}),
		})
	}
	for _, m := range lookupObjects(obj, sentenceAliases) {
		ev.Sentences = append(ev.Sentences, SentenceDiversification{
			Original:     lookupString(m, []string{"original", "sentence"}),
			Alternatives: stringList(lookup(m, []string{"alternatives", "rewrites", "suggestions", "suggestion"})),
			Explanation:  lookupString(m, []string{"explanation", "reason"}),
		})
	}
	for _, m := range lookupObjects(obj, sampleAliases) {
		ev.Samples = append(ev.Samples, SampleEssay{
			Level:   lookupString(m, []string{"level", "band", "score"}),
			Content: lookupString(m, []string{"content", "essay", "text"}),
		})
	}
	return ev
}

func normalizeError(m map[string]any, answer string) WritingError {
	we := WritingError{
		Type:        lookupString(m, []string{"type", "category"}),
		Original:    lookupString(m, []string{"original", "text", "span"}),
		Correction:  lookupString(m, []string{"correction", "corrected", "suggestion"}),
		Explanation: lookupString(m, []string{"explanation", "reason"}),
	}

	n := utf8.RuneCountInString(answer)
	start, okStart := toFloat(lookup(m, []string{"startPos", "start_pos", "start"}))
	end, okEnd := toFloat(lookup(m, []string{"endPos", "end_pos", "end"}))

	if okStart && okEnd {
		we.Start = clamp(int(start), 0, n)
		we.End = clamp(int(end), we.Start, n)
		if we.Original == "" || runeSlice(answer, we.Start, we.End) == we.Original {
			return we
		}
	}

	// Offsets missing or pointing elsewhere: find the original text.
	if s, e, ok := locate(answer, we.Original); ok {
		we.Start, we.End = s, e
		return we
	}
	if !okStart || !okEnd {
		we.Start, we.End = 0, 0
	}
	return we
}

// locate returns the rune span of the first occurrence of sub in s.
func locate(s, sub string) (int, int, bool) {
	if sub == "" {
		return 0, 0, false
	}
	i := strings.Index(s, sub)
	if i < 0 {
		return 0, 0, false
	}
	start := utf8.RuneCountInString(s[:i])
	return start, start + utf8.RuneCountInString(sub), true
}

func runeSlice(s string, start, end int) string {
	r := []rune(s)
	return string(r[start:end])
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// lookup returns the first value whose key matches an alias, ignoring case.
func lookup(m map[string]any, aliases []string) any {
	for _, a := range aliases {
		if v, ok := m[a]; ok {
			return v
		}
	}
	for _, a := range aliases {
		for k, v := range m {
			if strings.EqualFold(k, a) {
				return v
			}
		}
	}
	return nil
}

func lookupFloat(m map[string]any, aliases []string) float64 {
	v, _ := toFloat(lookup(m, aliases))
	return v
}

func lookupString(m map[string]any, aliases []string) string {
	switch v := lookup(m, aliases).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func lookupObjects(m map[string]any, aliases []string) []map[string]any {
	list, _ := lookup(m, aliases).([]any)
	var out []map[string]any
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func stringList(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case string:
		if t != "" {
			out = append(out, t)
		}
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// toFloat accepts JSON numbers and numeric strings. NaN and infinities
// are rejected as 0.
func toFloat(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
