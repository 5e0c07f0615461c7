package writing

import (
	"slices"
)

// Segment is a run of answer text, optionally carrying the error that
// covers it.
type Segment struct {
	Text  string
	Error *WritingError
}

// Annotate splits answer into plain and error segments. Errors are taken in
// start order; zero-width spans and spans overlapping an earlier error are
// dropped. Concatenating the segment texts yields answer.
func Annotate(answer string, errs []WritingError) []Segment {
	runes := []rune(answer)
	n := len(runes)

	sorted := slices.Clone(errs)
	slices.SortStableFunc(sorted, func(a, b WritingError) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})

	var segs []Segment
	cursor := 0
	for i := range sorted {
		e := &sorted[i]
		start, end := clamp(e.Start, 0, n), clamp(e.End, 0, n)
		if start >= end || start < cursor {
			continue
		}
		if start > cursor {
			segs = append(segs, Segment{Text: string(runes[cursor:start])})
		}
		segs = append(segs, Segment{Text: string(runes[start:end]), Error: e})
		cursor = end
	}
	if cursor < n {
		segs = append(segs, Segment{Text: string(runes[cursor:])})
	}
	return segs
}
