package cli

import (
	"strings"

	"github.com/at-ishikawa/kobun/internal/inference"
)

// Segment is a run of the source text, optionally annotated with the
// word the analysis assigned to it.
type Segment struct {
	Text string
	Word *inference.Word
}

// Align maps analyzed words back onto the source text by sequential
// substring search. Words arrive in first-occurrence order, so each
// search starts where the previous match ended; a surface the scan
// cannot find is skipped rather than treated as an error. The result is
// deterministic for the same inputs.
func Align(source string, words []inference.Word) []Segment {
	var segments []Segment
	offset := 0
	for i := range words {
		index := strings.Index(source[offset:], words[i].Surface)
		if index < 0 {
			continue
		}
		if index > 0 {
			segments = append(segments, Segment{Text: source[offset : offset+index]})
		}
		segments = append(segments, Segment{
			Text: words[i].Surface,
			Word: &words[i],
		})
		offset += index + len(words[i].Surface)
	}
	if offset < len(source) {
		segments = append(segments, Segment{Text: source[offset:]})
	}
	return segments
}
