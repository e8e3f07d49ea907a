package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/at-ishikawa/kobun/internal/inference"
)

// categoryColors maps the analysis color codes onto terminal colors.
var categoryColors = map[string]*color.Color{
	inference.ColorVerb:      color.New(color.FgRed),
	inference.ColorNoun:      color.New(color.FgCyan),
	inference.ColorParticle:  color.New(color.FgGreen),
	inference.ColorAdjective: color.New(color.FgMagenta),
	inference.ColorOther:     color.New(color.FgYellow),
}

func categoryColor(colorCode string) *color.Color {
	if c, ok := categoryColors[colorCode]; ok {
		return c
	}
	return color.New(color.Reset)
}

// renderResult prints the highlighted source text, the word table, the
// translation and the commentary.
func renderResult(w io.Writer, sourceText string, result inference.Result) {
	bold := color.New(color.Bold)
	italic := color.New(color.Italic)

	if result.CorrectedText != "" && result.CorrectedText != sourceText {
		fmt.Fprintf(w, "Corrected text: %s\n\n", result.CorrectedText)
		sourceText = result.CorrectedText
	}

	for _, segment := range Align(sourceText, result.Words) {
		if segment.Word == nil {
			fmt.Fprint(w, segment.Text)
			continue
		}
		_, _ = categoryColor(segment.Word.ColorCode).Fprint(w, segment.Text)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	for i, word := range result.Words {
		_, _ = categoryColor(word.ColorCode).Fprintf(w, "%2d. %s", i+1, word.Surface)
		fmt.Fprintf(w, " [%s", word.PartOfSpeech)
		if word.Conjugation != "" {
			fmt.Fprintf(w, "・%s", word.Conjugation)
		}
		fmt.Fprintf(w, "] %s\n", word.Meaning)
	}
	fmt.Fprintln(w)

	_, _ = bold.Fprintln(w, "現代語訳:")
	_, _ = italic.Fprintf(w, "  %s\n\n", result.Translation)
	_, _ = bold.Fprintln(w, "解説:")
	fmt.Fprintf(w, "  %s\n", result.Explanation)
}
