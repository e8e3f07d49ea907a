// Package inference defines the contract with the external text-analysis
// provider that segments and translates classical Japanese.
package inference

import (
	"context"
	"errors"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client is implemented by analysis providers.
type Client interface {
	Analyze(ctx context.Context, text string) (Result, error)
}

// Word is a single segmented word with its grammatical annotations.
type Word struct {
	Surface      string `json:"surface"`
	PartOfSpeech string `json:"partOfSpeech"`
	Conjugation  string `json:"conjugation"`
	Meaning      string `json:"meaning"`
	ColorCode    string `json:"colorCode"`
}

// Result is a full analysis of one input text. Words follow first-occurrence
// order in the source text so callers can align them back by substring search.
type Result struct {
	CorrectedText string `json:"correctedText,omitempty"`
	Words         []Word `json:"words"`
	Translation   string `json:"translation"`
	Explanation   string `json:"explanation"`
}

// The five fixed word-category colors the provider is instructed to assign.
const (
	ColorVerb      = "#FF6B6B" // verbs and auxiliary verbs
	ColorNoun      = "#4ECDC4"
	ColorParticle  = "#95E1D3"
	ColorAdjective = "#F38181" // adjectives and adjectival nouns
	ColorOther     = "#AA96DA"
)

var (
	// ErrUpstream is returned when the provider call itself fails.
	ErrUpstream = errors.New("analysis provider request failed")

	// ErrResponseParse is returned when the provider's text is not valid
	// JSON after code-fence stripping. The raw text is kept in the message
	// for diagnostics.
	ErrResponseParse = errors.New("analysis response is not valid JSON")

	// ErrResponseShape is returned when the JSON parses but is missing the
	// required fields.
	ErrResponseShape = errors.New("analysis response has an invalid shape")
)
