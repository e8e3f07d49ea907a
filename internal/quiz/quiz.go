// Package quiz builds multiple-choice quizzes from saved wordbook
// entries and tracks the outcome of a session.
package quiz

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/at-ishikawa/kobun/internal/store"
)

// ErrInsufficientWordbook is returned when the wordbook has too few
// entries to build a multiple-choice question.
var ErrInsufficientWordbook = errors.New("not enough wordbook entries for a quiz")

// minWords is the smallest wordbook that can produce a question with
// at least one distractor candidate per mode.
const minWords = 4

// Mode selects which attribute of a word a question asks for.
type Mode string

const (
	ModeMeaning      Mode = "meaning"
	ModePartOfSpeech Mode = "partOfSpeech"
	ModeConjugation  Mode = "conjugation"
)

// conjugationNone is shown when a word has no conjugated form.
const conjugationNone = "なし"

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMeaning, ModePartOfSpeech, ModeConjugation:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown quiz mode: %s", s)
}

// Question is one multiple-choice question. Options contains the
// answer and up to three distractors in shuffled order, with no
// duplicate values.
type Question struct {
	Word    store.Word
	Mode    Mode
	Answer  string
	Options []string
}

// Generate builds up to count questions from the wordbook entries.
// Words are drawn in shuffled order without repeats, so a session asks
// about each word at most once.
func Generate(words []store.Word, mode Mode, count int, rng *rand.Rand) ([]Question, error) {
	if len(words) < minWords {
		return nil, fmt.Errorf("%w: %d words, need at least %d", ErrInsufficientWordbook, len(words), minWords)
	}

	pool := make([]store.Word, len(words))
	copy(pool, words)
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if count < len(pool) {
		pool = pool[:count]
	}

	questions := make([]Question, 0, len(pool))
	for _, word := range pool {
		answer := attribute(word, mode)
		options := append(distractors(words, word, mode, rng), answer)
		rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		questions = append(questions, Question{
			Word:    word,
			Mode:    mode,
			Answer:  answer,
			Options: options,
		})
	}
	return questions, nil
}

// distractors returns up to three attribute values from other words.
// Values equal to the answer or to each other are dropped, so a
// question may end up with fewer than four options.
func distractors(words []store.Word, target store.Word, mode Mode, rng *rand.Rand) []string {
	answer := attribute(target, mode)
	seen := map[string]bool{answer: true}
	var candidates []string
	for _, word := range words {
		if word.Surface == target.Surface && word.PartOfSpeech == target.PartOfSpeech {
			continue
		}
		value := attribute(word, mode)
		if seen[value] {
			continue
		}
		seen[value] = true
		candidates = append(candidates, value)
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > 3 {
		candidates = candidates[:3]
	}
	return candidates
}

func attribute(word store.Word, mode Mode) string {
	switch mode {
	case ModePartOfSpeech:
		return word.PartOfSpeech
	case ModeConjugation:
		if word.Conjugation == "" {
			return conjugationNone
		}
		return word.Conjugation
	default:
		return word.Meaning
	}
}
