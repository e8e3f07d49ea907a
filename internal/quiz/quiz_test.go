package quiz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/kobun/internal/store"
)

func testWords() []store.Word {
	return []store.Word{
		{ID: 1, Surface: "いろは", PartOfSpeech: "名詞", Meaning: "初歩"},
		{ID: 2, Surface: "けり", PartOfSpeech: "助動詞", Conjugation: "終止形", Meaning: "過去"},
		{ID: 3, Surface: "あはれなり", PartOfSpeech: "形容動詞", Conjugation: "終止形", Meaning: "しみじみと趣深い"},
		{ID: 4, Surface: "をかし", PartOfSpeech: "形容詞", Conjugation: "終止形", Meaning: "趣がある"},
		{ID: 5, Surface: "つれづれ", PartOfSpeech: "名詞", Meaning: "退屈"},
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "meaning", want: ModeMeaning},
		{in: "partOfSpeech", want: ModePartOfSpeech},
		{in: "conjugation", want: ModeConjugation},
		{in: "surface", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerate(t *testing.T) {
	t.Run("fewer than four words is an error", func(t *testing.T) {
		_, err := Generate(testWords()[:3], ModeMeaning, 5, rand.New(rand.NewSource(1)))
		assert.ErrorIs(t, err, ErrInsufficientWordbook)
	})

	t.Run("count caps the number of questions", func(t *testing.T) {
		questions, err := Generate(testWords(), ModeMeaning, 3, rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		assert.Len(t, questions, 3)
	})

	t.Run("count beyond the wordbook asks about every word once", func(t *testing.T) {
		questions, err := Generate(testWords(), ModeMeaning, 100, rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		require.Len(t, questions, 5)

		seen := map[int64]bool{}
		for _, q := range questions {
			assert.False(t, seen[q.Word.ID], "word %d asked twice", q.Word.ID)
			seen[q.Word.ID] = true
		}
	})

	t.Run("every question has the answer exactly once and no duplicate options", func(t *testing.T) {
		for seed := int64(0); seed < 20; seed++ {
			questions, err := Generate(testWords(), ModeMeaning, 5, rand.New(rand.NewSource(seed)))
			require.NoError(t, err)

			for _, q := range questions {
				assert.LessOrEqual(t, len(q.Options), 4)
				assert.GreaterOrEqual(t, len(q.Options), 2)

				occurrences := 0
				values := map[string]bool{}
				for _, option := range q.Options {
					assert.False(t, values[option], "duplicate option %q for %s", option, q.Word.Surface)
					values[option] = true
					if option == q.Answer {
						occurrences++
					}
				}
				assert.Equal(t, 1, occurrences)
			}
		}
	})

	t.Run("conjugation mode falls back for words without a conjugated form", func(t *testing.T) {
		questions, err := Generate(testWords(), ModeConjugation, 100, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		for _, q := range questions {
			if q.Word.Surface == "いろは" {
				assert.Equal(t, "なし", q.Answer)
			}
		}
	})

	t.Run("shared attribute values shrink the option set instead of repeating", func(t *testing.T) {
		// Three of five words share the same conjugation, so at most
		// one distractor exists besides the fallback value.
		questions, err := Generate(testWords(), ModeConjugation, 100, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		for _, q := range questions {
			assert.LessOrEqual(t, len(q.Options), 2)
		}
	})

	t.Run("part of speech mode uses the part of speech as the answer", func(t *testing.T) {
		questions, err := Generate(testWords(), ModePartOfSpeech, 100, rand.New(rand.NewSource(3)))
		require.NoError(t, err)

		for _, q := range questions {
			assert.Equal(t, q.Word.PartOfSpeech, q.Answer)
			assert.Contains(t, q.Options, q.Answer)
		}
	})
}

func TestSession(t *testing.T) {
	questions := []Question{
		{Word: store.Word{ID: 1, Surface: "いろは"}, Answer: "初歩", Options: []string{"初歩", "過去"}},
		{Word: store.Word{ID: 2, Surface: "けり"}, Answer: "過去", Options: []string{"初歩", "過去"}},
		{Word: store.Word{ID: 3, Surface: "をかし"}, Answer: "趣がある", Options: []string{"趣がある", "退屈"}},
	}

	t.Run("tallies correct and wrong answers", func(t *testing.T) {
		session := NewSession(questions)
		assert.True(t, session.Answer(0, "初歩"))
		assert.False(t, session.Answer(1, "初歩"))
		assert.True(t, session.Answer(2, "趣がある"))

		summary := session.Summary()
		assert.Equal(t, 3, summary.Total)
		assert.Equal(t, 2, summary.Correct)
		assert.Equal(t, 1, summary.Wrong)
		require.Len(t, summary.WrongWords, 1)
		assert.Equal(t, "けり", summary.WrongWords[0].Surface)
	})

	t.Run("repeated answers to the same question are ignored", func(t *testing.T) {
		session := NewSession(questions)
		assert.False(t, session.Answer(0, "過去"))
		assert.False(t, session.Answer(0, "初歩"), "second answer must not count")

		summary := session.Summary()
		assert.Equal(t, 0, summary.Correct)
		assert.Equal(t, 1, summary.Wrong)
	})

	t.Run("out of range answers are ignored", func(t *testing.T) {
		session := NewSession(questions)
		assert.False(t, session.Answer(-1, "初歩"))
		assert.False(t, session.Answer(3, "初歩"))
		assert.Equal(t, 0, session.Summary().Correct)
	})
}
