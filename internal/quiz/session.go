package quiz

import "github.com/at-ishikawa/kobun/internal/store"

// Session tracks answers over a fixed question list. Each question
// accepts one answer; answering the same question again is ignored.
type Session struct {
	questions []Question
	answered  map[int]bool
	correct   int
	wrong     []store.Word
}

func NewSession(questions []Question) *Session {
	return &Session{
		questions: questions,
		answered:  map[int]bool{},
	}
}

func (s *Session) Questions() []Question {
	return s.questions
}

// Answer records the choice for the question at index and reports
// whether it was correct. Out-of-range and repeated answers return
// false without changing the tally.
func (s *Session) Answer(index int, choice string) bool {
	if index < 0 || index >= len(s.questions) || s.answered[index] {
		return false
	}
	s.answered[index] = true

	if choice == s.questions[index].Answer {
		s.correct++
		return true
	}
	s.wrong = append(s.wrong, s.questions[index].Word)
	return false
}

// Summary is the outcome of a finished session.
type Summary struct {
	Total      int
	Correct    int
	Wrong      int
	WrongWords []store.Word
}

func (s *Session) Summary() Summary {
	return Summary{
		Total:      len(s.questions),
		Correct:    s.correct,
		Wrong:      len(s.wrong),
		WrongWords: s.wrong,
	}
}
