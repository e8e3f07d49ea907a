package cli

import (
	"context"

	"github.com/at-ishikawa/kobun/internal/store"
)

// fakeHistoryRepository is an in-memory store.HistoryRepository.
type fakeHistoryRepository struct {
	entries []store.HistoryEntry
	nextID  int64
	err     error
}

func (r *fakeHistoryRepository) Create(_ context.Context, entry *store.HistoryEntry) error {
	if r.err != nil {
		return r.err
	}
	r.nextID++
	entry.ID = r.nextID
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepository) FindAll(_ context.Context) ([]store.HistoryEntry, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.entries, nil
}

func (r *fakeHistoryRepository) FindByID(_ context.Context, id int64) (*store.HistoryEntry, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, entry := range r.entries {
		if entry.ID == id {
			return &entry, nil
		}
	}
	return nil, nil
}

func (r *fakeHistoryRepository) Delete(_ context.Context, id int64) error {
	for i, entry := range r.entries {
		if entry.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeWordbookRepository is an in-memory store.WordbookRepository with
// the same duplicate rule as the real one.
type fakeWordbookRepository struct {
	words  []store.Word
	nextID int64
	err    error
}

func (r *fakeWordbookRepository) Create(_ context.Context, word *store.Word) error {
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.words {
		if existing.Surface == word.Surface && existing.PartOfSpeech == word.PartOfSpeech {
			return store.ErrDuplicateWord
		}
	}
	r.nextID++
	word.ID = r.nextID
	r.words = append(r.words, *word)
	return nil
}

func (r *fakeWordbookRepository) FindAll(_ context.Context) ([]store.Word, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.words, nil
}

func (r *fakeWordbookRepository) Delete(_ context.Context, id int64) error {
	for i, word := range r.words {
		if word.ID == id {
			r.words = append(r.words[:i], r.words[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeWordbookRepository) Count(_ context.Context) (int, error) {
	return len(r.words), nil
}
