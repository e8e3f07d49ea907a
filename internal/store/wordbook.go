package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// ErrDuplicateWord is returned when a word with the same surface and
// part of speech is already saved.
var ErrDuplicateWord = errors.New("word is already in the wordbook")

// Word is one saved wordbook entry. The surface and part of speech
// together identify a word: the same surface may recur under a
// different part of speech.
type Word struct {
	ID           int64     `db:"id" yaml:"id"`
	Surface      string    `db:"surface" yaml:"surface"`
	PartOfSpeech string    `db:"part_of_speech" yaml:"part_of_speech"`
	Conjugation  string    `db:"conjugation" yaml:"conjugation,omitempty"`
	Meaning      string    `db:"meaning" yaml:"meaning"`
	CreatedAt    time.Time `db:"created_at" yaml:"created_at"`
}

// WordbookRepository defines operations for managing saved words.
type WordbookRepository interface {
	Create(ctx context.Context, word *Word) error
	FindAll(ctx context.Context) ([]Word, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// DBWordbookRepository implements WordbookRepository using SQLite.
type DBWordbookRepository struct {
	db *sqlx.DB
}

// NewDBWordbookRepository creates a new DBWordbookRepository.
func NewDBWordbookRepository(db *sqlx.DB) *DBWordbookRepository {
	return &DBWordbookRepository{db: db}
}

// Create inserts a new word and fills in its ID and CreatedAt. A word
// with the same surface and part of speech returns ErrDuplicateWord.
func (r *DBWordbookRepository) Create(ctx context.Context, word *Word) error {
	if word.CreatedAt.IsZero() {
		word.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO wordbook (surface, part_of_speech, conjugation, meaning, created_at) VALUES (?, ?, ?, ?, ?)",
		word.Surface, word.PartOfSpeech, word.Conjugation, word.Meaning, word.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %s (%s)", ErrDuplicateWord, word.Surface, word.PartOfSpeech)
		}
		return fmt.Errorf("db.ExecContext(insert wordbook) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	word.ID = id
	return nil
}

// FindAll returns all saved words, newest first.
func (r *DBWordbookRepository) FindAll(ctx context.Context) ([]Word, error) {
	var words []Word
	if err := r.db.SelectContext(ctx, &words,
		"SELECT * FROM wordbook ORDER BY created_at DESC, id DESC"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(wordbook) > %w", err)
	}
	return words, nil
}

// Delete removes the word with the given id.
func (r *DBWordbookRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM wordbook WHERE id = ?", id); err != nil {
		return fmt.Errorf("db.ExecContext(delete wordbook) > %w", err)
	}
	return nil
}

// Count returns the number of saved words.
func (r *DBWordbookRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM wordbook"); err != nil {
		return 0, fmt.Errorf("db.GetContext(count wordbook) > %w", err)
	}
	return count, nil
}
