package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/kobun/internal/inference"
)

// HistoryEntry is one saved analysis.
type HistoryEntry struct {
	ID         int64            `yaml:"id"`
	SourceText string           `yaml:"source_text"`
	Result     inference.Result `yaml:"result"`
	CreatedAt  time.Time        `yaml:"created_at"`
}

type historyRow struct {
	ID         int64     `db:"id"`
	SourceText string    `db:"source_text"`
	Result     string    `db:"result"`
	CreatedAt  time.Time `db:"created_at"`
}

// HistoryRepository defines operations for managing saved analyses.
type HistoryRepository interface {
	Create(ctx context.Context, entry *HistoryEntry) error
	FindAll(ctx context.Context) ([]HistoryEntry, error)
	FindByID(ctx context.Context, id int64) (*HistoryEntry, error)
	Delete(ctx context.Context, id int64) error
}

// DBHistoryRepository implements HistoryRepository using SQLite.
type DBHistoryRepository struct {
	db *sqlx.DB
}

// NewDBHistoryRepository creates a new DBHistoryRepository.
func NewDBHistoryRepository(db *sqlx.DB) *DBHistoryRepository {
	return &DBHistoryRepository{db: db}
}

// Create inserts a new history entry and fills in its ID and CreatedAt.
func (r *DBHistoryRepository) Create(ctx context.Context, entry *HistoryEntry) error {
	resultJSON, err := json.Marshal(entry.Result)
	if err != nil {
		return fmt.Errorf("json.Marshal(result) > %w", err)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO history (source_text, result, created_at) VALUES (?, ?, ?)",
		entry.SourceText, string(resultJSON), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert history) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	entry.ID = id
	return nil
}

// FindAll returns all history entries, newest first.
func (r *DBHistoryRepository) FindAll(ctx context.Context) ([]HistoryEntry, error) {
	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM history ORDER BY created_at DESC, id DESC"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(history) > %w", err)
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// FindByID returns the history entry with the given id, or nil if not found.
func (r *DBHistoryRepository) FindByID(ctx context.Context, id int64) (*HistoryEntry, error) {
	var row historyRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM history WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(history) > %w", err)
	}
	return row.toEntry()
}

// Delete removes the history entry with the given id.
func (r *DBHistoryRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM history WHERE id = ?", id); err != nil {
		return fmt.Errorf("db.ExecContext(delete history) > %w", err)
	}
	return nil
}

func (row historyRow) toEntry() (*HistoryEntry, error) {
	var result inference.Result
	if err := json.Unmarshal([]byte(row.Result), &result); err != nil {
		return nil, fmt.Errorf("json.Unmarshal(history result) > %w", err)
	}
	return &HistoryEntry{
		ID:         row.ID,
		SourceText: row.SourceText,
		Result:     result,
		CreatedAt:  row.CreatedAt,
	}, nil
}
