package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/kobun/internal/store"
)

// WordbookCLI manages saved words and their YAML import/export.
type WordbookCLI struct {
	wordbooks    store.WordbookRepository
	stdoutWriter io.Writer
	bold         *color.Color
}

func NewWordbookCLI(wordbooks store.WordbookRepository) *WordbookCLI {
	return &WordbookCLI{
		wordbooks:    wordbooks,
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
	}
}

func (cli *WordbookCLI) List(ctx context.Context) error {
	words, err := cli.wordbooks.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("wordbooks.FindAll() > %w", err)
	}
	if len(words) == 0 {
		fmt.Fprintln(cli.stdoutWriter, "The wordbook is empty.")
		return nil
	}

	for _, word := range words {
		_, _ = cli.bold.Fprintf(cli.stdoutWriter, "%4d  %s", word.ID, word.Surface)
		fmt.Fprintf(cli.stdoutWriter, " [%s", word.PartOfSpeech)
		if word.Conjugation != "" {
			fmt.Fprintf(cli.stdoutWriter, "・%s", word.Conjugation)
		}
		fmt.Fprintf(cli.stdoutWriter, "] %s\n", word.Meaning)
	}
	return nil
}

func (cli *WordbookCLI) Add(ctx context.Context, surface, partOfSpeech, conjugation, meaning string) error {
	word := store.Word{
		Surface:      surface,
		PartOfSpeech: partOfSpeech,
		Conjugation:  conjugation,
		Meaning:      meaning,
	}
	if err := cli.wordbooks.Create(ctx, &word); err != nil {
		if errors.Is(err, store.ErrDuplicateWord) {
			return fmt.Errorf("%s (%s) is already in the wordbook", surface, partOfSpeech)
		}
		return fmt.Errorf("wordbooks.Create() > %w", err)
	}
	fmt.Fprintf(cli.stdoutWriter, "Saved %s (%s).\n", surface, partOfSpeech)
	return nil
}

func (cli *WordbookCLI) Delete(ctx context.Context, id int64) error {
	if err := cli.wordbooks.Delete(ctx, id); err != nil {
		return fmt.Errorf("wordbooks.Delete(%d) > %w", id, err)
	}
	fmt.Fprintf(cli.stdoutWriter, "Deleted word %d.\n", id)
	return nil
}

// Export writes the wordbook as a YAML file.
func (cli *WordbookCLI) Export(ctx context.Context, path string) error {
	words, err := cli.wordbooks.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("wordbooks.FindAll() > %w", err)
	}
	if len(words) == 0 {
		return fmt.Errorf("no saved words to export")
	}

	content, err := yaml.Marshal(words)
	if err != nil {
		return fmt.Errorf("yaml.Marshal() > %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	fmt.Fprintf(cli.stdoutWriter, "Exported %d words to %s\n", len(words), path)
	return nil
}

// ImportResult tracks counts for a wordbook import.
type ImportResult struct {
	New     int
	Skipped int
}

// Import reads a YAML wordbook file and inserts its entries. Entries
// already present under the same surface and part of speech are
// skipped, not overwritten.
func (cli *WordbookCLI) Import(ctx context.Context, path string) (*ImportResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var words []store.Word
	if err := yaml.Unmarshal(content, &words); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal() > %w", err)
	}

	var result ImportResult
	for _, word := range words {
		entry := store.Word{
			Surface:      word.Surface,
			PartOfSpeech: word.PartOfSpeech,
			Conjugation:  word.Conjugation,
			Meaning:      word.Meaning,
		}
		if err := cli.wordbooks.Create(ctx, &entry); err != nil {
			if errors.Is(err, store.ErrDuplicateWord) {
				result.Skipped++
				continue
			}
			return nil, fmt.Errorf("wordbooks.Create(%s) > %w", word.Surface, err)
		}
		result.New++
	}

	fmt.Fprintf(cli.stdoutWriter, "Imported %d words (%d already saved).\n", result.New, result.Skipped)
	return &result, nil
}
