package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/kobun/internal/pdf"
	"github.com/at-ishikawa/kobun/internal/store"
)

// HistoryCLI lists, shows, deletes and exports saved analyses.
type HistoryCLI struct {
	histories    store.HistoryRepository
	stdoutWriter io.Writer
	bold         *color.Color
}

func NewHistoryCLI(histories store.HistoryRepository) *HistoryCLI {
	return &HistoryCLI{
		histories:    histories,
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
	}
}

func (cli *HistoryCLI) List(ctx context.Context) error {
	entries, err := cli.histories.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("histories.FindAll() > %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cli.stdoutWriter, "No saved analyses yet.")
		return nil
	}

	for _, entry := range entries {
		fmt.Fprintf(cli.stdoutWriter, "%4d  %s  %s\n",
			entry.ID,
			entry.CreatedAt.Format("2006-01-02 15:04"),
			truncate(entry.SourceText, 40))
	}
	return nil
}

func (cli *HistoryCLI) Show(ctx context.Context, id int64) error {
	entry, err := cli.histories.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("histories.FindByID(%d) > %w", id, err)
	}
	if entry == nil {
		return fmt.Errorf("no history entry with id %d", id)
	}

	_, _ = cli.bold.Fprintln(cli.stdoutWriter, entry.SourceText)
	fmt.Fprintln(cli.stdoutWriter)
	renderResult(cli.stdoutWriter, entry.SourceText, entry.Result)
	return nil
}

func (cli *HistoryCLI) Delete(ctx context.Context, id int64) error {
	if err := cli.histories.Delete(ctx, id); err != nil {
		return fmt.Errorf("histories.Delete(%d) > %w", id, err)
	}
	fmt.Fprintf(cli.stdoutWriter, "Deleted history entry %d.\n", id)
	return nil
}

// Export writes all saved analyses as a markdown study sheet, and
// optionally converts it to PDF.
func (cli *HistoryCLI) Export(ctx context.Context, path string, toPDF bool) error {
	entries, err := cli.histories.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("histories.FindAll() > %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no saved analyses to export")
	}

	markdown := buildStudySheet(entries)
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	fmt.Fprintf(cli.stdoutWriter, "Exported %d analyses to %s\n", len(entries), path)

	if toPDF {
		pdfPath, err := pdf.ConvertMarkdown(path)
		if err != nil {
			return fmt.Errorf("pdf.ConvertMarkdown() > %w", err)
		}
		fmt.Fprintf(cli.stdoutWriter, "PDF written to %s\n", pdfPath)
	}
	return nil
}

func buildStudySheet(entries []store.HistoryEntry) string {
	var b strings.Builder
	b.WriteString("# 古文学習シート\n\n")

	for _, entry := range entries {
		fmt.Fprintf(&b, "## %s\n\n", entry.SourceText)
		fmt.Fprintf(&b, "_%s_\n\n", entry.CreatedAt.Format("2006-01-02"))

		if len(entry.Result.Words) > 0 {
			b.WriteString("| 語 | 品詞 | 活用 | 意味 |\n")
			b.WriteString("|---|---|---|---|\n")
			for _, word := range entry.Result.Words {
				fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
					word.Surface, word.PartOfSpeech, word.Conjugation, word.Meaning)
			}
			b.WriteString("\n")
		}

		fmt.Fprintf(&b, "**現代語訳:** %s\n\n", entry.Result.Translation)
		if entry.Result.Explanation != "" {
			fmt.Fprintf(&b, "**解説:** %s\n\n", entry.Result.Explanation)
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
