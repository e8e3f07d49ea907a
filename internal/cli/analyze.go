package cli

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/kobun/internal/inference"
	"github.com/at-ishikawa/kobun/internal/store"
)

// APIGateway is the server surface the analyze flow needs.
type APIGateway interface {
	Analyze(ctx context.Context, text string) (AnalyzeResult, error)
	DetectText(ctx context.Context, imageData string) (string, error)
}

// AnalyzeCLI runs the analyze flow: optional OCR, analysis, rendering,
// history persistence and wordbook prompts.
type AnalyzeCLI struct {
	api          APIGateway
	histories    store.HistoryRepository
	wordbooks    store.WordbookRepository
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
}

func NewAnalyzeCLI(api APIGateway, histories store.HistoryRepository, wordbooks store.WordbookRepository) *AnalyzeCLI {
	return &AnalyzeCLI{
		api:          api,
		histories:    histories,
		wordbooks:    wordbooks,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
	}
}

// Run analyzes the given text, or the text detected in the image when
// imagePath is set. A completed analysis is saved to history exactly
// once, before the interactive wordbook prompt.
func (cli *AnalyzeCLI) Run(ctx context.Context, text, imagePath string) error {
	if imagePath != "" {
		imageData, err := encodeImage(imagePath)
		if err != nil {
			return fmt.Errorf("encodeImage(%s) > %w", imagePath, err)
		}
		detected, err := cli.api.DetectText(ctx, imageData)
		if err != nil {
			return fmt.Errorf("api.DetectText() > %w", err)
		}
		if detected == "" {
			fmt.Fprintln(cli.stdoutWriter, "No text was detected in the image.")
			return nil
		}
		_, _ = cli.bold.Fprintln(cli.stdoutWriter, "Detected text:")
		fmt.Fprintf(cli.stdoutWriter, "%s\n\n", detected)
		text = detected
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("no text to analyze")
	}

	result, err := cli.api.Analyze(ctx, text)
	if err != nil {
		if errors.Is(err, ErrAPICredits) {
			fmt.Fprintln(cli.stdoutWriter, "You have no credits left. Run 'kobun checkout' to subscribe.")
		}
		return fmt.Errorf("api.Analyze() > %w", err)
	}

	renderResult(cli.stdoutWriter, text, result.Result)
	if !result.IsSubscribed {
		fmt.Fprintf(cli.stdoutWriter, "\nCredits remaining: %d\n", result.Credits)
	}

	entry := store.HistoryEntry{
		SourceText: text,
		Result:     result.Result,
	}
	if err := cli.histories.Create(ctx, &entry); err != nil {
		return fmt.Errorf("histories.Create() > %w", err)
	}

	return cli.promptWordSaves(ctx, result.Words)
}

// promptWordSaves offers saving analyzed words to the wordbook. A word
// already saved under the same surface and part of speech is reported
// and skipped.
func (cli *AnalyzeCLI) promptWordSaves(ctx context.Context, words []inference.Word) error {
	if len(words) == 0 {
		return nil
	}

	fmt.Fprintln(cli.stdoutWriter)
	_, _ = cli.bold.Fprint(cli.stdoutWriter, "Save words to the wordbook? ")
	fmt.Fprint(cli.stdoutWriter, "(numbers separated by spaces, 'a' for all, empty to skip): ")

	line, err := cli.stdinReader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("error reading input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	var selected []inference.Word
	if line == "a" {
		selected = words
	} else {
		for _, field := range strings.Fields(line) {
			index, err := strconv.Atoi(field)
			if err != nil || index < 1 || index > len(words) {
				fmt.Fprintf(cli.stdoutWriter, "Skipping invalid selection: %s\n", field)
				continue
			}
			selected = append(selected, words[index-1])
		}
	}

	saved := 0
	for _, word := range selected {
		entry := store.Word{
			Surface:      word.Surface,
			PartOfSpeech: word.PartOfSpeech,
			Conjugation:  word.Conjugation,
			Meaning:      word.Meaning,
		}
		if err := cli.wordbooks.Create(ctx, &entry); err != nil {
			if errors.Is(err, store.ErrDuplicateWord) {
				fmt.Fprintf(cli.stdoutWriter, "%s (%s) is already in the wordbook.\n", word.Surface, word.PartOfSpeech)
				continue
			}
			return fmt.Errorf("wordbooks.Create() > %w", err)
		}
		saved++
	}
	fmt.Fprintf(cli.stdoutWriter, "Saved %d words.\n", saved)
	return nil
}

// encodeImage reads an image file into the base64 data URI the server
// accepts.
func encodeImage(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile() > %w", err)
	}

	mimeType := "image/jpeg"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mimeType = "image/png"
	case ".webp":
		mimeType = "image/webp"
	case ".gif":
		mimeType = "image/gif"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(content)), nil
}
