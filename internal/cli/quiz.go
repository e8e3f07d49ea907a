package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/kobun/internal/quiz"
	"github.com/at-ishikawa/kobun/internal/store"
)

// QuizCLI runs an interactive multiple-choice session over the wordbook.
type QuizCLI struct {
	wordbooks    store.WordbookRepository
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	rng          *rand.Rand
}

func NewQuizCLI(wordbooks store.WordbookRepository) *QuizCLI {
	return &QuizCLI{
		wordbooks:    wordbooks,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (cli *QuizCLI) Run(ctx context.Context, mode quiz.Mode, count int) error {
	words, err := cli.wordbooks.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("wordbooks.FindAll() > %w", err)
	}

	questions, err := quiz.Generate(words, mode, count, cli.rng)
	if err != nil {
		if errors.Is(err, quiz.ErrInsufficientWordbook) {
			fmt.Fprintln(cli.stdoutWriter, "Save more words before starting a quiz.")
		}
		return err
	}

	session := quiz.NewSession(questions)
	fmt.Fprintf(cli.stdoutWriter, "Starting a quiz with %d questions. Type 'q' to stop.\n\n", len(questions))

	for i, question := range questions {
		_, _ = cli.bold.Fprintf(cli.stdoutWriter, "Q%d. %s\n", i+1, prompt(question))
		for j, option := range question.Options {
			fmt.Fprintf(cli.stdoutWriter, "  %d) %s\n", j+1, option)
		}

		choice, quit, err := cli.readChoice(len(question.Options))
		if err != nil {
			return err
		}
		if quit {
			break
		}

		if session.Answer(i, question.Options[choice-1]) {
			fmt.Fprint(cli.stdoutWriter, "✅ ")
			color.Green("Correct!")
		} else {
			fmt.Fprint(cli.stdoutWriter, "❌ ")
			color.Red("Wrong. The answer is %s", question.Answer)
		}
		fmt.Fprintln(cli.stdoutWriter)
	}

	cli.printSummary(session.Summary())
	return nil
}

// readChoice keeps prompting until it gets a number within range, 'q',
// or the input ends.
func (cli *QuizCLI) readChoice(optionCount int) (int, bool, error) {
	for {
		fmt.Fprint(cli.stdoutWriter, "> ")
		line, err := cli.stdinReader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return 0, true, nil
		}
		if err != nil {
			return 0, false, fmt.Errorf("error reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "q" {
			return 0, true, nil
		}
		choice, err := strconv.Atoi(line)
		if err == nil && choice >= 1 && choice <= optionCount {
			return choice, false, nil
		}
		fmt.Fprintf(cli.stdoutWriter, "Enter a number between 1 and %d.\n", optionCount)
	}
}

func (cli *QuizCLI) printSummary(summary quiz.Summary) {
	fmt.Fprintln(cli.stdoutWriter)
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "Score: %d/%d\n", summary.Correct, summary.Total)

	if len(summary.WrongWords) == 0 {
		return
	}
	fmt.Fprintln(cli.stdoutWriter, "Words to review:")
	for _, word := range summary.WrongWords {
		fmt.Fprintf(cli.stdoutWriter, "  %s [%s] %s\n", word.Surface, word.PartOfSpeech, word.Meaning)
	}
}

func prompt(question quiz.Question) string {
	switch question.Mode {
	case quiz.ModePartOfSpeech:
		return fmt.Sprintf("「%s」の品詞は?", question.Word.Surface)
	case quiz.ModeConjugation:
		return fmt.Sprintf("「%s」の活用形は?", question.Word.Surface)
	default:
		return fmt.Sprintf("「%s」の意味は?", question.Word.Surface)
	}
}
