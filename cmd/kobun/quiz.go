package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/kobun/internal/cli"
	"github.com/at-ishikawa/kobun/internal/quiz"
	"github.com/at-ishikawa/kobun/internal/store"
)

type quizMode quiz.Mode

func (m *quizMode) Set(val string) error {
	parsed, err := quiz.ParseMode(val)
	if err != nil {
		return fmt.Errorf("invalid mode: %s. Possible values are %v", val, allQuizModes)
	}
	*m = quizMode(parsed)
	return nil
}

func (m quizMode) String() string {
	return string(m)
}

func (m *quizMode) Type() string {
	return "mode"
}

var (
	_            pflag.Value = (*quizMode)(nil)
	allQuizModes             = []quiz.Mode{quiz.ModeMeaning, quiz.ModePartOfSpeech, quiz.ModeConjugation}
)

func newQuizCommand() *cobra.Command {
	mode := quizMode(quiz.ModeMeaning)
	var count int

	command := &cobra.Command{
		Use:   "quiz",
		Short: "Quiz yourself on saved words",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("count must be positive: %d", count)
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			quizCLI := cli.NewQuizCLI(store.NewDBWordbookRepository(db))
			return quizCLI.Run(cmd.Context(), quiz.Mode(mode), count)
		},
	}
	command.Flags().Var(&mode, "mode", fmt.Sprintf("question mode. Possible values are %v", allQuizModes))
	command.Flags().IntVar(&count, "count", 10, "number of questions")
	return command
}
