package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configFile string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	_ = godotenv.Load()

	rootCommand := &cobra.Command{
		Use:   "kobun",
		Short: "Classical Japanese reading companion",
		Long:  "Analyze classical Japanese text, keep a history and a wordbook, and quiz yourself on saved words.",
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "path to the configuration file")

	rootCommand.AddCommand(newAnalyzeCommand())
	rootCommand.AddCommand(newHistoryCommand())
	rootCommand.AddCommand(newWordbookCommand())
	rootCommand.AddCommand(newQuizCommand())
	rootCommand.AddCommand(newCreditsCommand())
	rootCommand.AddCommand(newCheckoutCommand())
	return rootCommand
}
