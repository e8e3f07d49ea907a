package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/kobun/internal/cli"
	"github.com/at-ishikawa/kobun/internal/store"
)

func newAnalyzeCommand() *cobra.Command {
	var text string
	var imagePath string

	command := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze classical Japanese text or a photographed page",
		RunE: func(cmd *cobra.Command, args []string) error {
			if text == "" && imagePath == "" {
				return fmt.Errorf("either --text or --image is required")
			}
			if text != "" && imagePath != "" {
				return fmt.Errorf("--text and --image are mutually exclusive")
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := cfg.RequireClient(); err != nil {
				return err
			}

			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			apiClient := cli.NewAPIClient(cfg.Client.ServerURL, cfg.Client.AccessToken)
			defer func() {
				_ = apiClient.Close()
			}()

			analyzeCLI := cli.NewAnalyzeCLI(
				apiClient,
				store.NewDBHistoryRepository(db),
				store.NewDBWordbookRepository(db),
			)
			return analyzeCLI.Run(cmd.Context(), text, imagePath)
		},
	}
	command.Flags().StringVar(&text, "text", "", "classical Japanese text to analyze")
	command.Flags().StringVar(&imagePath, "image", "", "path to an image of a page to analyze")
	return command
}
