package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/kobun/internal/cli"
	"github.com/at-ishikawa/kobun/internal/store"
)

func newHistoryCommand() *cobra.Command {
	historyCommand := &cobra.Command{
		Use:   "history",
		Short: "Manage saved analyses",
	}
	historyCommand.AddCommand(newHistoryListCommand())
	historyCommand.AddCommand(newHistoryShowCommand())
	historyCommand.AddCommand(newHistoryDeleteCommand())
	historyCommand.AddCommand(newHistoryExportCommand())
	return historyCommand
}

func newHistoryCLI() (*cli.HistoryCLI, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		_ = db.Close()
	}
	return cli.NewHistoryCLI(store.NewDBHistoryRepository(db)), closer, nil
}

func newHistoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			historyCLI, closer, err := newHistoryCLI()
			if err != nil {
				return err
			}
			defer closer()
			return historyCLI.List(cmd.Context())
		},
	}
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %s", args[0])
			}
			historyCLI, closer, err := newHistoryCLI()
			if err != nil {
				return err
			}
			defer closer()
			return historyCLI.Show(cmd.Context(), id)
		},
	}
}

func newHistoryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %s", args[0])
			}
			historyCLI, closer, err := newHistoryCLI()
			if err != nil {
				return err
			}
			defer closer()
			return historyCLI.Delete(cmd.Context(), id)
		},
	}
}

func newHistoryExportCommand() *cobra.Command {
	var output string
	var toPDF bool

	command := &cobra.Command{
		Use:   "export",
		Short: "Export saved analyses as a markdown study sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			historyCLI, closer, err := newHistoryCLI()
			if err != nil {
				return err
			}
			defer closer()
			return historyCLI.Export(cmd.Context(), output, toPDF)
		},
	}
	command.Flags().StringVarP(&output, "output", "o", "kobun-history.md", "output markdown file")
	command.Flags().BoolVar(&toPDF, "pdf", false, "also convert the study sheet to PDF")
	return command
}
