package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/kobun/internal/cli"
	"github.com/at-ishikawa/kobun/internal/store"
)

func newWordbookCommand() *cobra.Command {
	wordbookCommand := &cobra.Command{
		Use:   "wordbook",
		Short: "Manage saved words",
	}
	wordbookCommand.AddCommand(newWordbookListCommand())
	wordbookCommand.AddCommand(newWordbookAddCommand())
	wordbookCommand.AddCommand(newWordbookDeleteCommand())
	wordbookCommand.AddCommand(newWordbookExportCommand())
	wordbookCommand.AddCommand(newWordbookImportCommand())
	return wordbookCommand
}

func newWordbookCLI() (*cli.WordbookCLI, func(), error) {
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
	return cli.NewWordbookCLI(store.NewDBWordbookRepository(db)), closer, nil
}

func newWordbookListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved words",
		RunE: func(cmd *cobra.Command, args []string) error {
			wordbookCLI, closer, err := newWordbookCLI()
			if err != nil {
				return err
			}
			defer closer()
			return wordbookCLI.List(cmd.Context())
		},
	}
}

func newWordbookAddCommand() *cobra.Command {
	var conjugation string

	command := &cobra.Command{
		Use:   "add <surface> <part-of-speech> <meaning>",
		Short: "Save a word to the wordbook",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			wordbookCLI, closer, err := newWordbookCLI()
			if err != nil {
				return err
			}
			defer closer()
			return wordbookCLI.Add(cmd.Context(), args[0], args[1], conjugation, args[2])
		},
	}
	command.Flags().StringVar(&conjugation, "conjugation", "", "conjugated form, if any")
	return command
}

func newWordbookDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %s", args[0])
			}
			wordbookCLI, closer, err := newWordbookCLI()
			if err != nil {
				return err
			}
			defer closer()
			return wordbookCLI.Delete(cmd.Context(), id)
		},
	}
}

func newWordbookExportCommand() *cobra.Command {
	var output string

	command := &cobra.Command{
		Use:   "export",
		Short: "Export the wordbook as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			wordbookCLI, closer, err := newWordbookCLI()
			if err != nil {
				return err
			}
			defer closer()
			return wordbookCLI.Export(cmd.Context(), output)
		},
	}
	command.Flags().StringVarP(&output, "output", "o", "kobun-wordbook.yml", "output YAML file")
	return command
}

func newWordbookImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import words from a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wordbookCLI, closer, err := newWordbookCLI()
			if err != nil {
				return err
			}
			defer closer()
			_, err = wordbookCLI.Import(cmd.Context(), args[0])
			return err
		},
	}
}
