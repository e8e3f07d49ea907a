package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/kobun/internal/cli"
	"github.com/at-ishikawa/kobun/internal/config"
	"github.com/at-ishikawa/kobun/internal/entitlement"
)

func newCreditsCommand() *cobra.Command {
	var watch bool
	var interval time.Duration

	command := &cobra.Command{
		Use:   "credits",
		Short: "Show your remaining analysis credits",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := requireIdentity(cfg); err != nil {
				return err
			}

			gateway := entitlement.NewGateway(cfg.Identity.BaseURL, cfg.Identity.PublicKey)
			creditsCLI := cli.NewCreditsCLI(gateway, cfg.Client.AccessToken)

			if watch {
				return creditsCLI.Watch(cmd.Context(), interval)
			}
			return creditsCLI.Show(cmd.Context())
		},
	}
	command.Flags().BoolVar(&watch, "watch", false, "keep polling and print changes")
	command.Flags().DurationVar(&interval, "interval", 10*time.Second, "poll interval for --watch")
	return command
}

func requireIdentity(cfg *config.Config) error {
	if cfg.Identity.BaseURL == "" || cfg.Identity.PublicKey == "" {
		return fmt.Errorf("%w: IDENTITY_BASE_URL, IDENTITY_PUBLIC_KEY", config.ErrConfigurationMissing)
	}
	if cfg.Client.AccessToken == "" {
		return fmt.Errorf("%w: KOBUN_ACCESS_TOKEN", config.ErrConfigurationMissing)
	}
	return nil
}
