package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/kobun/internal/cli"
)

func newCheckoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Start a subscription purchase",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := cfg.RequireClient(); err != nil {
				return err
			}

			apiClient := cli.NewAPIClient(cfg.Client.ServerURL, cfg.Client.AccessToken)
			defer func() {
				_ = apiClient.Close()
			}()

			url, err := apiClient.CreateCheckoutSession(cmd.Context())
			if err != nil {
				return fmt.Errorf("apiClient.CreateCheckoutSession() > %w", err)
			}

			fmt.Println("Open this URL in your browser to finish the purchase:")
			fmt.Println(url)
			return nil
		},
	}
}
