package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/kobun/internal/bootstrap"
	"github.com/at-ishikawa/kobun/internal/checkout"
	"github.com/at-ishikawa/kobun/internal/config"
	"github.com/at-ishikawa/kobun/internal/entitlement"
	"github.com/at-ishikawa/kobun/internal/inference/anthropic"
	"github.com/at-ishikawa/kobun/internal/ocr"
	"github.com/at-ishikawa/kobun/internal/server"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	command := &cobra.Command{
		Use:   "kobun-server",
		Short: "API server for classical Japanese text analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configFile)
		},
	}
	command.Flags().StringVar(&configFile, "config", "", "path to the configuration file")
	return command
}

func run(ctx context.Context, configFile string) error {
	_ = godotenv.Load()

	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("loader.Load() > %w", err)
	}
	if err := cfg.RequireServerSecrets(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gateway := entitlement.NewGateway(cfg.Identity.BaseURL, cfg.Identity.PublicKey)
	anthropicClient := anthropic.NewClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
	ocrClient := ocr.NewClient(cfg.Vision.APIKey)
	checkoutClient := checkout.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.PriceID)

	handler := server.NewHandler(gateway, anthropicClient, ocrClient, checkoutClient, logger)
	router := server.NewRouter(handler, cfg.Server.CORS.AllowedOrigins)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}

	app := bootstrap.New()
	app.AddShutdownHook(func(ctx context.Context) error {
		return anthropicClient.Close()
	})
	app.AddShutdownHook(func(ctx context.Context) error {
		return checkoutClient.Close()
	})
	app.AddShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down")
		return httpServer.Shutdown(ctx)
	})

	return app.Run(ctx, func(ctx context.Context) error {
		logger.Info("starting server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer.ListenAndServe() > %w", err)
		}
		return nil
	})
}
