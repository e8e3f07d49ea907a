package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/kobun/internal/config"
	"github.com/at-ishikawa/kobun/internal/store"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func openStore(cfg *config.Config) (*sqlx.DB, error) {
	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("store.Open(%s) > %w", cfg.Store.Path, err)
	}
	return db, nil
}
