package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/colorbook/internal/adapter/driven/jsonfile"
	sqliteadapter "github.com/ericfisherdev/colorbook/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/colorbook/internal/config"
	"github.com/ericfisherdev/colorbook/internal/domain/port/driven"
)

// openStore opens the configured IdeaStore backend. The returned close
// function is never nil.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (driven.IdeaStore, func() error, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("idea store opened", "backend", string(cfg.Store), "path", db.Path())
		return sqliteadapter.NewIdeaRepo(db), db.Close, nil

	default:
		store := jsonfile.NewIdeaStore(cfg.IdeasPath)
		logger.Info("idea store opened", "backend", string(cfg.Store), "path", store.Path())
		return store, func() error { return nil }, nil
	}
}
