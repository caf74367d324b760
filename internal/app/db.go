package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/plated-dev/chef-league/internal/config"
	"github.com/plated-dev/chef-league/internal/platform/logging"
)

func openDatabase(cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	logger.Info("postgres connected", "db_name", dbNameFromURL(cfg.DBURL))
	return db, nil
}
