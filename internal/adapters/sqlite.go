package adapters

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"persona_chess/internal/bootstrap"
)

type AdapterSqlite struct {
	DB  *sql.DB
	cfg *bootstrap.Config
}

func NewAdapterSqlite(cfg *bootstrap.Config) *AdapterSqlite {
	return &AdapterSqlite{
		cfg: cfg,
	}
}

func (a *AdapterSqlite) Init(ctx context.Context) error {
	db, err := sql.Open("sqlite", a.cfg.SqlitePath)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return fmt.Errorf("sqlite pragma: %w", err)
	}
	a.DB = db
	return nil
}

func (a *AdapterSqlite) Close(ctx context.Context) error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
