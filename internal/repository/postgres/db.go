package postgres

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"vtuportal/internal/config"
)

// NewDB opens the PostgreSQL pool behind the result table and pings it
// within ctx.
func NewDB(ctx context.Context, cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}
	if cfg.MaxOpen > 0 {
		db.SetMaxOpenConns(cfg.MaxOpen)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	return db, nil
}
