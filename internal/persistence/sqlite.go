package persistence

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/config"
)

// SQLite wraps a database/sql handle backed by mattn/go-sqlite3.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite opens the database file at cfg.Path. Write transactions begin
// IMMEDIATE and the pool is limited to one connection, so every transaction
// is serialized and ":memory:" databases stay shared.
func NewSQLite(ctx context.Context, cfg config.SQLiteConfig, logger *zap.Logger) (*SQLite, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path not provided")
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_txlock=immediate&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("opened sqlite database", zap.String("path", cfg.Path))
	return &SQLite{DB: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() {
	if s != nil && s.DB != nil {
		_ = s.DB.Close()
	}
}
