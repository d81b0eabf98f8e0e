package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/repository"
)

// Store is an opened record store. Close must be called once the process
// no longer needs it.
type Store struct {
	Driver    string
	Employees repository.EmployeeRepository
	close     func()
}

// OpenStore connects the backend selected by cfg.Store.Driver, applies its
// migrations when enabled and returns the employee repository bound to it.
func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &Store{
			Driver:    cfg.Store.Driver,
			Employees: repository.NewPostgresEmployeeRepository(pg.PoolHandle()),
			close:     pg.Close,
		}, nil

	case config.StoreDriverSQLite:
		lite, err := NewSQLite(ctx, cfg.SQLite, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if cfg.SQLite.RunMigrations {
			if err := RunSQLiteMigrations(ctx, lite.DB, logger); err != nil {
				lite.Close()
				return nil, err
			}
		}
		return &Store{
			Driver:    cfg.Store.Driver,
			Employees: repository.NewSQLiteEmployeeRepository(lite.DB),
			close:     lite.Close,
		}, nil

	case config.StoreDriverMemory:
		logger.Warn("using in-memory store; records are not persisted")
		return &Store{
			Driver:    cfg.Store.Driver,
			Employees: repository.NewMemoryEmployeeRepository(),
			close:     func() {},
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

// Ping verifies the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.Employees == nil {
		return fmt.Errorf("store not opened")
	}
	return s.Employees.Ping(ctx)
}

// Close releases the backend handle.
func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}
