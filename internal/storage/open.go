package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-credits/internal/logging"
	"github.com/goliatone/go-credits/internal/runtimeconfig"
	"github.com/goliatone/go-credits/pkg/interfaces"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

var (
	// ErrDSNRequired is returned when neither a DSN nor a replica DSN is configured.
	ErrDSNRequired = runtimeconfig.ErrStorageDSNRequired
	// ErrUnsupportedDriver is returned for drivers without a bun dialect.
	ErrUnsupportedDriver = errors.New("storage: unsupported driver")
)

// Option customises Open.
type Option func(*options)

type options struct {
	logger interfaces.Logger
}

// WithLogger attaches the logger used to report connection lifecycle events.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open connects to the configured store and verifies the connection. The
// replica DSN is used when present; the contributor query never needs the primary.
func Open(ctx context.Context, cfg runtimeconfig.StorageConfig, opts ...Option) (*bun.DB, error) {
	o := options{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.RequireDSN(); err != nil {
		return nil, err
	}
	dsn := cfg.ReadDSN()

	driverName, dialect, err := resolveDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", driverName, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", driverName, err)
	}

	logging.WithFields(o.logger, map[string]any{
		"driver":  driverName,
		"replica": strings.TrimSpace(cfg.ReplicaDSN) != "",
	}).Info("storage.connection.verified")

	return bun.NewDB(sqlDB, dialect), nil
}

func resolveDialect(driver string) (string, schema.Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite3", "sqlite", "":
		return "sqlite3", sqlitedialect.New(), nil
	case "postgres", "pg":
		return "postgres", pgdialect.New(), nil
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
}
