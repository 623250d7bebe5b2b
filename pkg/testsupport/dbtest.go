package testsupport

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// MemoryDSN returns a shared-cache in-memory sqlite DSN unique to the caller.
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s-%s?mode=memory&cache=shared", name, uuid.NewString())
}

// NewSQLiteMemoryDB opens an isolated in-memory sqlite database.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	return openSQLite(MemoryDSN(name))
}

// NewBunSQLiteDB opens an isolated in-memory database and creates a table per model.
func NewBunSQLiteDB(ctx context.Context, name string, models ...any) (*bun.DB, error) {
	return OpenBunSQLite(ctx, MemoryDSN(name), models...)
}

// OpenBunSQLite opens dsn with the sqlite dialect and creates a table per model.
// Other connections to the same shared-cache DSN see the tables while db stays open.
func OpenBunSQLite(ctx context.Context, dsn string, models ...any) (*bun.DB, error) {
	sqldb, err := openSQLite(dsn)
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return db, nil
}

func openSQLite(dsn string) (*sql.DB, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// a single connection keeps the in-memory database alive and serialises writers
	sqldb.SetMaxOpenConns(1)
	return sqldb, nil
}
