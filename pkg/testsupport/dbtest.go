package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

var dbCounter atomic.Int64

// NewSQLiteMemoryDB opens a private in-memory SQLite database. Each call gets
// its own database so parallel tests do not share state.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	name := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	return sql.Open("sqlite3", name)
}

// NewBunSQLiteDB wraps an in-memory SQLite database with the bun dialect and
// creates the contents table used by repository tests.
func NewBunSQLiteDB(ctx context.Context) (*bun.DB, error) {
	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if _, err := db.ExecContext(ctx, contentsSchema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

const contentsSchema = `
CREATE TABLE IF NOT EXISTS contents (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	file_ref TEXT NOT NULL DEFAULT '',
	media_type TEXT,
	published INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'draft',
	publish_at TIMESTAMP,
	archive_at TIMESTAMP,
	published_at TIMESTAMP,
	archived_at TIMESTAMP,
	published_by TEXT,
	updated_by TEXT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`
