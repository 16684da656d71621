// Package db opens the server's SQLite store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/jobscreen/internal/filex"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// BusyTimeoutMillis is how long a statement waits on a locked database file.
const BusyTimeoutMillis = 5000

// DSN turns a database file path into a modernc.org/sqlite DSN with the
// pragmas the server relies on. ":memory:" is passed through unchanged
// apart from the pragmas.
func DSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", BusyTimeoutMillis))
	q.Add("_pragma", "foreign_keys(1)")
	if path != ":memory:" && !strings.HasPrefix(path, "file::memory:") {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + q.Encode()
	}
	return "file:" + path + "?" + q.Encode()
}

// Open opens the store at path, creating its directory if needed, and
// verifies the connection. The pool is limited to a single connection: every
// ledger write goes through it, which keeps SQLite's single-writer model
// intact under concurrent requests.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}
	return db, nil
}
