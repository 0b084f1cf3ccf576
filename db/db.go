// Package db wraps the two SQL backends this project supports: SQLite for
// local and unit-test runs, MySQL for the shared lexicon/run-history store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/faithcomesbyhearing/lexdecoder/logger"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// DBAdapter bundles a connection with the context it was opened under,
// carrying Ctx/DB/DatabasePath through every query site instead of
// threading three parameters everywhere.
type DBAdapter struct {
	Ctx          context.Context
	DB           *sql.DB
	DatabasePath string
	Dialect      string // "sqlite3" or "mysql"
}

// NewerDBAdapter opens a SQLite database under a per-project temp directory
// when isUnitTest is true, or the shared MySQL database (configured by
// LEXDECODER_MYSQL_DSN) otherwise. project/name combine into the SQLite
// database file name; under MySQL they only label DatabasePath, and every
// caller shares the same tables.
func NewerDBAdapter(ctx context.Context, isUnitTest bool, project string, name string) (DBAdapter, *log.Status) {
	var conn DBAdapter
	conn.Ctx = ctx
	if isUnitTest {
		dir := filepath.Join(os.TempDir(), "lexdecoder_test")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return conn, log.Error(ctx, 500, err, "Error creating test db directory")
		}
		conn.DatabasePath = filepath.Join(dir, fmt.Sprintf("%s_%s.db", project, name))
		database, err := sql.Open("sqlite3", conn.DatabasePath)
		if err != nil {
			return conn, log.Error(ctx, 500, err, "Error opening sqlite database", conn.DatabasePath)
		}
		conn.DB = database
		conn.Dialect = "sqlite3"
	} else {
		dsn := os.Getenv("LEXDECODER_MYSQL_DSN")
		if dsn == `` {
			return conn, log.ErrorNoErr(ctx, 500, "LEXDECODER_MYSQL_DSN is not set")
		}
		conn.DatabasePath = project + "/" + name
		database, err := sql.Open("mysql", dsn)
		if err != nil {
			return conn, log.Error(ctx, 500, err, "Error opening mysql database", project, name)
		}
		conn.DB = database
		conn.Dialect = "mysql"
	}
	if err := conn.DB.PingContext(ctx); err != nil {
		return conn, log.Error(ctx, 500, err, "Error pinging database", conn.DatabasePath)
	}
	status := conn.createSchema()
	return conn, status
}

func (conn DBAdapter) Close() {
	if conn.DB != nil {
		_ = conn.DB.Close()
	}
}
