package database

import (
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteDialect returns the dialect for mattn/go-sqlite3
func NewSQLiteDialect() Dialect {
	return &sqlDialect{
		name:   "sqlite",
		driver: "sqlite3",
		// Per-connection pragmas go in the DSN so every pooled connection gets them
		dsn: func(c DialectConfig) string {
			return "file:" + c.Path + "?_busy_timeout=5000&_foreign_keys=on"
		},
		setup: []string{"PRAGMA journal_mode=WAL"},
		migrationsTable: `
			CREATE TABLE IF NOT EXISTS migrations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				filename TEXT UNIQUE NOT NULL,
				executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
	}
}

// NewPostgresDialect returns the dialect for lib/pq
func NewPostgresDialect() Dialect {
	return &sqlDialect{
		name:     "postgres",
		driver:   "postgres",
		numbered: true,
		dsn:      func(c DialectConfig) string { return c.URL },
		migrationsTable: `
			CREATE TABLE IF NOT EXISTS migrations (
				id BIGSERIAL PRIMARY KEY,
				filename TEXT UNIQUE NOT NULL,
				executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
			)`,
	}
}

// NewMySQLDialect returns the dialect for go-sql-driver/mysql
func NewMySQLDialect() Dialect {
	return &sqlDialect{
		name:   "mysql",
		driver: "mysql",
		dsn:    mysqlDSN,
		setup:  []string{"SET FOREIGN_KEY_CHECKS = 1"},
		migrationsTable: `
			CREATE TABLE IF NOT EXISTS migrations (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				filename VARCHAR(255) UNIQUE NOT NULL,
				executed_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
			)`,
	}
}

// mysqlDSN forces parseTime and UTC so DATETIME columns scan into time.Time
func mysqlDSN(c DialectConfig) string {
	cfg, err := mysql.ParseDSN(c.URL)
	if err != nil {
		// sql.Open reports the malformed DSN
		return c.URL
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN()
}
