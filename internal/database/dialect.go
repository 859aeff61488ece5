package database

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect describes how one database engine is opened, queried and migrated
type Dialect interface {
	// Name returns the canonical database type ("sqlite", "postgres", "mysql")
	Name() string

	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts ? placeholders to the engine's syntax
	RewriteQuery(query string) string

	// SetupStatements run once after connecting
	SetupStatements() []string

	// MigrationsSubdir returns the directory holding this engine's migrations
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string
}

// DialectConfig holds what a dialect needs to build its DSN
type DialectConfig struct {
	Path string // sqlite file
	URL  string // postgres/mysql connection URL
}

// PoolConfig sizes the connection pool
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig is used when no pool settings are configured
var DefaultPoolConfig = PoolConfig{
	MaxOpenConns:    25,
	MaxIdleConns:    5,
	ConnMaxLifetime: 5 * time.Minute,
	ConnMaxIdleTime: time.Minute,
}

// sqlDialect is a Dialect described by data
type sqlDialect struct {
	name            string
	driver          string
	numbered        bool
	dsn             func(DialectConfig) string
	setup           []string
	migrationsTable string
}

func (d *sqlDialect) Name() string                       { return d.name }
func (d *sqlDialect) DriverName() string                 { return d.driver }
func (d *sqlDialect) DSN(config DialectConfig) string    { return d.dsn(config) }
func (d *sqlDialect) SetupStatements() []string          { return d.setup }
func (d *sqlDialect) MigrationsSubdir() string           { return d.name }
func (d *sqlDialect) CreateMigrationsTableQuery() string { return d.migrationsTable }

func (d *sqlDialect) RewriteQuery(query string) string {
	if !d.numbered {
		return query
	}
	return rewritePlaceholdersToNumbered(query)
}

// DialectFor resolves a configured database type to its dialect
func DialectFor(databaseType string) (Dialect, error) {
	switch strings.ToLower(databaseType) {
	case "postgres", "postgresql":
		return NewPostgresDialect(), nil
	case "mysql":
		return NewMySQLDialect(), nil
	case "sqlite", "sqlite3":
		return NewSQLiteDialect(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", databaseType)
	}
}

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
// Question marks inside single-quoted literals are left alone.
func rewritePlaceholdersToNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
		case c == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
