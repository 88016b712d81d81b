// Package migrate applies the embedded schema migrations with goose.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	migrationsDir          = "migrations"
	defaultMigrationsTable = "goose_db_version"
)

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// Seams for tests.
var (
	gooseUp        = goose.UpContext
	gooseDown      = goose.DownContext
	gooseDBVersion = goose.GetDBVersionContext
)

// Manager runs migrations against a database.
type Manager struct {
	db    *sql.DB
	table string
}

// Option configures Manager.
type Option func(*Manager)

// WithMigrationsTable overrides the default bookkeeping table.
func WithMigrationsTable(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.table = name
		}
	}
}

// NewManager constructs a Manager.
func NewManager(db *sql.DB, opts ...Option) *Manager {
	m := &Manager{db: db, table: defaultMigrationsTable}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Up applies all pending migrations.
func (m *Manager) Up(ctx context.Context) error {
	return m.run(func() error { return gooseUp(ctx, m.db, migrationsDir) })
}

// Down rolls back the most recent migration.
func (m *Manager) Down(ctx context.Context) error {
	return m.run(func() error { return gooseDown(ctx, m.db, migrationsDir) })
}

// Status returns the current schema version.
func (m *Manager) Status(ctx context.Context) (int64, error) {
	var version int64
	err := m.run(func() error {
		v, err := gooseDBVersion(ctx, m.db)
		version = v
		return err
	})
	return version, err
}

func (m *Manager) run(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetTableName(m.table)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: dialect: %w", err)
	}
	if err := fn(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
