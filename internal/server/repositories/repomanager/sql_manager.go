package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/falconusers/internal/dbx"
	"github.com/dmitrijs2005/falconusers/internal/filex"
	"github.com/dmitrijs2005/falconusers/internal/server/migrations"
	"github.com/dmitrijs2005/falconusers/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager serves repositories backed by a *sql.DB in one of
// the supported dialects.
type SQLRepositoryManager struct {
	db      *sql.DB
	dialect dbx.Dialect
}

// sqlOpen and gooseUpContext are seams for tests.
var (
	sqlOpen        = sql.Open
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
)

// NewPostgresRepositoryManager connects through the pgx stdlib driver.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (*SQLRepositoryManager, error) {
	db, err := open(ctx, "pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &SQLRepositoryManager{db: db, dialect: dbx.DialectPostgres}, nil
}

// NewSQLiteRepositoryManager opens a SQLite database file (or a
// "file:...?mode=memory" URI). Writes are serialized on a single
// connection.
func NewSQLiteRepositoryManager(ctx context.Context, dsn string) (*SQLRepositoryManager, error) {
	if path, ok := sqliteFilePath(dsn); ok {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := open(ctx, "sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &SQLRepositoryManager{db: db, dialect: dbx.DialectSQLite}, nil
}

// sqliteFilePath extracts the database file from a SQLite DSN. In-memory
// databases have none.
func sqliteFilePath(dsn string) (string, bool) {
	path, query, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" || path == ":memory:" || strings.Contains(query, "mode=memory") {
		return "", false
	}
	return path, true
}

func open(ctx context.Context, driverName, dsn string) (*sql.DB, error) {
	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driverName, err)
	}
	return db, nil
}

func (m *SQLRepositoryManager) repo(db dbx.DBTX) users.Repository {
	if m.dialect == dbx.DialectPostgres {
		return users.NewPostgresRepository(db)
	}
	return users.NewSQLiteRepository(db)
}

// Users returns a repository bound to the connection pool.
func (m *SQLRepositoryManager) Users() users.Repository {
	return m.repo(m.db)
}

func (m *SQLRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, m.repo(tx))
	})
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	dir := "postgres"
	dialect := "pgx"
	if m.dialect == dbx.DialectSQLite {
		dir, dialect = "sqlite", "sqlite3"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	if err := gooseUpContext(ctx, m.db, dir); err != nil {
		return err
	}
	return nil
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}
