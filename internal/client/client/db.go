package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/capseal/capseal-go/internal/client/migrations"
	"github.com/capseal/capseal-go/internal/dbx"
	"github.com/capseal/capseal-go/internal/client/repositories/captures"
	"github.com/capseal/capseal-go/internal/client/repositories/metadata"
	"github.com/capseal/capseal-go/internal/client/repositories/seals"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Repositories bundles the capture queue's stores. Close releases the
// underlying database handle.
type Repositories struct {
	Captures captures.Repository
	Seals    seals.Repository
	Metadata metadata.Repository

	db *sql.DB
}

// NewRepositories builds the repository set over an already-open handle.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Captures: captures.NewSQLiteRepository(db),
		Seals:    seals.NewSQLiteRepository(db),
		Metadata: metadata.NewSQLiteRepository(db),
		db:       db,
	}
}

func (r *Repositories) Close() error {
	return r.db.Close()
}

// InTx runs fn against transactional views of the capture and seal stores,
// committing only if fn succeeds.
func (r *Repositories) InTx(ctx context.Context, fn func(captures.Repository, seals.Repository) error) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(captures.NewSQLiteRepository(tx), seals.NewSQLiteRepository(tx))
	})
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the capture database at dsn,
// brings the schema up to date and returns the repository set.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewRepositories(db), nil
}
