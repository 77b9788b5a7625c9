// Package sqlite provides a sqlite-backed credential store for the Zoom
// meeting adapter. The CLI uses it to keep token pairs between runs;
// deployments embedded in a larger booking system typically supply their
// own store instead.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/teemow/zoombridge/internal/zoomauth"
)

const DriverName = "sqlite3"

// Store persists credentials in a sqlite database.
type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return s, nil
}

// NewStore wraps an existing database handle and runs migrations.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: sqlx.NewDb(db, DriverName)}
	if err := s.runMigrations(); err != nil {
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) runMigrations() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS credentials (
		id VARCHAR NOT NULL PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		access_token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		expiry VARCHAR NOT NULL DEFAULT "",
		invalid INTEGER NOT NULL DEFAULT 0
	)`,
}

type credentialRow struct {
	ID           string `db:"id"`
	UserID       string `db:"user_id"`
	AccessToken  string `db:"access_token"`
	RefreshToken string `db:"refresh_token"`
	Expiry       string `db:"expiry"`
	Invalid      bool   `db:"invalid"`
}

func (r credentialRow) convert() (*zoomauth.Credential, error) {
	cred := &zoomauth.Credential{
		ID:           r.ID,
		UserID:       r.UserID,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		Invalid:      r.Invalid,
	}
	if r.Expiry != "" {
		expiry, err := time.Parse(time.RFC3339, r.Expiry)
		if err != nil {
			return nil, fmt.Errorf("sqlite: credential %s has malformed expiry: %w", r.ID, err)
		}
		cred.Expiry = expiry
	}
	return cred, nil
}

// Get retrieves a credential by its identifier.
func (s *Store) Get(ctx context.Context, id string) (*zoomauth.Credential, error) {
	var row credentialRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, access_token, refresh_token, expiry, invalid
		FROM credentials WHERE id = ?;
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("credential %q not found", id)
	}
	if err != nil {
		return nil, err
	}
	return row.convert()
}

// Save persists the credential, replacing any prior token pair.
func (s *Store) Save(ctx context.Context, cred *zoomauth.Credential) error {
	expiry := ""
	if !cred.Expiry.IsZero() {
		expiry = cred.Expiry.Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (id, user_id, access_token, refresh_token, expiry, invalid)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expiry = excluded.expiry,
			invalid = excluded.invalid;
	`, cred.ID, cred.UserID, cred.AccessToken, cred.RefreshToken, expiry, cred.Invalid)
	return err
}

// MarkInvalid flags the credential as unusable.
func (s *Store) MarkInvalid(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE credentials SET invalid = 1 WHERE id = ?;
	`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("credential %q not found", id)
	}
	return nil
}
