package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/influxdata/influxdb/pkg/snowflake"

	"github.com/suffragio/suffragio/internal/config"
	"github.com/suffragio/suffragio/internal/storage/db"
)

// validateUsername validates that a username is non-empty. Any visible
// characters are allowed; uniqueness is the schema's concern.
func validateUsername(name string) bool {
	return strings.TrimSpace(name) != ""
}

// DB is a [Store] backed by a SQLite database.
type DB struct {
	ids     *snowflake.Generator
	db      *sql.DB
	queries *db.Queries
}

// NewDB initializes a DB with the given config and logger.
func NewDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*DB, error) {
	handle, err := db.Open(ctx, logger, cfg.DBFilepath)
	if err != nil {
		return nil, err
	}
	return &DB{
		ids:     snowflake.New(rand.IntN(1023)), //nolint:gosec,mnd // this isn't for crypto
		db:      handle,
		queries: db.New(handle),
	}, nil
}

// Close satisfies the [Store] interface.
func (d *DB) Close() error {
	return d.db.Close()
}

// CreateVoter satisfies the [Voters] interface. The voter row and its auth
// row are inserted in one transaction; the auth insert only runs once the
// voter insert has succeeded, and any failure rolls back both.
func (d *DB) CreateVoter(ctx context.Context, voter db.Voter, passwordHash string) (db.Voter, error) {
	if !validateUsername(voter.UserName) {
		return voter, ErrInvalidUsername
	}
	if len(voter.Photo) == 0 {
		return voter, ErrMissingPhoto
	}
	if voter.ID == 0 {
		voter.ID = d.ids.Next()
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return voter, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	qtx := d.queries.WithTx(tx)

	switch _, err = qtx.InsertVoter(ctx, db.InsertVoterParams(voter)); {
	case errors.Is(err, sql.ErrNoRows):
		return voter, ErrAlreadyExists
	case err != nil:
		return voter, fmt.Errorf("failed to insert voter: %w", err)
	}

	switch _, err = qtx.InsertAuth(ctx, db.InsertAuthParams{
		ID:           d.ids.Next(),
		UserID:       voter.ID,
		UserName:     voter.UserName,
		PasswordHash: passwordHash,
	}); {
	case errors.Is(err, sql.ErrNoRows):
		return voter, ErrAlreadyExists
	case err != nil:
		return voter, fmt.Errorf("failed to insert auth record: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return voter, fmt.Errorf("failed to commit registration: %w", err)
	}
	return voter, nil
}

// GetAuthByName satisfies the [Voters] interface.
func (d *DB) GetAuthByName(ctx context.Context, userName string) (db.Auth, error) {
	auth, err := d.queries.GetAuthByName(ctx, userName)
	if errors.Is(err, sql.ErrNoRows) {
		return auth, ErrNotFound
	}
	return auth, err
}

// GetVoter satisfies the [Voters] interface.
func (d *DB) GetVoter(ctx context.Context, id uint64) (db.Voter, error) {
	voter, err := d.queries.GetVoter(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return voter, ErrNotFound
	}
	return voter, err
}

// ListVotersByName satisfies the [Voters] interface.
func (d *DB) ListVotersByName(ctx context.Context, userName string) ([]db.Voter, error) {
	return d.queries.ListVotersByName(ctx, userName)
}

// DeleteVoter satisfies the [Voters] interface. The auth row is removed by
// the schema's cascade.
func (d *DB) DeleteVoter(ctx context.Context, userID uint64) error {
	return d.queries.DeleteVoter(ctx, userID)
}

var _ Store = (*DB)(nil)
