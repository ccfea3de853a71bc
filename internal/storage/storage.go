// Package storage provides the state management for voters and their
// credentials.
package storage

import (
	"context"

	"github.com/suffragio/suffragio/internal/storage/db"
)

const (
	// ErrNotFound is returned when a voter or credential cannot be found.
	ErrNotFound Error = "not found"
	// ErrAlreadyExists is returned if the username is already registered.
	ErrAlreadyExists Error = "already exists"
	// ErrInvalidUsername is returned when a username fails validation.
	ErrInvalidUsername Error = "username is required"
	// ErrMissingPhoto is returned when a voter is created without a photo.
	ErrMissingPhoto Error = "photo is required"
)

// Error is an error type returned by the storage implementation.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Voters are the methods on a storage implementation that are responsible
// for accessing and modifying voters and their credentials.
type Voters interface {
	// CreateVoter persists the voter profile and its credential record as a
	// single unit: either both rows exist afterwards or neither does. The
	// passwordHash must already be an encoded hash; plaintext never reaches
	// the store. An [ErrAlreadyExists] is returned if the username is taken.
	CreateVoter(ctx context.Context, voter db.Voter, passwordHash string) (db.Voter, error)
	// GetAuthByName returns the credential record for a username. An
	// [ErrNotFound] is returned if the username does not exist.
	GetAuthByName(ctx context.Context, userName string) (db.Auth, error)
	// GetVoter returns the voter profile for an ID. An [ErrNotFound] is
	// returned if no voter has that ID.
	GetVoter(ctx context.Context, id uint64) (db.Voter, error)
	// ListVotersByName returns the voter profile rows for a username, in the
	// shape the dashboard renders. The slice is empty if none exist.
	ListVotersByName(ctx context.Context, userName string) ([]db.Voter, error)
	// DeleteVoter removes a voter and their credential record. Note that this
	// is a hard delete; data is not recoverable.
	DeleteVoter(ctx context.Context, userID uint64) error
}

// Store is the [Voters] interface plus lifecycle management.
type Store interface {
	Voters
	// Close releases any resources held by the store. An error is returned if
	// the store cannot be cleanly closed.
	Close() error
}
