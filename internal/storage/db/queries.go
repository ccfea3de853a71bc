package db

import (
	"context"
	"database/sql"
	"time"
)

const insertVoter = `
INSERT INTO voter (id, first_name, middle_name, last_name, dob, photo, user_name)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_name) DO NOTHING
RETURNING id
`

// InsertVoterParams are the column values for InsertVoter.
type InsertVoterParams struct {
	ID          uint64
	FirstName   string
	MiddleName  sql.NullString
	LastName    string
	DateOfBirth time.Time
	Photo       []byte
	UserName    string
}

// InsertVoter creates a voter row. It returns [sql.ErrNoRows] when the
// username is already taken, since the conflicting insert produces no row.
func (q *Queries) InsertVoter(ctx context.Context, arg InsertVoterParams) (uint64, error) {
	row := q.db.QueryRowContext(ctx, insertVoter,
		arg.ID,
		arg.FirstName,
		arg.MiddleName,
		arg.LastName,
		arg.DateOfBirth,
		arg.Photo,
		arg.UserName,
	)
	var id uint64
	err := row.Scan(&id)
	return id, err
}

const insertAuth = `
INSERT INTO auth (id, user_id, user_name, password_hash)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_name) DO NOTHING
RETURNING id
`

// InsertAuthParams are the column values for InsertAuth.
type InsertAuthParams struct {
	ID           uint64
	UserID       uint64
	UserName     string
	PasswordHash string
}

// InsertAuth creates the credential row for a voter. It returns
// [sql.ErrNoRows] when the username is already taken.
func (q *Queries) InsertAuth(ctx context.Context, arg InsertAuthParams) (uint64, error) {
	row := q.db.QueryRowContext(ctx, insertAuth,
		arg.ID,
		arg.UserID,
		arg.UserName,
		arg.PasswordHash,
	)
	var id uint64
	err := row.Scan(&id)
	return id, err
}

const getAuthByName = `
SELECT id, user_id, user_name, password_hash
FROM auth
WHERE user_name = ?
`

// GetAuthByName returns the credential row for the given username.
func (q *Queries) GetAuthByName(ctx context.Context, userName string) (Auth, error) {
	row := q.db.QueryRowContext(ctx, getAuthByName, userName)
	var a Auth
	err := row.Scan(&a.ID, &a.UserID, &a.UserName, &a.PasswordHash)
	return a, err
}

const getVoter = `
SELECT id, first_name, middle_name, last_name, dob, photo, user_name
FROM voter
WHERE id = ?
`

// GetVoter returns a voter row by ID.
func (q *Queries) GetVoter(ctx context.Context, id uint64) (Voter, error) {
	row := q.db.QueryRowContext(ctx, getVoter, id)
	var v Voter
	err := row.Scan(
		&v.ID,
		&v.FirstName,
		&v.MiddleName,
		&v.LastName,
		&v.DateOfBirth,
		&v.Photo,
		&v.UserName,
	)
	return v, err
}

const listVotersByName = `
SELECT id, first_name, middle_name, last_name, dob, photo, user_name
FROM voter
WHERE user_name = ?
ORDER BY id
`

// ListVotersByName returns the voter rows matching a username. The schema
// keeps usernames unique, so at most one row comes back; the list shape is
// what the dashboard renders.
func (q *Queries) ListVotersByName(ctx context.Context, userName string) ([]Voter, error) {
	rows, err := q.db.QueryContext(ctx, listVotersByName, userName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var voters []Voter
	for rows.Next() {
		var v Voter
		if err := rows.Scan(
			&v.ID,
			&v.FirstName,
			&v.MiddleName,
			&v.LastName,
			&v.DateOfBirth,
			&v.Photo,
			&v.UserName,
		); err != nil {
			return nil, err
		}
		voters = append(voters, v)
	}
	return voters, rows.Err()
}

const deleteVoter = `
DELETE FROM voter
WHERE id = ?
`

// DeleteVoter removes a voter row; the auth row follows via cascade.
func (q *Queries) DeleteVoter(ctx context.Context, id uint64) error {
	_, err := q.db.ExecContext(ctx, deleteVoter, id)
	return err
}
