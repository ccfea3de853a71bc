package db

import (
	"database/sql"
	"time"
)

// Auth is the credential record linking a username and password hash to a
// voter. The password hash is stored nowhere else.
type Auth struct {
	ID           uint64
	UserID       uint64
	UserName     string
	PasswordHash string
}

// Voter is the biographical and media record for a registered voter.
type Voter struct {
	ID          uint64
	FirstName   string
	MiddleName  sql.NullString
	LastName    string
	DateOfBirth time.Time
	Photo       []byte
	UserName    string
}
