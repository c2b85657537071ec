package postgres

import (
	"database/sql"
	"time"
)

// userRow mirrors the users table. refresh_token is NULL when the user has
// no live session.
type userRow struct {
	ID           string
	Email        string
	DisplayName  string
	PhoneNumber  string
	PasswordHash string
	Role         string
	RefreshToken sql.NullString
	CreatedAt    time.Time
}
