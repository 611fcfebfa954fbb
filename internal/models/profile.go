package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Profile mirrors one row of the profiles table. ActiveSessionID holds the
// session token of the one client instance currently authoritative for the
// account; NULL means no active session.
type Profile struct {
	ID              uuid.UUID
	Email           string
	IsActive        bool
	ActiveSessionID sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
