package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Generation status values.
const (
	GenerationStatusSubmitted  = "submitted"
	GenerationStatusProcessing = "processing"
	GenerationStatusCompleted  = "completed"
	GenerationStatusFailed     = "failed"
)

type Generation struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Status        string
	Progress      int
	Prompt        string
	AspectRatio   string
	Resolution    string
	OperationName sql.NullString
	StoragePath   sql.NullString
	StorageURL    sql.NullString
	ErrorMessage  sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
