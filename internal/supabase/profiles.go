package supabase

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"frame-lab-backend/internal/models"
)

// ErrProfileNotFound is returned when no profile row exists for an account.
var ErrProfileNotFound = errors.New("profile not found")

func (d *DatabaseClient) CreateProfile(userID uuid.UUID, email string) error {
	// New accounts start inactive; activation is an operator action.
	_, err := d.db.Exec(`
		INSERT INTO profiles (id, email)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, userID, email)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetProfile(userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := d.db.QueryRow(`
		SELECT id, email, is_active, active_session_id, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`, userID).Scan(
		&profile.ID, &profile.Email, &profile.IsActive,
		&profile.ActiveSessionID, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// SetActiveSession makes sessionID the account's sole authoritative session.
// Writing a new token implicitly invalidates whatever token was there before.
func (d *DatabaseClient) SetActiveSession(userID uuid.UUID, sessionID string) error {
	result, err := d.db.Exec(`
		UPDATE profiles
		SET active_session_id = $1, updated_at = NOW()
		WHERE id = $2
	`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to set active session: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ClearActiveSessionIf clears the account's session field only while it still
// holds sessionID. A single conditional update keeps a delayed logout from a
// stale session from erasing a session established later by another device.
func (d *DatabaseClient) ClearActiveSessionIf(userID uuid.UUID, sessionID string) error {
	_, err := d.db.Exec(`
		UPDATE profiles
		SET active_session_id = NULL, updated_at = NOW()
		WHERE id = $1 AND active_session_id = $2
	`, userID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear active session: %w", err)
	}
	return nil
}
