package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	tokenFile   = "session_token"
	sessionFile = "auth_session.json"
)

// Store is the local persistent slot for this client instance: the session
// token pointer plus the Supabase session that goes with it. Divergence of
// the pointer from the remote active_session_id is the invalidation signal.
type Store struct {
	dir string
}

// PersistedSession is the Supabase session saved across restarts.
type PersistedSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Token returns the Local Session Pointer, or "" when none is stored.
func (s *Store) Token() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *Store) SaveToken(token string) error {
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

func (s *Store) ClearToken() error {
	err := os.Remove(filepath.Join(s.dir, tokenFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}

// SavedSession returns the persisted Supabase session, or nil when none.
func (s *Store) SavedSession() (*PersistedSession, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, sessionFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read saved session: %w", err)
	}

	var saved PersistedSession
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("failed to decode saved session: %w", err)
	}
	if saved.AccessToken == "" {
		return nil, nil
	}
	return &saved, nil
}

func (s *Store) SaveSession(saved *PersistedSession) error {
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, sessionFile), data, 0o600); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Store) ClearSession() error {
	err := os.Remove(filepath.Join(s.dir, sessionFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear saved session: %w", err)
	}
	return nil
}
