package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"frame-lab-backend/internal/models"
	"frame-lab-backend/internal/supabase"
)

// VerifyInterval is how often an authenticated guard re-checks its session
// against the remote account; it bounds how long a signed-in-elsewhere
// takeover goes undetected.
const VerifyInterval = 30 * time.Second

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("this account has not been activated yet")
)

type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
)

// AuthClient is the external credential store (GoTrue).
type AuthClient interface {
	SignIn(email, password string) (*supabase.AuthSession, error)
	SignUp(email, password string) (uuid.UUID, error)
	SignOut(accessToken string) error
	GetUser(accessToken string) (uuid.UUID, string, error)
	RefreshSession(refreshToken string) (*supabase.AuthSession, error)
}

// ProfileStore is the remote account record with the activation flag and
// the authoritative active_session_id field.
type ProfileStore interface {
	CreateProfile(userID uuid.UUID, email string) error
	GetProfile(userID uuid.UUID) (*models.Profile, error)
	SetActiveSession(userID uuid.UUID, sessionID string) error
	ClearActiveSessionIf(userID uuid.UUID, sessionID string) error
}

// Guard owns this client instance's session state: one explicit object with
// a startup check and a logout teardown, no ambient globals. It moves
// between Unauthenticated and Authenticated only; invalidation always lands
// back on Unauthenticated.
type Guard struct {
	auth      AuthClient
	profiles  ProfileStore
	local     *Store
	jwtSecret string

	mu           sync.Mutex
	state        State
	userID       uuid.UUID
	email        string
	sessionToken string
	accessToken  string
	refreshToken string
}

func NewGuard(auth AuthClient, profiles ProfileStore, local *Store, jwtSecret string) *Guard {
	return &Guard{
		auth:      auth,
		profiles:  profiles,
		local:     local,
		jwtSecret: jwtSecret,
	}
}

// Login authenticates against the credential store, mints a fresh session
// token, and writes it to the account record and the local slot. Any failure
// after authentication signs the remote session back out before the error is
// returned, so no half-authenticated state survives. In-memory state is set
// synchronously here, never from an async notification.
func (g *Guard) Login(email, password string) (string, error) {
	authSess, err := g.auth.SignIn(email, password)
	if err != nil {
		if supabase.IsInvalidCredentials(err) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	rollback := func(cause error) (string, error) {
		if err := g.auth.SignOut(authSess.AccessToken); err != nil {
			log.Printf("login rollback: remote sign-out failed: %v", err)
		}
		return "", cause
	}

	profile, err := g.profiles.GetProfile(authSess.UserID)
	if err != nil {
		return rollback(err)
	}
	if !profile.IsActive {
		return rollback(ErrAccountInactive)
	}

	token := uuid.NewString()
	if err := g.profiles.SetActiveSession(authSess.UserID, token); err != nil {
		return rollback(err)
	}
	if err := g.local.SaveToken(token); err != nil {
		return rollback(err)
	}
	if err := g.local.SaveSession(&PersistedSession{
		AccessToken:  authSess.AccessToken,
		RefreshToken: authSess.RefreshToken,
	}); err != nil {
		return rollback(err)
	}

	g.mu.Lock()
	g.state = StateAuthenticated
	g.userID = authSess.UserID
	g.email = authSess.Email
	g.sessionToken = token
	g.accessToken = authSess.AccessToken
	g.refreshToken = authSess.RefreshToken
	g.mu.Unlock()

	return token, nil
}

// Register creates a credential-store account plus its profile row. The
// profile starts inactive, so the account cannot log in until activated.
func (g *Guard) Register(email, password string) error {
	userID, err := g.auth.SignUp(email, password)
	if err != nil {
		return err
	}
	return g.profiles.CreateProfile(userID, email)
}

// VerifySession compares the Local Session Pointer against the account's
// active_session_id and force-invalidates on divergence. This is the
// signed-in-elsewhere detector. A no-op while unauthenticated.
func (g *Guard) VerifySession() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateAuthenticated {
		return nil
	}

	localToken, err := g.local.Token()
	if err != nil || localToken == "" {
		g.invalidateLocked()
		return nil
	}

	profile, err := g.profiles.GetProfile(g.userID)
	if err != nil {
		// Transient read failure: keep the session, the next tick retries.
		return err
	}

	if !profile.ActiveSessionID.Valid || profile.ActiveSessionID.String != localToken {
		g.invalidateLocked()
	}
	return nil
}

// CheckInitialSession runs once at startup. A persisted remote session
// without a Local Session Pointer is always invalidated; otherwise the
// account's activation flag and active_session_id decide whether the saved
// session is adopted into memory.
func (g *Guard) CheckInitialSession() error {
	saved, err := g.local.SavedSession()
	if err != nil {
		log.Printf("startup session check: %v", err)
	}
	localToken, _ := g.local.Token()

	if saved == nil && localToken == "" {
		return nil
	}
	if saved == nil {
		// Orphaned pointer without a session behind it.
		return g.local.ClearToken()
	}
	if localToken == "" {
		g.forceInvalidate(saved.AccessToken)
		return nil
	}

	userID, email, err := supabase.ParseAccessToken(g.jwtSecret, saved.AccessToken)
	if err != nil {
		// The saved access token is stale; try the refresh token before
		// giving up on the session.
		refreshed, refreshErr := g.auth.RefreshSession(saved.RefreshToken)
		if refreshErr != nil {
			g.forceInvalidate(saved.AccessToken)
			return nil
		}
		saved = &PersistedSession{
			AccessToken:  refreshed.AccessToken,
			RefreshToken: refreshed.RefreshToken,
		}
		if err := g.local.SaveSession(saved); err != nil {
			log.Printf("startup session check: failed to persist refreshed session: %v", err)
		}
		userID, email = refreshed.UserID, refreshed.Email
	}

	profile, err := g.profiles.GetProfile(userID)
	if err != nil {
		g.forceInvalidate(saved.AccessToken)
		return nil
	}
	if !profile.IsActive || !profile.ActiveSessionID.Valid || profile.ActiveSessionID.String != localToken {
		g.forceInvalidate(saved.AccessToken)
		return nil
	}

	g.mu.Lock()
	g.state = StateAuthenticated
	g.userID = userID
	g.email = email
	g.sessionToken = localToken
	g.accessToken = saved.AccessToken
	g.refreshToken = saved.RefreshToken
	g.mu.Unlock()
	return nil
}

// Logout tears the session down. A graceful logout first clears the remote
// active_session_id, but only while it still equals the local pointer, so a
// delayed logout cannot clobber a newer session from another device. A
// forced logout skips that clear (the field may already belong to someone
// else) but still signs out remotely and drops the local slot.
func (g *Guard) Logout(forced bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateAuthenticated {
		g.clearLocalLocked()
		return nil
	}

	if !forced {
		localToken, err := g.local.Token()
		if err == nil && localToken != "" {
			if err := g.profiles.ClearActiveSessionIf(g.userID, localToken); err != nil {
				log.Printf("logout: guarded session clear failed: %v", err)
			}
		}
	}

	g.invalidateLocked()
	return nil
}

// HandleAuthEvent reacts to one tagged notification from the auth provider.
func (g *Guard) HandleAuthEvent(ev Event) error {
	switch ev.Type {
	case EventTokenRefreshed:
		// A refresh on another device may mean the account changed hands.
		return g.VerifySession()
	case EventSignedOut:
		g.mu.Lock()
		g.clearLocalLocked()
		g.resetLocked()
		g.mu.Unlock()
		return nil
	case EventSignedIn:
		// Login already set state synchronously.
		return nil
	default:
		return nil
	}
}

// RefreshAccessToken trades the refresh token for a fresh session and then
// runs the verification that a token-refresh notification triggers.
func (g *Guard) RefreshAccessToken() error {
	g.mu.Lock()
	if g.state != StateAuthenticated {
		g.mu.Unlock()
		return nil
	}
	refreshToken := g.refreshToken
	g.mu.Unlock()

	sess, err := g.auth.RefreshSession(refreshToken)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.accessToken = sess.AccessToken
	g.refreshToken = sess.RefreshToken
	g.mu.Unlock()

	if err := g.local.SaveSession(&PersistedSession{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	}); err != nil {
		log.Printf("token refresh: failed to persist session: %v", err)
	}

	return g.HandleAuthEvent(Event{Type: EventTokenRefreshed})
}

// Run drives the recurring verification tick until ctx is cancelled.
func (g *Guard) Run(ctx context.Context) {
	ticker := time.NewTicker(VerifyInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := g.VerifySession(); err != nil {
				log.Printf("session verification: %v", err)
			}
		}
	}
}

// Matches reports whether token is the live session token. This is what the
// request middleware checks.
func (g *Guard) Matches(token string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == StateAuthenticated && token != "" && token == g.sessionToken
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Guard) IsAuthenticated() bool {
	return g.State() == StateAuthenticated
}

func (g *Guard) SessionToken() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sessionToken
}

func (g *Guard) UserID() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.userID
}

func (g *Guard) Email() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.email
}

// invalidateLocked is the local-only forced teardown: remote sign-out plus
// local cleanup, never touching the remote active_session_id field. Both the
// verification tick and a refresh-triggered verification may race into it;
// the result is the same terminal state either way.
func (g *Guard) invalidateLocked() {
	if g.accessToken != "" {
		if err := g.auth.SignOut(g.accessToken); err != nil {
			log.Printf("session invalidation: remote sign-out failed: %v", err)
		}
	}
	g.clearLocalLocked()
	g.resetLocked()
}

// forceInvalidate is invalidateLocked for sessions never adopted into memory.
func (g *Guard) forceInvalidate(accessToken string) {
	if accessToken != "" {
		if err := g.auth.SignOut(accessToken); err != nil {
			log.Printf("session invalidation: remote sign-out failed: %v", err)
		}
	}
	g.mu.Lock()
	g.clearLocalLocked()
	g.resetLocked()
	g.mu.Unlock()
}

func (g *Guard) clearLocalLocked() {
	if err := g.local.ClearToken(); err != nil {
		log.Printf("failed to clear session token: %v", err)
	}
	if err := g.local.ClearSession(); err != nil {
		log.Printf("failed to clear saved session: %v", err)
	}
}

func (g *Guard) resetLocked() {
	g.state = StateUnauthenticated
	g.userID = uuid.Nil
	g.email = ""
	g.sessionToken = ""
	g.accessToken = ""
	g.refreshToken = ""
}
