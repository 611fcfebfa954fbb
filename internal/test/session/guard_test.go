package session_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frame-lab-backend/internal/models"
	"frame-lab-backend/internal/session"
	"frame-lab-backend/internal/supabase"
)

const testJWTSecret = "test-jwt-secret"

func signedToken(t *testing.T, userID uuid.UUID, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

// fakeAuth stands in for the GoTrue credential store.
type fakeAuth struct {
	t        *testing.T
	email    string
	password string
	userID   uuid.UUID

	signOuts   int
	refreshErr error
}

func newFakeAuth(t *testing.T) *fakeAuth {
	return &fakeAuth{
		t:        t,
		email:    "user@example.com",
		password: "correct-horse",
		userID:   uuid.New(),
	}
}

func (f *fakeAuth) session() *supabase.AuthSession {
	return &supabase.AuthSession{
		AccessToken:  signedToken(f.t, f.userID, f.email),
		RefreshToken: "refresh-token",
		UserID:       f.userID,
		Email:        f.email,
	}
}

func (f *fakeAuth) SignIn(email, password string) (*supabase.AuthSession, error) {
	if email != f.email || password != f.password {
		return nil, errors.New("invalid login credentials")
	}
	return f.session(), nil
}

func (f *fakeAuth) SignUp(email, password string) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (f *fakeAuth) SignOut(accessToken string) error {
	f.signOuts++
	return nil
}

func (f *fakeAuth) GetUser(accessToken string) (uuid.UUID, string, error) {
	return f.userID, f.email, nil
}

func (f *fakeAuth) RefreshSession(refreshToken string) (*supabase.AuthSession, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.session(), nil
}

// fakeProfiles is a map-backed account store.
type fakeProfiles struct {
	profiles map[uuid.UUID]*models.Profile
	getErr   error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: make(map[uuid.UUID]*models.Profile)}
}

func (f *fakeProfiles) addActive(userID uuid.UUID, email string) {
	f.profiles[userID] = &models.Profile{ID: userID, Email: email, IsActive: true}
}

func (f *fakeProfiles) CreateProfile(userID uuid.UUID, email string) error {
	if _, ok := f.profiles[userID]; !ok {
		f.profiles[userID] = &models.Profile{ID: userID, Email: email}
	}
	return nil
}

func (f *fakeProfiles) GetProfile(userID uuid.UUID) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, supabase.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeProfiles) SetActiveSession(userID uuid.UUID, sessionID string) error {
	profile, ok := f.profiles[userID]
	if !ok {
		return supabase.ErrProfileNotFound
	}
	profile.ActiveSessionID = sql.NullString{String: sessionID, Valid: true}
	return nil
}

func (f *fakeProfiles) ClearActiveSessionIf(userID uuid.UUID, sessionID string) error {
	profile, ok := f.profiles[userID]
	if !ok {
		return supabase.ErrProfileNotFound
	}
	if profile.ActiveSessionID.Valid && profile.ActiveSessionID.String == sessionID {
		profile.ActiveSessionID = sql.NullString{}
	}
	return nil
}

func (f *fakeProfiles) activeSession(userID uuid.UUID) string {
	if profile, ok := f.profiles[userID]; ok && profile.ActiveSessionID.Valid {
		return profile.ActiveSessionID.String
	}
	return ""
}

func newTestGuard(t *testing.T, auth *fakeAuth, profiles *fakeProfiles) (*session.Guard, *session.Store) {
	t.Helper()
	store, err := session.NewStore(t.TempDir())
	require.NoError(t, err)
	return session.NewGuard(auth, profiles, store, testJWTSecret), store
}

func TestLogin_Succeeds(t *testing.T) {
	auth := newFakeAuth(t)
	profiles := newFakeProfiles()
	profiles.addActive(auth.userID, auth.email)
	guard, store := newTestGuard(t, auth, profiles)

	token, err := guard.Login(auth.email, auth.password)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, guard.IsAuthenticated())
	assert.True(t, guard.Matches(token))
	assert.Equal(t, auth.userID, guard.UserID())
	assert.Equal(t, token, profiles.activeSession(auth.userID))

	localToken, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, token, localToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	auth := newFakeAuth(t)
	guard, _ := newTestGuard(t, auth, newFakeProfiles())

	_, err := guard.Login(auth.email, "wrong-password")

	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
	assert.False(t, guard.IsAuthenticated())
}

func TestLogin_InactiveAccountRollsBack(t *testing.T) {
	auth := newFakeAuth(t)
	profiles := newFakeProfiles()
	require.NoError(t, profiles.CreateProfile(auth.userID, auth.email))
	guard, store := newTestGuard(t, auth, profiles)

	_, err := guard.Login(auth.email, auth.password)

	assert.ErrorIs(t, err, session.ErrAccountInactive)
	assert.False(t, guard.IsAuthenticated())
	// The remote session from the successful credential check is signed out.
	assert.Equal(t, 1, auth.signOuts)

	localToken, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, localToken)
}

func TestLogin_SecondDeviceTakesOver(t *testing.T) {
	auth := newFakeAuth(t)
	profiles := newFakeProfiles()
	profiles.addActive(auth.userID, auth.email)

	deviceA, _ := newTestGuard(t, auth, profiles)
	deviceB, _ := newTestGuard(t, auth, profiles)

	tokenA, err := deviceA.Login(auth.email, auth.password)
	require.NoError(t, err)
	tokenB, err := deviceB.Login(auth.email, auth.password)
	require.NoError(t, err)

	// The second login owns the account record.
	assert.NotEqual(t, tokenA, tokenB)
	assert.Equal(t, tokenB, profiles.activeSession(auth.userID))

	// Device A notices on its next verification and drops its session.
	require.NoError(t, deviceA.VerifySession())
	assert.False(t, deviceA.IsAuthenticated())
	assert.False(t, deviceA.Matches(tokenA))

	// Device B is untouched.
	require.NoError(t, deviceB.VerifySession())
	assert.True(t, deviceB.IsAuthenticated())
	assert.True(t, deviceB.Matches(tokenB))
}

func TestVerifySession_TransientErrorKeepsSession(t *testing.T) {
	auth := newFakeAuth(t)
	profiles := newFakeProfiles()
	profiles.addActive(auth.userID, auth.email)
	guard, _ := newTestGuard(t, auth, profiles)

	_, err := guard.Login(auth.email, auth.password)
	require.NoError(t, err)

	profiles.getErr = errors.New("connection refused")
	assert.Error(t, guard.VerifySession())
	assert.True(t, guard.IsAuthenticated())

	profiles.getErr = nil
	require.NoError(t, guard.VerifySession())
	assert.True(t, guard.IsAuthenticated())
}

func TestVerifySession_NoOpWhileUnauthenticated(t *testing.T) {
	guard, _ := newTestGuard(t, newFakeAuth(t), newFakeProfiles())

	assert.NoError(t, guard.VerifySession())
	assert.False(t, guard.IsAuthenticated())
}

func TestLogout_GracefulClearsOwnSession(t *testing.T) {
	auth := newFakeAuth(t)
	profiles := newFakeProfiles()
	profiles.addActive(auth.userID, auth.email)
	guard, store := newTestGuard(t, auth, profiles)

	token, err := guard.Login(auth.email, auth.password)
	require.NoError(t, err)

	require.NoError(t, guard.Logout(false))

	assert.False(t, guard.IsAuthenticated())
	assert.False(t, guard.Matches(token))
	assert.Empty(t, profiles.activeSession(auth.userID))

	localToken, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, localToken)
}

func TestLogout_GracefulDoesNotClobberNewerSession(t *testing.T) {
	auth := newFakeAuth(t)
	profiles := newFakeProfiles()
	profiles.addActive(auth.userID, auth.email)
	guard, _ := newTestGuard(t, auth, profiles)

	_, err := guard.Login(auth.email, auth.password)
	require.NoError(t, err)

	// Another device logged in between this device's last verification and
	// its logout. The guarded clear must leave the newer session alone.
	require.NoError(t, profiles.SetActiveSession(auth.userID, "newer-session"))

	require.NoError(t, guard.Logout(false))

	assert.False(t, guard.IsAuthenticated())
	assert.Equal(t, "newer-session", profiles.activeSession(auth.userID))
}

func TestLogout_ForcedSkipsRemoteClear(t *testing.T) {
	auth := newFakeAuth(t)
	profiles := newFakeProfiles()
	profiles.addActive(auth.userID, auth.email)
	guard, _ := newTestGuard(t, auth, profiles)

	token, err := guard.Login(auth.email, auth.password)
	require.NoError(t, err)

	require.NoError(t, guard.Logout(true))

	assert.False(t, guard.IsAuthenticated())
	// Forced logout leaves the account record untouched.
	assert.Equal(t, token, profiles.activeSession(auth.userID))
}

func TestCheckInitialSession_NothingSaved(t *testing.T) {
	auth := newFakeAuth(t)
	guard, _ := newTestGuard(t, auth, newFakeProfiles())

	require.NoError(t, guard.CheckInitialSession())

	assert.False(t, guard.IsAuthenticated())
	assert.Zero(t, auth.signOuts)
}

func TestCheckInitialSession_SessionWithoutPointerInvalidates(t *testing.T) {
	auth := newFakeAuth(t)
	profiles := newFakeProfiles()
	profiles.addActive(auth.userID, auth.email)
	guard, store := newTestGuard(t, auth, profiles)

	require.NoError(t, store.SaveSession(&session.PersistedSession{
		AccessToken:  signedToken(t, auth.userID, auth.email),
		RefreshToken: "refresh-token",
	}))

	require.NoError(t, guard.CheckInitialSession())

	assert.False(t, guard.IsAuthenticated())
	assert.Equal(t, 1, auth.signOuts)

	saved, err := store.SavedSession()
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestCheckInitialSession_OrphanedPointerCleared(t *testing.T) {
	auth := newFakeAuth(t)
	guard, store := newTestGuard(t, auth, newFakeProfiles())

	require.NoError(t, store.SaveToken("dangling-token"))

	require.NoError(t, guard.CheckInitialSession())

	assert.False(t, guard.IsAuthenticated())
	assert.Zero(t, auth.signOuts)

	localToken, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, localToken)
}

func TestCheckInitialSession_AdoptsValidSession(t *testing.T) {
	auth := newFakeAuth(t)
	profiles := newFakeProfiles()
	profiles.addActive(auth.userID, auth.email)
	guard, store := newTestGuard(t, auth, profiles)

	token := uuid.NewString()
	require.NoError(t, profiles.SetActiveSession(auth.userID, token))
	require.NoError(t, store.SaveToken(token))
	require.NoError(t, store.SaveSession(&session.PersistedSession{
		AccessToken:  signedToken(t, auth.userID, auth.email),
		RefreshToken: "refresh-token",
	}))

	require.NoError(t, guard.CheckInitialSession())

	assert.True(t, guard.IsAuthenticated())
	assert.True(t, guard.Matches(token))
	assert.Equal(t, auth.userID, guard.UserID())
	assert.Equal(t, auth.email, guard.Email())
}

func TestCheckInitialSession_MismatchedPointerInvalidates(t *testing.T) {
	auth := newFakeAuth(t)
	profiles := newFakeProfiles()
	profiles.addActive(auth.userID, auth.email)
	guard, store := newTestGuard(t, auth, profiles)

	require.NoError(t, profiles.SetActiveSession(auth.userID, "another-device"))
	require.NoError(t, store.SaveToken("this-device"))
	require.NoError(t, store.SaveSession(&session.PersistedSession{
		AccessToken:  signedToken(t, auth.userID, auth.email),
		RefreshToken: "refresh-token",
	}))

	require.NoError(t, guard.CheckInitialSession())

	assert.False(t, guard.IsAuthenticated())
	assert.Equal(t, 1, auth.signOuts)
}

func TestCheckInitialSession_StaleTokenRefreshes(t *testing.T) {
	auth := newFakeAuth(t)
	profiles := newFakeProfiles()
	profiles.addActive(auth.userID, auth.email)
	guard, store := newTestGuard(t, auth, profiles)

	token := uuid.NewString()
	require.NoError(t, profiles.SetActiveSession(auth.userID, token))
	require.NoError(t, store.SaveToken(token))
	require.NoError(t, store.SaveSession(&session.PersistedSession{
		AccessToken:  "not-a-valid-jwt",
		RefreshToken: "refresh-token",
	}))

	require.NoError(t, guard.CheckInitialSession())

	assert.True(t, guard.IsAuthenticated())
	assert.True(t, guard.Matches(token))

	// The refreshed session replaced the stale one on disk.
	saved, err := store.SavedSession()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.NotEqual(t, "not-a-valid-jwt", saved.AccessToken)
}

func TestCheckInitialSession_StaleTokenRefreshFails(t *testing.T) {
	auth := newFakeAuth(t)
	auth.refreshErr = errors.New("refresh token revoked")
	profiles := newFakeProfiles()
	profiles.addActive(auth.userID, auth.email)
	guard, store := newTestGuard(t, auth, profiles)

	require.NoError(t, store.SaveToken(uuid.NewString()))
	require.NoError(t, store.SaveSession(&session.PersistedSession{
		AccessToken:  "not-a-valid-jwt",
		RefreshToken: "refresh-token",
	}))

	require.NoError(t, guard.CheckInitialSession())

	assert.False(t, guard.IsAuthenticated())
}

func TestHandleAuthEvent_SignedInIgnored(t *testing.T) {
	auth := newFakeAuth(t)
	profiles := newFakeProfiles()
	profiles.addActive(auth.userID, auth.email)
	guard, _ := newTestGuard(t, auth, profiles)

	token, err := guard.Login(auth.email, auth.password)
	require.NoError(t, err)

	require.NoError(t, guard.HandleAuthEvent(session.Event{Type: session.EventSignedIn}))
	assert.True(t, guard.Matches(token))
}

func TestHandleAuthEvent_TokenRefreshedTriggersVerification(t *testing.T) {
	auth := newFakeAuth(t)
	profiles := newFakeProfiles()
	profiles.addActive(auth.userID, auth.email)
	guard, _ := newTestGuard(t, auth, profiles)

	_, err := guard.Login(auth.email, auth.password)
	require.NoError(t, err)

	// Account changed hands while this device was idle.
	require.NoError(t, profiles.SetActiveSession(auth.userID, "newer-session"))

	require.NoError(t, guard.HandleAuthEvent(session.Event{Type: session.EventTokenRefreshed}))
	assert.False(t, guard.IsAuthenticated())
}

func TestHandleAuthEvent_SignedOutResets(t *testing.T) {
	auth := newFakeAuth(t)
	profiles := newFakeProfiles()
	profiles.addActive(auth.userID, auth.email)
	guard, store := newTestGuard(t, auth, profiles)

	_, err := guard.Login(auth.email, auth.password)
	require.NoError(t, err)

	require.NoError(t, guard.HandleAuthEvent(session.Event{Type: session.EventSignedOut}))

	assert.False(t, guard.IsAuthenticated())
	localToken, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, localToken)
}
