package supabase

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"

	"frame-lab-backend/internal/config"
)

// AuthSession is one authenticated GoTrue session.
type AuthSession struct {
	AccessToken  string
	RefreshToken string
	UserID       uuid.UUID
	Email        string
}

type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

// SignIn exchanges credentials for a GoTrue session. Invalid credentials
// come back as the provider's error text, translated by the caller.
func (c *Client) SignIn(email, password string) (*AuthSession, error) {
	resp, err := c.Supabase.Auth.Token(types.TokenRequest{
		GrantType: "password",
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}

	return &AuthSession{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.User.ID,
		Email:        resp.User.Email,
	}, nil
}

// SignUp registers a new account. Depending on the project's email
// confirmation settings the response may or may not carry a session, so only
// the new user's id is returned.
func (c *Client) SignUp(email, password string) (uuid.UUID, error) {
	resp, err := c.Supabase.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("sign-up failed: %w", err)
	}
	return resp.ID, nil
}

// SignOut revokes the session behind accessToken.
func (c *Client) SignOut(accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := c.Supabase.Auth.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("sign-out failed: %w", err)
	}
	return nil
}

// GetUser resolves the account behind accessToken.
func (c *Client) GetUser(accessToken string) (uuid.UUID, string, error) {
	resp, err := c.Supabase.Auth.WithToken(accessToken).GetUser()
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("get-user failed: %w", err)
	}
	return resp.ID, resp.Email, nil
}

// RefreshSession trades a refresh token for a fresh session.
func (c *Client) RefreshSession(refreshToken string) (*AuthSession, error) {
	resp, err := c.Supabase.Auth.Token(types.TokenRequest{
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}

	return &AuthSession{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		UserID:       resp.User.ID,
		Email:        resp.User.Email,
	}, nil
}

// IsInvalidCredentials reports whether err is GoTrue's invalid-login answer,
// so the handler can surface a friendlier message.
func IsInvalidCredentials(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "invalid login credentials")
}
