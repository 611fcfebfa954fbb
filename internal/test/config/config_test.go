package config_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"frame-lab-backend/internal/config"
)

func TestProvisionAPIKey_FetchesKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"apiKey": "provisioned-key"}`))
	}))
	defer server.Close()

	cfg := &config.Config{KeyProvisionURL: server.URL}
	cfg.ProvisionAPIKey(server.Client())

	assert.Equal(t, "provisioned-key", cfg.GenAIAPIKey)
}

func TestProvisionAPIKey_EnvKeyWins(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"apiKey": "provisioned-key"}`))
	}))
	defer server.Close()

	cfg := &config.Config{GenAIAPIKey: "env-key", KeyProvisionURL: server.URL}
	cfg.ProvisionAPIKey(server.Client())

	assert.Equal(t, "env-key", cfg.GenAIAPIKey)
	assert.False(t, called)
}

func TestProvisionAPIKey_PlaceholderIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"apiKey": "YOUR_API_KEY_HERE"}`))
	}))
	defer server.Close()

	cfg := &config.Config{GenAIAPIKey: "YOUR_API_KEY_HERE", KeyProvisionURL: server.URL}
	cfg.ProvisionAPIKey(server.Client())

	assert.Empty(t, cfg.GenAIAPIKey)
}

func TestProvisionAPIKey_TransportFailureLeavesKeyUnset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force a connection error

	cfg := &config.Config{KeyProvisionURL: server.URL}
	cfg.ProvisionAPIKey(nil)

	assert.Empty(t, cfg.GenAIAPIKey)
}

func TestProvisionAPIKey_NonOKStatusLeavesKeyUnset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := &config.Config{KeyProvisionURL: server.URL}
	cfg.ProvisionAPIKey(server.Client())

	assert.Empty(t, cfg.GenAIAPIKey)
}

func TestValidate_RequiresSupabaseSettings(t *testing.T) {
	cfg := &config.Config{
		SupabaseURL:     "https://example.supabase.co",
		SupabaseAnonKey: "anon-key",
	}
	assert.Error(t, cfg.Validate())

	cfg.SupabaseJWTSecret = "jwt-secret"
	assert.NoError(t, cfg.Validate())
}
