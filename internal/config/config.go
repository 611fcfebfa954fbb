package config

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// placeholderAPIKey is the marker value shipped in example env files. A
// provisioned key equal to it is treated as unset.
const placeholderAPIKey = "YOUR_API_KEY_HERE"

type Config struct {
	// Generative provider
	GenAIAPIKey     string
	GenAIBaseURL    string
	KeyProvisionURL string
	VideoModel      string
	ImageModel      string
	ImageEditModel  string
	TextModel       string

	// Supabase
	SupabaseURL           string
	SupabaseAnonKey       string
	SupabaseJWTSecret     string
	SupabaseStorageBucket string

	// Database
	DatabaseURL string

	// Session guard
	StateDir string

	// Server
	Port        string
	Environment string
	BaseURL     string
}

func Load() (*Config, error) {
	cfg := &Config{
		GenAIAPIKey:     getEnv("GENAI_API_KEY", ""),
		GenAIBaseURL:    getEnv("GENAI_API_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/"),
		KeyProvisionURL: getEnv("GENAI_KEY_PROVISION_URL", ""),
		VideoModel:      getEnv("GENAI_VIDEO_MODEL", "veo-3.0-generate-001"),
		ImageModel:      getEnv("GENAI_IMAGE_MODEL", "imagen-4.0-generate-001"),
		ImageEditModel:  getEnv("GENAI_IMAGE_EDIT_MODEL", "gemini-2.5-flash-image"),
		TextModel:       getEnv("GENAI_TEXT_MODEL", "gemini-2.5-flash"),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:       getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseJWTSecret:     getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "generated-media"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		StateDir: getEnv("FRAMELAB_STATE_DIR", defaultStateDir()),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
	}

	cfg.ProvisionAPIKey(nil)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ProvisionAPIKey resolves the provider key from the provisioning endpoint
// when the environment did not supply one. Transport failures are logged and
// swallowed: the key stays unset and users supply their own per request.
func (c *Config) ProvisionAPIKey(client *http.Client) {
	if c.GenAIAPIKey == placeholderAPIKey {
		c.GenAIAPIKey = ""
	}
	if c.GenAIAPIKey != "" || c.KeyProvisionURL == "" {
		return
	}

	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Get(c.KeyProvisionURL)
	if err != nil {
		log.Printf("Warning: failed to fetch provisioned API key: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Warning: key provisioning endpoint returned status %d", resp.StatusCode)
		return
	}

	var body struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("Warning: failed to decode provisioned API key: %v", err)
		return
	}

	if body.APIKey == "" || body.APIKey == placeholderAPIKey {
		log.Println("Warning: key provisioning endpoint returned a placeholder key, ignoring")
		return
	}

	c.GenAIAPIKey = body.APIKey
}

func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseAnonKey == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	return nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "framelab")
	}
	return ".framelab"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
