package models

import "time"

type HealthResponse struct {
	Status string `json:"status"`
}

type RegisterResponse struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	SessionToken  string `json:"session_token,omitempty"`
}

type ValidateKeyResponse struct {
	Valid bool `json:"valid"`
}

type GenerateVideoResponse struct {
	GenerationID string `json:"generation_id"`
	Status       string `json:"status"`
}

type GenerationResponse struct {
	ID           string    `json:"generation_id"`
	Status       string    `json:"status"`
	Progress     int       `json:"progress"`
	Prompt       string    `json:"prompt"`
	AspectRatio  string    `json:"aspect_ratio"`
	Resolution   string    `json:"resolution,omitempty"`
	VideoURL     string    `json:"video_url,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type GenerationListResponse struct {
	Generations []GenerationResponse `json:"generations"`
}

type StatusResponse struct {
	GenerationID string    `json:"generation_id"`
	Status       string    `json:"status"`
	Progress     int       `json:"progress"`
	VideoURL     string    `json:"video_url,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ImageResponse struct {
	Image ImagePayload `json:"image"`
}

type UploadImageResponse struct {
	Image      ImagePayload `json:"image"`
	StorageURL string       `json:"storage_url,omitempty"`
}

type VideoPromptResponse struct {
	// PromptJSON is the model's raw trimmed output: a JSON array of scene
	// objects. It is returned unparsed for the prompt editor to validate.
	PromptJSON string `json:"prompt_json"`
}
