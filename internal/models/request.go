package models

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LogoutRequest struct {
	// Forced skips the guarded remote clear (the remote field may already
	// belong to a newer session).
	Forced bool `json:"forced"`
}

type ValidateKeyRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// Scene is one entry of a structured video prompt. Structured prompts are
// serialized verbatim and bypass prompt composition.
type Scene struct {
	Prompt          string   `json:"prompt" binding:"required"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
	MotionScale     *float64 `json:"motion_scale,omitempty"`
}

type GenerateVideoRequest struct {
	Prompt      string        `json:"prompt,omitempty"`
	Scenes      []Scene       `json:"scenes,omitempty"`
	AspectRatio string        `json:"aspect_ratio" binding:"required"`
	Style       string        `json:"style,omitempty"`
	Resolution  string        `json:"resolution,omitempty"`
	EnableSound bool          `json:"enable_sound"`
	Voice       string        `json:"voice,omitempty"`
	Image       *ImagePayload `json:"image,omitempty"`
}

type GenerateImageRequest struct {
	Prompt      string `json:"prompt" binding:"required"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

type EditImageRequest struct {
	Image  ImagePayload `json:"image" binding:"required"`
	Prompt string       `json:"prompt" binding:"required"`
}

type AspectRatioRequest struct {
	Image     ImagePayload `json:"image" binding:"required"`
	Reference ImagePayload `json:"reference" binding:"required"`
}

type VideoPromptRequest struct {
	Description string `json:"description" binding:"required"`
}

type VideoPromptFromImageRequest struct {
	Image       ImagePayload `json:"image" binding:"required"`
	AspectRatio string       `json:"aspect_ratio,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
