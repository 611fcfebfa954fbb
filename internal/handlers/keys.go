package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"frame-lab-backend/internal/config"
	"frame-lab-backend/internal/genai"
	"frame-lab-backend/internal/models"
	"frame-lab-backend/internal/retry"
)

// apiKey resolves the provider key for one request: the caller's own key
// wins, the provisioned server key is the fallback.
func apiKey(c *gin.Context, cfg *config.Config) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	return cfg.GenAIAPIKey
}

// providerErrorStatus maps provider failures onto response codes. Quota
// exhaustion gets 429 so the UI can show the friendly rate-limit message.
func providerErrorStatus(err error) int {
	if errors.Is(err, retry.ErrQuotaExceeded) {
		return http.StatusTooManyRequests
	}
	if errors.Is(err, genai.ErrNoImage) || errors.Is(err, genai.ErrEmptyResult) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

type KeysHandler struct {
	genaiClient *genai.Client
	config      *config.Config
}

func NewKeysHandler(genaiClient *genai.Client, cfg *config.Config) *KeysHandler {
	return &KeysHandler{
		genaiClient: genaiClient,
		config:      cfg,
	}
}

// ValidateKey godoc
// @Summary     Validate a provider API key
// @Description Issues a cheap authenticated model-listing call. Always answers with a boolean, never an error.
// @Tags        keys
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.ValidateKeyRequest true "Key to validate"
// @Success     200 {object} models.ValidateKeyResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /keys/validate [post]
func (h *KeysHandler) ValidateKey(c *gin.Context) {
	var req models.ValidateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	valid := h.genaiClient.ValidateKey(c.Request.Context(), req.APIKey)
	c.JSON(http.StatusOK, models.ValidateKeyResponse{Valid: valid})
}
