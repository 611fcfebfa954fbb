package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"frame-lab-backend/internal/config"
	"frame-lab-backend/internal/genai"
	"frame-lab-backend/internal/middleware"
	"frame-lab-backend/internal/models"
	"frame-lab-backend/internal/services"
	"frame-lab-backend/internal/supabase"
)

type VideoHandler struct {
	genaiClient    *genai.Client
	dbClient       *supabase.DatabaseClient
	realtimeClient *supabase.RealtimeClient
	mediaService   *services.MediaService
	config         *config.Config
}

func NewVideoHandler(
	genaiClient *genai.Client,
	dbClient *supabase.DatabaseClient,
	realtimeClient *supabase.RealtimeClient,
	mediaService *services.MediaService,
	cfg *config.Config,
) *VideoHandler {
	return &VideoHandler{
		genaiClient:    genaiClient,
		dbClient:       dbClient,
		realtimeClient: realtimeClient,
		mediaService:   mediaService,
		config:         cfg,
	}
}

// Generate godoc
// @Summary     Generate a video
// @Description Submits a video generation job. String prompts are composed with the aspect-ratio, style, resolution, and sound clauses; structured scene arrays are passed through serialized. Polling and storage continue asynchronously; poll the status endpoint or subscribe to the generation channel.
// @Tags        video
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.GenerateVideoRequest true "Generation parameters"
// @Success     202 {object} models.GenerateVideoResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /generate/video [post]
func (h *VideoHandler) Generate(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}
	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return
	}

	var req models.GenerateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}
	if req.Prompt == "" && len(req.Scenes) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "a prompt or scene list is required"})
		return
	}

	key := apiKey(c, h.config)
	if key == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no API key configured"})
		return
	}

	prompt := h.buildPrompt(&req)

	gen := &models.Generation{
		ID:          uuid.New(),
		UserID:      userID,
		Status:      models.GenerationStatusSubmitted,
		Prompt:      prompt,
		AspectRatio: req.AspectRatio,
		Resolution:  req.Resolution,
	}
	if err := h.dbClient.CreateGeneration(gen); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to record generation",
			Message: err.Error(),
		})
		return
	}

	operationName, err := h.genaiClient.SubmitVideo(c.Request.Context(), key, prompt, req.Image, req.AspectRatio, req.Resolution)
	if err != nil {
		h.dbClient.UpdateGenerationError(gen.ID, err.Error())
		c.JSON(providerErrorStatus(err), models.ErrorResponse{
			Error:   "failed to submit generation",
			Message: err.Error(),
		})
		return
	}

	h.dbClient.UpdateGenerationOperation(gen.ID, operationName)
	h.realtimeClient.PublishGenerationEvent(gen.ID, "generation_started",
		supabase.GenerationStartedPayload(gen.ID, operationName))

	// The job polls to completion on its own; nothing cancels it upstream.
	go h.mediaService.AwaitVideo(context.Background(), key, gen, operationName)

	c.JSON(http.StatusAccepted, models.GenerateVideoResponse{
		GenerationID: gen.ID.String(),
		Status:       models.GenerationStatusProcessing,
	})
}

// buildPrompt composes the provider prompt. Structured scene arrays bypass
// composition and travel as serialized JSON.
func (h *VideoHandler) buildPrompt(req *models.GenerateVideoRequest) string {
	if len(req.Scenes) > 0 {
		data, err := json.Marshal(req.Scenes)
		if err == nil {
			return string(data)
		}
	}
	return genai.ComposeVideoPrompt(genai.VideoPromptParams{
		Prompt:      req.Prompt,
		HasImage:    req.Image != nil,
		AspectRatio: req.AspectRatio,
		Style:       req.Style,
		Resolution:  req.Resolution,
		EnableSound: req.EnableSound,
		Voice:       req.Voice,
	})
}
