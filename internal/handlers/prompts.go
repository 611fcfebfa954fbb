package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"frame-lab-backend/internal/config"
	"frame-lab-backend/internal/genai"
	"frame-lab-backend/internal/models"
)

type PromptsHandler struct {
	genaiClient *genai.Client
	config      *config.Config
}

func NewPromptsHandler(genaiClient *genai.Client, cfg *config.Config) *PromptsHandler {
	return &PromptsHandler{
		genaiClient: genaiClient,
		config:      cfg,
	}
}

// FromDescription godoc
// @Summary     Synthesize a structured video prompt
// @Description Turns a plain description into a JSON array of 2-4 scene objects. The output is the model's raw trimmed text; the prompt editor validates it.
// @Tags        prompts
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.VideoPromptRequest true "Description"
// @Success     200 {object} models.VideoPromptResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Router      /prompts/video [post]
func (h *PromptsHandler) FromDescription(c *gin.Context) {
	var req models.VideoPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	key := apiKey(c, h.config)
	if key == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no API key configured"})
		return
	}

	promptJSON, err := h.genaiClient.GenerateVideoPrompt(c.Request.Context(), key, req.Description)
	if err != nil {
		c.JSON(providerErrorStatus(err), models.ErrorResponse{
			Error:   "prompt synthesis failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.VideoPromptResponse{PromptJSON: promptJSON})
}

// FromImage godoc
// @Summary     Synthesize a video prompt from an image
// @Description Like the text variant, but studies an attached image and emits 2-3 scenes.
// @Tags        prompts
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.VideoPromptFromImageRequest true "Image and aspect ratio"
// @Success     200 {object} models.VideoPromptResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Router      /prompts/video-from-image [post]
func (h *PromptsHandler) FromImage(c *gin.Context) {
	var req models.VideoPromptFromImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	key := apiKey(c, h.config)
	if key == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no API key configured"})
		return
	}

	promptJSON, err := h.genaiClient.GenerateVideoPromptFromImage(c.Request.Context(), key, req.Image, req.AspectRatio)
	if err != nil {
		c.JSON(providerErrorStatus(err), models.ErrorResponse{
			Error:   "prompt synthesis failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.VideoPromptResponse{PromptJSON: promptJSON})
}
