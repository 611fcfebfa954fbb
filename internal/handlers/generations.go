package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"frame-lab-backend/internal/middleware"
	"frame-lab-backend/internal/models"
	"frame-lab-backend/internal/supabase"
)

type GenerationsHandler struct {
	dbClient      *supabase.DatabaseClient
	storageClient *supabase.StorageClient
}

func NewGenerationsHandler(dbClient *supabase.DatabaseClient, storageClient *supabase.StorageClient) *GenerationsHandler {
	return &GenerationsHandler{
		dbClient:      dbClient,
		storageClient: storageClient,
	}
}

func (h *GenerationsHandler) requestUser(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}

func generationResponse(gen *models.Generation) models.GenerationResponse {
	return models.GenerationResponse{
		ID:           gen.ID.String(),
		Status:       gen.Status,
		Progress:     gen.Progress,
		Prompt:       gen.Prompt,
		AspectRatio:  gen.AspectRatio,
		Resolution:   gen.Resolution,
		VideoURL:     gen.StorageURL.String,
		ErrorMessage: gen.ErrorMessage.String,
		CreatedAt:    gen.CreatedAt,
		UpdatedAt:    gen.UpdatedAt,
	}
}

// List godoc
// @Summary     List generations
// @Description Lists the user's video generations, newest first.
// @Tags        generations
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.GenerationListResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /generations [get]
func (h *GenerationsHandler) List(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}
	userID, ok := h.requestUser(c)
	if !ok {
		return
	}

	generations, err := h.dbClient.ListGenerations(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list generations",
			Message: err.Error(),
		})
		return
	}

	resp := models.GenerationListResponse{Generations: make([]models.GenerationResponse, 0, len(generations))}
	for i := range generations {
		resp.Generations = append(resp.Generations, generationResponse(&generations[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary     Get one generation
// @Tags        generations
// @Produce     json
// @Security    Bearer
// @Param       generation_id path string true "Generation ID (UUID)"
// @Success     200 {object} models.GenerationResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /generations/{generation_id} [get]
func (h *GenerationsHandler) Get(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}
	userID, ok := h.requestUser(c)
	if !ok {
		return
	}

	generationID, err := uuid.Parse(c.Param("generation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid generation id"})
		return
	}

	gen, err := h.dbClient.GetGeneration(generationID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "generation not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, generationResponse(gen))
}

// GetStatus godoc
// @Summary     Generation status
// @Description The UI polls this while a video renders.
// @Tags        generations
// @Produce     json
// @Security    Bearer
// @Param       generation_id path string true "Generation ID (UUID)"
// @Success     200 {object} models.StatusResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /generations/{generation_id}/status [get]
func (h *GenerationsHandler) GetStatus(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}
	userID, ok := h.requestUser(c)
	if !ok {
		return
	}

	generationID, err := uuid.Parse(c.Param("generation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid generation id"})
		return
	}

	gen, err := h.dbClient.GetGeneration(generationID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "generation not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{
		GenerationID: gen.ID.String(),
		Status:       gen.Status,
		Progress:     gen.Progress,
		VideoURL:     gen.StorageURL.String,
		ErrorMessage: gen.ErrorMessage.String,
		UpdatedAt:    gen.UpdatedAt,
	})
}

// Delete godoc
// @Summary     Delete a generation
// @Description Removes the generation record and any stored media.
// @Tags        generations
// @Produce     json
// @Security    Bearer
// @Param       generation_id path string true "Generation ID (UUID)"
// @Success     200 {object} map[string]string
// @Failure     404 {object} models.ErrorResponse
// @Router      /generations/{generation_id} [delete]
func (h *GenerationsHandler) Delete(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}
	userID, ok := h.requestUser(c)
	if !ok {
		return
	}

	generationID, err := uuid.Parse(c.Param("generation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid generation id"})
		return
	}

	if _, err := h.dbClient.GetGeneration(generationID, userID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "generation not found",
			Message: err.Error(),
		})
		return
	}

	if h.storageClient != nil {
		// Best-effort: the record still goes away.
		if err := h.storageClient.DeleteGenerationFiles(userID, generationID); err != nil {
			log.Printf("failed to delete stored media for generation %s: %v", generationID, err)
		}
	}

	if err := h.dbClient.DeleteGeneration(generationID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete generation",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
