package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"frame-lab-backend/internal/middleware"
	"frame-lab-backend/internal/models"
)

type OptionsHandler struct{}

func NewOptionsHandler() *OptionsHandler {
	return &OptionsHandler{}
}

// GetOptions godoc
// @Summary     Generation form options
// @Description Returns the visual styles, resolutions, and narration languages the generation forms offer.
// @Tags        options
// @Produce     json
// @Security    Bearer
// @Success     200 {object} map[string][]string
// @Failure     401 {object} models.ErrorResponse
// @Router      /options [get]
func (h *OptionsHandler) GetOptions(c *gin.Context) {
	_, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"styles":        []string{"cinematic", "photorealistic", "anime", "watercolor", "claymation", "pixel art"},
		"resolutions":   []string{"720p", "1080p"},
		"aspect_ratios": []string{"16:9", "9:16"},
		"voices":        []string{"English", "Spanish", "French", "German", "Japanese"},
	})
}
