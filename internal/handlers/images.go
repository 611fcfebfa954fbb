package handlers

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"frame-lab-backend/internal/config"
	"frame-lab-backend/internal/genai"
	"frame-lab-backend/internal/middleware"
	"frame-lab-backend/internal/models"
	"frame-lab-backend/internal/services"
)

type ImagesHandler struct {
	genaiClient  *genai.Client
	mediaService *services.MediaService
	config       *config.Config
}

func NewImagesHandler(genaiClient *genai.Client, mediaService *services.MediaService, cfg *config.Config) *ImagesHandler {
	return &ImagesHandler{
		genaiClient:  genaiClient,
		mediaService: mediaService,
		config:       cfg,
	}
}

// Generate godoc
// @Summary     Generate an image
// @Description Single-shot text-to-image call with aspect-ratio configuration.
// @Tags        images
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.GenerateImageRequest true "Generation parameters"
// @Success     200 {object} models.ImageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /images/generate [post]
func (h *ImagesHandler) Generate(c *gin.Context) {
	var req models.GenerateImageRequest
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

	image, err := h.genaiClient.GenerateImage(c.Request.Context(), key, req.Prompt, req.AspectRatio)
	if err != nil {
		c.JSON(providerErrorStatus(err), models.ErrorResponse{
			Error:   "image generation failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.ImageResponse{Image: image})
}

// Edit godoc
// @Summary     Edit an image
// @Description Sends one image plus a text instruction to the image-editing model and returns the first inline image of the response.
// @Tags        images
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.EditImageRequest true "Image and instruction"
// @Success     200 {object} models.ImageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /images/edit [post]
func (h *ImagesHandler) Edit(c *gin.Context) {
	var req models.EditImageRequest
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

	image, err := h.genaiClient.EditImage(c.Request.Context(), key, req.Image, req.Prompt)
	if err != nil {
		c.JSON(providerErrorStatus(err), models.ErrorResponse{
			Error:   "image edit failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.ImageResponse{Image: image})
}

// ChangeAspectRatio godoc
// @Summary     Expand an image to another canvas
// @Description Expands the main image to fill the reference image's canvas, preserving style.
// @Tags        images
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.AspectRatioRequest true "Main and reference images"
// @Success     200 {object} models.ImageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /images/aspect-ratio [post]
func (h *ImagesHandler) ChangeAspectRatio(c *gin.Context) {
	var req models.AspectRatioRequest
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

	image, err := h.genaiClient.ChangeImageAspectRatio(c.Request.Context(), key, req.Image, req.Reference)
	if err != nil {
		c.JSON(providerErrorStatus(err), models.ErrorResponse{
			Error:   "aspect ratio change failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.ImageResponse{Image: image})
}

// Upload godoc
// @Summary     Upload a source image
// @Description Accepts a multipart image upload and returns it as a payload for the editor; the original is also stored.
// @Tags        images
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       image formData file true "Image file"
// @Success     200 {object} models.UploadImageResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /images/upload [post]
func (h *ImagesHandler) Upload(c *gin.Context) {
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

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "missing image file",
			Message: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to open upload",
			Message: err.Error(),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read upload",
			Message: err.Error(),
		})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	payload := models.ImagePayload{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	}

	resp := models.UploadImageResponse{Image: payload}
	if h.mediaService != nil {
		if url, err := h.mediaService.StoreImage(userID, uuid.New(), payload); err == nil {
			resp.StorageURL = url
		}
	}

	c.JSON(http.StatusOK, resp)
}
