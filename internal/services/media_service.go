package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"frame-lab-backend/internal/genai"
	"frame-lab-backend/internal/models"
	"frame-lab-backend/internal/supabase"
)

// MediaService carries a submitted generation to its terminal state: it
// polls the provider job, pulls the finished video, and lands it in storage
// so clients only ever see bucket URLs.
type MediaService struct {
	genaiClient    *genai.Client
	dbClient       *supabase.DatabaseClient
	storageClient  *supabase.StorageClient
	realtimeClient *supabase.RealtimeClient
}

func NewMediaService(
	genaiClient *genai.Client,
	dbClient *supabase.DatabaseClient,
	storageClient *supabase.StorageClient,
	realtimeClient *supabase.RealtimeClient,
) *MediaService {
	return &MediaService{
		genaiClient:    genaiClient,
		dbClient:       dbClient,
		storageClient:  storageClient,
		realtimeClient: realtimeClient,
	}
}

// AwaitVideo blocks until the operation finishes, then stores the result.
// Run it on its own goroutine; the job has no deadline of its own and polls
// until done or ctx ends.
func (s *MediaService) AwaitVideo(ctx context.Context, apiKey string, gen *models.Generation, operationName string) {
	videoURI, err := s.genaiClient.WaitForVideo(ctx, apiKey, operationName)
	if err != nil {
		s.fail(gen.ID, err)
		return
	}

	data, contentType, err := s.genaiClient.DownloadVideo(ctx, apiKey, videoURI)
	if err != nil {
		s.fail(gen.ID, err)
		return
	}

	filename := fmt.Sprintf("video_%s.mp4", time.Now().Format("20060102_150405"))
	storagePath, storageURL, err := s.storageClient.UploadMedia(gen.UserID, gen.ID, filename, contentType, data)
	if err != nil {
		s.fail(gen.ID, fmt.Errorf("failed to store video: %w", err))
		return
	}

	if err := s.dbClient.UpdateGenerationResult(gen.ID, storagePath, storageURL); err != nil {
		s.fail(gen.ID, fmt.Errorf("failed to record result: %w", err))
		return
	}

	s.realtimeClient.PublishGenerationEvent(gen.ID, "generation_completed",
		supabase.GenerationCompletedPayload(gen.ID, storageURL))
}

func (s *MediaService) fail(generationID uuid.UUID, cause error) {
	if err := s.dbClient.UpdateGenerationError(generationID, cause.Error()); err != nil {
		return
	}
	s.realtimeClient.PublishGenerationEvent(generationID, "generation_failed",
		supabase.GenerationFailedPayload(generationID, cause.Error()))
}

// StoreImage persists an image payload for a user and returns its public
// bucket URL.
func (s *MediaService) StoreImage(userID, generationID uuid.UUID, img models.ImagePayload) (string, error) {
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return "", fmt.Errorf("invalid image data: %w", err)
	}

	filename := fmt.Sprintf("image_%s%s", time.Now().Format("20060102_150405"), extensionFor(img.MimeType))
	_, storageURL, err := s.storageClient.UploadMedia(userID, generationID, filename, img.MimeType, data)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return storageURL, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
