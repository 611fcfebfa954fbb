package supabase

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

type RealtimeClient struct {
	client *supabase.Client
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
	}
}

func (r *RealtimeClient) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	// The Go client has no direct Realtime publish; row updates on the
	// generations table trigger Realtime automatically, so this stays a
	// hook for explicit events via the REST API.
	return nil
}

func (r *RealtimeClient) PublishGenerationEvent(generationID uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("generation:%s", generationID.String())
	return r.PublishEvent(channel, event, payload)
}

// Event payloads
func GenerationStartedPayload(generationID uuid.UUID, operationName string) map[string]interface{} {
	return map[string]interface{}{
		"generation_id": generationID.String(),
		"status":        "processing",
		"operation":     operationName,
	}
}

func GenerationCompletedPayload(generationID uuid.UUID, videoURL string) map[string]interface{} {
	return map[string]interface{}{
		"generation_id": generationID.String(),
		"status":        "completed",
		"progress":      100,
		"video_url":     videoURL,
	}
}

func GenerationFailedPayload(generationID uuid.UUID, errorMsg string) map[string]interface{} {
	return map[string]interface{}{
		"generation_id": generationID.String(),
		"status":        "failed",
		"error":         errorMsg,
	}
}
