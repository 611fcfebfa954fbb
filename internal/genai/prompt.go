package genai

import (
	"context"
	"fmt"
	"strings"

	"frame-lab-backend/internal/models"
)

// VideoPromptParams carries everything the prompt composer folds into the
// final natural-language prompt for a string-prompted video generation.
type VideoPromptParams struct {
	Prompt      string
	HasImage    bool
	AspectRatio string
	Style       string
	Resolution  string
	EnableSound bool
	Voice       string
}

// ComposeVideoPrompt builds the provider prompt from the user's prompt and
// the form settings: an animate-this-image prefix when a source image is
// attached, then the aspect-ratio, visual-style, resolution, and sound
// clauses in that order.
func ComposeVideoPrompt(p VideoPromptParams) string {
	base := strings.TrimSpace(p.Prompt)
	if p.HasImage {
		base = "Animate this image. " + base
	}
	if base != "" && !strings.HasSuffix(base, ".") {
		base += "."
	}

	clauses := []string{base}
	if p.AspectRatio == "9:16" {
		clauses = append(clauses, "The video should be a vertical video with a 9:16 aspect ratio.")
	} else {
		clauses = append(clauses, "The video should be a widescreen video with a 16:9 aspect ratio.")
	}
	clauses = append(clauses, fmt.Sprintf("The visual style should be %s.", p.Style))
	clauses = append(clauses, fmt.Sprintf("The video resolution should be %s.", p.Resolution))

	switch {
	case !p.EnableSound:
		clauses = append(clauses, "The video should be silent.")
	case p.Voice != "":
		clauses = append(clauses, fmt.Sprintf("The video should include voices speaking in %s.", p.Voice))
	default:
		clauses = append(clauses, "The video should have natural ambient sound.")
	}

	return strings.TrimSpace(strings.Join(clauses, " "))
}

// System instructions constraining the prompt-synthesis models to structured
// scene arrays. The output is handed back raw; the prompt editor in the UI
// owns parsing and validation.
const (
	videoPromptSystem = "You are a video prompt writer. From the user's description, produce a JSON array of " +
		"2 to 4 scene objects. Each object must have a \"prompt\" string field, and may have optional " +
		"\"duration_seconds\" and \"motion_scale\" number fields. Respond with the JSON array only, no prose."

	videoPromptFromImageSystem = "You are a video prompt writer. Study the attached image and produce a JSON array " +
		"of 2 to 3 scene objects that animate it. Each object must have a \"prompt\" string field, and may have " +
		"optional \"duration_seconds\" and \"motion_scale\" number fields. Respond with the JSON array only, no prose."
)

// GenerateVideoPrompt synthesizes a structured scene-array prompt from a
// plain description and returns the model's raw trimmed text output.
func (c *Client) GenerateVideoPrompt(ctx context.Context, apiKey, description string) (string, error) {
	resp, err := c.generateContent(ctx, apiKey, c.models.Text, generateContentRequest{
		SystemInstruction: &content{Parts: []part{{Text: videoPromptSystem}}},
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: description}},
		}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(firstText(resp)), nil
}

// GenerateVideoPromptFromImage synthesizes a scene-array prompt from an
// image, hinting the model at the target aspect ratio.
func (c *Client) GenerateVideoPromptFromImage(ctx context.Context, apiKey string, image models.ImagePayload, aspectRatio string) (string, error) {
	instruction := "Write scene prompts that animate this image."
	if aspectRatio != "" {
		instruction = fmt.Sprintf("Write scene prompts that animate this image for a %s video.", aspectRatio)
	}

	resp, err := c.generateContent(ctx, apiKey, c.models.Text, generateContentRequest{
		SystemInstruction: &content{Parts: []part{{Text: videoPromptFromImageSystem}}},
		Contents: []content{{
			Role:  "user",
			Parts: []part{imagePart(image), {Text: instruction}},
		}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(firstText(resp)), nil
}
