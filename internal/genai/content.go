package genai

import (
	"context"
	"fmt"

	"frame-lab-backend/internal/models"
	"frame-lab-backend/internal/retry"
)

// Wire types for the generateContent endpoint.

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func imagePart(img models.ImagePayload) part {
	return part{InlineData: &inlineData{MimeType: img.MimeType, Data: img.Data}}
}

func (c *Client) generateContent(ctx context.Context, apiKey, model string, req generateContentRequest) (*generateContentResponse, error) {
	path := fmt.Sprintf("models/%s:generateContent", model)
	return retry.Value(ctx, "generate content", func() (*generateContentResponse, error) {
		var resp generateContentResponse
		if err := c.doJSON(ctx, apiKey, "POST", path, req, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	}, c.retryOpts)
}

// firstInlineImage scans response parts in order and returns the first
// inline image found.
func firstInlineImage(resp *generateContentResponse) (models.ImagePayload, error) {
	for _, candidate := range resp.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return models.ImagePayload{
					Data:     p.InlineData.Data,
					MimeType: p.InlineData.MimeType,
				}, nil
			}
		}
	}
	return models.ImagePayload{}, ErrNoImage
}

// firstText returns the first text part of the first candidate, or "".
func firstText(resp *generateContentResponse) string {
	for _, candidate := range resp.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.Text != "" {
				return p.Text
			}
		}
	}
	return ""
}
