package genai

import (
	"context"
	"fmt"

	"frame-lab-backend/internal/models"
	"frame-lab-backend/internal/retry"
)

// expandInstruction is the fixed instruction for canvas expansion: the first
// image is grown to fill the second image's canvas.
const expandInstruction = "Expand the first image so that it completely fills the canvas of the second image, " +
	"extending the scene naturally and preserving the original visual style. Return only the expanded image."

// EditImage sends one image and one text instruction to the image-editing
// model and returns the first inline image of the response.
func (c *Client) EditImage(ctx context.Context, apiKey string, image models.ImagePayload, prompt string) (models.ImagePayload, error) {
	resp, err := c.generateContent(ctx, apiKey, c.models.ImageEdit, generateContentRequest{
		Contents: []content{{
			Parts: []part{imagePart(image), {Text: prompt}},
		}},
	})
	if err != nil {
		return models.ImagePayload{}, err
	}
	return firstInlineImage(resp)
}

// ChangeImageAspectRatio expands mainImage to fill referenceImage's canvas,
// preserving style. Extraction follows the same first-inline-image rule as
// EditImage.
func (c *Client) ChangeImageAspectRatio(ctx context.Context, apiKey string, mainImage, referenceImage models.ImagePayload) (models.ImagePayload, error) {
	resp, err := c.generateContent(ctx, apiKey, c.models.ImageEdit, generateContentRequest{
		Contents: []content{{
			Parts: []part{imagePart(mainImage), imagePart(referenceImage), {Text: expandInstruction}},
		}},
	})
	if err != nil {
		return models.ImagePayload{}, err
	}
	return firstInlineImage(resp)
}

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

// GenerateImage is a single-shot text-to-image call.
func (c *Client) GenerateImage(ctx context.Context, apiKey, prompt, aspectRatio string) (models.ImagePayload, error) {
	path := fmt.Sprintf("models/%s:predict", c.models.Image)
	req := predictRequest{
		Instances: []predictInstance{{Prompt: prompt}},
		Parameters: predictParameters{
			SampleCount: 1,
			AspectRatio: aspectRatio,
		},
	}

	resp, err := retry.Value(ctx, "generate image", func() (*predictResponse, error) {
		var resp predictResponse
		if err := c.doJSON(ctx, apiKey, "POST", path, req, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	}, c.retryOpts)
	if err != nil {
		return models.ImagePayload{}, err
	}

	if len(resp.Predictions) == 0 || resp.Predictions[0].BytesBase64Encoded == "" {
		return models.ImagePayload{}, ErrNoImage
	}

	mimeType := resp.Predictions[0].MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return models.ImagePayload{
		Data:     resp.Predictions[0].BytesBase64Encoded,
		MimeType: mimeType,
	}, nil
}
