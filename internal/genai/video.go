package genai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"frame-lab-backend/internal/models"
	"frame-lab-backend/internal/retry"
)

type videoRequest struct {
	Instances  []videoInstance `json:"instances"`
	Parameters videoParameters `json:"parameters"`
}

type videoInstance struct {
	Prompt string      `json:"prompt"`
	Image  *inlineData `json:"image,omitempty"`
}

type videoParameters struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
}

// Operation is one long-running video generation job as reported by the
// provider. Done marks the terminal state for both success and failure.
type Operation struct {
	Name     string             `json:"name"`
	Done     bool               `json:"done"`
	Error    *OperationError    `json:"error,omitempty"`
	Response *OperationResponse `json:"response,omitempty"`
}

type OperationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type OperationResponse struct {
	GeneratedVideos []struct {
		Video struct {
			URI string `json:"uri"`
		} `json:"video"`
	} `json:"generatedVideos"`
}

// SubmitVideo starts a video generation job and returns its operation name.
func (c *Client) SubmitVideo(ctx context.Context, apiKey, prompt string, image *models.ImagePayload, aspectRatio, resolution string) (string, error) {
	path := fmt.Sprintf("models/%s:predictLongRunning", c.models.Video)
	req := videoRequest{
		Instances: []videoInstance{{Prompt: prompt}},
		Parameters: videoParameters{
			AspectRatio: aspectRatio,
			Resolution:  resolution,
		},
	}
	if image != nil {
		req.Instances[0].Image = &inlineData{MimeType: image.MimeType, Data: image.Data}
	}

	op, err := retry.Value(ctx, "submit video", func() (*Operation, error) {
		var op Operation
		if err := c.doJSON(ctx, apiKey, "POST", path, req, &op); err != nil {
			return nil, err
		}
		return &op, nil
	}, c.retryOpts)
	if err != nil {
		return "", err
	}
	if op.Name == "" {
		return "", fmt.Errorf("provider returned an operation without a name")
	}
	return op.Name, nil
}

// GetOperation fetches the current state of a video generation job.
func (c *Client) GetOperation(ctx context.Context, apiKey, name string) (*Operation, error) {
	return retry.Value(ctx, "poll video operation", func() (*Operation, error) {
		var op Operation
		if err := c.doJSON(ctx, apiKey, "GET", name, nil, &op); err != nil {
			return nil, err
		}
		return &op, nil
	}, c.retryOpts)
}

// WaitForVideo polls the operation on a fixed interval until it reports done
// and returns the video locator. There is no overall deadline: the loop runs
// until the job finishes, a poll fails, or ctx is cancelled.
func (c *Client) WaitForVideo(ctx context.Context, apiKey, name string) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		op, err := c.GetOperation(ctx, apiKey, name)
		if err != nil {
			return "", err
		}
		if !op.Done {
			continue
		}
		return resolveOperation(op)
	}
}

// resolveOperation maps a finished operation onto its three outcomes:
// provider error, success without a locator, and success with a locator.
func resolveOperation(op *Operation) (string, error) {
	if op.Error != nil {
		msg := op.Error.Message
		if msg == "" {
			msg = "video generation failed"
		}
		return "", fmt.Errorf("%s", msg)
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return "", ErrEmptyResult
	}
	uri := op.Response.GeneratedVideos[0].Video.URI
	if uri == "" {
		return "", ErrEmptyResult
	}
	return uri, nil
}

// KeyedURL appends the API key to a provider download URI as a query
// parameter, preserving any existing query string.
func KeyedURL(uri, apiKey string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid video uri: %w", err)
	}
	q := u.Query()
	q.Set("key", apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// DownloadVideo fetches the video bytes behind a provider locator. The key
// travels as a query parameter on this one request only; callers must never
// hand the keyed URL on to clients.
func (c *Client) DownloadVideo(ctx context.Context, apiKey, uri string) ([]byte, string, error) {
	keyedURL, err := KeyedURL(uri, apiKey)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, keyedURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("failed to download video: status %d, body: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read video body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	return data, contentType, nil
}
