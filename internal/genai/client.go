package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"frame-lab-backend/internal/retry"
)

// ErrNoImage is returned when a provider response contains no inline image.
var ErrNoImage = errors.New("no image generated")

// ErrEmptyResult is returned when a video operation finishes without error
// but carries no video locator.
var ErrEmptyResult = errors.New("video generation returned an empty result")

// Models names the provider models used for each operation kind.
type Models struct {
	Video     string
	Image     string
	ImageEdit string
	Text      string
}

type Client struct {
	baseURL      string
	models       Models
	httpClient   *http.Client
	retryOpts    retry.Options
	pollInterval time.Duration
}

func NewClient(baseURL string, models Models) *Client {
	return &Client{
		baseURL: baseURL,
		models:  models,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		retryOpts:    retry.DefaultOptions(),
		pollInterval: 10 * time.Second,
	}
}

// SetPollInterval overrides the video operation polling interval.
func (c *Client) SetPollInterval(d time.Duration) {
	c.pollInterval = d
}

// SetRetryOptions overrides the retry policy applied to provider calls.
func (c *Client) SetRetryOptions(opts retry.Options) {
	c.retryOpts = opts
}

// ValidateKey issues a cheap model-listing call with the given key. It never
// returns an error: any failure reports the key as invalid.
func (c *Client) ValidateKey(ctx context.Context, apiKey string) bool {
	if apiKey == "" {
		return false
	}
	var result struct {
		Models []json.RawMessage `json:"models"`
	}
	err := retry.Do(ctx, "validate key", func() error {
		return c.doJSON(ctx, apiKey, http.MethodGet, "models?pageSize=1", nil, &result)
	}, c.retryOpts)
	return err == nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimSuffix(c.baseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

// doJSON performs one provider call with the API key header, decoding the
// response into out when out is non-nil. Non-200 statuses become errors
// carrying the status and body text, which is what the retry wrapper's
// rate-limit classification keys on.
func (c *Client) doJSON(ctx context.Context, apiKey, method, path string, reqBody, out any) error {
	var body io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", apiKey)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider call failed: status %d, body: %s", resp.StatusCode, string(respData))
	}

	if out != nil {
		if err := json.Unmarshal(respData, out); err != nil {
			return fmt.Errorf("failed to decode response: %w, body: %s", err, string(respData))
		}
	}

	return nil
}
