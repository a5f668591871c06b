package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zatekoja/rfp-response-pipeline/pkg/config"
	"github.com/zatekoja/rfp-response-pipeline/pkg/retry"
)

// HTTPClient implements the text-extraction provider against the OCR
// service's HTTP API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a new extraction client.
func NewHTTPClient(cfg *config.ExtractionConfig) (*HTTPClient, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("extraction service URL is required")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &HTTPClient{
		baseURL: cfg.URL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type extractRequest struct {
	StorageKey string `json:"storage_key"`
}

type extractResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Extract runs text extraction over the stored object identified by
// storageKey. The call is retried a few times since the OCR service is
// flaky under load; a persistent failure surfaces to the caller.
func (c *HTTPClient) Extract(ctx context.Context, storageKey string) (string, error) {
	if storageKey == "" {
		return "", errors.New("storage key is required")
	}

	var text string
	err := retry.Do(ctx, retry.ExtractionConfig(), func() error {
		extracted, err := c.extractOnce(ctx, storageKey)
		if err != nil {
			return err
		}
		text = extracted
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *HTTPClient) extractOnce(ctx context.Context, storageKey string) (string, error) {
	body, err := json.Marshal(extractRequest{StorageKey: storageKey})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/extract", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("extraction request failed with status %d", resp.StatusCode)
	}

	var payload extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.Error != "" {
		return "", fmt.Errorf("extraction service error: %s", payload.Error)
	}
	if payload.Text == "" {
		return "", errors.New("extraction returned empty text")
	}
	return payload.Text, nil
}
