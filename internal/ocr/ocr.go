// Package ocr is the boundary to the text-recognition collaborator.
// Recognition itself is external; this package only defines the
// interface and an HTTP client for a recognition sidecar.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Engine recognizes text in a screenshot.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// HTTPDoer is the subset of http.Client the engine needs. Tests inject
// a fake.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPEngine recognizes text by posting the image to a sidecar service.
type HTTPEngine struct {
	endpoint string
	client   HTTPDoer
}

// NewHTTPEngine creates an engine for the sidecar at endpoint. A nil
// client gets a default with a generous timeout; recognition is slow.
func NewHTTPEngine(endpoint string, client HTTPDoer) *HTTPEngine {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &HTTPEngine{endpoint: endpoint, client: client}
}

type recognizeRequest struct {
	Image string `json:"image"`
}

type recognizeResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Recognize posts the image and returns the recognized text.
func (e *HTTPEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	body, err := json.Marshal(recognizeRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return "", fmt.Errorf("encode ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create ocr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ocr response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr sidecar returned status %d: %s", resp.StatusCode, data)
	}

	var rr recognizeResponse
	if err := json.Unmarshal(data, &rr); err != nil {
		return "", fmt.Errorf("parse ocr response: %w", err)
	}
	if rr.Error != "" {
		return "", fmt.Errorf("ocr sidecar: %s", rr.Error)
	}

	return rr.Text, nil
}
