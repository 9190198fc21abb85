// Package ocr is the client for an optical character recognition sidecar, a
// tesseract-style HTTP service that accepts image bytes and returns the
// recognized text. Empty text is a valid response; the caller decides what an
// empty transcription means.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
)

const maxResponseBytes = 4 << 20

// Client posts images to the OCR endpoint with a language hint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	language   string
	log        *slog.Logger
}

func NewClient(httpClient *http.Client, endpoint, language string, log *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		language:   language,
		log:        log,
	}
}

type recognizeResponse struct {
	Text string `json:"text"`
}

// Recognize runs OCR over the image. The error is reserved for transport and
// service failures; an image with no text returns "" and a nil error.
func (c *Client) Recognize(ctx context.Context, image []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("image", "image")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err = part.Write(image); err != nil {
		return "", fmt.Errorf("write image part: %w", err)
	}
	if err = mw.WriteField("language", c.language); err != nil {
		return "", fmt.Errorf("write language field: %w", err)
	}
	if err = mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.ErrorContext(ctx, "Failed to close response body",
				"error", closeErr,
				"endpoint", c.endpoint)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed recognizeResponse
	if err = json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return strings.TrimSpace(parsed.Text), nil
}
