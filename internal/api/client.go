// Package api implements the HTTP client for the remote posture-analysis
// service. It speaks to exactly two endpoints: POST /analyze/frame and
// POST /analyze/video, both multipart with a single "file" field.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/bdougie/posturewatch/internal/models"
)

const (
	frameEndpoint = "/analyze/frame"
	videoEndpoint = "/analyze/video"

	// frameFilename is the fixed filename for submitted still frames.
	frameFilename = "frame.jpg"
)

// StatusError reports a non-2xx response from the analysis service.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analysis service returned %d for %s", e.Code, e.Endpoint)
}

// Client talks to the analysis service. Frame and video submissions carry
// separate timeouts; there are no retries.
type Client struct {
	baseURL     string
	frameClient *http.Client
	videoClient *http.Client
}

// NewClient constructs a client for the service at baseURL.
func NewClient(baseURL string, frameTimeout, videoTimeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("analysis service URL is required")
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		frameClient: &http.Client{Timeout: frameTimeout},
		videoClient: &http.Client{Timeout: videoTimeout},
	}, nil
}

// AnalyzeFrame submits one JPEG-encoded still frame and returns the backend's
// verdict for it.
func (c *Client) AnalyzeFrame(ctx context.Context, jpeg []byte) (*models.LiveAnalysisResult, error) {
	body, contentType, err := multipartBody(frameFilename, "image/jpeg", bytes.NewReader(jpeg))
	if err != nil {
		return nil, err
	}

	var result models.LiveAnalysisResult
	if err := c.post(ctx, c.frameClient, frameEndpoint, body, contentType, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AnalyzeVideo submits the selected video file in full and returns the
// backend's structured report. The original filename and MIME type are
// preserved on the wire.
func (c *Client) AnalyzeVideo(ctx context.Context, f models.SelectedVideoFile, r io.Reader) (*models.VideoAnalysisResult, error) {
	body, contentType, err := multipartBody(f.Name, f.MIMEType, r)
	if err != nil {
		return nil, err
	}

	var result models.VideoAnalysisResult
	if err := c.post(ctx, c.videoClient, videoEndpoint, body, contentType, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, hc *http.Client, endpoint string, body *bytes.Buffer, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// multipartBody builds a single-field multipart body with an explicit part
// content type, which mime/multipart's CreateFormFile would force to
// application/octet-stream.
func multipartBody(filename, contentType string, r io.Reader) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
