// Package inference proxies requests to the external AI service.
// The actual models live behind HTTP; this client only relays.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/arogyalink/health-portal/internal/metrics"
)

var ErrNotConfigured = errors.New("inference service not configured")

type Client struct {
	http    *http.Client
	baseURL string
	metrics metrics.ExternalMetrics
}

func NewClient(httpClient *http.Client, baseURL string, m metrics.ExternalMetrics) *Client {
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		metrics: m,
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// PredictDisease forwards the symptom payload and relays the response verbatim.
func (c *Client) PredictDisease(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/api/disease", bytes.NewReader(payload),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.relay(req, "inference")
}

// AnalyzeMRI forwards the uploaded scan as multipart form data.
func (c *Client) AnalyzeMRI(ctx context.Context, filename string, file io.Reader) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/api/predict", &body,
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.relay(req, "inference")
}

func (c *Client) relay(req *http.Request, service string) (json.RawMessage, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.RecordExternalLatency(service, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", service, err)
	}
	defer resp.Body.Close()

	c.metrics.RecordExternalStatus(service, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", service, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return json.RawMessage(raw), nil
}
