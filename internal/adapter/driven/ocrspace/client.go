// Package ocrspace implements the OCRClient port against the OCR.space
// parse API.
package ocrspace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/withtahmid/cv-agent/internal/domain/port/driven"
)

// DefaultEndpoint is the production OCR.space parse endpoint.
const DefaultEndpoint = "https://api.ocr.space/parse/image"

// Compile-time interface satisfaction check.
var _ driven.OCRClient = (*Client)(nil)

// Client implements the driven.OCRClient port over the OCR.space HTTP API.
// The API key travels per request, so one Client serves every credential.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a Client against the production endpoint.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		endpoint:   DefaultEndpoint,
	}
}

// NewClientWithEndpoint creates a Client with a custom http.Client and
// endpoint. This constructor is intended for testing, allowing injection
// of an httptest server.
func NewClientWithEndpoint(httpClient *http.Client, endpoint string) *Client {
	return &Client{httpClient: httpClient, endpoint: endpoint}
}

// parseResponse mirrors the OCR.space response envelope. ErrorMessage is
// a string in some responses and an array of strings in others.
type parseResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

// ParseImage sends one base64-encoded image to the parse endpoint and
// returns the concatenated parsed text.
func (c *Client) ParseImage(ctx context.Context, req driven.OCRRequest) (string, error) {
	form := url.Values{}
	form.Set("base64Image", "data:image/jpeg;base64,"+req.ImageBase64)
	form.Set("language", req.Language)
	form.Set("isOverlayRequired", "false")
	form.Set("scale", "true")
	form.Set("OCREngine", "2")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("apikey", req.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("read ocr response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr endpoint returned status %d", resp.StatusCode)
	}

	var parsed parseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}

	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("ocr processing failed: %s", flattenErrorMessage(parsed.ErrorMessage))
	}
	if len(parsed.ParsedResults) == 0 {
		return "", fmt.Errorf("ocr response contained no parsed results")
	}

	var texts []string
	for _, r := range parsed.ParsedResults {
		texts = append(texts, r.ParsedText)
	}
	return strings.Join(texts, "\n"), nil
}

func flattenErrorMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "unknown error"
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.Join(many, "; ")
	}
	return string(raw)
}
