// Package gemini implements the LLMClient port using the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/withtahmid/cv-agent/internal/domain/port/driven"
)

// DefaultModel is a fast model suitable for structured extraction.
const DefaultModel = "gemini-2.0-flash"

// Compile-time interface satisfaction check.
var _ driven.LLMClient = (*Client)(nil)

// Client implements the driven.LLMClient port. The API key is supplied
// per request -- whichever GEMINI credential is active when the pipeline
// runs -- so the underlying SDK client is constructed per call rather
// than held open.
type Client struct {
	modelName string
	extraOpts []option.ClientOption
}

// NewClient creates a Client for the given model name. An empty name
// selects DefaultModel.
func NewClient(modelName string) *Client {
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Client{modelName: modelName}
}

// NewClientWithOptions creates a Client with extra SDK options appended
// after the API key option. Intended for testing.
func NewClientWithOptions(modelName string, opts ...option.ClientOption) *Client {
	c := NewClient(modelName)
	c.extraOpts = opts
	return c
}

// GenerateText sends prompt to the model and returns the concatenated
// text parts of the first candidate. No retries: a failed call is
// terminal for the current request.
func (c *Client) GenerateText(ctx context.Context, apiKey, prompt string) (string, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, c.extraOpts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.modelName)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0),
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("gemini response contained no text parts")
	}
	return b.String(), nil
}
