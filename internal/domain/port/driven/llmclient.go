package driven

import "context"

// LLMClient defines the driven port for the LLM collaborator.
type LLMClient interface {
	// GenerateText sends prompt to the model authenticated by apiKey and
	// returns the single text response. The response may arrive wrapped
	// in markdown code fences; defencing is the caller's concern.
	GenerateText(ctx context.Context, apiKey, prompt string) (string, error)
}
