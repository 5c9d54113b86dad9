// File: api/schemas/interfaces.go
package schemas

import "context"

// GenerationOptions provides detailed parameters to control the text
// generation process for a single request.
type GenerationOptions struct {
	Temperature float32 `json:"temperature"` // Controls randomness.
	// If true, instructs the model to output valid JSON only.
	ForceJSONFormat bool `json:"force_json_format"`
}

// GenerationRequest encapsulates a complete request to the LLM, including the
// system and user prompts and any generation options.
type GenerationRequest struct {
	SystemPrompt string            `json:"system_prompt"`
	UserPrompt   string            `json:"user_prompt"`
	Options      GenerationOptions `json:"options"`
}

// LLMClient defines a standard interface for interacting with a large
// language model. Implementations own their transport, authentication and
// retry policy; callers only see the generated text or a terminal error.
type LLMClient interface {
	// Generate produces a completion for the request. The returned string is
	// the raw model output; callers are responsible for any structural parse.
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
