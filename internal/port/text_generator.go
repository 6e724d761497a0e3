package port

import "context"

// GenerateInput carries a single prompt for a language model.
type GenerateInput struct {
	ModelID  string // empty means the provider's default model
	Prompt   string
	ImageURL string // optional product image passed alongside the prompt
}

// GenerateOutput contains the raw text produced by a language model.
type GenerateOutput struct {
	Text      string
	ModelUsed string
	Provider  string
}

// TextGenerator abstracts a remote language model call.
//
// Implementations return *domain.BlockedContentError when the model refused to answer
// or produced no text, and *llm.RateLimitError when the provider signals quota exhaustion.
type TextGenerator interface {
	Generate(ctx context.Context, input GenerateInput) (*GenerateOutput, error)
}
