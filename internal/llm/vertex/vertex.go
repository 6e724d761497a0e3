// Package vertex generates text through the Google Gen AI SDK, either against
// Vertex AI (project and location set) or the Gemini API (API key only).
package vertex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"feedgen/internal/config"
	"feedgen/internal/domain"
	"feedgen/internal/llm"
	"feedgen/internal/port"
)

const (
	providerName = "vertex"
	defaultModel = "gemini-2.0-flash"
)

func init() {
	llm.RegisterProvider(providerName, func(cfg *config.ModelProviderConfig) (port.TextGenerator, error) {
		return NewGenerator(context.Background(), cfg)
	})
}

// Generator implements port.TextGenerator using google.golang.org/genai.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a Gen AI SDK client from a provider config.
func NewGenerator(ctx context.Context, cfg *config.ModelProviderConfig) (*Generator, error) {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}

	cc := &genai.ClientConfig{}
	if cfg.Project != "" {
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	} else {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("vertex provider requires a project or an API key")
		}
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	if cfg.TimeoutSecs > 0 {
		cc.HTTPClient = &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Generator{client: client, model: model}, nil
}

func (g *Generator) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	model := input.ModelID
	if model == "" {
		model = g.model
	}

	var parts []*genai.Part
	if input.ImageURL != "" {
		parts = append(parts, genai.NewPartFromURI(input.ImageURL, "image/jpeg"))
	}
	parts = append(parts, genai.NewPartFromText(input.Prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return nil, classifyError(ctx, err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, domain.NewBlockedContentError(providerName, string(resp.PromptFeedback.BlockReason))
	}
	if len(resp.Candidates) == 0 {
		return nil, domain.NewBlockedContentError(providerName, "no candidates")
	}
	switch reason := resp.Candidates[0].FinishReason; reason {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonBlocklist,
		genai.FinishReasonProhibitedContent, genai.FinishReasonSPII:
		return nil, domain.NewBlockedContentError(providerName, string(reason))
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewBlockedContentError(providerName, "empty text")
	}

	return &port.GenerateOutput{
		Text:      text,
		ModelUsed: model,
		Provider:  providerName,
	}, nil
}

func classifyError(ctx context.Context, err error) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}

	switch {
	case code == http.StatusTooManyRequests:
		return llm.NewRateLimitError(providerName, err, 0)
	case code >= 500, code == http.StatusRequestTimeout:
		return llm.NewTransientError(providerName, code, err)
	case code >= 400:
		return llm.NewClientError(providerName, code, err)
	case code == 0 && ctx.Err() == nil:
		return llm.NewTransientError(providerName, 0, fmt.Errorf("calling genai API: %w", err))
	default:
		return fmt.Errorf("genai API error: %w", err)
	}
}
