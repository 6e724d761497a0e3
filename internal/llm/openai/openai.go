package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"feedgen/internal/config"
	"feedgen/internal/domain"
	"feedgen/internal/llm"
	"feedgen/internal/port"
)

const (
	providerName = "openai"
	defaultModel = "gpt-4o"
)

func init() {
	llm.RegisterProvider(providerName, func(cfg *config.ModelProviderConfig) (port.TextGenerator, error) {
		return NewGenerator(cfg), nil
	})
}

// Generator implements port.TextGenerator using the OpenAI Chat Completions API.
type Generator struct {
	client openai.Client
	model  string
}

// NewGenerator creates an OpenAI-based text generator from a provider config.
// BaseURL points the client at any OpenAI-compatible endpoint.
func NewGenerator(cfg *config.ModelProviderConfig) *Generator {
	return newGenerator(cfg, cfg.BaseURL)
}

// NewGeneratorWithEndpoint creates a generator pointing at a custom API endpoint (for testing).
func NewGeneratorWithEndpoint(cfg *config.ModelProviderConfig, endpoint string) *Generator {
	return newGenerator(cfg, endpoint)
}

func newGenerator(cfg *config.ModelProviderConfig, endpoint string) *Generator {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(timeout),
		// Retries are handled by llm.RetryingGenerator.
		option.WithMaxRetries(0),
	}
	if endpoint != "" {
		opts = append(opts, option.WithBaseURL(endpoint))
	}

	return &Generator{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (g *Generator) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	model := input.ModelID
	if model == "" {
		model = g.model
	}

	params := openai.ChatCompletionNewParams{
		Model:               model,
		Messages:            []openai.ChatCompletionMessageParamUnion{userMessage(input)},
		MaxCompletionTokens: openai.Int(8192),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifyError(ctx, err)
	}

	if len(resp.Choices) == 0 {
		return nil, domain.NewBlockedContentError(providerName, "no choices")
	}
	choice := resp.Choices[0]
	if choice.FinishReason == "content_filter" {
		return nil, domain.NewBlockedContentError(providerName, "content_filter")
	}
	if choice.Message.Refusal != "" {
		return nil, domain.NewBlockedContentError(providerName, choice.Message.Refusal)
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return nil, domain.NewBlockedContentError(providerName, "empty text")
	}

	return &port.GenerateOutput{
		Text:      choice.Message.Content,
		ModelUsed: model,
		Provider:  providerName,
	}, nil
}

func userMessage(input port.GenerateInput) openai.ChatCompletionMessageParamUnion {
	if input.ImageURL == "" {
		return openai.UserMessage(input.Prompt)
	}
	return openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: input.ImageURL}),
		openai.TextContentPart(input.Prompt),
	})
}

func classifyError(ctx context.Context, err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		if ctx.Err() != nil {
			return fmt.Errorf("calling openai API: %w", err)
		}
		return llm.NewTransientError(providerName, 0, fmt.Errorf("calling openai API: %w", err))
	}

	baseErr := fmt.Errorf("openai API error (status %d): %w", apiErr.StatusCode, err)
	switch {
	case apiErr.StatusCode == http.StatusTooManyRequests:
		retryAfter := 0
		if apiErr.Response != nil {
			retryAfter = llm.ParseRetryAfterHeader(apiErr.Response.Header.Get("Retry-After"))
		}
		return llm.NewRateLimitError(providerName, baseErr, retryAfter)
	case apiErr.StatusCode >= 500:
		return llm.NewTransientError(providerName, apiErr.StatusCode, baseErr)
	case apiErr.StatusCode >= 400 && apiErr.StatusCode != http.StatusRequestTimeout:
		return llm.NewClientError(providerName, apiErr.StatusCode, baseErr)
	default:
		return baseErr
	}
}
