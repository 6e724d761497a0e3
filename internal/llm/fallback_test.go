package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"feedgen/internal/domain"
	"feedgen/internal/llm"
	"feedgen/internal/port"
	"feedgen/mocks"
)

var testInput = port.GenerateInput{Prompt: "Context:\n{}"}

func output(provider string) *port.GenerateOutput {
	return &port.GenerateOutput{Text: "generated", Provider: provider, ModelUsed: provider + "-model"}
}

func TestFallbackGenerator_FirstSucceeds(t *testing.T) {
	g1 := new(mocks.MockTextGenerator)
	g2 := new(mocks.MockTextGenerator)
	g1.On("Generate", mock.Anything, testInput).Return(output("gemini"), nil)

	fg := llm.NewFallbackGenerator([]port.TextGenerator{g1, g2}, []string{"gemini", "claude"}, zap.NewNop())

	out, err := fg.Generate(context.Background(), testInput)

	require.NoError(t, err)
	assert.Equal(t, "gemini", out.Provider)
	g2.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestFallbackGenerator_FirstFails_SecondSucceeds(t *testing.T) {
	g1 := new(mocks.MockTextGenerator)
	g2 := new(mocks.MockTextGenerator)
	g1.On("Generate", mock.Anything, testInput).Return(nil, errors.New("generic error"))
	g2.On("Generate", mock.Anything, testInput).Return(output("claude"), nil)

	fg := llm.NewFallbackGenerator([]port.TextGenerator{g1, g2}, []string{"gemini", "claude"}, nil)

	out, err := fg.Generate(context.Background(), testInput)

	require.NoError(t, err)
	assert.Equal(t, "claude", out.Provider)
}

func TestFallbackGenerator_RateLimitedProviderIsSkippedNextCall(t *testing.T) {
	g1 := new(mocks.MockTextGenerator)
	g2 := new(mocks.MockTextGenerator)
	g1.On("Generate", mock.Anything, testInput).Return(nil, llm.NewRateLimitError("gemini", errors.New("429"), 60)).Once()
	g2.On("Generate", mock.Anything, testInput).Return(output("claude"), nil)

	fg := llm.NewFallbackGenerator([]port.TextGenerator{g1, g2}, []string{"gemini", "claude"}, nil)

	_, err := fg.Generate(context.Background(), testInput)
	require.NoError(t, err)
	_, err = fg.Generate(context.Background(), testInput)
	require.NoError(t, err)

	g1.AssertNumberOfCalls(t, "Generate", 1)
	g2.AssertNumberOfCalls(t, "Generate", 2)
}

func TestFallbackGenerator_AllRateLimited(t *testing.T) {
	g1 := new(mocks.MockTextGenerator)
	g2 := new(mocks.MockTextGenerator)
	g1.On("Generate", mock.Anything, testInput).Return(nil, llm.NewRateLimitError("gemini", errors.New("429"), 60))
	g2.On("Generate", mock.Anything, testInput).Return(nil, llm.NewRateLimitError("claude", errors.New("429"), 30))

	fg := llm.NewFallbackGenerator([]port.TextGenerator{g1, g2}, []string{"gemini", "claude"}, nil)

	_, err := fg.Generate(context.Background(), testInput)

	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "all", rlErr.Provider)
	assert.InDelta(t, 30, rlErr.RetryAfter.Seconds(), 2)
}

func TestFallbackGenerator_PreservesBlockedContentError(t *testing.T) {
	g1 := new(mocks.MockTextGenerator)
	g2 := new(mocks.MockTextGenerator)
	g1.On("Generate", mock.Anything, testInput).Return(nil, llm.NewRateLimitError("gemini", errors.New("429"), 60))
	g2.On("Generate", mock.Anything, testInput).Return(nil, domain.NewBlockedContentError("claude", "refusal"))

	fg := llm.NewFallbackGenerator([]port.TextGenerator{g1, g2}, []string{"gemini", "claude"}, nil)

	_, err := fg.Generate(context.Background(), testInput)

	var blocked *domain.BlockedContentError
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, "claude", blocked.Provider)
}
