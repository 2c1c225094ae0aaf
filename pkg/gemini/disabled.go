package gemini

import (
	"context"
	"errors"

	"github.com/serendibtrip/serendibtrip-api/types"
)

// ErrNotConfigured is returned by the disabled provider.
var ErrNotConfigured = errors.New("AI provider is not configured")

type disabledProvider struct{}

// Disabled returns a provider that fails every call with ErrNotConfigured.
// It stands in when no API key is set so the rest of the service still runs.
func Disabled() types.RecommendationProvider {
	return disabledProvider{}
}

func (disabledProvider) Recommend(context.Context, types.RecommendationRequest) (*types.RecommendationResponse, error) {
	return nil, ErrNotConfigured
}

func (disabledProvider) Chat(context.Context, types.ChatRequest) (*types.ChatResponse, error) {
	return nil, ErrNotConfigured
}
