package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/serendibtrip/serendibtrip-api/config"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/serendibtrip/serendibtrip-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func init() {
	logger.IsTest = true
}

type fakeModels struct {
	text     string
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = cfg
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}}},
		},
	}, nil
}

func testConfig() config.AIConfig {
	return config.AIConfig{GeminiAPIKey: "k", Model: "gemini-2.0-flash", TimeoutSeconds: 5, Temperature: 0.4}
}

func TestRecommend_DecodesFencedJSON(t *testing.T) {
	fake := &fakeModels{text: "```json\n{\"topAttractions\":[{\"name\":\"Sigiriya\",\"entryFee\":10500}],\"tripSummary\":\"Rock day\"}\n```"}
	c := newClient(fake, testConfig())

	resp, err := c.Recommend(context.Background(), types.RecommendationRequest{
		Destination: "Sigiriya",
		Interests:   []string{"culture"},
		Exclude:     []string{"Pidurangala Rock"},
		Budget:      100000,
	})
	require.NoError(t, err)
	require.Len(t, resp.TopAttractions, 1)
	assert.Equal(t, "Sigiriya", resp.TopAttractions[0].Name)
	require.NotNil(t, resp.TopAttractions[0].EntryFee)
	assert.Equal(t, int64(10500), *resp.TopAttractions[0].EntryFee)
	assert.Equal(t, "Rock day", resp.TripSummary)

	assert.Equal(t, "gemini-2.0-flash", fake.model)
	assert.Equal(t, "application/json", fake.config.ResponseMIMEType)
	require.NotNil(t, fake.config.Temperature)
	assert.InDelta(t, 0.4, *fake.config.Temperature, 0.0001)
	prompt := fake.contents[0].Parts[0].Text
	assert.Contains(t, prompt, "Pidurangala Rock")
	assert.Contains(t, prompt, "LKR 100000")
}

func TestRecommend_Errors(t *testing.T) {
	t.Run("upstream error", func(t *testing.T) {
		c := newClient(&fakeModels{err: errors.New("429")}, testConfig())
		_, err := c.Recommend(context.Background(), types.RecommendationRequest{Destination: "Ella"})
		assert.Error(t, err)
	})
	t.Run("empty text", func(t *testing.T) {
		c := newClient(&fakeModels{}, testConfig())
		_, err := c.Recommend(context.Background(), types.RecommendationRequest{Destination: "Ella"})
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
	t.Run("invalid json", func(t *testing.T) {
		c := newClient(&fakeModels{text: "not json"}, testConfig())
		_, err := c.Recommend(context.Background(), types.RecommendationRequest{Destination: "Ella"})
		assert.Error(t, err)
	})
}

func TestChat_MapsRoles(t *testing.T) {
	fake := &fakeModels{text: "  Go in February.  "}
	c := newClient(fake, testConfig())

	resp, err := c.Chat(context.Background(), types.ChatRequest{
		Message:     "When should I visit?",
		Destination: "Yala",
		History: []types.ChatMessage{
			{Role: "user", Content: "Hi"},
			{Role: "assistant", Content: "Hello!"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Go in February.", resp.Reply)

	require.Len(t, fake.contents, 3)
	assert.Equal(t, "user", fake.contents[0].Role)
	assert.Equal(t, "model", fake.contents[1].Role)
	assert.Equal(t, "When should I visit?", fake.contents[2].Parts[0].Text)
	assert.Contains(t, fake.config.SystemInstruction.Parts[0].Text, "Yala")
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), config.AIConfig{})
	assert.Error(t, err)
}

func TestDisabled(t *testing.T) {
	p := Disabled()

	_, err := p.Recommend(context.Background(), types.RecommendationRequest{Destination: "Ella"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = p.Chat(context.Background(), types.ChatRequest{Message: "hi"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
