package gemini_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"tradedesk/internal/feature/analysis/adapters/gemini"
	"tradedesk/internal/feature/analysis/domain/entity"
)

// fakeModels は呼び出しごとに responses / errs を順に返します。
type fakeModels struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	calls     int
	lastModel string
	lastCfg   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	i := f.calls
	f.calls++
	f.lastModel, f.lastCfg = model, config
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return f.responses[len(f.responses)-1], nil
}

func textResponse(text string, webs ...*genai.GroundingChunkWeb) *genai.GenerateContentResponse {
	var chunks []*genai.GroundingChunk
	for _, w := range webs {
		chunks = append(chunks, &genai.GroundingChunk{Web: w})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:           genai.NewContentFromText(text, genai.RoleModel),
			GroundingMetadata: &genai.GroundingMetadata{GroundingChunks: chunks},
		}},
	}
}

func testConfig() gemini.Config {
	return gemini.Config{
		APIKey:          "test",
		MaxElapsed:      time.Second,
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
	}
}

func TestGeminiGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		models      *fakeModels
		wantText    string
		wantSources []entity.Source
		wantCalls   int
		wantErr     string
	}{
		{
			name: "success: text with deduplicated sources",
			models: &fakeModels{responses: []*genai.GenerateContentResponse{textResponse("  趨勢偏多  ",
				&genai.GroundingChunkWeb{Title: "Reuters", URI: "https://reuters.example/a"},
				&genai.GroundingChunkWeb{Title: "Reuters", URI: "https://reuters.example/a"},
				&genai.GroundingChunkWeb{Domain: "cnyes.example", URI: "https://cnyes.example/b"},
			)}},
			wantText: "趨勢偏多",
			wantSources: []entity.Source{
				{Title: "Reuters", URI: "https://reuters.example/a"},
				{Title: "cnyes.example", URI: "https://cnyes.example/b"},
			},
			wantCalls: 1,
		},
		{
			name: "success: retries 503 then succeeds",
			models: &fakeModels{
				errs:      []error{genai.APIError{Code: 503, Message: "overloaded"}, genai.APIError{Code: 429}},
				responses: []*genai.GenerateContentResponse{nil, nil, textResponse("ok")},
			},
			wantText:    "ok",
			wantSources: []entity.Source{},
			wantCalls:   3,
		},
		{
			name: "error: 400 is not retried",
			models: &fakeModels{
				errs: []error{genai.APIError{Code: 400, Message: "bad request"}},
			},
			wantCalls: 1,
			wantErr:   "gemini API request failed",
		},
		{
			name: "error: gives up after max retries",
			models: &fakeModels{
				errs: []error{errors.New("reset"), errors.New("reset"), errors.New("reset"), errors.New("reset"), errors.New("reset")},
			},
			wantCalls: 4,
			wantErr:   "reset",
		},
		{
			name:      "error: empty response",
			models:    &fakeModels{responses: []*genai.GenerateContentResponse{textResponse("")}},
			wantCalls: 1,
			wantErr:   "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gemini.NewGeminiGeneratorWith(tt.models, testConfig())

			got, err := g.Generate(ctx, "system", "prompt")
			assert.Equal(t, tt.wantCalls, tt.models.calls)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, gemini.DefaultModel, got.Model)
			assert.Equal(t, tt.wantSources, got.Sources)

			require.NotNil(t, tt.models.lastCfg)
			require.Len(t, tt.models.lastCfg.Tools, 1)
			assert.NotNil(t, tt.models.lastCfg.Tools[0].GoogleSearch)
			assert.Equal(t, gemini.DefaultModel, tt.models.lastModel)
		})
	}
}

func TestGeminiGenerator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	models := &fakeModels{errs: []error{context.Canceled}}
	g := gemini.NewGeminiGeneratorWith(models, testConfig())

	_, err := g.Generate(ctx, "system", "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, models.calls, 1)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "")
	t.Setenv("GEMINI_MODEL", "")

	cfg := gemini.LoadConfig()
	assert.False(t, cfg.Enabled())
	assert.Equal(t, gemini.DefaultModel, cfg.Model)

	t.Setenv("GOOGLE_API_KEY", "k")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	cfg = gemini.LoadConfig()
	assert.True(t, cfg.Enabled())
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)

	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "true")
	assert.True(t, gemini.LoadConfig().Enabled())
}
