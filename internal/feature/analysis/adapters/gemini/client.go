// Package gemini はGoogle Gemini APIを使用した要約生成クライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"

	"tradedesk/internal/feature/analysis/domain/entity"
	"tradedesk/internal/feature/analysis/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// ContentGenerator は genai.Models のうち本クライアントが使うメソッドです。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator はGoogle検索グラウンディング付きで要約を生成します。
type GeminiGenerator struct {
	models ContentGenerator
	cfg    Config
}

// GeminiGeneratorがGeneratorを実装していることをコンパイル時に検証します。
var _ usecase.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator は設定に従って genai クライアントを作成します。
// APIキーがない場合は Vertex AI（ADC）を使用し、
// 環境変数 GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION が必要です。
func NewGeminiGenerator(ctx context.Context, cfg Config) (*GeminiGenerator, error) {
	var cc *genai.ClientConfig
	if cfg.APIKey != "" {
		cc = &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return NewGeminiGeneratorWith(client.Models, cfg), nil
}

// NewGeminiGeneratorWith は任意の ContentGenerator を使う GeminiGenerator を作成します。
func NewGeminiGeneratorWith(models ContentGenerator, cfg Config) *GeminiGenerator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &GeminiGenerator{models: models, cfg: cfg}
}

// Generate はシステムプロンプトとプロンプトから要約を生成します。
// 429 と 5xx は指数バックオフでリトライし、それ以外は即座に失敗します。
func (g *GeminiGenerator) Generate(ctx context.Context, systemPrompt, prompt string) (*entity.Insight, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		Temperature:       genai.Ptr[float32](0.3),
	}

	var resp *genai.GenerateContentResponse
	op := func() error {
		var err error
		resp, err = g.models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), config)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		slog.WarnContext(ctx, "gemini request failed, retrying", "error", err, "wait", wait)
	}
	if err := backoff.RetryNotify(op, g.policy(ctx), notify); err != nil {
		return nil, fmt.Errorf("gemini API request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, errors.New("gemini returned an empty response")
	}
	model := resp.ModelVersion
	if model == "" {
		model = g.cfg.Model
	}
	return &entity.Insight{Model: model, Text: text, Sources: sources(resp)}, nil
}

func (g *GeminiGenerator) policy(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	if g.cfg.InitialInterval > 0 {
		b.InitialInterval = g.cfg.InitialInterval
	}
	b.MaxElapsedTime = g.cfg.MaxElapsed
	var bo backoff.BackOff = b
	if g.cfg.MaxRetries > 0 {
		bo = backoff.WithMaxRetries(b, g.cfg.MaxRetries)
	}
	return backoff.WithContext(bo, ctx)
}

// retryable は一時的な失敗かどうかを判定します。
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	// ネットワークエラーなど
	return true
}

// sources はグラウンディングで引用された Web ページを重複なく取り出します。
func sources(resp *genai.GenerateContentResponse) []entity.Source {
	out := []entity.Source{}
	seen := map[string]bool{}
	for _, c := range resp.Candidates {
		if c == nil || c.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range c.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
				continue
			}
			seen[chunk.Web.URI] = true
			title := chunk.Web.Title
			if title == "" {
				title = chunk.Web.Domain
			}
			out = append(out, entity.Source{Title: title, URI: chunk.Web.URI})
		}
	}
	return out
}
