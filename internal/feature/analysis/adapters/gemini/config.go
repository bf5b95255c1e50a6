package gemini

import (
	"os"
	"strconv"
	"time"
)

// Config は Gemini クライアントの設定です。
type Config struct {
	APIKey    string
	Model     string
	UseVertex bool
	// MaxElapsed はリトライを含めた1リクエストの上限時間です。
	MaxElapsed time.Duration
	MaxRetries uint64
	// InitialInterval は最初のリトライまでの待ち時間です。
	InitialInterval time.Duration
}

// LoadConfig は環境変数から設定を読み込みます。
// GEMINI_API_KEY（または GOOGLE_API_KEY）か GOOGLE_GENAI_USE_VERTEXAI=true のどちらかが必要です。
func LoadConfig() Config {
	cfg := Config{
		APIKey:     os.Getenv("GEMINI_API_KEY"),
		Model:      os.Getenv("GEMINI_MODEL"),
		MaxElapsed: 45 * time.Second,
		MaxRetries: 4,
		// 503 (model overloaded) はしばらく待てば解消することが多い
		InitialInterval: time.Second,
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if v, err := strconv.ParseBool(os.Getenv("GOOGLE_GENAI_USE_VERTEXAI")); err == nil {
		cfg.UseVertex = v
	}
	if d, err := time.ParseDuration(os.Getenv("GEMINI_TIMEOUT")); err == nil && d > 0 {
		cfg.MaxElapsed = d
	}
	return cfg
}

// Enabled は認証情報が設定されているかを返します。
func (c Config) Enabled() bool {
	return c.APIKey != "" || c.UseVertex
}
