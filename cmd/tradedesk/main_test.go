package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk/internal/app/di"
	"tradedesk/internal/feature/marketdata/usecase"
	"tradedesk/internal/feature/symbolcatalog/transport/http/dto"
)

// run executes the CLI without Redis and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "")
	t.Setenv("SYMBOL_CATALOG_PATH", "")

	orig := containerFactory
	t.Cleanup(func() { containerFactory = orig })
	containerFactory = func(ctx context.Context) (*di.Container, func(), error) {
		c, err := di.NewContainer(ctx, di.Deps{})
		return c, func() {}, err
	}

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSymbolsCmd(t *testing.T) {
	t.Run("success: search by code", func(t *testing.T) {
		out, err := run(t, "symbols", "--category", "tw", "--query", "2330")
		require.NoError(t, err)

		var items []dto.SymbolItem
		require.NoError(t, json.Unmarshal([]byte(out), &items))
		require.Len(t, items, 1)
		assert.Equal(t, "2330.TW", items[0].Code)
		assert.Equal(t, "台積電", items[0].Name)
	})

	t.Run("success: categories", func(t *testing.T) {
		out, err := run(t, "symbols", "--categories")
		require.NoError(t, err)

		var items []dto.CategoryItem
		require.NoError(t, json.Unmarshal([]byte(out), &items))
		keys := make([]string, 0, len(items))
		for _, c := range items {
			keys = append(keys, c.Key)
		}
		assert.Equal(t, []string{"us", "tw", "crypto"}, keys)
	})

	t.Run("error: unknown category", func(t *testing.T) {
		_, err := run(t, "symbols", "--category", "fx")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown category")
	})
}

func TestAnalyzeCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "error: missing symbol", args: []string{"analyze"}, wantErr: "accepts 1 arg(s)"},
		{name: "error: invalid symbol", args: []string{"analyze", "$$$"}, wantErr: "invalid symbol"},
		{name: "error: unknown side", args: []string{"analyze", "AAPL", "--side", "sideways"}, wantErr: "side"},
		{name: "error: non-finite institutional net", args: []string{"analyze", "AAPL", "--inst-net", "NaN"}, wantErr: "--inst-net"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWarmCmd_InvalidSymbolIsReported(t *testing.T) {
	out, err := run(t, "warm", "$$$", "--timeframes", "1d")
	require.Error(t, err)

	var res usecase.WarmResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, usecase.WarmResult{Failed: 1}, res)
}

func TestWarmCmd_RefreshValidatesBeforeFetching(t *testing.T) {
	out, err := run(t, "warm", "$$$", "--refresh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid symbol")
	assert.Empty(t, out, "no fetch runs when invalidation fails")
}

func TestContainerFactory_OpensCatalogDB(t *testing.T) {
	for _, k := range []string{"REDIS_URL", "REDIS_HOST", "REDIS_PORT", "GEMINI_API_KEY", "GOOGLE_API_KEY", "GOOGLE_GENAI_USE_VERTEXAI", "SYMBOL_CATALOG_PATH"} {
		t.Setenv(k, "")
	}
	t.Setenv("CATALOG_DB_DSN", filepath.Join(t.TempDir(), "catalog.db"))
	t.Setenv("RUN_MIGRATIONS", "true")

	c, cleanup, err := containerFactory(context.Background())
	require.NoError(t, err)
	defer cleanup()

	assert.Contains(t, c.HealthChecks(), "catalog_db")
	syms, err := c.Symbols.ListSymbols(context.Background(), "crypto")
	require.NoError(t, err)
	assert.NotEmpty(t, syms)
}
