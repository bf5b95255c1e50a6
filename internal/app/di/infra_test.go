package di_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk/internal/app/di"
)

func clearInfraEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"REDIS_URL", "REDIS_HOST", "REDIS_PORT", "CATALOG_DB_DSN", "RUN_MIGRATIONS",
		"GEMINI_API_KEY", "GOOGLE_API_KEY", "GOOGLE_GENAI_USE_VERTEXAI", "SYMBOL_CATALOG_PATH"} {
		t.Setenv(k, "")
	}
}

func TestNewInfra(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantDB     bool
		wantChecks []string
	}{
		{
			name:       "success: nothing configured",
			wantChecks: []string{"yahoo"},
		},
		{
			name:       "success: catalog database is opened and migrated",
			env:        map[string]string{"RUN_MIGRATIONS": "true"},
			wantDB:     true,
			wantChecks: []string{"catalog_db", "yahoo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearInfraEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.wantDB {
				// a file database so every pooled connection sees the migrated tables
				t.Setenv("CATALOG_DB_DSN", filepath.Join(t.TempDir(), "catalog.db"))
			}
			ctx := context.Background()

			deps, cleanup, err := di.NewInfra(ctx)
			require.NoError(t, err)
			defer cleanup()

			assert.Nil(t, deps.Redis)
			assert.NotNil(t, deps.Metrics)
			assert.Equal(t, tt.wantDB, deps.DB != nil)
			assert.Equal(t, tt.wantDB, deps.RunMigrations)

			c, err := di.NewContainer(ctx, deps)
			require.NoError(t, err)
			checks := c.HealthChecks()
			names := make([]string, 0, len(checks))
			for name, check := range checks {
				names = append(names, name)
				assert.NoError(t, check(ctx), name)
			}
			assert.ElementsMatch(t, tt.wantChecks, names)

			syms, err := c.Symbols.ListSymbols(ctx, "tw")
			require.NoError(t, err)
			assert.NotEmpty(t, syms)
		})
	}
}
