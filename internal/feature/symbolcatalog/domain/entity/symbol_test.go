package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferCategory(t *testing.T) {
	t.Parallel()

	tests := map[string]Category{
		"AAPL":     CategoryUS,
		"2330.TW":  CategoryTW,
		"6488.two": CategoryTW,
		"^TWII":    CategoryTW,
		"^GSPC":    CategoryUS,
		"BTC-USD":  CategoryCrypto,
		"eth-usd":  CategoryCrypto,
	}
	for code, want := range tests {
		assert.Equal(t, want, InferCategory(code), code)
	}
}

func TestSymbol_Matches(t *testing.T) {
	t.Parallel()

	s := Symbol{Code: "2330.TW", Name: "台積電", Keywords: []string{"2330", "TSMC"}}
	assert.True(t, s.Matches(""))
	assert.True(t, s.Matches("2330"))
	assert.True(t, s.Matches("TSMC"))
	assert.True(t, s.Matches("積電"))
	assert.False(t, s.Matches("AAPL"))
}
