package quotes

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProviderQuote(t *testing.T) {
	provider := NewStaticProvider(map[string]decimal.Decimal{
		"aapl": decimal.RequireFromString("189.50"),
	}, decimal.RequireFromString("42"))

	quote, err := provider.Quote(context.Background(), " AAPL ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("189.50")))
	assert.False(t, quote.Fallback)

	quote, err = provider.Quote(context.Background(), "nvda")
	require.NoError(t, err)
	assert.Equal(t, "NVDA", quote.Symbol)
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(42)))
	assert.True(t, quote.Fallback)
}

func TestStaticProviderDefaultsFallback(t *testing.T) {
	provider := NewStaticProvider(nil, decimal.Zero)

	quote, err := provider.Quote(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.True(t, quote.Price.Equal(DefaultFallbackPrice))
}

func TestStaticProviderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStaticProvider(nil, decimal.Zero).Quote(ctx, "MSFT")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParsePrices(t *testing.T) {
	prices, err := ParsePrices("AAPL=189.50, msft=410.10,")
	require.NoError(t, err)
	assert.Len(t, prices, 2)
	assert.True(t, prices["MSFT"].Equal(decimal.RequireFromString("410.10")))

	_, err = ParsePrices("AAPL")
	assert.Error(t, err)

	_, err = ParsePrices("AAPL=-1")
	assert.Error(t, err)
}
