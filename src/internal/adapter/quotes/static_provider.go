package quotes

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

var _ domain.QuoteProvider = (*StaticProvider)(nil)

// DefaultFallbackPrice is served for symbols without a configured price.
var DefaultFallbackPrice = decimal.RequireFromString("100.00")

// StaticProvider serves configured prices. Unknown symbols get the fallback
// price flagged as such, the same way a live feed degrades to mock data.
type StaticProvider struct {
	mu       sync.RWMutex
	prices   map[string]decimal.Decimal
	fallback decimal.Decimal
	now      func() time.Time
}

func NewStaticProvider(prices map[string]decimal.Decimal, fallback decimal.Decimal) *StaticProvider {
	normalized := make(map[string]decimal.Decimal, len(prices))
	for symbol, price := range prices {
		normalized[normalizeSymbol(symbol)] = price
	}
	if !fallback.IsPositive() {
		fallback = DefaultFallbackPrice
	}

	return &StaticProvider{
		prices:   normalized,
		fallback: fallback,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ParsePrices reads "AAPL=189.50,MSFT=410.10" into a price table.
func ParsePrices(raw string) (map[string]decimal.Decimal, error) {
	prices := map[string]decimal.Decimal{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		symbol, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("quote %q must be SYMBOL=PRICE", pair)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil || !price.IsPositive() {
			return nil, fmt.Errorf("quote %q has an invalid price", pair)
		}
		prices[normalizeSymbol(symbol)] = price
	}
	return prices, nil
}

func (p *StaticProvider) Set(symbol string, price decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prices[normalizeSymbol(symbol)] = price
}

func (p *StaticProvider) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return domain.Quote{}, err
	}

	symbol = normalizeSymbol(symbol)
	p.mu.RLock()
	price, ok := p.prices[symbol]
	p.mu.RUnlock()

	if !ok {
		logger.Info("static quote provider fallback price used", logger.Fields{
			"symbol": symbol,
			"price":  p.fallback.String(),
		})
		return domain.Quote{Symbol: symbol, Price: p.fallback, AsOf: p.now(), Fallback: true}, nil
	}

	return domain.Quote{Symbol: symbol, Price: price, AsOf: p.now()}, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
