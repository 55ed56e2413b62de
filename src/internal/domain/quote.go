package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Quote struct {
	Symbol   string
	Price    decimal.Decimal
	AsOf     time.Time
	Fallback bool
}

// QuoteProvider returns the current market price of a stock. It feeds wallet
// valuation and the optional trade price guard, never balances.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}
