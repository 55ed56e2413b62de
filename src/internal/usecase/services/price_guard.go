package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

var hundred = decimal.NewFromInt(100)

// PriceGuard rejects a submitted unit price that strays from the current
// quote by more than the tolerance. A nil guard accepts every price.
type PriceGuard struct {
	quotes           domain.QuoteProvider
	tolerancePercent decimal.Decimal
}

// NewPriceGuard returns nil when the guard is disabled, so callers keep
// trusting the submitted price.
func NewPriceGuard(quotes domain.QuoteProvider, tolerancePercent decimal.Decimal) *PriceGuard {
	if quotes == nil || !tolerancePercent.IsPositive() {
		return nil
	}
	return &PriceGuard{quotes: quotes, tolerancePercent: tolerancePercent}
}

func (g *PriceGuard) Check(ctx context.Context, symbol string, unitPrice decimal.Decimal) error {
	if g == nil {
		return nil
	}

	quote, err := g.quotes.Quote(ctx, symbol)
	if err != nil {
		logger.Error("price guard quote failed", err, logger.Fields{
			"symbol": symbol,
		})
		return fmt.Errorf("quote %s: %w", symbol, err)
	}

	band := quote.Price.Mul(g.tolerancePercent).Div(hundred)
	if unitPrice.Sub(quote.Price).Abs().GreaterThan(band) {
		logger.Info("price guard rejected unit price", logger.Fields{
			"symbol":    symbol,
			"unitPrice": unitPrice.String(),
			"quote":     quote.Price.String(),
			"tolerance": g.tolerancePercent.String(),
		})
		return fmt.Errorf("%w: %s quoted at %s, submitted %s", commons.ErrPriceOutOfBand, symbol, quote.Price, unitPrice)
	}

	return nil
}
