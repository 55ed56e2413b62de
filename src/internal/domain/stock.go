package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stock struct {
	ID     int64
	Symbol string
}

// StockPosition is keyed by (AccountID, StockID).
type StockPosition struct {
	AccountID int64
	StockID   int64
	Quantity  int64
}

func (p StockPosition) IsOpen() bool { return p.Quantity > 0 }

// StockQuote pairs a listed stock with its current quote so clients can find
// the id to trade by symbol.
type StockQuote struct {
	StockID  int64
	Symbol   string
	Price    decimal.Decimal
	AsOf     time.Time
	Fallback bool
}
