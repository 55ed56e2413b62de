package domain

import "github.com/shopspring/decimal"

// WalletPosition values an open position at the current quote. It is a
// display projection and never feeds the ledger.
type WalletPosition struct {
	StockID       int64
	Symbol        string
	Quantity      int64
	Price         decimal.Decimal
	MarketValue   decimal.Decimal
	FallbackQuote bool
}
