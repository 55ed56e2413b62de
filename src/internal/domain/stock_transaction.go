package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

func (t TransactionType) Code() int {
	switch t {
	case TransactionTypeBuy:
		return 1
	case TransactionTypeSell:
		return 2
	default:
		return 0
	}
}

func ParseTransactionType(description string) (TransactionType, error) {
	switch t := TransactionType(strings.ToUpper(strings.TrimSpace(description))); t {
	case TransactionTypeBuy, TransactionTypeSell:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", description)
	}
}

// StockTransaction is the write-once record of a trade. StockSymbol is
// filled in for display and is not persisted.
type StockTransaction struct {
	ID          int64
	Reference   string
	AccountID   int64
	StockID     int64
	StockSymbol string
	UnitPrice   decimal.Decimal
	Quantity    int64
	Type        TransactionType
	ExecutedAt  time.Time
}

func (t StockTransaction) TotalValue() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(t.Quantity))
}
