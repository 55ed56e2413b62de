package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

// StockTransactionRequest carries the negotiated unit price in Value.
type StockTransactionRequest struct {
	StockID  int64           `json:"stockId"`
	Quantity int64           `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

func (r StockTransactionRequest) Validate() error {
	var errs []string

	if r.StockID <= 0 {
		errs = append(errs, "stockId is required")
	}
	if r.Quantity <= 0 {
		errs = append(errs, "quantity must be greater than zero")
	}
	if !r.Value.IsPositive() {
		errs = append(errs, "value must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type StockTransactionResponse struct {
	TransactionID       int64           `json:"transactionId"`
	Reference           string          `json:"reference"`
	TransactionType     string          `json:"transactionType"`
	TransactionTypeID   int             `json:"transactionTypeId"`
	StockID             int64           `json:"stockId"`
	StockSymbol         string          `json:"stockSymbol"`
	Quantity            int64           `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"value"`
	TotalValue          decimal.Decimal `json:"totalValue"`
	TransactionDateTime string          `json:"transactionDateTime"`
}

func NewStockTransactionResponse(transaction domain.StockTransaction) StockTransactionResponse {
	return StockTransactionResponse{
		TransactionID:       transaction.ID,
		Reference:           transaction.Reference,
		TransactionType:     string(transaction.Type),
		TransactionTypeID:   transaction.Type.Code(),
		StockID:             transaction.StockID,
		StockSymbol:         transaction.StockSymbol,
		Quantity:            transaction.Quantity,
		UnitPrice:           transaction.UnitPrice,
		TotalValue:          transaction.TotalValue(),
		TransactionDateTime: transaction.ExecutedAt.Format(time.RFC3339Nano),
	}
}

func NewStockTransactionResponses(transactions []domain.StockTransaction) []StockTransactionResponse {
	out := make([]StockTransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		out = append(out, NewStockTransactionResponse(transaction))
	}
	return out
}
