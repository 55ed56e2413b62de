package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type StockResponse struct {
	StockID  int64           `json:"stockId"`
	Symbol   string          `json:"symbol"`
	Price    decimal.Decimal `json:"price"`
	AsOf     string          `json:"asOf"`
	Fallback bool            `json:"fallback"`
}

func NewStockResponse(stock domain.StockQuote) StockResponse {
	return StockResponse{
		StockID:  stock.StockID,
		Symbol:   stock.Symbol,
		Price:    stock.Price,
		AsOf:     stock.AsOf.Format(time.RFC3339),
		Fallback: stock.Fallback,
	}
}

func NewStockResponses(stocks []domain.StockQuote) []StockResponse {
	out := make([]StockResponse, 0, len(stocks))
	for _, stock := range stocks {
		out = append(out, NewStockResponse(stock))
	}
	return out
}
