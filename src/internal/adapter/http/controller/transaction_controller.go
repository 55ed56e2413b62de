package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/brokerage-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/usecase/service_interfaces"
)

type TransactionController struct {
	trades service_interfaces.TradeService
}

func NewTransactionController(trades service_interfaces.TradeService) *TransactionController {
	return &TransactionController{trades: trades}
}

func (c *TransactionController) RegisterRoutes(r chi.Router) {
	r.Route("/transactions", func(r chi.Router) {
		r.Post("/buy", c.buy)
		r.Post("/sell", c.sell)
		r.Get("/getAll", c.listTransactions)
	})
}

func (c *TransactionController) buy(w http.ResponseWriter, r *http.Request) {
	c.trade(w, r, "Buy executed successfully", c.trades.Buy)
}

func (c *TransactionController) sell(w http.ResponseWriter, r *http.Request) {
	c.trade(w, r, "Sell executed successfully", c.trades.Sell)
}

type tradeFunc func(ctx context.Context, owner domain.Identity, stockID int64, quantity int64, unitPrice decimal.Decimal) (domain.StockTransaction, error)

func (c *TransactionController) trade(w http.ResponseWriter, r *http.Request, message string, execute tradeFunc) {
	start := time.Now()

	var req models.StockTransactionRequest
	if !bind[models.StockTransactionResponse](w, r, start, &req) {
		return
	}

	transaction, err := execute(r.Context(), middleware.IdentityFrom(r.Context()), req.StockID, req.Quantity, req.Value)
	if err != nil {
		writeFailure[models.StockTransactionResponse](w, r, err, start)
		return
	}

	writeSuccess(w, r, http.StatusCreated, message, models.NewStockTransactionResponse(transaction), start)
}

func (c *TransactionController) listTransactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	transactions, err := c.trades.ListVisible(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeFailure[[]models.StockTransactionResponse](w, r, err, start)
		return
	}

	writeSuccess(w, r, http.StatusOK, "Transactions retrieved successfully",
		models.NewStockTransactionResponses(transactions), start)
}
