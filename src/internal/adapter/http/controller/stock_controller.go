package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/brokerage-ledger/src/internal/usecase/service_interfaces"
)

type StockController struct {
	stocks service_interfaces.StockService
}

func NewStockController(stocks service_interfaces.StockService) *StockController {
	return &StockController{stocks: stocks}
}

func (c *StockController) RegisterRoutes(r chi.Router) {
	r.Route("/stocks", func(r chi.Router) {
		r.Get("/", c.listStocks)
		r.Get("/{symbol}", c.getStock)
	})
}

func (c *StockController) listStocks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	stocks, err := c.stocks.List(r.Context())
	if err != nil {
		writeFailure[[]models.StockResponse](w, r, err, start)
		return
	}

	writeSuccess(w, r, http.StatusOK, "Stocks retrieved successfully", models.NewStockResponses(stocks), start)
}

func (c *StockController) getStock(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	stock, err := c.stocks.Lookup(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		writeFailure[models.StockResponse](w, r, err, start)
		return
	}

	writeSuccess(w, r, http.StatusOK, "Stock retrieved successfully", models.NewStockResponse(stock), start)
}
