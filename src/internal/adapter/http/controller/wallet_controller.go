package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/brokerage-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/usecase/service_interfaces"
)

type WalletController struct {
	wallet   service_interfaces.WalletService
	currency domain.Currency
}

func NewWalletController(wallet service_interfaces.WalletService, currency domain.Currency) *WalletController {
	return &WalletController{wallet: wallet, currency: currency}
}

func (c *WalletController) RegisterRoutes(r chi.Router) {
	r.Route("/wallet", func(r chi.Router) {
		r.Get("/", c.getWallet)
		r.Get("/{stockId}/quantity", c.getQuantity)
	})
}

func (c *WalletController) getWallet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	positions, err := c.wallet.Wallet(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeFailure[[]models.WalletResponse](w, r, err, start)
		return
	}

	writeSuccess(w, r, http.StatusOK, "Wallet retrieved successfully", models.NewWalletResponses(positions, c.currency), start)
}

func (c *WalletController) getQuantity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	stockID, err := strconv.ParseInt(chi.URLParam(r, "stockId"), 10, 64)
	if err != nil || stockID <= 0 {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.StockQuantityResponse]("validation failed", "stockId must be a positive integer")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	quantity, err := c.wallet.StockQuantity(r.Context(), middleware.IdentityFrom(r.Context()), stockID)
	if err != nil {
		writeFailure[models.StockQuantityResponse](w, r, err, start)
		return
	}

	writeSuccess(w, r, http.StatusOK, "Stock quantity retrieved successfully",
		models.StockQuantityResponse{StockID: stockID, Quantity: quantity}, start)
}
