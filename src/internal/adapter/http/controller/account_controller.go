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

type AccountController struct {
	ledger   service_interfaces.LedgerService
	currency domain.Currency
}

func NewAccountController(ledger service_interfaces.LedgerService, currency domain.Currency) *AccountController {
	return &AccountController{ledger: ledger, currency: currency}
}

func (c *AccountController) RegisterRoutes(r chi.Router) {
	r.Route("/accounts", func(r chi.Router) {
		r.Get("/me", c.getAccount)
		r.Post("/cancel", c.cancel)
		r.Put("/{id}/status", c.updateStatus)
	})
}

func (c *AccountController) getAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	account, err := c.ledger.AccountOf(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeFailure[models.AccountResponse](w, r, err, start)
		return
	}

	writeSuccess(w, r, http.StatusOK, "Account retrieved successfully", models.NewAccountResponse(account, c.currency), start)
}

func (c *AccountController) cancel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	account, err := c.ledger.Close(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeFailure[models.AccountResponse](w, r, err, start)
		return
	}

	writeSuccess(w, r, http.StatusOK, "Account closed successfully", models.NewAccountResponse(account, c.currency), start)
}

func (c *AccountController) updateStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	accountID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || accountID <= 0 {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountResponse]("validation failed", "id must be a positive integer")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	var req models.AccountStatusUpdateRequest
	if !bind[models.AccountResponse](w, r, start, &req) {
		return
	}

	account, err := c.ledger.UpdateStatus(r.Context(), middleware.IdentityFrom(r.Context()), accountID, req.NewStatus)
	if err != nil {
		writeFailure[models.AccountResponse](w, r, err, start)
		return
	}

	writeSuccess(w, r, http.StatusOK, "Account status updated successfully", models.NewAccountResponse(account, c.currency), start)
}
