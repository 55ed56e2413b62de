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

type MovementController struct {
	ledger  service_interfaces.LedgerService
	history service_interfaces.HistoryService
}

func NewMovementController(ledger service_interfaces.LedgerService, history service_interfaces.HistoryService) *MovementController {
	return &MovementController{ledger: ledger, history: history}
}

func (c *MovementController) RegisterRoutes(r chi.Router) {
	r.Route("/movements", func(r chi.Router) {
		r.Post("/deposit", c.deposit)
		r.Post("/rescue", c.rescue)
		r.Get("/history", c.listHistory)
	})
}

func (c *MovementController) deposit(w http.ResponseWriter, r *http.Request) {
	c.move(w, r, "Deposit completed successfully", c.ledger.Deposit)
}

func (c *MovementController) rescue(w http.ResponseWriter, r *http.Request) {
	c.move(w, r, "Rescue completed successfully", c.ledger.Withdraw)
}

type moveFunc func(ctx context.Context, owner domain.Identity, amount decimal.Decimal) (domain.Movement, error)

func (c *MovementController) move(w http.ResponseWriter, r *http.Request, message string, apply moveFunc) {
	start := time.Now()

	var req models.MovementRequest
	if !bind[models.MovementResponse](w, r, start, &req) {
		return
	}

	movement, err := apply(r.Context(), middleware.IdentityFrom(r.Context()), req.Amount)
	if err != nil {
		writeFailure[models.MovementResponse](w, r, err, start)
		return
	}

	writeSuccess(w, r, http.StatusCreated, message, models.NewMovementResponse(movement), start)
}

func (c *MovementController) listHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	movements, err := c.history.History(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeFailure[[]models.MovementResponse](w, r, err, start)
		return
	}

	writeSuccess(w, r, http.StatusOK, "Movements retrieved successfully", models.NewMovementResponses(movements), start)
}
