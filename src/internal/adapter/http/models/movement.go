package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type MovementRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r MovementRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	return nil
}

type MovementResponse struct {
	ID        int64           `json:"id"`
	Reference string          `json:"reference"`
	AccountID int64           `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	DateTime  string          `json:"dateTime"`
}

func NewMovementResponse(movement domain.Movement) MovementResponse {
	return MovementResponse{
		ID:        movement.ID,
		Reference: movement.Reference,
		AccountID: movement.AccountID,
		Amount:    movement.Amount,
		Type:      string(movement.Type),
		DateTime:  movement.CreatedAt.Format(time.RFC3339Nano),
	}
}

func NewMovementResponses(movements []domain.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movements))
	for _, movement := range movements {
		out = append(out, NewMovementResponse(movement))
	}
	return out
}
