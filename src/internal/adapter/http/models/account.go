package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type AccountStatusUpdateRequest struct {
	NewStatus string `json:"newStatus"`
}

func (r AccountStatusUpdateRequest) Validate() error {
	if strings.TrimSpace(r.NewStatus) == "" {
		return errors.New("newStatus is required")
	}
	return nil
}

type AccountResponse struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"userId"`
	Status         string          `json:"status"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	DisplayBalance string          `json:"displayBalance"`
	UpdatedAt      string          `json:"updatedAt"`
}

func NewAccountResponse(account domain.Account, currency domain.Currency) AccountResponse {
	return AccountResponse{
		ID:             account.ID,
		UserID:         account.UserID,
		Status:         account.Status.Description,
		CurrentBalance: account.Balance,
		DisplayBalance: currency.Format(account.Balance),
		UpdatedAt:      account.UpdatedAt.Format(time.RFC3339),
	}
}
