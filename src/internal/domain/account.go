package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountStatusActive  = "ACTIVE"
	AccountStatusBlocked = "BLOCKED"
	AccountStatusClosed  = "CLOSED"
)

// AccountStatus is immutable reference data loaded from account_status.
type AccountStatus struct {
	Code        int
	Description string
}

func (s AccountStatus) IsActive() bool { return s.Description == AccountStatusActive }
func (s AccountStatus) IsClosed() bool { return s.Description == AccountStatusClosed }

// Account owns the cash balance of one user. Balance only changes through
// movements and stock transactions and never drops below zero.
type Account struct {
	ID        int64
	UserID    int64
	Balance   decimal.Decimal
	Status    AccountStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
