package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementTypeDeposit MovementType = "DEPOSIT"
	MovementTypeRescue  MovementType = "RESCUE"
)

// Code is the movement_type row seeded by the initial migration.
func (t MovementType) Code() int {
	switch t {
	case MovementTypeDeposit:
		return 1
	case MovementTypeRescue:
		return 2
	default:
		return 0
	}
}

func ParseMovementType(description string) (MovementType, error) {
	switch t := MovementType(strings.ToUpper(strings.TrimSpace(description))); t {
	case MovementTypeDeposit, MovementTypeRescue:
		return t, nil
	default:
		return "", fmt.Errorf("unknown movement type %q", description)
	}
}

// Movement is an append-only record of a cash change. Amount is always
// positive; Type carries the direction.
type Movement struct {
	ID        int64
	Reference string
	AccountID int64
	Amount    decimal.Decimal
	Type      MovementType
	CreatedAt time.Time
}
