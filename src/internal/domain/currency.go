package domain

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Ledger amounts are stored as NUMERIC(20,2): two minor-unit digits and
// eighteen integer digits.
const (
	MaxFraction      int32 = 2
	maxIntegerDigits int32 = 18
)

var maxStoredValue = decimal.New(1, maxIntegerDigits)

// Currency fixes the minor-unit precision every amount and price on the
// ledger must respect.
type Currency struct {
	Code     string
	Fraction int32
}

func NewCurrency(code string) (Currency, error) {
	c := money.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
	if c == nil {
		return Currency{}, fmt.Errorf("unsupported currency %q", code)
	}
	if int32(c.Fraction) > MaxFraction {
		return Currency{}, fmt.Errorf("currency %s uses %d decimal places, the ledger stores at most %d", c.Code, c.Fraction, MaxFraction)
	}
	return Currency{Code: c.Code, Fraction: int32(c.Fraction)}, nil
}

// Fits reports whether value carries no digits below the minor unit.
func (c Currency) Fits(value decimal.Decimal) bool {
	return value.Equal(value.Truncate(c.Fraction))
}

// Storable reports whether value fits the ledger's integer digits.
func (c Currency) Storable(value decimal.Decimal) bool {
	return value.Abs().LessThan(maxStoredValue)
}

func (c Currency) Round(value decimal.Decimal) decimal.Decimal {
	return value.Round(c.Fraction)
}

// Format renders value with the currency symbol, e.g. "$1,000.00".
func (c Currency) Format(value decimal.Decimal) string {
	minor := c.Round(value).Shift(c.Fraction).IntPart()
	return money.New(minor, c.Code).Display()
}
