package commons

import "errors"

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidState
	KindInsufficientFunds
	KindInvalidArgument
	KindIntegrityConflict
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidState:
		return "INVALID_STATE"
	case KindInsufficientFunds:
		return "INSUFFICIENT_FUNDS"
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindIntegrityConflict:
		return "INTEGRITY_CONFLICT"
	case KindForbidden:
		return "FORBIDDEN"
	default:
		return "INTERNAL"
	}
}

// Error is a ledger failure with a stable kind. Sentinels below are compared
// with errors.Is, so callers add detail by wrapping them.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrAccountNotFound = newError(KindNotFound, "Account not found")
	ErrStockNotFound   = newError(KindNotFound, "Stock not found")
	ErrStatusNotFound  = newError(KindNotFound, "Account status not found")
	ErrUserNotFound    = newError(KindNotFound, "User not found")

	ErrAccountNotActive   = newError(KindInvalidState, "Account is not active")
	ErrAlreadyClosed      = newError(KindInvalidState, "Account is already closed")
	ErrAccountClosed      = newError(KindInvalidState, "Closed accounts cannot change status")
	ErrHasActivePositions = newError(KindInvalidState, "Account has active stock positions")
	ErrNonZeroBalance     = newError(KindInvalidState, "Account balance must be zero")

	ErrInsufficientBalance  = newError(KindInsufficientFunds, "Insufficient balance")
	ErrInsufficientHoldings = newError(KindInsufficientFunds, "Insufficient stock holdings")
	ErrNegativeQuantity     = newError(KindInsufficientFunds, "Stock quantity cannot become negative")

	ErrInvalidAmount   = newError(KindInvalidArgument, "Amount must be greater than zero")
	ErrInvalidQuantity = newError(KindInvalidArgument, "Quantity must be greater than zero")
	ErrUnsupportedRole = newError(KindInvalidArgument, "Unsupported role")
	ErrPriceOutOfBand  = newError(KindInvalidArgument, "Unit price is outside the accepted market band")
	ErrValidation      = newError(KindInvalidArgument, "Validation failed")
	ErrEmailTaken      = newError(KindInvalidArgument, "Email is already registered")

	ErrIntegrityConflict  = newError(KindIntegrityConflict, "Concurrent update conflict, retry the operation")
	ErrInvalidCredentials = newError(KindForbidden, "Invalid credentials")
	ErrForbidden          = newError(KindForbidden, "Operation not allowed for this caller")
)

// KindOf classifies err. Anything outside the taxonomy is internal.
func KindOf(err error) Kind {
	var ledgerErr *Error
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Kind
	}
	return KindInternal
}

// PublicMessage returns the message safe to show a client.
func PublicMessage(err error) string {
	var ledgerErr *Error
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Message
	}
	return "Unable to process request right now"
}
