package domain

// Identity is the authenticated caller of a ledger operation. It is one of
// Client or Admin and is passed explicitly into every service call.
type Identity interface {
	Subject() int64
	isIdentity()
}

// Client carries the account the caller owns.
type Client struct {
	UserID    int64
	AccountID int64
}

type Admin struct {
	UserID int64
}

func (c Client) Subject() int64 { return c.UserID }
func (Client) isIdentity() {}

func (a Admin) Subject() int64 { return a.UserID }
func (Admin) isIdentity() {}
