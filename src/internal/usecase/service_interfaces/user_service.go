package service_interfaces

import (
	"context"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type UserService interface {
	Register(ctx context.Context, req domain.Registration) (domain.User, domain.Account, error)
	UserInfo(ctx context.Context, caller domain.Identity) (domain.UserInfo, error)
}

// Authenticator resolves request credentials to a caller identity.
type Authenticator interface {
	Authenticate(ctx context.Context, email string, password string) (domain.Identity, error)
}
