package repo_interfaces

import (
	"context"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

// AccountRepository reads and writes accounts. The Lock variants take a
// row-level write lock held until the enclosing unit of work ends; outside a
// unit of work they behave like the Get variants.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, accountID int64) (domain.Account, error)
	GetByUserID(ctx context.Context, userID int64) (domain.Account, error)
	LockByID(ctx context.Context, accountID int64) (domain.Account, error)
	LockByUserID(ctx context.Context, userID int64) (domain.Account, error)
	Update(ctx context.Context, account domain.Account) (domain.Account, error)
}

type AccountStatusRepository interface {
	GetAll(ctx context.Context) ([]domain.AccountStatus, error)
}
