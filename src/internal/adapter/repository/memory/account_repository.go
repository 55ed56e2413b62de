package memory

import (
	"context"
	"fmt"

	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type accountRepository struct {
	store *Store
	tx    *txState
}

func (r *accountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	if r.tx == nil {
		return domain.Account{}, errOutsideUnitOfWork
	}

	if _, err := r.GetByUserID(context.Background(), account.UserID); err == nil {
		return domain.Account{}, fmt.Errorf("user %d already has an account: %w", account.UserID, commons.ErrValidation)
	}

	account.ID = r.store.allocate("account")
	now := r.store.timestamp()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.store.lock(r.tx, account.ID)
	r.tx.accounts[account.ID] = account
	return account, nil
}

func (r *accountRepository) GetByID(_ context.Context, accountID int64) (domain.Account, error) {
	if r.tx != nil {
		if staged, ok := r.tx.accounts[accountID]; ok {
			return staged, nil
		}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	account, ok := r.store.accounts[accountID]
	if !ok {
		return domain.Account{}, commons.ErrAccountNotFound
	}
	return account, nil
}

func (r *accountRepository) GetByUserID(ctx context.Context, userID int64) (domain.Account, error) {
	if r.tx != nil {
		for _, staged := range r.tx.accounts {
			if staged.UserID == userID {
				return staged, nil
			}
		}
	}

	r.store.mu.RLock()
	var found *domain.Account
	for _, account := range r.store.accounts {
		if account.UserID == userID {
			a := account
			found = &a
			break
		}
	}
	r.store.mu.RUnlock()

	if found == nil {
		return domain.Account{}, commons.ErrAccountNotFound
	}
	return r.GetByID(ctx, found.ID)
}

func (r *accountRepository) LockByID(ctx context.Context, accountID int64) (domain.Account, error) {
	if _, err := r.GetByID(ctx, accountID); err != nil {
		return domain.Account{}, err
	}
	if r.tx != nil {
		r.store.lock(r.tx, accountID)
	}
	return r.GetByID(ctx, accountID)
}

func (r *accountRepository) LockByUserID(ctx context.Context, userID int64) (domain.Account, error) {
	account, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return domain.Account{}, err
	}
	return r.LockByID(ctx, account.ID)
}

func (r *accountRepository) Update(ctx context.Context, account domain.Account) (domain.Account, error) {
	if r.tx == nil {
		return domain.Account{}, errOutsideUnitOfWork
	}
	if _, held := r.tx.held[account.ID]; !held {
		return domain.Account{}, errAccountNotLocked
	}

	current, err := r.GetByID(ctx, account.ID)
	if err != nil {
		return domain.Account{}, err
	}
	if account.Balance.IsNegative() {
		return domain.Account{}, commons.ErrInsufficientBalance
	}

	current.Balance = account.Balance
	current.Status = account.Status
	current.UpdatedAt = r.store.timestamp()
	r.tx.accounts[current.ID] = current
	return current, nil
}

type accountStatusRepository struct {
	store *Store
}

func (r *accountStatusRepository) GetAll(_ context.Context) ([]domain.AccountStatus, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]domain.AccountStatus, len(r.store.statuses))
	copy(out, r.store.statuses)
	return out, nil
}
