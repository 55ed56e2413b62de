package memory

import (
	"context"
	"strings"

	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type userRepository struct {
	store *Store
	tx    *txState
}

func (r *userRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if r.tx == nil {
		return domain.User{}, errOutsideUnitOfWork
	}
	if _, err := r.GetByEmail(ctx, user.Email); err == nil {
		return domain.User{}, commons.ErrEmailTaken
	}

	user.ID = r.store.allocate("users")
	user.CreatedAt = r.store.timestamp()
	r.tx.users = append(r.tx.users, user)
	return user, nil
}

func (r *userRepository) GetByID(_ context.Context, userID int64) (domain.User, error) {
	if r.tx != nil {
		for _, staged := range r.tx.users {
			if staged.ID == userID {
				return staged, nil
			}
		}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[userID]
	if !ok {
		return domain.User{}, commons.ErrUserNotFound
	}
	return user, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if r.tx != nil {
		for _, staged := range r.tx.users {
			if strings.EqualFold(staged.Email, email) {
				return staged, nil
			}
		}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, user := range r.store.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return domain.User{}, commons.ErrUserNotFound
}
