package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type movementRepository struct {
	store *Store
	tx    *txState
}

func (r *movementRepository) Create(_ context.Context, movement domain.Movement) (domain.Movement, error) {
	if r.tx == nil {
		return domain.Movement{}, errOutsideUnitOfWork
	}
	if _, held := r.tx.held[movement.AccountID]; !held {
		return domain.Movement{}, errAccountNotLocked
	}

	movement.ID = r.store.allocate("movement")
	if movement.Reference == "" {
		movement.Reference = uuid.NewString()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = r.store.timestamp()
	}

	r.tx.movements = append(r.tx.movements, movement)
	return movement, nil
}

func (r *movementRepository) ListByAccount(_ context.Context, accountID int64) ([]domain.Movement, error) {
	r.store.mu.RLock()
	out := make([]domain.Movement, 0)
	for _, movement := range r.store.movements {
		if movement.AccountID == accountID {
			out = append(out, movement)
		}
	}
	r.store.mu.RUnlock()

	if r.tx != nil {
		for _, movement := range r.tx.movements {
			if movement.AccountID == accountID {
				out = append(out, movement)
			}
		}
	}

	return out, nil
}

func (r *movementRepository) ListRecent(_ context.Context, limit int) ([]domain.Movement, error) {
	r.store.mu.RLock()
	out := make([]domain.Movement, len(r.store.movements))
	copy(out, r.store.movements)
	r.store.mu.RUnlock()

	sortMovementsNewestFirst(out)
	return capAt(out, limit), nil
}
