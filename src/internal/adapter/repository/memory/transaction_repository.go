package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type transactionRepository struct {
	store *Store
	tx    *txState
}

func (r *transactionRepository) Create(_ context.Context, transaction domain.StockTransaction) (domain.StockTransaction, error) {
	if r.tx == nil {
		return domain.StockTransaction{}, errOutsideUnitOfWork
	}
	if _, held := r.tx.held[transaction.AccountID]; !held {
		return domain.StockTransaction{}, errAccountNotLocked
	}

	transaction.ID = r.store.allocate("stock_transaction")
	if transaction.Reference == "" {
		transaction.Reference = uuid.NewString()
	}
	if transaction.ExecutedAt.IsZero() {
		transaction.ExecutedAt = r.store.timestamp()
	}

	r.tx.transactions = append(r.tx.transactions, transaction)
	return transaction, nil
}

func (r *transactionRepository) ListByAccount(_ context.Context, accountID int64, limit int) ([]domain.StockTransaction, error) {
	r.store.mu.RLock()
	out := make([]domain.StockTransaction, 0)
	for _, transaction := range r.store.transactions {
		if transaction.AccountID == accountID {
			out = append(out, transaction)
		}
	}
	r.store.mu.RUnlock()

	sortTransactionsNewestFirst(out)
	return capAt(out, limit), nil
}

func (r *transactionRepository) ListRecent(_ context.Context, limit int) ([]domain.StockTransaction, error) {
	r.store.mu.RLock()
	out := make([]domain.StockTransaction, len(r.store.transactions))
	copy(out, r.store.transactions)
	r.store.mu.RUnlock()

	sortTransactionsNewestFirst(out)
	return capAt(out, limit), nil
}
