package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type stockRepository struct {
	store *Store
}

func (r *stockRepository) GetByID(_ context.Context, stockID int64) (domain.Stock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stock, ok := r.store.stocks[stockID]
	if !ok {
		return domain.Stock{}, commons.ErrStockNotFound
	}
	return stock, nil
}

func (r *stockRepository) GetBySymbol(_ context.Context, symbol string) (domain.Stock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if stock, ok := r.store.stockBySymbol(symbol); ok {
		return stock, nil
	}
	return domain.Stock{}, commons.ErrStockNotFound
}

func (r *stockRepository) Register(_ context.Context, symbol string) (domain.Stock, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if stock, ok := r.store.stockBySymbol(symbol); ok {
		return stock, nil
	}
	stock := domain.Stock{ID: r.store.next("stock"), Symbol: symbol}
	r.store.stocks[stock.ID] = stock
	return stock, nil
}

func (r *stockRepository) GetAll(_ context.Context) ([]domain.Stock, error) {
	r.store.mu.RLock()
	out := make([]domain.Stock, 0, len(r.store.stocks))
	for _, stock := range r.store.stocks {
		out = append(out, stock)
	}
	r.store.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type positionRepository struct {
	store *Store
	tx    *txState
}

func (r *positionRepository) GetQuantity(_ context.Context, accountID int64, stockID int64) (int64, error) {
	key := positionKey{accountID: accountID, stockID: stockID}
	if r.tx != nil {
		if staged, ok := r.tx.positions[key]; ok {
			return staged, nil
		}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.positions[key], nil
}

func (r *positionRepository) HasOpenPosition(ctx context.Context, accountID int64) (bool, error) {
	positions, err := r.ListByAccount(ctx, accountID)
	if err != nil {
		return false, err
	}
	for _, position := range positions {
		if position.IsOpen() {
			return true, nil
		}
	}
	return false, nil
}

func (r *positionRepository) ListByAccount(_ context.Context, accountID int64) ([]domain.StockPosition, error) {
	merged := map[int64]int64{}

	r.store.mu.RLock()
	for key, quantity := range r.store.positions {
		if key.accountID == accountID {
			merged[key.stockID] = quantity
		}
	}
	r.store.mu.RUnlock()

	if r.tx != nil {
		for key, quantity := range r.tx.positions {
			if key.accountID == accountID {
				merged[key.stockID] = quantity
			}
		}
	}

	out := make([]domain.StockPosition, 0, len(merged))
	for stockID, quantity := range merged {
		out = append(out, domain.StockPosition{AccountID: accountID, StockID: stockID, Quantity: quantity})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockID < out[j].StockID })
	return out, nil
}

func (r *positionRepository) Apply(ctx context.Context, accountID int64, stockID int64, delta int64) (domain.StockPosition, error) {
	if r.tx == nil {
		return domain.StockPosition{}, errOutsideUnitOfWork
	}
	if _, held := r.tx.held[accountID]; !held {
		return domain.StockPosition{}, errAccountNotLocked
	}

	current, err := r.GetQuantity(ctx, accountID, stockID)
	if err != nil {
		return domain.StockPosition{}, err
	}

	next := current + delta
	if next < 0 {
		return domain.StockPosition{}, commons.ErrNegativeQuantity
	}

	r.tx.positions[positionKey{accountID: accountID, stockID: stockID}] = next
	return domain.StockPosition{AccountID: accountID, StockID: stockID, Quantity: next}, nil
}

// stockBySymbol must be called with s.mu held.
func (s *Store) stockBySymbol(symbol string) (domain.Stock, bool) {
	for _, stock := range s.stocks {
		if strings.EqualFold(stock.Symbol, symbol) {
			return stock, true
		}
	}
	return domain.Stock{}, false
}
