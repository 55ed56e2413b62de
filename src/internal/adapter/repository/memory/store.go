package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

var _ repo_interfaces.Store = (*Store)(nil)

type positionKey struct {
	accountID int64
	stockID   int64
}

// Store keeps the ledger in process memory. Units of work serialise on a
// per-account mutex and stage their writes until commit, so a failed unit
// leaves no trace and accounts proceed in parallel.
type Store struct {
	mu           sync.RWMutex
	seq          map[string]int64
	statuses     []domain.AccountStatus
	stocks       map[int64]domain.Stock
	users        map[int64]domain.User
	accounts     map[int64]domain.Account
	positions    map[positionKey]int64
	movements    []domain.Movement
	transactions []domain.StockTransaction

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex

	now func() time.Time
}

// NewStore returns a store seeded with the same reference data as the
// initial SQL migration.
func NewStore() *Store {
	s := &Store{
		seq:       map[string]int64{},
		stocks:    map[int64]domain.Stock{},
		users:     map[int64]domain.User{},
		accounts:  map[int64]domain.Account{},
		positions: map[positionKey]int64{},
		locks:     map[int64]*sync.Mutex{},
		now:       func() time.Time { return time.Now().UTC() },
	}

	s.statuses = []domain.AccountStatus{
		{Code: 1, Description: domain.AccountStatusActive},
		{Code: 2, Description: domain.AccountStatusBlocked},
		{Code: 3, Description: domain.AccountStatusClosed},
	}
	for _, symbol := range DefaultStockSymbols {
		id := s.next("stock")
		s.stocks[id] = domain.Stock{ID: id, Symbol: symbol}
	}

	return s
}

// DefaultStockSymbols mirrors the stock seed rows of the initial migration.
var DefaultStockSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA"}

// SetClock replaces the timestamp source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Repositories() repo_interfaces.Repositories {
	return s.bind(nil)
}

func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos repo_interfaces.Repositories) error) error {
	tx := newTxState()
	defer s.release(tx)

	if err := fn(ctx, s.bind(tx)); err != nil {
		return err
	}

	return s.commit(tx)
}

func (s *Store) bind(tx *txState) repo_interfaces.Repositories {
	return repo_interfaces.Repositories{
		Accounts:     &accountRepository{store: s, tx: tx},
		Statuses:     &accountStatusRepository{store: s},
		Movements:    &movementRepository{store: s, tx: tx},
		Stocks:       &stockRepository{store: s},
		Positions:    &positionRepository{store: s, tx: tx},
		Transactions: &transactionRepository{store: s, tx: tx},
		Users:        &userRepository{store: s, tx: tx},
	}
}

// next must be called with s.mu held for writing.
func (s *Store) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *Store) allocate(table string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next(table)
}

func (s *Store) timestamp() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

func (s *Store) accountLock(accountID int64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[accountID] = lock
	}
	return lock
}

func (s *Store) lock(tx *txState, accountID int64) {
	if _, held := tx.held[accountID]; held {
		return
	}
	lock := s.accountLock(accountID)
	lock.Lock()
	tx.held[accountID] = lock
}

func (s *Store) release(tx *txState) {
	for _, lock := range tx.held {
		lock.Unlock()
	}
	tx.held = nil
}

func (s *Store) commit(tx *txState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range tx.users {
		for _, existing := range s.users {
			if strings.EqualFold(existing.Email, user.Email) {
				return commons.ErrEmailTaken
			}
		}
	}

	for _, user := range tx.users {
		s.users[user.ID] = user
	}
	for id, account := range tx.accounts {
		s.accounts[id] = account
	}
	for key, quantity := range tx.positions {
		s.positions[key] = quantity
	}
	s.movements = append(s.movements, tx.movements...)
	s.transactions = append(s.transactions, tx.transactions...)

	if len(tx.movements)+len(tx.transactions) > 0 {
		logger.Info("memory store commit", logger.Fields{
			"accounts":     len(tx.accounts),
			"movements":    len(tx.movements),
			"transactions": len(tx.transactions),
		})
	}

	return nil
}

type txState struct {
	held         map[int64]*sync.Mutex
	users        []domain.User
	accounts     map[int64]domain.Account
	positions    map[positionKey]int64
	movements    []domain.Movement
	transactions []domain.StockTransaction
}

func newTxState() *txState {
	return &txState{
		held:      map[int64]*sync.Mutex{},
		accounts:  map[int64]domain.Account{},
		positions: map[positionKey]int64{},
	}
}

func sortMovementsNewestFirst(movements []domain.Movement) {
	sort.SliceStable(movements, func(i, j int) bool {
		if movements[i].CreatedAt.Equal(movements[j].CreatedAt) {
			return movements[i].ID > movements[j].ID
		}
		return movements[i].CreatedAt.After(movements[j].CreatedAt)
	})
}

func sortTransactionsNewestFirst(transactions []domain.StockTransaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		if transactions[i].ExecutedAt.Equal(transactions[j].ExecutedAt) {
			return transactions[i].ID > transactions[j].ID
		}
		return transactions[i].ExecutedAt.After(transactions[j].ExecutedAt)
	})
}

func capAt[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
