package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

var _ repo_interfaces.Store = (*Store)(nil)

const defaultMaxAttempts = 3

// Store runs units of work as READ COMMITTED transactions. Mutators lock the
// account row with SELECT ... FOR UPDATE, so checks and writes on one account
// never interleave while other accounts proceed in parallel.
type Store struct {
	db          *sql.DB
	maxAttempts int
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, maxAttempts: defaultMaxAttempts}
}

func (s *Store) Repositories() repo_interfaces.Repositories {
	return bind(s.db)
}

func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos repo_interfaces.Repositories) error) error {
	return retryUnit(s.maxAttempts, func() error {
		return s.runOnce(ctx, fn)
	})
}

// retryUnit runs one unit of work up to attempts times while it fails with a
// retryable conflict. Numeric overflow means the amount cannot be stored.
func retryUnit(attempts int, run func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = run()
		if err == nil {
			return nil
		}
		if isNumericOutOfRange(err) {
			return fmt.Errorf("%w: %v", commons.ErrInvalidAmount, err)
		}
		if !isRetryable(err) {
			return err
		}

		logger.Info("postgres unit of work retrying after conflict", logger.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		})
	}

	return fmt.Errorf("%w: %v", commons.ErrIntegrityConflict, err)
}

func (s *Store) runOnce(ctx context.Context, fn func(ctx context.Context, repos repo_interfaces.Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Error("postgres unit of work rollback failed", rbErr, nil)
			}
		}
	}()

	if err = fn(ctx, bind(tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}

	return nil
}

func bind(db dbtx) repo_interfaces.Repositories {
	return repo_interfaces.Repositories{
		Accounts:     NewAccountRepository(db),
		Statuses:     NewAccountStatusRepository(db),
		Movements:    NewMovementRepository(db),
		Stocks:       NewStockRepository(db),
		Positions:    NewStockPositionRepository(db),
		Transactions: NewStockTransactionRepository(db),
		Users:        NewUserRepository(db),
	}
}
