package repo_interfaces

import "context"

// Repositories groups the repositories bound to one storage scope: either a
// single transaction or the shared connection pool.
type Repositories struct {
	Accounts     AccountRepository
	Statuses     AccountStatusRepository
	Movements    MovementRepository
	Stocks       StockRepository
	Positions    StockPositionRepository
	Transactions StockTransactionRepository
	Users        UserRepository
}

// UnitOfWork runs fn inside one storage transaction. A nil return commits;
// any error rolls back every write fn made.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// Store is the full persistence port: transactional writes plus
// non-transactional reads.
type Store interface {
	UnitOfWork
	Repositories() Repositories
}
