package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
	"github.com/api-sage/brokerage-ledger/src/internal/metrics"
	"github.com/api-sage/brokerage-ledger/src/internal/usecase/service_interfaces"
)

var _ service_interfaces.TradeService = (*TradeService)(nil)

// VisibleLimit caps every transaction or movement listing.
const VisibleLimit = 200

// TradeService is the transaction engine. A trade updates the balance, the
// position and the transaction record in one unit of work, or none of them.
type TradeService struct {
	store   repo_interfaces.Store
	ledger  *LedgerService
	guard   *PriceGuard
	metrics *metrics.Ledger
}

func NewTradeService(
	store repo_interfaces.Store,
	ledger *LedgerService,
	guard *PriceGuard,
	ledgerMetrics *metrics.Ledger,
) *TradeService {
	return &TradeService{
		store:   store,
		ledger:  ledger,
		guard:   guard,
		metrics: ledgerMetrics,
	}
}

func (s *TradeService) Buy(ctx context.Context, owner domain.Identity, stockID int64, quantity int64, unitPrice decimal.Decimal) (domain.StockTransaction, error) {
	return s.trade(ctx, metrics.OperationBuy, domain.TransactionTypeBuy, owner, stockID, quantity, unitPrice)
}

func (s *TradeService) Sell(ctx context.Context, owner domain.Identity, stockID int64, quantity int64, unitPrice decimal.Decimal) (domain.StockTransaction, error) {
	return s.trade(ctx, metrics.OperationSell, domain.TransactionTypeSell, owner, stockID, quantity, unitPrice)
}

func (s *TradeService) trade(
	ctx context.Context,
	operation string,
	transactionType domain.TransactionType,
	owner domain.Identity,
	stockID int64,
	quantity int64,
	unitPrice decimal.Decimal,
) (transaction domain.StockTransaction, err error) {
	started := time.Now()
	defer func() { s.metrics.Observe(operation, started, err) }()

	logger.Info("trade service request", logger.Fields{
		"type":      transactionType,
		"stockId":   stockID,
		"quantity":  quantity,
		"unitPrice": unitPrice.String(),
	})

	client, err := clientOf(owner)
	if err != nil {
		return domain.StockTransaction{}, err
	}
	if quantity <= 0 {
		return domain.StockTransaction{}, commons.ErrInvalidQuantity
	}
	if err := s.ledger.validateAmount(unitPrice); err != nil {
		return domain.StockTransaction{}, err
	}

	stock, err := s.store.Repositories().Stocks.GetByID(ctx, stockID)
	if err != nil {
		return domain.StockTransaction{}, err
	}
	if err := s.guard.Check(ctx, stock.Symbol, unitPrice); err != nil {
		return domain.StockTransaction{}, err
	}

	total := unitPrice.Mul(decimal.NewFromInt(quantity))
	if !s.ledger.currency.Storable(total) {
		return domain.StockTransaction{}, fmt.Errorf("trade total exceeds the ledger limit: %w", commons.ErrInvalidAmount)
	}

	err = s.store.Do(ctx, func(ctx context.Context, repos repo_interfaces.Repositories) error {
		account, err := s.ledger.lockActive(ctx, repos, client)
		if err != nil {
			return err
		}

		switch transactionType {
		case domain.TransactionTypeBuy:
			if _, err := s.ledger.debit(ctx, repos, account, total); err != nil {
				return err
			}
			if _, err := repos.Positions.Apply(ctx, account.ID, stock.ID, quantity); err != nil {
				return err
			}
		case domain.TransactionTypeSell:
			held, err := repos.Positions.GetQuantity(ctx, account.ID, stock.ID)
			if err != nil {
				return err
			}
			if held < quantity {
				return commons.ErrInsufficientHoldings
			}
			if _, err := repos.Positions.Apply(ctx, account.ID, stock.ID, -quantity); err != nil {
				return err
			}
			if _, err := s.ledger.credit(ctx, repos, account, total); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown transaction type %q", transactionType)
		}

		transaction, err = repos.Transactions.Create(ctx, domain.StockTransaction{
			AccountID: account.ID,
			StockID:   stock.ID,
			UnitPrice: unitPrice,
			Quantity:  quantity,
			Type:      transactionType,
		})
		return err
	})
	if err != nil {
		logFailure("trade service failed", err, logger.Fields{
			"type":    transactionType,
			"userId":  client.UserID,
			"stockId": stockID,
		})
		return domain.StockTransaction{}, err
	}

	transaction.StockSymbol = stock.Symbol

	logger.Info("trade service success", logger.Fields{
		"type":      transactionType,
		"accountId": transaction.AccountID,
		"reference": transaction.Reference,
		"total":     total.String(),
	})
	return transaction, nil
}

// ListVisible returns the newest transactions the caller may see: its own
// for a client, everyone's for an admin.
func (s *TradeService) ListVisible(ctx context.Context, caller domain.Identity) ([]domain.StockTransaction, error) {
	repos := s.store.Repositories()

	var (
		transactions []domain.StockTransaction
		err          error
	)
	switch id := caller.(type) {
	case domain.Client:
		account, accErr := s.ledger.AccountOf(ctx, id)
		if accErr != nil {
			return nil, accErr
		}
		transactions, err = repos.Transactions.ListByAccount(ctx, account.ID, VisibleLimit)
	case domain.Admin:
		transactions, err = repos.Transactions.ListRecent(ctx, VisibleLimit)
	default:
		return nil, commons.ErrUnsupportedRole
	}
	if err != nil {
		logger.Error("trade service list visible failed", err, nil)
		return nil, err
	}

	return s.withSymbols(ctx, repos, transactions)
}

func (s *TradeService) withSymbols(ctx context.Context, repos repo_interfaces.Repositories, transactions []domain.StockTransaction) ([]domain.StockTransaction, error) {
	if len(transactions) == 0 {
		return transactions, nil
	}

	stocks, err := repos.Stocks.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	symbols := make(map[int64]string, len(stocks))
	for _, stock := range stocks {
		symbols[stock.ID] = stock.Symbol
	}
	for i := range transactions {
		transactions[i].StockSymbol = symbols[transactions[i].StockID]
	}
	return transactions, nil
}
