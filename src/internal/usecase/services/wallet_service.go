package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
	"github.com/api-sage/brokerage-ledger/src/internal/usecase/service_interfaces"
)

var _ service_interfaces.WalletService = (*WalletService)(nil)

const maxConcurrentQuotes = 8

type WalletService struct {
	store  repo_interfaces.Store
	ledger *LedgerService
	quotes domain.QuoteProvider
}

func NewWalletService(store repo_interfaces.Store, ledger *LedgerService, quotes domain.QuoteProvider) *WalletService {
	return &WalletService{store: store, ledger: ledger, quotes: quotes}
}

// Wallet values every open position of the owner, fetching quotes
// concurrently. Positions come back ordered by stock id.
func (s *WalletService) Wallet(ctx context.Context, owner domain.Identity) ([]domain.WalletPosition, error) {
	account, err := s.ledger.AccountOf(ctx, owner)
	if err != nil {
		return nil, err
	}

	repos := s.store.Repositories()
	positions, err := repos.Positions.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	stocks, err := repos.Stocks.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	symbols := make(map[int64]string, len(stocks))
	for _, stock := range stocks {
		symbols[stock.ID] = stock.Symbol
	}

	open := make([]domain.StockPosition, 0, len(positions))
	for _, position := range positions {
		if position.IsOpen() {
			open = append(open, position)
		}
	}

	currency := s.ledger.Currency()
	wallet := make([]domain.WalletPosition, len(open))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQuotes)
	for i, position := range open {
		i, position := i, position
		g.Go(func() error {
			symbol := symbols[position.StockID]
			quote, err := s.quotes.Quote(gctx, symbol)
			if err != nil {
				return fmt.Errorf("quote %s: %w", symbol, err)
			}

			wallet[i] = domain.WalletPosition{
				StockID:       position.StockID,
				Symbol:        symbol,
				Quantity:      position.Quantity,
				Price:         quote.Price,
				MarketValue:   currency.Round(quote.Price.Mul(decimal.NewFromInt(position.Quantity))),
				FallbackQuote: quote.Fallback,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("wallet service valuation failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return nil, err
	}

	logger.Info("wallet service valuation success", logger.Fields{
		"accountId": account.ID,
		"positions": len(wallet),
	})
	return wallet, nil
}

// StockQuantity returns how many units of stockID the owner holds, 0 when it
// never traded the stock.
func (s *WalletService) StockQuantity(ctx context.Context, owner domain.Identity, stockID int64) (int64, error) {
	account, err := s.ledger.AccountOf(ctx, owner)
	if err != nil {
		return 0, err
	}

	repos := s.store.Repositories()
	if _, err := repos.Stocks.GetByID(ctx, stockID); err != nil {
		return 0, err
	}
	return repos.Positions.GetQuantity(ctx, account.ID, stockID)
}
