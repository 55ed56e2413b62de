package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
	"github.com/api-sage/brokerage-ledger/src/internal/usecase/service_interfaces"
)

var _ service_interfaces.StockService = (*StockService)(nil)

const maxSymbolLength = 20

type StockService struct {
	store  repo_interfaces.Store
	quotes domain.QuoteProvider
}

func NewStockService(store repo_interfaces.Store, quotes domain.QuoteProvider) *StockService {
	return &StockService{store: store, quotes: quotes}
}

// List returns every listed stock with its current quote, ordered by id.
func (s *StockService) List(ctx context.Context) ([]domain.StockQuote, error) {
	stocks, err := s.store.Repositories().Stocks.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.StockQuote, len(stocks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQuotes)
	for i, stock := range stocks {
		i, stock := i, stock
		g.Go(func() error {
			quote, err := s.quotes.Quote(gctx, stock.Symbol)
			if err != nil {
				return fmt.Errorf("quote %s: %w", stock.Symbol, err)
			}
			out[i] = stockQuote(stock, quote)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("stock service list failed", err, nil)
		return nil, err
	}

	return out, nil
}

// Lookup resolves symbol to its stock id and current quote. A symbol not yet
// listed is registered when the provider has a real quote for it; symbols
// only known through the fallback price are reported as not found.
func (s *StockService) Lookup(ctx context.Context, symbol string) (domain.StockQuote, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return domain.StockQuote{}, err
	}

	quote, err := s.quotes.Quote(ctx, symbol)
	if err != nil {
		logger.Error("stock service quote failed", err, logger.Fields{"symbol": symbol})
		return domain.StockQuote{}, fmt.Errorf("quote %s: %w", symbol, err)
	}

	stocks := s.store.Repositories().Stocks
	stock, err := stocks.GetBySymbol(ctx, symbol)
	switch {
	case err == nil:
	case errors.Is(err, commons.ErrStockNotFound) && !quote.Fallback:
		stock, err = stocks.Register(ctx, symbol)
		if err != nil {
			return domain.StockQuote{}, err
		}
		logger.Info("stock service registered symbol", logger.Fields{
			"stockId": stock.ID,
			"symbol":  stock.Symbol,
		})
	default:
		return domain.StockQuote{}, err
	}

	return stockQuote(stock, quote), nil
}

func normalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" || len(symbol) > maxSymbolLength {
		return "", fmt.Errorf("symbol must be 1 to %d characters: %w", maxSymbolLength, commons.ErrValidation)
	}
	for _, r := range symbol {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '.' || r == '-') {
			return "", fmt.Errorf("symbol %q has invalid characters: %w", symbol, commons.ErrValidation)
		}
	}
	return symbol, nil
}

func stockQuote(stock domain.Stock, quote domain.Quote) domain.StockQuote {
	return domain.StockQuote{
		StockID:  stock.ID,
		Symbol:   stock.Symbol,
		Price:    quote.Price,
		AsOf:     quote.AsOf,
		Fallback: quote.Fallback,
	}
}
