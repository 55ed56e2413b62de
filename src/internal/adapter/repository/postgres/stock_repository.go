package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

type StockRepository struct {
	db dbtx
}

func NewStockRepository(db dbtx) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) GetByID(ctx context.Context, stockID int64) (domain.Stock, error) {
	var stock domain.Stock
	if err := r.db.QueryRowContext(ctx, `SELECT id_stock, stock_name FROM stock WHERE id_stock = $1`, stockID).Scan(&stock.ID, &stock.Symbol); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Stock{}, commons.ErrStockNotFound
		}
		logger.Error("stock repository get failed", err, logger.Fields{"stockId": stockID})
		return domain.Stock{}, fmt.Errorf("get stock: %w", err)
	}

	return stock, nil
}

func (r *StockRepository) GetBySymbol(ctx context.Context, symbol string) (domain.Stock, error) {
	var stock domain.Stock
	if err := r.db.QueryRowContext(ctx, `SELECT id_stock, stock_name FROM stock WHERE UPPER(stock_name) = UPPER($1)`, symbol).Scan(&stock.ID, &stock.Symbol); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Stock{}, commons.ErrStockNotFound
		}
		logger.Error("stock repository get by symbol failed", err, logger.Fields{"symbol": symbol})
		return domain.Stock{}, fmt.Errorf("get stock by symbol: %w", err)
	}

	return stock, nil
}

func (r *StockRepository) Register(ctx context.Context, symbol string) (domain.Stock, error) {
	const query = `
INSERT INTO stock (stock_name) VALUES ($1)
ON CONFLICT (stock_name) DO UPDATE SET stock_name = EXCLUDED.stock_name
RETURNING id_stock, stock_name`

	var stock domain.Stock
	if err := r.db.QueryRowContext(ctx, query, symbol).Scan(&stock.ID, &stock.Symbol); err != nil {
		logger.Error("stock repository register failed", err, logger.Fields{"symbol": symbol})
		return domain.Stock{}, fmt.Errorf("register stock: %w", err)
	}

	logger.Info("stock repository registered stock", logger.Fields{"stockId": stock.ID, "symbol": stock.Symbol})
	return stock, nil
}

func (r *StockRepository) GetAll(ctx context.Context) ([]domain.Stock, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_stock, stock_name FROM stock ORDER BY id_stock`)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()

	stocks := make([]domain.Stock, 0)
	for rows.Next() {
		var stock domain.Stock
		if err := rows.Scan(&stock.ID, &stock.Symbol); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		stocks = append(stocks, stock)
	}

	return stocks, rows.Err()
}

type StockPositionRepository struct {
	db dbtx
}

func NewStockPositionRepository(db dbtx) *StockPositionRepository {
	return &StockPositionRepository{db: db}
}

func (r *StockPositionRepository) GetQuantity(ctx context.Context, accountID int64, stockID int64) (int64, error) {
	const query = `
SELECT quantity
FROM stock_item
WHERE id_account = $1
  AND id_stock = $2`

	var quantity int64
	if err := r.db.QueryRowContext(ctx, query, accountID, stockID).Scan(&quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		logger.Error("stock position repository get quantity failed", err, logger.Fields{
			"accountId": accountID,
			"stockId":   stockID,
		})
		return 0, fmt.Errorf("get stock position quantity: %w", err)
	}

	return quantity, nil
}

func (r *StockPositionRepository) HasOpenPosition(ctx context.Context, accountID int64) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM stock_item
	WHERE id_account = $1
	  AND quantity > 0
)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&exists); err != nil {
		logger.Error("stock position repository has open position failed", err, logger.Fields{
			"accountId": accountID,
		})
		return false, fmt.Errorf("check open stock positions: %w", err)
	}

	return exists, nil
}

func (r *StockPositionRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.StockPosition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_account, id_stock, quantity FROM stock_item WHERE id_account = $1 ORDER BY id_stock`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list stock positions: %w", err)
	}
	defer rows.Close()

	positions := make([]domain.StockPosition, 0)
	for rows.Next() {
		var position domain.StockPosition
		if err := rows.Scan(&position.AccountID, &position.StockID, &position.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock position: %w", err)
		}
		positions = append(positions, position)
	}

	return positions, rows.Err()
}

// Apply increments through an upsert and decrements through a guarded
// UPDATE, so a decrease can never take the row below zero.
func (r *StockPositionRepository) Apply(ctx context.Context, accountID int64, stockID int64, delta int64) (domain.StockPosition, error) {
	logger.Info("stock position repository apply", logger.Fields{
		"accountId": accountID,
		"stockId":   stockID,
		"delta":     delta,
	})

	position := domain.StockPosition{AccountID: accountID, StockID: stockID}

	if delta >= 0 {
		const upsert = `
INSERT INTO stock_item (id_account, id_stock, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (id_account, id_stock)
DO UPDATE SET quantity = stock_item.quantity + EXCLUDED.quantity
RETURNING quantity`

		if err := r.db.QueryRowContext(ctx, upsert, accountID, stockID, delta).Scan(&position.Quantity); err != nil {
			logger.Error("stock position repository increase failed", err, logger.Fields{
				"accountId": accountID,
				"stockId":   stockID,
			})
			if isForeignKeyViolation(err) {
				return domain.StockPosition{}, commons.ErrStockNotFound
			}
			return domain.StockPosition{}, fmt.Errorf("increase stock position: %w", err)
		}
		return position, nil
	}

	const decrease = `
UPDATE stock_item
SET quantity = quantity + $3
WHERE id_account = $1
  AND id_stock = $2
  AND quantity + $3 >= 0
RETURNING quantity`

	if err := r.db.QueryRowContext(ctx, decrease, accountID, stockID, delta).Scan(&position.Quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isCheckViolation(err) {
			logger.Info("stock position repository negative quantity rejected", logger.Fields{
				"accountId": accountID,
				"stockId":   stockID,
				"delta":     delta,
			})
			return domain.StockPosition{}, commons.ErrNegativeQuantity
		}
		logger.Error("stock position repository decrease failed", err, logger.Fields{
			"accountId": accountID,
			"stockId":   stockID,
		})
		return domain.StockPosition{}, fmt.Errorf("decrease stock position: %w", err)
	}

	return position, nil
}
