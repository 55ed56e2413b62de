package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

const transactionColumns = `st.id_transaction, st.reference, st.id_account, st.id_stock, st.negotiation_price, st.quantity, tt.type_description, st.transaction_date_time`

type StockTransactionRepository struct {
	db dbtx
}

func NewStockTransactionRepository(db dbtx) *StockTransactionRepository {
	return &StockTransactionRepository{db: db}
}

func (r *StockTransactionRepository) Create(ctx context.Context, transaction domain.StockTransaction) (domain.StockTransaction, error) {
	if transaction.Reference == "" {
		transaction.Reference = uuid.NewString()
	}

	logger.Info("stock transaction repository create", logger.Fields{
		"accountId": transaction.AccountID,
		"stockId":   transaction.StockID,
		"type":      transaction.Type,
		"quantity":  transaction.Quantity,
		"unitPrice": transaction.UnitPrice.String(),
		"reference": transaction.Reference,
	})

	const query = `
INSERT INTO stock_transaction (
	reference,
	id_account,
	id_stock,
	negotiation_price,
	quantity,
	type_code
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id_transaction, transaction_date_time`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		transaction.Reference,
		transaction.AccountID,
		transaction.StockID,
		transaction.UnitPrice,
		transaction.Quantity,
		transaction.Type.Code(),
	).Scan(&transaction.ID, &transaction.ExecutedAt); err != nil {
		logger.Error("stock transaction repository create failed", err, logger.Fields{
			"accountId": transaction.AccountID,
			"reference": transaction.Reference,
		})
		return domain.StockTransaction{}, fmt.Errorf("create stock transaction: %w", err)
	}

	return transaction, nil
}

func (r *StockTransactionRepository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]domain.StockTransaction, error) {
	const query = `
SELECT ` + transactionColumns + `
FROM stock_transaction st
JOIN transaction_type tt ON tt.type_code = st.type_code
WHERE st.id_account = $1
ORDER BY st.transaction_date_time DESC, st.id_transaction DESC
LIMIT $2`

	return r.list(ctx, query, accountID, limit)
}

func (r *StockTransactionRepository) ListRecent(ctx context.Context, limit int) ([]domain.StockTransaction, error) {
	const query = `
SELECT ` + transactionColumns + `
FROM stock_transaction st
JOIN transaction_type tt ON tt.type_code = st.type_code
ORDER BY st.transaction_date_time DESC, st.id_transaction DESC
LIMIT $1`

	return r.list(ctx, query, limit)
}

func (r *StockTransactionRepository) list(ctx context.Context, query string, args ...any) ([]domain.StockTransaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("stock transaction repository list failed", err, nil)
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.StockTransaction, 0)
	for rows.Next() {
		var (
			transaction domain.StockTransaction
			description string
		)
		if err := rows.Scan(
			&transaction.ID,
			&transaction.Reference,
			&transaction.AccountID,
			&transaction.StockID,
			&transaction.UnitPrice,
			&transaction.Quantity,
			&description,
			&transaction.ExecutedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}

		transaction.Type, err = domain.ParseTransactionType(description)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock transactions: %w", err)
	}

	return transactions, nil
}
