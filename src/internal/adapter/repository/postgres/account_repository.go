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

const accountColumns = `a.id_account, a.id_user, a.current_balance, s.status_code, s.status_description, a.created_at, a.updated_at`

type AccountRepository struct {
	db dbtx
}

func NewAccountRepository(db dbtx) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"userId": account.UserID,
		"status": account.Status.Description,
	})

	const query = `
INSERT INTO account (
	id_user,
	current_balance,
	status_code
) VALUES ($1, $2, $3)
RETURNING id_account, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.UserID,
		account.Balance,
		account.Status.Code,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt); err != nil {
		logger.Error("account repository create failed", err, logger.Fields{
			"userId": account.UserID,
		})
		if isUniqueViolation(err) {
			return domain.Account{}, fmt.Errorf("user %d already has an account: %w", account.UserID, commons.ErrValidation)
		}
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	logger.Info("account repository create success", logger.Fields{
		"accountId": account.ID,
		"userId":    account.UserID,
	})

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, accountID int64) (domain.Account, error) {
	return r.getOne(ctx, "a.id_account = $1", "", accountID)
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) (domain.Account, error) {
	return r.getOne(ctx, "a.id_user = $1", "", userID)
}

func (r *AccountRepository) LockByID(ctx context.Context, accountID int64) (domain.Account, error) {
	return r.getOne(ctx, "a.id_account = $1", "FOR UPDATE OF a", accountID)
}

func (r *AccountRepository) LockByUserID(ctx context.Context, userID int64) (domain.Account, error) {
	return r.getOne(ctx, "a.id_user = $1", "FOR UPDATE OF a", userID)
}

func (r *AccountRepository) getOne(ctx context.Context, where string, lock string, arg int64) (domain.Account, error) {
	query := `
SELECT ` + accountColumns + `
FROM account a
JOIN account_status s ON s.status_code = a.status_code
WHERE ` + where + `
` + lock

	var account domain.Account
	if err := scanAccount(r.db.QueryRowContext(ctx, query, arg), &account); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				"filter": where,
				"value":  arg,
			})
			return domain.Account{}, commons.ErrAccountNotFound
		}
		logger.Error("account repository get failed", err, logger.Fields{
			"filter": where,
			"value":  arg,
		})
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	return account, nil
}

// Update writes balance and status. The balance CHECK constraint is the last
// line against a negative balance.
func (r *AccountRepository) Update(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository update", logger.Fields{
		"accountId": account.ID,
		"balance":   account.Balance.String(),
		"status":    account.Status.Description,
	})

	const query = `
UPDATE account
SET current_balance = $2,
    status_code = $3,
    updated_at = NOW()
WHERE id_account = $1
RETURNING updated_at`

	if err := r.db.QueryRowContext(ctx, query, account.ID, account.Balance, account.Status.Code).Scan(&account.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, commons.ErrAccountNotFound
		}
		logger.Error("account repository update failed", err, logger.Fields{
			"accountId": account.ID,
		})
		if isCheckViolation(err) {
			return domain.Account{}, commons.ErrInsufficientBalance
		}
		return domain.Account{}, fmt.Errorf("update account: %w", err)
	}

	logger.Info("account repository update success", logger.Fields{
		"accountId": account.ID,
	})

	return account, nil
}

func scanAccount(row rowScanner, account *domain.Account) error {
	return row.Scan(
		&account.ID,
		&account.UserID,
		&account.Balance,
		&account.Status.Code,
		&account.Status.Description,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
}

type AccountStatusRepository struct {
	db dbtx
}

func NewAccountStatusRepository(db dbtx) *AccountStatusRepository {
	return &AccountStatusRepository{db: db}
}

func (r *AccountStatusRepository) GetAll(ctx context.Context) ([]domain.AccountStatus, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status_code, status_description FROM account_status ORDER BY status_code`)
	if err != nil {
		logger.Error("account status repository get all failed", err, nil)
		return nil, fmt.Errorf("get account statuses: %w", err)
	}
	defer rows.Close()

	statuses := make([]domain.AccountStatus, 0)
	for rows.Next() {
		var status domain.AccountStatus
		if err := rows.Scan(&status.Code, &status.Description); err != nil {
			return nil, fmt.Errorf("scan account status: %w", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account statuses: %w", err)
	}

	return statuses, nil
}
