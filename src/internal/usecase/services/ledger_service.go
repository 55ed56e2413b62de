package services

import (
	"context"
	"errors"
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

var _ service_interfaces.LedgerService = (*LedgerService)(nil)

// LedgerService owns account balances and lifecycle. Every mutation runs in
// one unit of work that first locks the account row, so the pre-condition
// check and the write are atomic against other mutators of that account.
type LedgerService struct {
	store    repo_interfaces.Store
	statuses *AccountStatusRegistry
	currency domain.Currency
	metrics  *metrics.Ledger
}

func NewLedgerService(
	store repo_interfaces.Store,
	statuses *AccountStatusRegistry,
	currency domain.Currency,
	ledgerMetrics *metrics.Ledger,
) *LedgerService {
	return &LedgerService{
		store:    store,
		statuses: statuses,
		currency: currency,
		metrics:  ledgerMetrics,
	}
}

func (s *LedgerService) Currency() domain.Currency {
	return s.currency
}

// Open creates the account of userID with a zero balance in ACTIVE status.
func (s *LedgerService) Open(ctx context.Context, userID int64) (account domain.Account, err error) {
	started := time.Now()
	defer func() { s.metrics.Observe(metrics.OperationOpen, started, err) }()

	err = s.store.Do(ctx, func(ctx context.Context, repos repo_interfaces.Repositories) error {
		var openErr error
		account, openErr = s.OpenWithin(ctx, repos, userID)
		return openErr
	})
	if err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// OpenWithin opens the account inside a unit of work owned by the caller.
func (s *LedgerService) OpenWithin(ctx context.Context, repos repo_interfaces.Repositories, userID int64) (domain.Account, error) {
	logger.Info("ledger service open account request", logger.Fields{
		"userId": userID,
	})

	if userID <= 0 {
		return domain.Account{}, fmt.Errorf("owner reference is required: %w", commons.ErrValidation)
	}

	account, err := repos.Accounts.Create(ctx, domain.Account{
		UserID:  userID,
		Balance: decimal.Zero,
		Status:  s.statuses.Active(),
	})
	if err != nil {
		logFailure("ledger service open account failed", err, logger.Fields{
			"userId": userID,
		})
		return domain.Account{}, err
	}

	logger.Info("ledger service open account success", logger.Fields{
		"accountId": account.ID,
		"userId":    userID,
	})
	return account, nil
}

func (s *LedgerService) Deposit(ctx context.Context, owner domain.Identity, amount decimal.Decimal) (domain.Movement, error) {
	return s.move(ctx, metrics.OperationDeposit, domain.MovementTypeDeposit, owner, amount)
}

func (s *LedgerService) Withdraw(ctx context.Context, owner domain.Identity, amount decimal.Decimal) (domain.Movement, error) {
	return s.move(ctx, metrics.OperationWithdraw, domain.MovementTypeRescue, owner, amount)
}

func (s *LedgerService) move(
	ctx context.Context,
	operation string,
	movementType domain.MovementType,
	owner domain.Identity,
	amount decimal.Decimal,
) (movement domain.Movement, err error) {
	started := time.Now()
	defer func() { s.metrics.Observe(operation, started, err) }()

	logger.Info("ledger service movement request", logger.Fields{
		"type":   movementType,
		"amount": amount.String(),
	})

	client, err := clientOf(owner)
	if err != nil {
		return domain.Movement{}, err
	}
	if err := s.validateAmount(amount); err != nil {
		return domain.Movement{}, err
	}

	err = s.store.Do(ctx, func(ctx context.Context, repos repo_interfaces.Repositories) error {
		account, err := s.lockActive(ctx, repos, client)
		if err != nil {
			return err
		}

		switch movementType {
		case domain.MovementTypeDeposit:
			account, err = s.credit(ctx, repos, account, amount)
		case domain.MovementTypeRescue:
			account, err = s.debit(ctx, repos, account, amount)
		default:
			err = fmt.Errorf("unknown movement type %q", movementType)
		}
		if err != nil {
			return err
		}

		movement, err = repos.Movements.Create(ctx, domain.Movement{
			AccountID: account.ID,
			Amount:    amount,
			Type:      movementType,
		})
		return err
	})
	if err != nil {
		logFailure("ledger service movement failed", err, logger.Fields{
			"type":   movementType,
			"userId": client.UserID,
		})
		return domain.Movement{}, err
	}

	logger.Info("ledger service movement success", logger.Fields{
		"type":      movementType,
		"accountId": movement.AccountID,
		"reference": movement.Reference,
	})
	return movement, nil
}

// Close moves the owner's account to CLOSED. It requires an ACTIVE account
// with no open stock position and a balance of exactly zero.
func (s *LedgerService) Close(ctx context.Context, owner domain.Identity) (account domain.Account, err error) {
	started := time.Now()
	defer func() { s.metrics.Observe(metrics.OperationClose, started, err) }()

	client, err := clientOf(owner)
	if err != nil {
		return domain.Account{}, err
	}

	logger.Info("ledger service close account request", logger.Fields{
		"userId":    client.UserID,
		"accountId": client.AccountID,
	})

	err = s.store.Do(ctx, func(ctx context.Context, repos repo_interfaces.Repositories) error {
		current, err := s.lockOwned(ctx, repos, client)
		if err != nil {
			return err
		}
		if current.Status.IsClosed() {
			return commons.ErrAlreadyClosed
		}
		if !current.Status.IsActive() {
			return commons.ErrAccountNotActive
		}
		if err := s.ensureClosable(ctx, repos, current); err != nil {
			return err
		}

		current.Status = s.statuses.Closed()
		account, err = repos.Accounts.Update(ctx, current)
		return err
	})
	if err != nil {
		logFailure("ledger service close account failed", err, logger.Fields{
			"userId": client.UserID,
		})
		return domain.Account{}, err
	}

	logger.Info("ledger service close account success", logger.Fields{
		"accountId": account.ID,
	})
	return account, nil
}

// UpdateStatus lets an admin reclassify an account. CLOSED is terminal: a
// closed account rejects every target status. Moving an account to CLOSED
// goes through the same balance and position checks as Close.
func (s *LedgerService) UpdateStatus(ctx context.Context, caller domain.Identity, accountID int64, description string) (account domain.Account, err error) {
	started := time.Now()
	defer func() { s.metrics.Observe(metrics.OperationUpdateStatus, started, err) }()

	if _, err := adminOf(caller); err != nil {
		return domain.Account{}, err
	}

	logger.Info("ledger service update status request", logger.Fields{
		"accountId": accountID,
		"status":    description,
	})

	err = s.store.Do(ctx, func(ctx context.Context, repos repo_interfaces.Repositories) error {
		current, err := repos.Accounts.LockByID(ctx, accountID)
		if err != nil {
			return err
		}
		if current.Status.IsClosed() {
			return commons.ErrAccountClosed
		}

		target, err := s.statuses.Resolve(description)
		if err != nil {
			return err
		}
		if target.IsClosed() {
			if err := s.ensureClosable(ctx, repos, current); err != nil {
				return err
			}
		}

		current.Status = target
		account, err = repos.Accounts.Update(ctx, current)
		return err
	})
	if err != nil {
		logFailure("ledger service update status failed", err, logger.Fields{
			"accountId": accountID,
		})
		return domain.Account{}, err
	}

	logger.Info("ledger service update status success", logger.Fields{
		"accountId": account.ID,
		"status":    account.Status.Description,
	})
	return account, nil
}

// ActiveAccount reads the owner's account and asserts it is ACTIVE. It takes
// no lock; mutators re-check under lock.
func (s *LedgerService) ActiveAccount(ctx context.Context, owner domain.Identity) (domain.Account, error) {
	account, err := s.AccountOf(ctx, owner)
	if err != nil {
		return domain.Account{}, err
	}
	if !account.Status.IsActive() {
		return domain.Account{}, commons.ErrAccountNotActive
	}
	return account, nil
}

// AccountOf reads the owner's account whatever its status.
func (s *LedgerService) AccountOf(ctx context.Context, owner domain.Identity) (domain.Account, error) {
	client, err := clientOf(owner)
	if err != nil {
		return domain.Account{}, err
	}

	repos := s.store.Repositories()
	var account domain.Account
	if client.AccountID > 0 {
		account, err = repos.Accounts.GetByID(ctx, client.AccountID)
	} else {
		account, err = repos.Accounts.GetByUserID(ctx, client.UserID)
	}
	if err != nil {
		return domain.Account{}, err
	}
	if account.UserID != client.UserID {
		return domain.Account{}, commons.ErrForbidden
	}
	return account, nil
}

func (s *LedgerService) lockOwned(ctx context.Context, repos repo_interfaces.Repositories, client domain.Client) (domain.Account, error) {
	var (
		account domain.Account
		err     error
	)
	if client.AccountID > 0 {
		account, err = repos.Accounts.LockByID(ctx, client.AccountID)
	} else {
		account, err = repos.Accounts.LockByUserID(ctx, client.UserID)
	}
	if err != nil {
		return domain.Account{}, err
	}
	if account.UserID != client.UserID {
		return domain.Account{}, commons.ErrForbidden
	}
	return account, nil
}

func (s *LedgerService) lockActive(ctx context.Context, repos repo_interfaces.Repositories, client domain.Client) (domain.Account, error) {
	account, err := s.lockOwned(ctx, repos, client)
	if err != nil {
		return domain.Account{}, err
	}
	if !account.Status.IsActive() {
		return domain.Account{}, commons.ErrAccountNotActive
	}
	return account, nil
}

func (s *LedgerService) ensureClosable(ctx context.Context, repos repo_interfaces.Repositories, account domain.Account) error {
	open, err := repos.Positions.HasOpenPosition(ctx, account.ID)
	if err != nil {
		return err
	}
	if open {
		return commons.ErrHasActivePositions
	}
	if !account.Balance.IsZero() {
		return commons.ErrNonZeroBalance
	}
	return nil
}

// credit and debit must run on an account locked by the current unit of work.
func (s *LedgerService) credit(ctx context.Context, repos repo_interfaces.Repositories, account domain.Account, amount decimal.Decimal) (domain.Account, error) {
	balance := account.Balance.Add(amount)
	if !s.currency.Storable(balance) {
		return domain.Account{}, fmt.Errorf("balance would exceed the ledger limit: %w", commons.ErrInvalidAmount)
	}
	account.Balance = balance
	return repos.Accounts.Update(ctx, account)
}

func (s *LedgerService) debit(ctx context.Context, repos repo_interfaces.Repositories, account domain.Account, amount decimal.Decimal) (domain.Account, error) {
	if account.Balance.LessThan(amount) {
		return domain.Account{}, commons.ErrInsufficientBalance
	}
	account.Balance = account.Balance.Sub(amount)
	return repos.Accounts.Update(ctx, account)
}

func (s *LedgerService) validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return commons.ErrInvalidAmount
	}
	if !s.currency.Fits(amount) {
		return fmt.Errorf("%s allows at most %d decimal places: %w", s.currency.Code, s.currency.Fraction, commons.ErrInvalidAmount)
	}
	if !s.currency.Storable(amount) {
		return fmt.Errorf("amount exceeds the ledger limit: %w", commons.ErrInvalidAmount)
	}
	return nil
}

// logFailure logs rejected business rules at info level and everything else
// as an error.
func logFailure(message string, err error, fields logger.Fields) {
	var ledgerErr *commons.Error
	if errors.As(err, &ledgerErr) && ledgerErr.Kind != commons.KindInternal {
		if fields == nil {
			fields = logger.Fields{}
		}
		fields["reason"] = ledgerErr.Kind.String()
		fields["detail"] = err.Error()
		logger.Info(message, fields)
		return
	}
	logger.Error(message, err, fields)
}
