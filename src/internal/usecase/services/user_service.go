package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
	"github.com/api-sage/brokerage-ledger/src/internal/usecase/service_interfaces"
)

var _ service_interfaces.UserService = (*UserService)(nil)
var _ service_interfaces.Authenticator = (*UserService)(nil)

const (
	minPasswordLength = 8
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	maxPasswordLength = 72
	adultAge          = 18
)

type UserService struct {
	store    repo_interfaces.Store
	ledger   *LedgerService
	hashCost int
	now      func() time.Time
}

func NewUserService(store repo_interfaces.Store, ledger *LedgerService) *UserService {
	return &UserService{
		store:    store,
		ledger:   ledger,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// Register creates a CLIENT user and opens its account in the same unit of
// work, so a user never exists without an account.
func (s *UserService) Register(ctx context.Context, req domain.Registration) (domain.User, domain.Account, error) {
	logger.Info("user service register request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	email, err := s.validateRegistration(req)
	if err != nil {
		logger.Info("user service register validation failed", logger.Fields{
			"detail": err.Error(),
		})
		return domain.User{}, domain.Account{}, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		logger.Error("user service register hash password failed", err, nil)
		return domain.User{}, domain.Account{}, err
	}

	var (
		user    domain.User
		account domain.Account
	)
	err = s.store.Do(ctx, func(ctx context.Context, repos repo_interfaces.Repositories) error {
		var err error
		user, err = repos.Users.Create(ctx, domain.User{
			Email:        email,
			FullName:     strings.TrimSpace(req.FullName),
			BirthDate:    req.BirthDate,
			PasswordHash: hash,
			Role:         domain.RoleClient,
		})
		if err != nil {
			return err
		}

		account, err = s.ledger.OpenWithin(ctx, repos, user.ID)
		return err
	})
	if err != nil {
		logFailure("user service register failed", err, logger.Fields{
			"email": email,
		})
		return domain.User{}, domain.Account{}, err
	}

	logger.Info("user service register success", logger.Fields{
		"userId":    user.ID,
		"accountId": account.ID,
	})
	return user, account, nil
}

// EnsureAdmin creates the bootstrap ADMIN user unless it already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, email string, password string) (domain.User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return domain.User{}, fmt.Errorf("admin %w", err)
	}
	if err := validatePassword(password); err != nil {
		return domain.User{}, fmt.Errorf("admin %w", err)
	}

	existing, err := s.store.Repositories().Users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.Role == domain.RoleAdmin:
		return existing, nil
	case err == nil:
		return domain.User{}, fmt.Errorf("%s belongs to a client: %w", email, commons.ErrEmailTaken)
	case !errors.Is(err, commons.ErrUserNotFound):
		return domain.User{}, err
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	var admin domain.User
	err = s.store.Do(ctx, func(ctx context.Context, repos repo_interfaces.Repositories) error {
		var err error
		admin, err = repos.Users.Create(ctx, domain.User{
			Email:        email,
			FullName:     "Administrator",
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
		})
		return err
	})
	if err != nil {
		logger.Error("user service ensure admin failed", err, logger.Fields{
			"email": email,
		})
		return domain.User{}, err
	}

	logger.Info("user service ensure admin created", logger.Fields{
		"userId": admin.ID,
	})
	return admin, nil
}

// Authenticate checks the credentials and resolves the caller's identity.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email string, password string) (domain.Identity, error) {
	user, err := s.store.Repositories().Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, commons.ErrUserNotFound) {
			return nil, commons.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, commons.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify password: %w", err)
	}

	switch user.Role {
	case domain.RoleClient:
		account, err := s.store.Repositories().Accounts.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return domain.Client{UserID: user.ID, AccountID: account.ID}, nil
	case domain.RoleAdmin:
		return domain.Admin{UserID: user.ID}, nil
	default:
		return nil, commons.ErrUnsupportedRole
	}
}

func (s *UserService) UserInfo(ctx context.Context, caller domain.Identity) (domain.UserInfo, error) {
	if caller == nil {
		return domain.UserInfo{}, commons.ErrUnsupportedRole
	}

	user, err := s.store.Repositories().Users.GetByID(ctx, caller.Subject())
	if err != nil {
		return domain.UserInfo{}, err
	}

	info := domain.UserInfo{User: user}
	if _, ok := caller.(domain.Client); ok {
		account, err := s.ledger.AccountOf(ctx, caller)
		if err != nil {
			return domain.UserInfo{}, err
		}
		info.Account = &account
	}
	return info, nil
}

func (s *UserService) validateRegistration(req domain.Registration) (string, error) {
	email := normalizeEmail(req.Email)
	if err := validateEmail(email); err != nil {
		return "", err
	}
	if err := validatePassword(req.Password); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.FullName) == "" {
		return "", fmt.Errorf("fullName is required: %w", commons.ErrValidation)
	}
	if req.BirthDate.IsZero() {
		return "", fmt.Errorf("birthDate is required: %w", commons.ErrValidation)
	}
	if req.BirthDate.AddDate(adultAge, 0, 0).After(s.now()) {
		return "", fmt.Errorf("user must be at least %d years old: %w", adultAge, commons.ErrValidation)
	}
	return email, nil
}

// validateEmail accepts a bare address only; display-name forms such as
// "Ada <ada@example.com>" parse but are not login emails.
func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email is invalid: %w", commons.ErrValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, commons.ErrValidation)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d bytes: %w", maxPasswordLength, commons.ErrValidation)
	}
	return nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
