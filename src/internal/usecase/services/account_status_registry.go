package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

// AccountStatusRegistry resolves status descriptions to the reference rows
// loaded once at startup. It is read-only after construction.
type AccountStatusRegistry struct {
	byDescription map[string]domain.AccountStatus
	ordered       []domain.AccountStatus
}

func NewAccountStatusRegistry(statuses []domain.AccountStatus) (*AccountStatusRegistry, error) {
	registry := &AccountStatusRegistry{
		byDescription: make(map[string]domain.AccountStatus, len(statuses)),
		ordered:       make([]domain.AccountStatus, 0, len(statuses)),
	}
	for _, status := range statuses {
		key := normalizeStatus(status.Description)
		if _, dup := registry.byDescription[key]; dup {
			return nil, fmt.Errorf("duplicate account status %q", status.Description)
		}
		status.Description = key
		registry.byDescription[key] = status
		registry.ordered = append(registry.ordered, status)
	}

	for _, required := range []string{domain.AccountStatusActive, domain.AccountStatusClosed} {
		if _, ok := registry.byDescription[required]; !ok {
			return nil, fmt.Errorf("account status %s is missing from reference data", required)
		}
	}

	return registry, nil
}

func LoadAccountStatusRegistry(ctx context.Context, repo repo_interfaces.AccountStatusRepository) (*AccountStatusRegistry, error) {
	statuses, err := repo.GetAll(ctx)
	if err != nil {
		logger.Error("account status registry load failed", err, nil)
		return nil, fmt.Errorf("load account statuses: %w", err)
	}

	registry, err := NewAccountStatusRegistry(statuses)
	if err != nil {
		return nil, err
	}

	logger.Info("account status registry loaded", logger.Fields{
		"statuses": len(registry.ordered),
	})
	return registry, nil
}

func (r *AccountStatusRegistry) Resolve(description string) (domain.AccountStatus, error) {
	status, ok := r.byDescription[normalizeStatus(description)]
	if !ok {
		return domain.AccountStatus{}, fmt.Errorf("%w: %q", commons.ErrStatusNotFound, description)
	}
	return status, nil
}

func (r *AccountStatusRegistry) Active() domain.AccountStatus {
	return r.byDescription[domain.AccountStatusActive]
}

func (r *AccountStatusRegistry) Closed() domain.AccountStatus {
	return r.byDescription[domain.AccountStatusClosed]
}

func (r *AccountStatusRegistry) All() []domain.AccountStatus {
	out := make([]domain.AccountStatus, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func normalizeStatus(description string) string {
	return strings.ToUpper(strings.TrimSpace(description))
}
