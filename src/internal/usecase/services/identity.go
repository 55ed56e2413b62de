package services

import (
	"fmt"

	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

// clientOf narrows identity to the account-owning variant. An admin owns no
// account, so money-moving operations are forbidden to it.
func clientOf(identity domain.Identity) (domain.Client, error) {
	switch id := identity.(type) {
	case domain.Client:
		return id, nil
	case domain.Admin:
		return domain.Client{}, fmt.Errorf("admin callers own no account: %w", commons.ErrForbidden)
	default:
		return domain.Client{}, commons.ErrUnsupportedRole
	}
}

func adminOf(identity domain.Identity) (domain.Admin, error) {
	switch id := identity.(type) {
	case domain.Admin:
		return id, nil
	case domain.Client:
		return domain.Admin{}, commons.ErrForbidden
	default:
		return domain.Admin{}, commons.ErrUnsupportedRole
	}
}
