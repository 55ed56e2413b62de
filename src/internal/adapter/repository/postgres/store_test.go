package postgres

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

func TestRetryUnitGivesUpAfterConflicts(t *testing.T) {
	logger.SetOutput(io.Discard)
	calls := 0

	err := retryUnit(defaultMaxAttempts, func() error {
		calls++
		return fmt.Errorf("lock account: %w", &pq.Error{Code: "40001"})
	})

	assert.Equal(t, defaultMaxAttempts, calls)
	assert.ErrorIs(t, err, commons.ErrIntegrityConflict)
	assert.Equal(t, commons.KindIntegrityConflict, commons.KindOf(err))
}

func TestRetryUnitRecoversFromDeadlock(t *testing.T) {
	logger.SetOutput(io.Discard)
	calls := 0

	err := retryUnit(defaultMaxAttempts, func() error {
		calls++
		if calls == 1 {
			return &pq.Error{Code: "40P01"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryUnitDoesNotRetryBusinessErrors(t *testing.T) {
	calls := 0

	err := retryUnit(defaultMaxAttempts, func() error {
		calls++
		return commons.ErrInsufficientBalance
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, commons.ErrInsufficientBalance)
}

func TestRetryUnitMapsNumericOverflow(t *testing.T) {
	calls := 0

	err := retryUnit(defaultMaxAttempts, func() error {
		calls++
		return fmt.Errorf("update account: %w", &pq.Error{Code: "22003"})
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, commons.ErrInvalidAmount)
}

func TestRetryUnitPassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("connection reset")

	err := retryUnit(defaultMaxAttempts, func() error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, commons.KindInternal, commons.KindOf(err))
}
