package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/quotes"
	"github.com/api-sage/brokerage-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/metrics"
	"github.com/api-sage/brokerage-ledger/src/internal/usecase/services"
)

// Seeded stock ids of the memory store.
const (
	stockAAPL int64 = 1
	stockMSFT int64 = 2
)

type fixture struct {
	store    *memory.Store
	statuses *services.AccountStatusRegistry
	ledger   *services.LedgerService
	trades   *services.TradeService
	history  *services.HistoryService
	wallet   *services.WalletService
	stocks   *services.StockService
	users    *services.UserService
	quotes   *quotes.StaticProvider
	admin    domain.Admin
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithTolerance(t, decimal.Zero)
}

func newFixtureWithTolerance(t *testing.T, tolerance decimal.Decimal) *fixture {
	t.Helper()

	store := memory.NewStore()
	store.SetClock(steppingClock())

	statuses, err := services.LoadAccountStatusRegistry(context.Background(), store.Repositories().Statuses)
	require.NoError(t, err)

	currency, err := domain.NewCurrency("USD")
	require.NoError(t, err)

	provider := quotes.NewStaticProvider(map[string]decimal.Decimal{
		"AAPL": dec("50.00"),
		"MSFT": dec("400.00"),
	}, dec("100.00"))

	ledgerMetrics := metrics.NewLedger(prometheus.NewRegistry())
	ledger := services.NewLedgerService(store, statuses, currency, ledgerMetrics)

	return &fixture{
		store:    store,
		statuses: statuses,
		ledger:   ledger,
		trades:   services.NewTradeService(store, ledger, services.NewPriceGuard(provider, tolerance), ledgerMetrics),
		history:  services.NewHistoryService(store, ledger),
		wallet:   services.NewWalletService(store, ledger, provider),
		stocks:   services.NewStockService(store, provider),
		users:    services.NewUserService(store, ledger),
		quotes:   provider,
		admin:    domain.Admin{UserID: 9999},
	}
}

// openClient opens an account for userID and returns the identity a
// successful authentication would produce.
func (f *fixture) openClient(t *testing.T, userID int64) domain.Client {
	t.Helper()

	account, err := f.ledger.Open(context.Background(), userID)
	require.NoError(t, err)
	return domain.Client{UserID: userID, AccountID: account.ID}
}

func (f *fixture) fund(t *testing.T, client domain.Client, amount string) {
	t.Helper()

	_, err := f.ledger.Deposit(context.Background(), client, dec(amount))
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, client domain.Client) decimal.Decimal {
	t.Helper()

	account, err := f.ledger.AccountOf(context.Background(), client)
	require.NoError(t, err)
	return account.Balance
}

func (f *fixture) holding(t *testing.T, client domain.Client, stockID int64) int64 {
	t.Helper()

	quantity, err := f.wallet.StockQuantity(context.Background(), client, stockID)
	require.NoError(t, err)
	return quantity
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// steppingClock advances one millisecond per reading so records created in
// sequence get strictly increasing timestamps.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	current := time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Millisecond)
		return current
	}
}
