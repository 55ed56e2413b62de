package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

type ledgerStub struct {
	depositFn      func(ctx context.Context, owner domain.Identity, amount decimal.Decimal) (domain.Movement, error)
	withdrawFn     func(ctx context.Context, owner domain.Identity, amount decimal.Decimal) (domain.Movement, error)
	closeFn        func(ctx context.Context, owner domain.Identity) (domain.Account, error)
	updateStatusFn func(ctx context.Context, caller domain.Identity, accountID int64, description string) (domain.Account, error)
	accountOfFn    func(ctx context.Context, owner domain.Identity) (domain.Account, error)
}

func (s ledgerStub) Deposit(ctx context.Context, owner domain.Identity, amount decimal.Decimal) (domain.Movement, error) {
	return s.depositFn(ctx, owner, amount)
}

func (s ledgerStub) Withdraw(ctx context.Context, owner domain.Identity, amount decimal.Decimal) (domain.Movement, error) {
	return s.withdrawFn(ctx, owner, amount)
}

func (s ledgerStub) Close(ctx context.Context, owner domain.Identity) (domain.Account, error) {
	return s.closeFn(ctx, owner)
}

func (s ledgerStub) UpdateStatus(ctx context.Context, caller domain.Identity, accountID int64, description string) (domain.Account, error) {
	return s.updateStatusFn(ctx, caller, accountID, description)
}

func (s ledgerStub) AccountOf(ctx context.Context, owner domain.Identity) (domain.Account, error) {
	return s.accountOfFn(ctx, owner)
}

type historyStub struct {
	historyFn func(ctx context.Context, caller domain.Identity) ([]domain.Movement, error)
}

func (s historyStub) History(ctx context.Context, caller domain.Identity) ([]domain.Movement, error) {
	return s.historyFn(ctx, caller)
}

type tradeStub struct {
	buyFn  func(ctx context.Context, owner domain.Identity, stockID int64, quantity int64, unitPrice decimal.Decimal) (domain.StockTransaction, error)
	sellFn func(ctx context.Context, owner domain.Identity, stockID int64, quantity int64, unitPrice decimal.Decimal) (domain.StockTransaction, error)
	listFn func(ctx context.Context, caller domain.Identity) ([]domain.StockTransaction, error)
}

func (s tradeStub) Buy(ctx context.Context, owner domain.Identity, stockID int64, quantity int64, unitPrice decimal.Decimal) (domain.StockTransaction, error) {
	return s.buyFn(ctx, owner, stockID, quantity, unitPrice)
}

func (s tradeStub) Sell(ctx context.Context, owner domain.Identity, stockID int64, quantity int64, unitPrice decimal.Decimal) (domain.StockTransaction, error) {
	return s.sellFn(ctx, owner, stockID, quantity, unitPrice)
}

func (s tradeStub) ListVisible(ctx context.Context, caller domain.Identity) ([]domain.StockTransaction, error) {
	return s.listFn(ctx, caller)
}

type walletStub struct {
	walletFn   func(ctx context.Context, owner domain.Identity) ([]domain.WalletPosition, error)
	quantityFn func(ctx context.Context, owner domain.Identity, stockID int64) (int64, error)
}

func (s walletStub) Wallet(ctx context.Context, owner domain.Identity) ([]domain.WalletPosition, error) {
	return s.walletFn(ctx, owner)
}

func (s walletStub) StockQuantity(ctx context.Context, owner domain.Identity, stockID int64) (int64, error) {
	return s.quantityFn(ctx, owner, stockID)
}

type userStub struct {
	registerFn func(ctx context.Context, req domain.Registration) (domain.User, domain.Account, error)
	userInfoFn func(ctx context.Context, caller domain.Identity) (domain.UserInfo, error)
}

func (s userStub) Register(ctx context.Context, req domain.Registration) (domain.User, domain.Account, error) {
	return s.registerFn(ctx, req)
}

func (s userStub) UserInfo(ctx context.Context, caller domain.Identity) (domain.UserInfo, error) {
	return s.userInfoFn(ctx, caller)
}

type stockStub struct {
	listFn   func(ctx context.Context) ([]domain.StockQuote, error)
	lookupFn func(ctx context.Context, symbol string) (domain.StockQuote, error)
}

func (s stockStub) List(ctx context.Context) ([]domain.StockQuote, error) {
	return s.listFn(ctx)
}

func (s stockStub) Lookup(ctx context.Context, symbol string) (domain.StockQuote, error) {
	return s.lookupFn(ctx, symbol)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

var (
	client = domain.Client{UserID: 1, AccountID: 10}
	admin  = domain.Admin{UserID: 99}
	usd    = domain.Currency{Code: "USD", Fraction: 2}
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	m.Run()
}

func serve(t *testing.T, identity domain.Identity, registrar interface{ RegisterRoutes(chi.Router) }, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithIdentity(req.Context(), identity)))
		})
	})
	registrar.RegisterRoutes(r)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, target, reader))

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr, env
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{commons.ErrAccountNotFound, http.StatusNotFound},
		{commons.ErrInvalidAmount, http.StatusBadRequest},
		{commons.ErrAccountNotActive, http.StatusConflict},
		{commons.ErrIntegrityConflict, http.StatusConflict},
		{commons.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{commons.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("lock account: %w", commons.ErrHasActivePositions), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}

func TestMovementController_DepositPassesCallerAndAmount(t *testing.T) {
	var gotOwner domain.Identity
	var gotAmount decimal.Decimal
	ledger := ledgerStub{depositFn: func(_ context.Context, owner domain.Identity, amount decimal.Decimal) (domain.Movement, error) {
		gotOwner, gotAmount = owner, amount
		return domain.Movement{ID: 5, Reference: "ref-5", AccountID: 10, Amount: amount, Type: domain.MovementTypeDeposit, CreatedAt: time.Now()}, nil
	}}

	rr, env := serve(t, client, NewMovementController(ledger, historyStub{}), http.MethodPost, "/movements/deposit", `{"amount":"150.25"}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, env.Success)
	assert.Equal(t, client, gotOwner)
	assert.True(t, gotAmount.Equal(decimal.RequireFromString("150.25")))
	assert.Contains(t, string(env.Data), `"type":"DEPOSIT"`)
}

func TestMovementController_RescueInsufficientBalance(t *testing.T) {
	ledger := ledgerStub{withdrawFn: func(context.Context, domain.Identity, decimal.Decimal) (domain.Movement, error) {
		return domain.Movement{}, fmt.Errorf("debit account 10: %w", commons.ErrInsufficientBalance)
	}}

	rr, env := serve(t, client, NewMovementController(ledger, historyStub{}), http.MethodPost, "/movements/rescue", `{"amount":"10"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "INSUFFICIENT_FUNDS", env.Code)
	assert.Equal(t, commons.ErrInsufficientBalance.Message, env.Message)
}

func TestMovementController_RejectsBadBodies(t *testing.T) {
	controller := NewMovementController(ledgerStub{}, historyStub{})

	rr, env := serve(t, client, controller, http.MethodPost, "/movements/deposit", `{"amount":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid request body", env.Message)

	rr, env = serve(t, client, controller, http.MethodPost, "/movements/deposit", `{"amount":"-3"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "validation failed", env.Message)
}

func TestMovementController_InternalErrorsAreMasked(t *testing.T) {
	history := historyStub{historyFn: func(context.Context, domain.Identity) ([]domain.Movement, error) {
		return nil, errors.New("pq: connection reset by peer")
	}}

	rr, env := serve(t, admin, NewMovementController(ledgerStub{}, history), http.MethodGet, "/movements/history", "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, env.Message, "pq:")
}

func TestTransactionController_BuyUsesValueAsUnitPrice(t *testing.T) {
	trades := tradeStub{buyFn: func(_ context.Context, _ domain.Identity, stockID int64, quantity int64, unitPrice decimal.Decimal) (domain.StockTransaction, error) {
		return domain.StockTransaction{
			ID: 1, AccountID: 10, StockID: stockID, StockSymbol: "AAPL",
			Quantity: quantity, UnitPrice: unitPrice, Type: domain.TransactionTypeBuy, ExecutedAt: time.Now(),
		}, nil
	}}

	rr, env := serve(t, client, NewTransactionController(trades), http.MethodPost, "/transactions/buy",
		`{"stockId":1,"quantity":3,"value":"50.00"}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "150", data["totalValue"])
	assert.Equal(t, "BUY", data["transactionType"])
	assert.Equal(t, "AAPL", data["stockSymbol"])
}

func TestTransactionController_SellWithoutHoldings(t *testing.T) {
	trades := tradeStub{sellFn: func(context.Context, domain.Identity, int64, int64, decimal.Decimal) (domain.StockTransaction, error) {
		return domain.StockTransaction{}, commons.ErrInsufficientHoldings
	}}

	rr, env := serve(t, client, NewTransactionController(trades), http.MethodPost, "/transactions/sell",
		`{"stockId":1,"quantity":3,"value":"50.00"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "INSUFFICIENT_FUNDS", env.Code)
}

func TestAccountController_UpdateStatus(t *testing.T) {
	var gotID int64
	var gotStatus string
	ledger := ledgerStub{updateStatusFn: func(_ context.Context, caller domain.Identity, accountID int64, description string) (domain.Account, error) {
		if _, ok := caller.(domain.Admin); !ok {
			return domain.Account{}, commons.ErrForbidden
		}
		gotID, gotStatus = accountID, description
		return domain.Account{ID: accountID, Status: domain.AccountStatus{Code: 2, Description: "BLOCKED"}}, nil
	}}
	controller := NewAccountController(ledger, usd)

	rr, _ := serve(t, admin, controller, http.MethodPut, "/accounts/10/status", `{"newStatus":"blocked"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(10), gotID)
	assert.Equal(t, "blocked", gotStatus)

	rr, env := serve(t, client, controller, http.MethodPut, "/accounts/10/status", `{"newStatus":"blocked"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "FORBIDDEN", env.Code)

	rr, _ = serve(t, admin, controller, http.MethodPut, "/accounts/abc/status", `{"newStatus":"blocked"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAccountController_CancelWithOpenPositions(t *testing.T) {
	ledger := ledgerStub{closeFn: func(context.Context, domain.Identity) (domain.Account, error) {
		return domain.Account{}, commons.ErrHasActivePositions
	}}

	rr, env := serve(t, client, NewAccountController(ledger, usd), http.MethodPost, "/accounts/cancel", "")

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "INVALID_STATE", env.Code)
}

func TestWalletController(t *testing.T) {
	wallet := walletStub{
		walletFn: func(context.Context, domain.Identity) ([]domain.WalletPosition, error) {
			return []domain.WalletPosition{{
				StockID: 1, Symbol: "AAPL", Quantity: 4,
				Price: decimal.RequireFromString("50"), MarketValue: decimal.RequireFromString("200"),
			}}, nil
		},
		quantityFn: func(_ context.Context, _ domain.Identity, stockID int64) (int64, error) {
			if stockID == 404 {
				return 0, commons.ErrStockNotFound
			}
			return 4, nil
		},
	}
	controller := NewWalletController(wallet, usd)

	rr, env := serve(t, client, controller, http.MethodGet, "/wallet/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(env.Data), `"displayValue":"$200.00"`)

	rr, env = serve(t, client, controller, http.MethodGet, "/wallet/1/quantity", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"stockId":1,"quantity":4}`, string(env.Data))

	rr, _ = serve(t, client, controller, http.MethodGet, "/wallet/404/quantity", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUserController_RegisterValidation(t *testing.T) {
	users := userStub{registerFn: func(context.Context, domain.Registration) (domain.User, domain.Account, error) {
		t.Fatal("service must not be called")
		return domain.User{}, domain.Account{}, nil
	}}

	r := chi.NewRouter()
	NewUserController(users, usd).RegisterPublicRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/users/save",
		strings.NewReader(`{"email":"ana@example.com","password":"longenough","fullName":"Ana","birthDate":"01/02/1990"}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "birthDate must be in YYYY-MM-DD format")
}

func TestUserController_RegisterAndInfo(t *testing.T) {
	account := domain.Account{ID: 10, UserID: 1, Balance: decimal.Zero, Status: domain.AccountStatus{Code: 1, Description: "ACTIVE"}}
	user := domain.User{ID: 1, Email: "ana@example.com", FullName: "Ana", Role: domain.RoleClient}
	users := userStub{
		registerFn: func(_ context.Context, req domain.Registration) (domain.User, domain.Account, error) {
			assert.Equal(t, 1990, req.BirthDate.Year())
			return user, account, nil
		},
		userInfoFn: func(_ context.Context, caller domain.Identity) (domain.UserInfo, error) {
			assert.Equal(t, client, caller)
			return domain.UserInfo{User: user, Account: &account}, nil
		},
	}
	controller := NewUserController(users, usd)

	r := chi.NewRouter()
	controller.RegisterPublicRoutes(r)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/users/save",
		strings.NewReader(`{"email":"ana@example.com","password":"longenough","fullName":"Ana","birthDate":"1990-02-01"}`)))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ACTIVE"`)

	rr, env := serve(t, client, controller, http.MethodGet, "/users/user-info", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(env.Data), `"email":"ana@example.com"`)
}

func TestStockController_List(t *testing.T) {
	asOf := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	stocks := stockStub{listFn: func(context.Context) ([]domain.StockQuote, error) {
		return []domain.StockQuote{
			{StockID: 1, Symbol: "AAPL", Price: decimal.RequireFromString("187.5"), AsOf: asOf},
			{StockID: 3, Symbol: "GOOGL", Price: decimal.NewFromInt(100), AsOf: asOf, Fallback: true},
		}, nil
	}}

	rr, env := serve(t, client, NewStockController(stocks), http.MethodGet, "/stocks/", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, float64(1), got[0]["stockId"])
	assert.Equal(t, "AAPL", got[0]["symbol"])
	assert.Equal(t, "187.5", got[0]["price"])
	assert.Equal(t, false, got[0]["fallback"])
	assert.Equal(t, true, got[1]["fallback"])
	assert.Equal(t, "2026-03-02T15:00:00Z", got[1]["asOf"])
}

func TestStockController_Lookup(t *testing.T) {
	stocks := stockStub{lookupFn: func(_ context.Context, symbol string) (domain.StockQuote, error) {
		switch symbol {
		case "msft":
			return domain.StockQuote{StockID: 2, Symbol: "MSFT", Price: decimal.NewFromInt(400), AsOf: time.Now()}, nil
		case "IBM":
			return domain.StockQuote{}, commons.ErrStockNotFound
		default:
			return domain.StockQuote{}, fmt.Errorf("symbol %q: %w", symbol, commons.ErrValidation)
		}
	}}
	controller := NewStockController(stocks)

	rr, env := serve(t, client, controller, http.MethodGet, "/stocks/msft", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(env.Data), `"symbol":"MSFT"`)
	assert.Contains(t, string(env.Data), `"stockId":2`)

	rr, env = serve(t, client, controller, http.MethodGet, "/stocks/IBM", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, env.Success)

	rr, _ = serve(t, client, controller, http.MethodGet, "/stocks/b@d", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequestLogsCarryRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(io.Discard) })

	ledger := ledgerStub{depositFn: func(_ context.Context, _ domain.Identity, amount decimal.Decimal) (domain.Movement, error) {
		return domain.Movement{ID: 1, Reference: "ref-1", AccountID: 10, Amount: amount, Type: domain.MovementTypeDeposit, CreatedAt: time.Now()}, nil
	}}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithIdentity(req.Context(), client)))
		})
	})
	NewMovementController(ledger, historyStub{}).RegisterRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/movements/deposit", strings.NewReader(`{"amount":"5"}`)))
	require.Equal(t, http.StatusCreated, rr.Code)

	var requests, responses int
	var ids []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		switch entry["msg"] {
		case "http request":
			requests++
			assert.NotNil(t, entry["payload"])
		case "http response":
			responses++
		}
		id, _ := entry["requestId"].(string)
		ids = append(ids, id)
	}

	assert.Equal(t, 1, requests)
	assert.Equal(t, 1, responses)
	require.NotEmpty(t, ids)
	for _, id := range ids {
		assert.NotEmpty(t, id)
		assert.Equal(t, ids[0], id)
	}
}
