package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
)

type stubAuthenticator struct {
	email    string
	password string
	identity domain.Identity
	err      error
}

func (s stubAuthenticator) Authenticate(_ context.Context, email string, password string) (domain.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	if email != s.email || password != s.password {
		return nil, commons.ErrInvalidCredentials
	}
	return s.identity, nil
}

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestBasicAuth_AllowsValidCredentials(t *testing.T) {
	client := domain.Client{UserID: 7, AccountID: 70}
	mw := BasicAuth(stubAuthenticator{email: "ana@example.com", password: "s3cret-pass", identity: client})

	var seen domain.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", basic("ana@example.com", "s3cret-pass"))

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, client, seen)
}

func TestBasicAuth_RejectsInvalidCredentials(t *testing.T) {
	mw := BasicAuth(stubAuthenticator{email: "ana@example.com", password: "s3cret-pass", identity: domain.Client{UserID: 7}})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", basic("ana@example.com", "WrongKey"))

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
}

func TestBasicAuth_RejectsMissingCredentials(t *testing.T) {
	mw := BasicAuth(stubAuthenticator{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestBasicAuth_StoreFailureIsInternal(t *testing.T) {
	mw := BasicAuth(stubAuthenticator{err: errors.New("connection refused")})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", basic("ana@example.com", "s3cret-pass"))

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "connection refused")
}

func TestIdentityFrom_EmptyContext(t *testing.T) {
	assert.Nil(t, IdentityFrom(context.Background()))
}
