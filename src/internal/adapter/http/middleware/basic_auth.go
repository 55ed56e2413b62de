package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
	"github.com/api-sage/brokerage-ledger/src/internal/usecase/service_interfaces"
)

type identityKey struct{}

// BasicAuth resolves the request's basic credentials to a caller identity and
// stores it on the request context for IdentityFrom.
func BasicAuth(auth service_interfaces.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth == nil {
				logger.Error("basic auth middleware missing authenticator", nil, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "server auth configuration is missing", http.StatusInternalServerError)
				return
			}

			email, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w, r, "missing")
				return
			}

			identity, err := auth.Authenticate(r.Context(), email, password)
			if err != nil {
				if errors.Is(err, commons.ErrInvalidCredentials) {
					unauthorized(w, r, "invalid")
					return
				}
				logger.Error("basic auth middleware failed to authenticate", err, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, commons.PublicMessage(err), http.StatusInternalServerError)
				return
			}

			logger.Info("basic auth middleware authorized request", logger.Fields{
				"method":  r.Method,
				"path":    r.URL.Path,
				"subject": identity.Subject(),
			})
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, credentials string) {
	logger.Info("basic auth middleware unauthorized request", logger.Fields{
		"method":      r.Method,
		"path":        r.URL.Path,
		"credentials": credentials,
	})
	w.Header().Set("WWW-Authenticate", `Basic realm="brokerage-ledger"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the caller set by BasicAuth, or nil outside it.
func IdentityFrom(ctx context.Context) domain.Identity {
	identity, _ := ctx.Value(identityKey{}).(domain.Identity)
	return identity
}
