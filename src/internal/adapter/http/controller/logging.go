package controller

import (
	"maps"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/api-sage/brokerage-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

// requestFields identifies a request in every log line: the chi request id,
// the route and, once authenticated, the caller.
func requestFields(r *http.Request) logger.Fields {
	fields := logger.Fields{
		"requestId": chimiddleware.GetReqID(r.Context()),
		"method":    r.Method,
		"path":      r.URL.Path,
	}
	if identity := middleware.IdentityFrom(r.Context()); identity != nil {
		fields["subject"] = identity.Subject()
	}
	return fields
}

func logRequest(r *http.Request, payload any) {
	fields := requestFields(r)
	fields["query"] = r.URL.RawQuery
	if payload != nil {
		fields["payload"] = logger.SanitizePayload(payload)
	}
	logger.Info("http request", fields)
}

func logResponse(r *http.Request, status int, payload any, start time.Time) {
	fields := requestFields(r)
	fields["status"] = status
	fields["durationMs"] = time.Since(start).Milliseconds()
	fields["response"] = logger.SanitizePayload(payload)
	logger.Info("http response", fields)
}

func logError(r *http.Request, err error, extra logger.Fields) {
	fields := requestFields(r)
	fields["query"] = r.URL.RawQuery
	maps.Copy(fields, extra)
	logger.Error("http handler error", err, fields)
}
