package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

type validatable interface {
	Validate() error
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func statusFor(err error) int {
	switch commons.KindOf(err) {
	case commons.KindNotFound:
		return http.StatusNotFound
	case commons.KindInvalidArgument:
		return http.StatusBadRequest
	case commons.KindInvalidState, commons.KindIntegrityConflict:
		return http.StatusConflict
	case commons.KindInsufficientFunds:
		return http.StatusUnprocessableEntity
	case commons.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// bind decodes and validates the JSON body into req. On failure it has
// already written the 400 response.
func bind[Resp any, Req validatable](w http.ResponseWriter, r *http.Request, start time.Time, req *Req) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[Resp]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return false
	}
	logRequest(r, *req)

	if err := (*req).Validate(); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[Resp]("validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return false
	}

	return true
}

func writeFailure[Resp any](w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	status := statusFor(err)
	response := commons.FailureResponse[Resp](err)
	if status == http.StatusInternalServerError {
		logError(r, err, logger.Fields{"message": response.Message})
	} else {
		logger.Info("http request rejected", logger.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"code":   response.Code,
			"detail": err.Error(),
		})
	}
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

func writeSuccess[Resp any](w http.ResponseWriter, r *http.Request, status int, message string, data Resp, start time.Time) {
	response := commons.SuccessResponse(message, data)
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}
