package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, body dto.ErrorResponse) {
	writeJSON(w, status, body)
}

// decodeAndValidate reads a JSON body into req and checks its tags. On
// failure it writes a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
			Kind:    string(domain.KindInvalidInput),
		})
		return false
	}

	if err := dto.Validate(req); err != nil {
		body := dto.ErrorResponse{
			Error:   "validation failed",
			Message: err.Error(),
			Kind:    string(domain.KindInvalidInput),
		}
		var verr *dto.ValidationError
		if errors.As(err, &verr) {
			body.Field = verr.Field
		}
		writeError(w, http.StatusBadRequest, body)
		return false
	}

	return true
}

// statusForKind maps an error kind to an HTTP status code.
func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidAmount, domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindAccountNotFound, domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindDuplicateReference, domain.KindConflict:
		return http.StatusConflict
	case domain.KindInsufficientFunds, domain.KindAccountInactive:
		return http.StatusUnprocessableEntity
	case domain.KindCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fieldForKind names the request field a ledger error is about.
func fieldForKind(kind domain.ErrorKind) string {
	switch kind {
	case domain.KindInvalidAmount, domain.KindInsufficientFunds:
		return "amount"
	case domain.KindAccountNotFound, domain.KindAccountInactive:
		return "account_id"
	case domain.KindDuplicateReference:
		return "reference"
	default:
		return ""
	}
}

// writeDomainError writes err using the error taxonomy. Server-side failures
// do not echo their cause to the client.
func writeDomainError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, usecase.ErrReportNotFound) {
		writeError(w, http.StatusNotFound, dto.ErrorResponse{
			Error:   action,
			Message: err.Error(),
			Kind:    string(domain.KindNotFound),
		})
		return
	}

	kind := domain.KindOf(err)
	status := statusForKind(kind)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}

	field := fieldForKind(kind)
	var ferr *domain.FieldError
	if errors.As(err, &ferr) {
		field = ferr.Field
	}

	writeError(w, status, dto.ErrorResponse{
		Error:   fmt.Sprintf("failed to %s", action),
		Message: message,
		Kind:    string(kind),
		Field:   field,
	})
}
