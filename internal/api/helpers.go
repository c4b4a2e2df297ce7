package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/scripturekit/bibles/internal/server"
	"github.com/scripturekit/bibles/pkg/models"
	"github.com/scripturekit/bibles/pkg/search"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// respondJSON writes v as the JSON response body with the given status code.
func respondJSON(
	w http.ResponseWriter, r *http.Request, srv server.Server, status int, v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		srv.Logger.Error("error encoding response",
			append(requestLogArgs(r), "error", err)...)
	}
}

// respondError maps err to a status code and writes it as an ErrorResponse.
// Validation problems are 400, missing records are 404 and everything else is
// a 500 whose detail is only logged.
func respondError(
	w http.ResponseWriter, r *http.Request, srv server.Server, err error,
) {
	status, detail := classifyError(err)
	if status == http.StatusInternalServerError {
		srv.Logger.Error("error handling request",
			append(requestLogArgs(r), "error", err)...)
	}
	respondJSON(w, r, srv, status, ErrorResponse{Detail: detail})
}

func classifyError(err error) (int, string) {
	var internalErr validation.InternalError
	if errors.As(err, &internalErr) {
		return http.StatusInternalServerError, "Internal server error"
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, fieldErrs.Error()
	}
	var validationErr validation.Error
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Error()
	}
	if errors.Is(err, search.ErrInvalidQuery) {
		return http.StatusBadRequest, "invalid search query"
	}

	var notFoundErr *models.NotFoundError
	if errors.As(err, &notFoundErr) {
		return http.StatusNotFound, notFoundErr.Error()
	}

	return http.StatusInternalServerError, "Internal server error"
}

// requestLogArgs returns the hclog key/value pairs that identify a request.
func requestLogArgs(r *http.Request) []any {
	return []any{
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", RequestIDFromContext(r.Context()),
	}
}

// parsePathID parses the named path value as a positive integer ID.
func parsePathID(r *http.Request, name string) (uint, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, validation.Errors{
			name: validation.NewError(
				"validation_positive_integer", "must be a positive integer"),
		}
	}
	return uint(id), nil
}
