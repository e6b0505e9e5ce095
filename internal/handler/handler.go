package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"pulse-shop/internal/middleware"
	"pulse-shop/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already written; an encode failure cannot change it.
	_ = json.NewEncoder(w).Encode(data)
}

// statusFor maps an error to its HTTP status. Anything that is not a domain error is a 500.
func statusFor(err error) int {
	var de *model.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}

	switch de.Code {
	case model.ErrCodeInvalidPayload, model.ErrCodeNoUpdatesProvided, model.ErrCodeInsufficientStock:
		return http.StatusBadRequest
	case model.ErrCodeProductNotFound, model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeDuplicateRequest:
		return http.StatusConflict
	case model.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err with the status statusFor picks.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	writeErrorStatus(w, r, statusFor(err), err, logger)
}

// writeErrorStatus writes err with an explicit status. Internal failures never leak their message.
func writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error, logger zerolog.Logger) {
	requestID := middleware.RequestIDFromContext(r.Context())

	resp := model.ErrorResponse{
		Error:         "internal server error",
		Code:          model.ErrCodeInternalError,
		CorrelationID: requestID,
	}

	var de *model.DomainError
	if status < http.StatusInternalServerError && errors.As(err, &de) {
		resp.Error = de.Message
		resp.Code = de.Code
		logger.Warn().
			Str("code", de.Code).
			Str("error", de.Message).
			Int("status", status).
			Str("request_id", requestID).
			Msg("request rejected")
	} else {
		logger.Error().
			Err(err).
			Int("status", status).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", requestID).
			Msg("handler error")
	}

	writeJSON(w, status, resp)
}

// decodeJSON decodes a bounded request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return model.NewInvalidPayload("invalid JSON body")
	}
	return nil
}

// productIDParam reads the {id} URL parameter as a positive integer.
func productIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewInvalidPayload("id: must be a positive integer")
	}
	return id, nil
}

// queryInt reads a non-negative integer query parameter, or def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, model.NewInvalidPayload(name + ": must be a non-negative integer")
	}
	return v, nil
}
