package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/nkap/internal/domain/entity"
	"github.com/damon-houk/nkap/internal/domain/service"
	"github.com/damon-houk/nkap/internal/infrastructure/logger"
)

// errorMapping is how a service error is presented to HTTP clients
type errorMapping struct {
	status      int
	message     string
	description string
}

// mapError translates conversion and provider errors into HTTP terms
func mapError(err error) errorMapping {
	var unknown *entity.UnknownCurrencyError
	var unexpected *service.UnexpectedStatusError

	switch {
	case errors.Is(err, entity.ErrInvalidCurrencyFormat):
		return errorMapping{http.StatusBadRequest, "Invalid currency code",
			"Currency code should be 3 characters (e.g., USD, EUR, XAF)"}
	case errors.As(err, &unknown):
		return errorMapping{http.StatusNotFound, "Unknown currency",
			"The currency `" + unknown.Code + "` is not in the exchange rate table"}
	case errors.Is(err, service.ErrMissingCredential):
		return errorMapping{http.StatusInternalServerError, "Service misconfigured",
			"The exchange rate service credential is not configured"}
	case errors.Is(err, service.ErrInvalidCredential):
		return errorMapping{http.StatusBadGateway, "Exchange rate service rejected credential",
			"The exchange rate service rejected the configured credential"}
	case errors.As(err, &unexpected), errors.Is(err, service.ErrDecode):
		return errorMapping{http.StatusBadGateway, "Exchange rate service error",
			"The exchange rate service returned an unusable response"}
	case errors.Is(err, service.ErrRateLimited):
		return errorMapping{http.StatusServiceUnavailable, "Exchange rate service unavailable",
			"Access to the exchange rate service is temporarily restricted. Please try again later."}
	case errors.Is(err, service.ErrTransport):
		return errorMapping{http.StatusServiceUnavailable, "Service temporarily unavailable",
			"The exchange rate service is temporarily unavailable. Please try again later."}
	default:
		return errorMapping{http.StatusInternalServerError, "Internal server error",
			"An unexpected error occurred. Please try again later."}
	}
}

// sendServiceError logs err at a level matching its mapped status and writes the error response
func sendServiceError(w http.ResponseWriter, log logger.Logger, err error, requestID string) {
	mapped := mapError(err)

	fields := map[string]interface{}{
		"request_id": requestID,
		"status":     mapped.status,
		"error":      err.Error(),
	}
	if mapped.status >= http.StatusInternalServerError {
		log.Error(mapped.message, fields)
	} else {
		log.Warn(mapped.message, fields)
	}

	sendErrorResponse(w, log, mapped.message, mapped.description, mapped.status, requestID)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	json.NewEncoder(w).Encode(resp)
}

// sendJSON writes a 200 response with body encoded as JSON
func sendJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}
