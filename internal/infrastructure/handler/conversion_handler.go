// Package handler internal/infrastructure/handler/conversion_handler.go
package handler

import (
	"math"
	"net/http"
	"strconv"

	"github.com/damon-houk/nkap/internal/application/service"
	"github.com/damon-houk/nkap/internal/infrastructure/logger"
	"github.com/damon-houk/nkap/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// ConversionHandler handles HTTP requests for currency conversion
type ConversionHandler struct {
	service *service.ConversionService
	logger  logger.Logger
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(service *service.ConversionService, log logger.Logger) *ConversionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionHandler{
		service: service,
		logger:  log,
	}
}

// Convert handles converting an amount between two currencies
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	from := query.Get("from")
	to := query.Get("to")
	rawAmount := query.Get("amount")

	h.logger.Info("Handling convert request", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"to":         to,
		"amount":     rawAmount,
	})

	if from == "" || to == "" || rawAmount == "" {
		h.logger.Warn("Missing conversion parameter", map[string]interface{}{
			"request_id": requestID,
		})
		sendErrorResponse(w, h.logger, "Missing parameter",
			"The 'from', 'to' and 'amount' query parameters are required", http.StatusBadRequest, requestID)
		return
	}

	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		h.logger.Warn("Invalid amount", map[string]interface{}{
			"request_id": requestID,
			"amount":     rawAmount,
		})
		sendErrorResponse(w, h.logger, "Invalid amount",
			"A decimal amount is expected (e.g., 100.0)", http.StatusBadRequest, requestID)
		return
	}

	conv, err := h.service.Convert(r.Context(), from, to, amount)
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, ConversionResponse{
		From:            conv.From,
		To:              conv.To,
		Amount:          conv.Amount,
		ConvertedAmount: conv.ConvertedAmount,
		Rate:            conv.Rate,
	})
}

// RegisterRoutes registers the conversion handler routes
func (h *ConversionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/convert", h.Convert).Methods("GET")

	h.logger.Info("Conversion routes registered", map[string]interface{}{
		"routes": []string{
			"GET /convert",
		},
	})
}
