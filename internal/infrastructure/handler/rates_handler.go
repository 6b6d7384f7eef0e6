package handler

import (
	"net/http"

	"github.com/damon-houk/nkap/internal/application/service"
	"github.com/damon-houk/nkap/internal/infrastructure/logger"
	"github.com/damon-houk/nkap/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// RatesHandler handles HTTP requests for the rate listing
type RatesHandler struct {
	service *service.ConversionService
	logger  logger.Logger
}

// NewRatesHandler creates a new rates handler
func NewRatesHandler(service *service.ConversionService, log logger.Logger) *RatesHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RatesHandler{
		service: service,
		logger:  log,
	}
}

// ListRates handles listing every currency with its rate against the base currency
func (h *RatesHandler) ListRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	rates, err := h.service.ListRates(r.Context())
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	resp := RatesResponse{Rates: make([]RateResponse, 0, len(rates))}
	for _, rate := range rates {
		resp.Rates = append(resp.Rates, RateResponse{Code: rate.Code, Rate: rate.Rate})
	}

	h.logger.Debug("Rates listed", map[string]interface{}{
		"request_id": requestID,
		"count":      len(resp.Rates),
	})

	sendJSON(w, resp)
}

// RegisterRoutes registers the rates handler routes
func (h *RatesHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/rates", h.ListRates).Methods("GET")

	h.logger.Info("Rates routes registered", map[string]interface{}{
		"routes": []string{
			"GET /rates",
		},
	})
}
