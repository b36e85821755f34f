package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aerolinea/booking-backend/internal/database"
	"github.com/aerolinea/booking-backend/internal/service"
	"github.com/aerolinea/booking-backend/pkg/logger"
	"github.com/gorilla/mux"
)

// Handler contains the HTTP handlers for the API.
type Handler struct {
	booking service.BookingService
	flights service.FlightService
	log     logger.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(booking service.BookingService, flights service.FlightService, log logger.Logger) *Handler {
	return &Handler{
		booking: booking,
		flights: flights,
		log:     log,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP status
// codes. Unexpected errors are logged and surfaced as a generic 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var conflict *service.ConflictError
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrNoAvailability),
		errors.Is(err, service.ErrSeatConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidClass),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrDuplicateFlight):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &conflict):
		respondJSON(w, http.StatusConflict, map[string]string{
			"error": conflict.Error(),
			"hint":  "Retry with ?force=true to also delete the attached passengers.",
		})
	default:
		h.log.Error("internal error", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
