package router

import (
	"net/http"

	"github.com/aerolinea/booking-backend/internal/handlers"
	ws "github.com/aerolinea/booking-backend/internal/websocket"
	"github.com/aerolinea/booking-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the HTTP router.
func SetupRouter(h *handlers.Handler, hub *ws.Hub, log logger.Logger, corsOrigin string) *mux.Router {
	r := mux.NewRouter()

	r.Use(corsMiddleware(corsOrigin))
	r.Use(accessLogMiddleware(log))

	api := r.PathPrefix("/api").Subrouter()

	// Flights: static routes before the {id} routes so mux never binds
	// "random" or "search" as an id.
	api.HandleFunc("/flights", h.ListFlights).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights", h.CreateFlight).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/flights/random", h.RandomFlights).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/destinations", h.DistinctDestinations).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/search", h.SearchFlights).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/search/by-destination", h.SearchByDestination).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/search/by-destination-and-month", h.SearchByDestinationAndMonth).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/search/fuzzy", h.SearchFuzzy).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/search/cities", h.DistinctCities).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/admin/cleanup-past", h.CleanupPastFlights).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/flights/recommendation/{recommendationId}", h.FlightsByRecommendation).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}", h.GetFlight).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}", h.UpdateFlight).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/flights/{id}", h.DeleteFlight).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/flights/{id}/delete-guard", h.DeleteGuard).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}/available-seats", h.AvailableSeats).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}/reconcile", h.ReconcileAvailability).Methods(http.MethodPost, http.MethodOptions)

	// Passengers
	api.HandleFunc("/passengers", h.ListPassengers).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/passengers", h.CreatePassenger).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/passengers/purchase", h.Purchase).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/passengers/by-flight/{flightId}", h.ListPassengersByFlight).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/passengers/{id}", h.CancelPassenger).Methods(http.MethodDelete, http.MethodOptions)

	// Recommendations (read-only collaborator surface)
	api.HandleFunc("/recommendations", h.ListRecommendations).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/recommendations/{id}", h.GetRecommendation).Methods(http.MethodGet, http.MethodOptions)

	// WebSocket for live availability updates
	api.HandleFunc("/flights/{id}/ws", hub.ServeWS)

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func corsMiddleware(origin string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func accessLogMiddleware(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-Id")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-Id", requestID)

			next.ServeHTTP(w, r)

			log.Debug("request handled",
				"requestId", requestID,
				"method", r.Method,
				"path", r.URL.Path,
			)
		})
	}
}
