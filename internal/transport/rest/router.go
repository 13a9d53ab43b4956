package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"wellscreen/internal/service"
	"wellscreen/internal/transport/rest/handler"
	"wellscreen/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	SessionService *service.SessionService
	ResultService  *service.ResultService
	WSHub          *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(c.SessionService)
	resultHandler := handler.NewResultHandler(c.ResultService)
	wsHandler := ws.NewHandler(c.WSHub)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/answers", sessionHandler.RecordAnswer).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/answers", sessionHandler.ImportAnswers).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/previous", sessionHandler.Previous).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/finish", sessionHandler.Finish).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/status", sessionHandler.Status).Methods("GET", "OPTIONS")

	v1.HandleFunc("/sessions/{id}/result", resultHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/result/recalculate", resultHandler.Recalculate).Methods("POST", "OPTIONS")

	// WebSocket routes
	v1.HandleFunc("/ws/dashboard", wsHandler.DashboardWS).Methods("GET")
	v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
