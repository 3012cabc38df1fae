package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/opsych/ophtheon/internal/service"
	"github.com/opsych/ophtheon/internal/transport/rest/handler"
	"github.com/opsych/ophtheon/internal/transport/rest/middleware"
	"github.com/opsych/ophtheon/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	InterviewService *service.InterviewService
	ExamService      *service.ExamService
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	interviewHandler := handler.NewInterviewHandler(c.InterviewService)
	examHandler := handler.NewExamHandler(c.ExamService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.ExamService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/exams/{id}", wsHandler.ExamWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Examiner routes (require examiner auth)
	examinerRoutes := v1.NewRoute().Subrouter()
	examinerRoutes.Use(authMW.RequireExaminer)

	examinerRoutes.HandleFunc("/catalog/offenses", interviewHandler.OffenseCatalog).Methods("GET", "OPTIONS")

	examinerRoutes.HandleFunc("/interviews", interviewHandler.Create).Methods("POST", "OPTIONS")
	examinerRoutes.HandleFunc("/interviews", interviewHandler.List).Methods("GET", "OPTIONS")
	examinerRoutes.HandleFunc("/interviews/{id}", interviewHandler.Get).Methods("GET", "OPTIONS")
	examinerRoutes.HandleFunc("/interviews/{id}", interviewHandler.Delete).Methods("DELETE", "OPTIONS")
	examinerRoutes.HandleFunc("/interviews/{id}/advance", interviewHandler.Advance).Methods("POST", "OPTIONS")
	examinerRoutes.HandleFunc("/interviews/{id}/back", interviewHandler.Back).Methods("POST", "OPTIONS")
	examinerRoutes.HandleFunc("/interviews/{id}/reset", interviewHandler.Reset).Methods("POST", "OPTIONS")
	examinerRoutes.HandleFunc("/interviews/{id}/export", interviewHandler.Export).Methods("GET", "OPTIONS")

	examinerRoutes.HandleFunc("/exams/import", examHandler.Import).Methods("POST", "OPTIONS")
	examinerRoutes.HandleFunc("/exams", examHandler.List).Methods("GET", "OPTIONS")
	examinerRoutes.HandleFunc("/exams/{id}", examHandler.Get).Methods("GET", "OPTIONS")
	examinerRoutes.HandleFunc("/exams/{id}", examHandler.Delete).Methods("DELETE", "OPTIONS")
	examinerRoutes.HandleFunc("/exams/{id}/narration", examHandler.PrepareNarration).Methods("POST", "OPTIONS")
	examinerRoutes.HandleFunc("/exams/{id}/start", examHandler.Start).Methods("POST", "OPTIONS")
	examinerRoutes.HandleFunc("/exams/{id}/stop", examHandler.Stop).Methods("POST", "OPTIONS")

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
