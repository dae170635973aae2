package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/patrickdoane/grail-tracker-redux/internal/auth"
	"github.com/patrickdoane/grail-tracker-redux/internal/collections"
	"github.com/patrickdoane/grail-tracker-redux/internal/logger"
	"github.com/patrickdoane/grail-tracker-redux/internal/storage"
)

// Server holds the HTTP server dependencies
type Server struct {
	store       *storage.Store
	collections *collections.Service
	tokens      *auth.TokenService
	log         *logger.Logger
	router      chi.Router
	corsOrigins []string
}

// New creates a new API server
func New(store *storage.Store, tokens *auth.TokenService, log *logger.Logger, corsOrigins []string) *Server {
	s := &Server{
		store:       store,
		collections: collections.NewService(store),
		tokens:      tokens,
		log:         log.With("component", "api"),
		router:      chi.NewRouter(),
		corsOrigins: corsOrigins,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Auth
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(s.tokens, s.store))
			r.Get("/auth/me", s.handleMe)
		})

		// Collections
		r.Get("/collections", s.handleGetCollections)

		// Catalog
		r.Get("/items", s.handleGetItems)
		r.Post("/items", s.handleCreateItem)
		r.Get("/items/{id}", s.handleGetItem)
		r.Get("/items/{id}/details", s.handleGetItemDetail)
		r.Put("/items/{id}", s.handleUpdateItem)
		r.Delete("/items/{id}", s.handleDeleteItem)
		r.Get("/items/{id}/notes", s.handleGetItemNotes)
		r.Post("/items/{id}/notes", s.handleCreateItemNote)

		r.Get("/item-properties", s.handleGetProperties)
		r.Post("/item-properties", s.handleCreateProperty)
		r.Get("/item-properties/{id}", s.handleGetProperty)
		r.Put("/item-properties/{id}", s.handleUpdateProperty)
		r.Delete("/item-properties/{id}", s.handleDeleteProperty)

		r.Get("/item-sources", s.handleGetSources)
		r.Post("/item-sources", s.handleCreateSource)
		r.Get("/item-sources/{id}", s.handleGetSource)
		r.Put("/item-sources/{id}", s.handleUpdateSource)
		r.Delete("/item-sources/{id}", s.handleDeleteSource)

		// Accounts and found records
		r.Get("/users", s.handleGetUsers)
		r.Post("/users", s.handleCreateUser)
		r.Get("/users/{id}", s.handleGetUser)
		r.Put("/users/{id}", s.handleUpdateUser)
		r.Delete("/users/{id}", s.handleDeleteUser)

		r.Get("/user-items", s.handleGetUserItems)
		r.Post("/user-items", s.handleCreateUserItem)
		r.Get("/user-items/{id}", s.handleGetUserItem)
		r.Put("/user-items/{id}", s.handleUpdateUserItem)
		r.Delete("/user-items/{id}", s.handleDeleteUserItem)

		// Profile, preferences, onboarding
		r.Get("/user-profile", s.handleGetProfile)
		r.Put("/user-profile", s.handleUpdateProfile)
		r.Get("/user-preferences", s.handleGetPreferences)
		r.Put("/user-preferences", s.handleUpdatePreferences)
		r.Get("/onboarding/tasks", s.handleGetOnboardingTasks)
		r.Post("/onboarding/tasks/{taskID}", s.handleUpdateOnboardingTask)

		// Import / export
		r.Post("/user-data/import", s.handleImport)
		r.Post("/user-data/import/{jobID}/retry", s.handleRetryImport)
		r.Post("/user-data/export", s.handleStartExport)
		r.Get("/user-data/export/{jobID}/download", s.handleDownloadExport)
		r.Get("/user-data/jobs/{jobID}", s.handleGetJob)

		// Data connectors
		r.Get("/data-connectors", s.handleGetConnectors)
		r.Post("/data-connectors/{connectorID}/actions", s.handleConnectorAction)
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// requestLogger logs one line per request through the structured logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// idParam parses a numeric URL parameter; the second return is false when it
// is not a valid id.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// optionalIDQuery parses an optional numeric query parameter.
func optionalIDQuery(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
