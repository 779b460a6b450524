// Package rest is the HTTP transport adapter: it decodes requests,
// delegates to the usecase services, and translates domain errors to
// status codes. No business logic lives here.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	authuc "github.com/patrimonio/tracker-backend/internal/usecase/auth"
	"github.com/patrimonio/tracker-backend/internal/usecase/snapshot"
)

// TokenVerifier checks a bearer token and returns the user id it carries.
type TokenVerifier interface {
	Verify(raw string) (uuid.UUID, error)
}

// Server holds the usecase services the HTTP surface exposes.
type Server struct {
	SnapshotService *snapshot.Service
	AuthService     *authuc.Service
	Tokens          TokenVerifier

	// AllowedOrigins is handed to the CORS middleware; empty means allow
	// any origin (development default).
	AllowedOrigins []string
}

// NewServer creates a new HTTP server instance
func NewServer(
	snapshotService *snapshot.Service,
	authService *authuc.Service,
	tokens TokenVerifier,
	allowedOrigins []string,
) *Server {
	return &Server{
		SnapshotService: snapshotService,
		AuthService:     authService,
		Tokens:          tokens,
		AllowedOrigins:  allowedOrigins,
	}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	origins := s.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Liveness probe.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Finance tracker API is online."))
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", s.handleRegister)
			ar.Post("/login", s.handleLogin)
			ar.Post("/logout", s.handleLogout)
		})

		api.Group(func(pr chi.Router) {
			pr.Use(RequireAuth(s.Tokens))
			pr.Get("/assets", s.handleListAssets)
			pr.Post("/assets", s.handleSaveAssets)
			pr.Delete("/assets/{id}", s.handleDeleteAsset)
			pr.Get("/assets/reports/totals", s.handleTotalsReport)
			pr.Get("/assets/reports/categories", s.handleCategoriesReport)
			pr.Get("/assets/reports/deltas", s.handleDeltasReport)
		})
	})

	return r
}
