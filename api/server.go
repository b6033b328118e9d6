package api

import (
	"net/http"
	"time"

	"wheelhouse/config"
	"wheelhouse/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// Server bundles the router and the services behind it
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	accounts service.AccountService
	spins    service.SpinService
	stats    service.StatsService
	validate *validator.Validate
}

// NewServer constructs a Server, installs middleware, and registers routes
func NewServer(cfg *config.Config, accounts service.AccountService, spins service.SpinService, stats service.StatsService) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		accounts: accounts,
		spins:    spins,
		stats:    stats,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(cors(cfg.ClientOrigin))
	s.r.Use(render.SetContentType(render.ContentTypeJSON))

	s.r.Get("/health", s.handleHealth)
	s.r.Get("/api/roulette/info", s.handleTableInfo)
	s.r.Get("/api/leaderboard", s.handleLeaderboard)

	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/api/roulette/spin", s.handleSpin)
		r.Get("/api/roulette/history", s.handleHistory)
		r.Get("/api/balance", s.handleBalance)
		r.Get("/api/stats/me", s.handleStatsMe)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, Error("not found", http.StatusNotFound))
	})

	return s
}

// Router exposes the internal router (useful for tests)
func (s *Server) Router() chi.Router { return s.r }
