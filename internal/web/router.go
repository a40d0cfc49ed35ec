package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/exedev/contentd/internal/audit"
	"github.com/exedev/contentd/internal/auth"
	"github.com/exedev/contentd/internal/config"
	"github.com/exedev/contentd/internal/render"
	"github.com/exedev/contentd/internal/store"
)

type Server struct {
	db       *pgxpool.Pool
	cfg      *config.Config
	docs     *store.Repository
	renderer *render.Renderer
	authMw   *auth.Middleware
	audit    *audit.Logger
}

func NewRouter(db *pgxpool.Pool, cfg *config.Config) http.Handler {
	images := render.NewImageURLBuilder(cfg.ContentCDNURL, cfg.ContentProjectID, cfg.ContentDataset)

	s := &Server{
		db:       db,
		cfg:      cfg,
		docs:     store.NewRepository(db),
		renderer: render.New(images),
		authMw:   auth.NewMiddleware(cfg.APITokenHash),
		audit:    audit.NewLogger(db),
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.authMw.RequireToken)

		// Stateless conversion endpoints.
		r.Post("/render", s.handleRender)
		r.Post("/text", s.handleText)

		// Persisted documents.
		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.handleDocumentList)
			r.Post("/", s.handleDocumentCreate)
			r.Get("/{id}", s.handleDocumentGet)
			r.Get("/{id}/html", s.handleDocumentHTML)
			r.Delete("/{id}", s.handleDocumentDelete)
		})

		r.Get("/search", s.handleSearch)
	})

	return r
}
