// Package server assembles the tsiserver control plane: it wires together
// persistence (dao), business logic (tunas), the HTTP surface (api), and
// auth/panic middleware (middle) into a single runnable chi router (§B).
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cuwacunu/tsiemene/server/api"
	"github.com/cuwacunu/tsiemene/server/dao"
	"github.com/cuwacunu/tsiemene/server/middle"
	"github.com/cuwacunu/tsiemene/server/tunas"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is a fully assembled tsiserver control plane, ready to be served
// over HTTP via its Router.
type Server struct {
	Router http.Handler

	cfg Config
	db  dao.Store
}

// New builds a Server from cfg, connecting to and initializing the
// configured persistence layer.
func New(cfg Config) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect to DB: %w", err)
	}

	return NewWithStore(cfg, db)
}

// NewWithStore builds a Server around an already-connected persistence
// layer, skipping cfg.DB.Connect. This lets a caller seed data (e.g. an
// initial admin user) through the same store the Server will serve
// requests from, which matters for DatabaseInMemory where a second Connect
// call would produce an entirely separate, empty store.
func NewWithStore(cfg Config, db dao.Store) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	backend := tunas.Service{DB: db}
	theAPI := api.API{
		Backend:     backend,
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}

	srv := &Server{cfg: cfg, db: db}
	srv.Router = buildRouter(theAPI, db.Users(), cfg.TokenSecret, cfg.UnauthDelay())

	return srv, nil
}

// Close releases the persistence layer backing the Server.
func (s *Server) Close() error {
	return s.db.Close()
}

// ServeHTTP lets Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.Router.ServeHTTP(w, req)
}

func buildRouter(theAPI api.API, users dao.UserRepository, secret []byte, unauthDelay time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middle.DontPanic())

	r.Get(api.PathPrefix+"/info", theAPI.HTTPGetInfo())

	r.Route(api.PathPrefix, func(r chi.Router) {
		r.Post("/login", theAPI.HTTPCreateLogin())

		r.Group(func(r chi.Router) {
			r.Use(middle.RequireAuth(users, secret, unauthDelay, dao.User{}))

			r.Delete("/login/{id}", theAPI.HTTPDeleteLogin())
			r.Post("/tokens", theAPI.HTTPCreateToken())

			r.Get("/users", theAPI.HTTPGetAllUsers())
			r.Post("/users", theAPI.HTTPCreateUser())
			r.Get("/users/{id}", theAPI.HTTPGetUser())
			r.Patch("/users/{id}", theAPI.HTTPUpdateUser())
			r.Put("/users/{id}", theAPI.HTTPReplaceUser())
			r.Delete("/users/{id}", theAPI.HTTPDeleteUser())

			r.Post("/boards", theAPI.HTTPUploadBoard())
			r.Get("/boards", theAPI.HTTPGetAllBoards())
			r.Get("/boards/{id}", theAPI.HTTPGetBoard())
			r.Delete("/boards/{id}", theAPI.HTTPDeleteBoard())

			r.Post("/runs", theAPI.HTTPCreateRun())
			r.Get("/runs", theAPI.HTTPGetAllRuns())
			r.Get("/runs/{id}", theAPI.HTTPGetRun())
			r.Delete("/runs/{id}", theAPI.HTTPDeleteRun())
			r.Post("/runs/{id}/dispatch", theAPI.HTTPDispatchEvent())
			r.Get("/runs/{id}/dispatch", theAPI.HTTPGetDispatchLog())
		})
	})

	return r
}
