// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/warpkeeper/warpkeeper/internal/i18n"
	"github.com/warpkeeper/warpkeeper/internal/logging"
	"github.com/warpkeeper/warpkeeper/internal/rotation"
)

// Server wraps the HTTP listener and its router.
type Server struct {
	srv *http.Server
}

// NewRouter assembles the chi router with middleware and all account routes.
func NewRouter(engine *rotation.Engine) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(httprate.Limit(120, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))

	// Every unmatched path or method collapses into the same 404 envelope so
	// clients only ever parse one error shape.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, http.StatusNotFound, i18n.T("api.error.unknown_route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, http.StatusNotFound, i18n.T("api.error.unknown_route"))
	})

	NewHandler(engine).MountRoutes(r)
	return r
}

// NewServer builds a Server listening on host:port.
func NewServer(host string, port int, engine *rotation.Engine) *Server {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(engine),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start runs the listener until the server is shut down. It returns nil on
// clean shutdown.
func (s *Server) Start() error {
	logging.Infof("listening on http://%s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Infof("shutting down http server")
	return s.srv.Shutdown(ctx)
}
