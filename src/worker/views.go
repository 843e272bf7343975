package worker

import (
	"context"
	"net/http"
	"time"

	"mfportal/src/config"
	"mfportal/src/middleware"
	handlers "mfportal/src/worker/handlers"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router    *chi.Mux
	Handler   *handlers.Handler
	TokenAuth *jwtauth.JWTAuth
	Logger    *logrus.Logger
}

func NewServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Server, error) {
	handler, err := handlers.NewHandler(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewServerWithHandler(handler, middleware.NewTokenAuth(cfg.Auth.JWTSecret), logger), nil
}

func NewServerWithHandler(handler *handlers.Handler, tokenAuth *jwtauth.JWTAuth, logger *logrus.Logger) *Server {
	server := &Server{
		Router:    chi.NewRouter(),
		Handler:   handler,
		TokenAuth: tokenAuth,
		Logger:    logger,
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(chimiddleware.Recoverer)
	s.Router.Use(middleware.RequestLogger(s.Logger))

	s.Router.Get("/alive", s.Handler.Healthcheck)
	s.Router.Route("/api/jobs", func(r chi.Router) {
		r.Use(middleware.Authenticate(s.TokenAuth))
		r.Post("/nav-sync", s.Handler.RunNAVSync)
		r.Post("/snapshots", s.Handler.RunSnapshots)
	})
}

func NewHTTPServer(server *Server, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		Handler:      server,
	}
	return httpServer
}
