package api

import (
	"context"
	"net/http"
	"time"

	handlers "mfportal/src/api/handlers"
	"mfportal/src/config"
	"mfportal/src/middleware"

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
	handler, err := handlers.NewHandler(ctx, cfg)
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

	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(s.TokenAuth))

		r.Get("/auth/me", s.Handler.GetCurrentUser)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.Handler.GetAllUsers)
			r.Post("/", s.Handler.CreateUser)
			r.Get("/{id}", s.Handler.GetUserByID)
			r.Put("/{id}", s.Handler.UpdateUser)
			r.Delete("/{id}", s.Handler.DeleteUser)
			r.Get("/{id}/portfolio", s.Handler.GetUserPortfolio)
		})

		r.Route("/bank-accounts", func(r chi.Router) {
			r.Get("/", s.Handler.GetAllBankAccounts)
			r.Post("/", s.Handler.CreateBankAccount)
			r.Get("/{id}", s.Handler.GetBankAccountByID)
			r.Put("/{id}", s.Handler.UpdateBankAccount)
			r.Post("/{id}/update_balance", s.Handler.UpdateBankAccountBalance)
		})

		r.Route("/mutual-funds", func(r chi.Router) {
			r.Get("/", s.Handler.GetAllSchemes)
			r.Post("/", s.Handler.CreateScheme)
			r.Post("/purchase", s.Handler.PurchaseMutualFund)
			r.Post("/purchase/", s.Handler.PurchaseMutualFund)
			r.Get("/{id}", s.Handler.GetSchemeByID)
			r.Put("/{id}", s.Handler.UpdateScheme)
			r.Delete("/{id}", s.Handler.DeleteScheme)
			r.Post("/{id}/update_nav", s.Handler.UpdateSchemeNAV)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.Handler.GetAllTransactions)
			r.Get("/export", s.Handler.ExportTransactions)
			r.Get("/{id}", s.Handler.GetTransactionByID)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", s.Handler.GetAllPortfolios)
			r.Get("/summary", s.Handler.GetPortfolioSummary)
			r.Get("/history", s.Handler.GetPortfolioHistory)
			r.Get("/{id}", s.Handler.GetPortfolioByID)
		})
	})
}

func NewHTTPServer(server *Server, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
	return httpServer
}
