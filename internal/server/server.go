// Package server exposes classification over HTTP for local tooling and
// spreadsheet integrations.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"

	"github.com/mvbarbosa/extrato/internal/model"
	"github.com/mvbarbosa/extrato/internal/service"
)

// SuggestionClassifier is the AI tier as the server sees it.
type SuggestionClassifier interface {
	Classify(ctx context.Context, description string, amount decimal.Decimal, kind model.TransactionKind, categories []model.Category) (model.ClassificationResult, error)
}

// Server wires the HTTP surface over the classification pipeline.
type Server struct {
	store      service.Storage
	ledger     service.UsageLedger
	classifier SuggestionClassifier
	router     chi.Router
}

// New builds the server and its routes. classifier may be nil, in which case
// /api/classify only answers from rules.
func New(store service.Storage, ledger service.UsageLedger, classifier SuggestionClassifier) *Server {
	s := &Server{
		store:      store,
		ledger:     ledger,
		classifier: classifier,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/classify", s.handleClassify)
		r.Get("/usage", s.handleUsage)
	})

	s.router = r
	return s
}

// Handler returns the root http.Handler, which the tests mount directly.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP until the context is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
