// Package httpapi exposes the diff engine over HTTP: report submission and
// retrieval for CI workflows, waitlist intake for the product site, and the
// operational surface (health, metrics).
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"github.com/vitalvas/kasper/mux"
	"github.com/vitalvas/kasper/muxhandlers"

	"github.com/truespec/truespec/reportstore"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Server is the HTTP adapter. Each request instantiates its own engine
// state; only the stores may block on I/O.
type Server struct {
	cfg      *Config
	reports  reportstore.Store
	waitlist reportstore.Store
	logger   *slog.Logger
	metrics  *Metrics
}

// NewServer assembles an adapter over the given stores. A nil logger
// discards output.
func NewServer(cfg *Config, reports, waitlist reportstore.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		cfg:      cfg,
		reports:  reports,
		waitlist: waitlist,
		logger:   logger,
		metrics:  NewMetrics(),
	}
}

// NewServerFromConfig connects both table stores, wraps them with circuit
// breakers, and assembles the adapter.
func NewServerFromConfig(ctx context.Context, cfg *Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	onStateChange := func(name string, from, to gobreaker.State) {
		logger.Warn("store circuit state changed", "breaker", name, "from", from.String(), "to", to.String())
	}

	reports, err := reportstore.NewTableStore(ctx, cfg.ConnectionString, cfg.ReportsTable)
	if err != nil {
		return nil, err
	}
	waitlistStore, err := reportstore.NewTableStore(ctx, cfg.ConnectionString, cfg.WaitlistTable)
	if err != nil {
		return nil, err
	}

	srv := NewServer(cfg,
		reportstore.WithBreaker(reports, "reports", onStateChange),
		reportstore.WithBreaker(waitlistStore, "waitlist", onStateChange),
		logger,
	)
	return srv, nil
}

// Router builds the route table with the standard middleware stack.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.Use(
		muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{
			LogFunc: func(req *http.Request, err any) {
				s.logger.Error("panic recovered", "path", req.URL.Path, "error", err)
			},
		}),
		muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}),
		s.metrics.Middleware(),
	)

	r.HandleFunc("/reports", s.handleCreateReport).Methods(http.MethodPost)
	r.HandleFunc("/reports", s.handleListReports).Methods(http.MethodGet)
	r.HandleFunc("/reports/{id}", s.handleGetReport).Methods(http.MethodGet)
	r.HandleFunc("/waitlist", s.handleCreateWaitlist).Methods(http.MethodPost)
	r.HandleFunc("/waitlist", s.handleListWaitlist).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mux.ResponseJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mux.ResponseJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})

	return r
}

// Run serves until ctx is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http adapter listening", "addr", s.cfg.ListenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
