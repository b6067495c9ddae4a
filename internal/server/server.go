package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"talentscout-bot/internal/config"
	"talentscout-bot/internal/intake"
	"talentscout-bot/internal/metrics"
	"talentscout-bot/pkg/log"
)

// Server exposes the intake workflow over HTTP.
type Server struct {
	cfg      config.ServerConfig
	workflow *intake.Workflow
	registry *intake.Registry
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

func New(cfg config.ServerConfig, workflow *intake.Workflow, registry *intake.Registry, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	return &Server{
		cfg:      cfg,
		workflow: workflow,
		registry: registry,
		metrics:  m,
		gatherer: gatherer,
	}
}

// Router builds the chi router with every route registered.
func (s *Server) Router() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		log.Logger(zap.L(), "router"),
		middleware.Recoverer,
	)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.RegisterApi(router)
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Named("server").Infof("listening on %s", s.cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	zap.S().Named("server").Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
