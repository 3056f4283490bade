package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shmcrekt/legendary-barnacle/internal/catalog"
	"github.com/shmcrekt/legendary-barnacle/internal/config"
	"github.com/shmcrekt/legendary-barnacle/internal/db"
	"github.com/shmcrekt/legendary-barnacle/internal/geometry"
	"github.com/shmcrekt/legendary-barnacle/internal/logging"
	"github.com/shmcrekt/legendary-barnacle/internal/migrations"
	"github.com/shmcrekt/legendary-barnacle/internal/store"
)

type server struct {
	db             *sql.DB
	store          *store.Store
	pipeline       *geometry.Pipeline
	catalog        catalog.Catalog
	auth           *authService
	metrics        *metrics
	log            *zap.Logger
	maxUploadBytes int64
}

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.IsDev())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database); err != nil {
			logger.Fatal("failed to run database migrations", zap.Error(err))
		}
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}

	var external geometry.ExternalAnalyzer
	if cfg.ExternalAnalyzerURL != "" {
		external = geometry.NewHTTPAnalyzer(cfg.ExternalAnalyzerURL, logging.Component(logger, "external"))
	}
	pipeline := geometry.NewPipeline(geometry.DefaultParams(), external, logging.Component(logger, "pipeline"))

	var auth *authService
	if cfg.APITokenSecret != "" {
		auth = newAuthService(cfg.APITokenSecret)
	}

	registry := prometheus.NewRegistry()
	srv := &server{
		db:             database,
		store:          store.New(database),
		pipeline:       pipeline,
		catalog:        cat,
		auth:           auth,
		metrics:        newMetrics(registry),
		log:            logging.Component(logger, "server"),
		maxUploadBytes: cfg.MaxUploadBytes,
	}

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, srv.routes(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func (s *server) routes(metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(s.authMiddleware)
	r.Get("/healthz", s.handleHealthz)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}
	r.Post("/api/analyses", s.handleCreateAnalysis)
	r.Get("/api/analyses/{id}", s.handleGetAnalysis)
	r.Post("/api/quotes", s.handleCreateQuote)
	r.Get("/api/quotes", s.handleListQuotes)
	r.Get("/api/quotes/{id}", s.handleGetQuote)
	r.Get("/api/catalog", s.handleCatalog)
	return r
}
