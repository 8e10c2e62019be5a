package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/container-load/internal/api"
	"github.com/eugenenazirov/container-load/internal/batch"
	"github.com/eugenenazirov/container-load/internal/calculator"
	"github.com/eugenenazirov/container-load/internal/config"
	"github.com/eugenenazirov/container-load/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage    storage.Storage
	calculator calculator.Calculator
	evaluator  *batch.Evaluator
	handler    *api.Handler
	router     http.Handler
	logger     *zap.Logger
	server     *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	for _, profile := range cfg.Containers {
		if err := store.AddProfile(profile); err != nil {
			return nil, fmt.Errorf("failed to register container %q: %w", profile.ID, err)
		}
	}

	calc := calculator.New()
	evaluator := batch.NewEvaluator(calc, cfg.BatchWorkers)
	handler := api.NewHandler(calc, store,
		api.WithEvaluator(evaluator),
		api.WithBatchMaxPackages(cfg.BatchMaxPackages),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	rootHandler, err := BuildRootHandler(apiRouter)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP handler: %w", err)
	}

	logger.Info("application initialised",
		zap.Int("extra_containers", len(cfg.Containers)),
		zap.Int("batch_workers", evaluator.Workers()),
		zap.Int("batch_max_packages", cfg.BatchMaxPackages),
	)

	return &App{
		storage:    store,
		calculator: calc,
		evaluator:  evaluator,
		handler:    handler,
		router:     apiRouter,
		logger:     logger,
		server:     NewServer(cfg, rootHandler),
	}, nil
}

// BuildRootHandler constructs the root HTTP handler that describes the service and routes API requests.
func BuildRootHandler(apiHandler http.Handler) (http.Handler, error) {
	if apiHandler == nil {
		return nil, errors.New("api handler is required")
	}

	index, err := json.Marshal(serviceIndex)
	if err != nil {
		return nil, fmt.Errorf("encode service index: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(index)
	}))

	return mux, nil
}

var serviceIndex = struct {
	Service   string   `json:"service"`
	Endpoints []string `json:"endpoints"`
}{
	Service: "container-load",
	Endpoints: []string{
		"GET /api/health",
		"GET /api/containers",
		"GET /api/containers/{id}",
		"POST /api/containers",
		"POST /api/calculate",
		"POST /api/calculate/batch",
		"POST /api/compare",
		"POST /api/plan",
	},
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
