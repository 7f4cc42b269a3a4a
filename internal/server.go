package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/gymbros/internal/bundle"
	"github.com/2beens/gymbros/internal/cache"
	"github.com/2beens/gymbros/internal/catalog"
	"github.com/2beens/gymbros/internal/config"
	"github.com/2beens/gymbros/internal/mcp"
	"github.com/2beens/gymbros/internal/middleware"
	"github.com/2beens/gymbros/internal/session"
	"github.com/2beens/gymbros/internal/stats"
	"github.com/2beens/gymbros/internal/storage"
	"github.com/2beens/gymbros/internal/store"
	"github.com/2beens/gymbros/internal/telemetry/metrics"
	"github.com/2beens/gymbros/internal/telemetry/tracing"
	"github.com/2beens/gymbros/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config  *config.Config
	backend storage.Backend
	store   *store.Store
	catalog *catalog.Catalog

	sessionManager *session.Manager
	analyzer       *stats.Analyzer
	mcpServer      *mcpsdk.Server

	// stats responses are computed on every request when nil
	statsCache cache.Cache

	// rate limiting is off when nil
	redisClient     *redis.Client
	ownsRedisClient bool

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	StorageDriver  string `json:"storageDriver"`
	LastWriteError string `json:"lastWriteError,omitempty"`
	SessionState   string `json:"sessionState"`
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("gymbros", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymbros")
	if err != nil {
		return nil, err
	}

	backend, err := storage.Open(ctx, storage.OpenParams{
		Config:           params.Config,
		RedisPassword:    params.RedisPassword,
		PostgresPassword: params.PostgresPassword,
		TracingEnabled:   params.HoneycombTracingEnabled,
		PromRegisterer:   promRegistry,
	})
	if err != nil {
		otelShutdown()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	policy, err := session.PolicyByName(params.Config.ProgressionPolicy)
	if err != nil {
		otelShutdown()
		_ = backend.Close()
		return nil, err
	}

	var statsCache cache.Cache
	if params.Config.CacheSizeMB > 0 {
		statsCache, err = cache.NewFreeCache(params.Config.CacheSizeMB)
		if err != nil {
			otelShutdown()
			_ = backend.Close()
			return nil, fmt.Errorf("stats cache: %w", err)
		}
	}

	dataStore := store.New(ctx, backend, metricsManager)
	exerciseCatalog := catalog.Default()
	sessionManager := session.NewManager(session.NewManagerParams{
		Store:          dataStore,
		Policy:         policy,
		MetricsManager: metricsManager,
	})
	analyzer := stats.NewAnalyzer(dataStore, nil)

	mcpServer := mcp.NewServer(mcp.NewContextService(mcp.NewContextServiceParams{
		Store:       dataStore,
		Progression: sessionManager,
		Analyzer:    analyzer,
		Catalog:     exerciseCatalog,
	}))

	s := &Server{
		config:      params.Config,
		versionInfo: params.VersionInfo,

		backend:        backend,
		store:          dataStore,
		catalog:        exerciseCatalog,
		sessionManager: sessionManager,
		analyzer:       analyzer,
		mcpServer:      mcpServer,
		statsCache:     statsCache,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if rdb, ok := storage.RedisClient(backend); ok {
		s.redisClient = rdb
	} else if params.Config.RedisHost != "" {
		s.redisClient = newRateLimitRedisClient(ctx, params)
		s.ownsRedisClient = s.redisClient != nil
	}
	if s.redisClient == nil {
		log.Warnln("no redis available, rate limiting disabled")
	}

	log.Debugf("progression policy: %s", policy.Name())

	return s, nil
}

// newRateLimitRedisClient connects to the configured redis when the storage itself is not redis.
// Returns nil if redis cannot be reached.
func newRateLimitRedisClient(ctx context.Context, params NewServerParams) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
		_ = rdb.Close()
		return nil
	}
	log.Debugf("redis ping: %s", rdbStatus.Val())

	return rdb
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	var sensitiveLimit mux.MiddlewareFunc
	if s.redisClient != nil {
		reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
		sensitiveLimit = middleware.RateLimit(
			reqRateLimiter,
			"gymbros:sensitive",
			s.config.RateLimitAllowedPerMin,
			s.metricsManager,
		)
	}

	storeHandler := store.NewHandler(s.store, nil)
	storeHandler.SetupRoutes(r)

	var clearAll http.Handler = http.HandlerFunc(storeHandler.HandleClearAll)
	if sensitiveLimit != nil {
		clearAll = sensitiveLimit(clearAll)
	}
	r.Handle("/data", clearAll).Methods("DELETE", "OPTIONS").Name("clear-all")

	session.NewHandler(s.sessionManager).SetupRoutes(r)
	bundle.NewHandler(s.store, nil, s.metricsManager).SetupRoutes(r, sensitiveLimit)
	statsHandler := stats.NewHandler(s.analyzer)
	if s.statsCache != nil {
		statsHandler = statsHandler.WithCache(s.statsCache, s.store.Version, s.metricsManager)
	}
	statsHandler.SetupRoutes(r)
	catalog.NewHandler(s.catalog).SetupRoutes(r)

	r.HandleFunc("/health", s.handleHealth).Methods("GET", "OPTIONS").Name("health")

	r.Handle("/mcp", otelhttp.NewHandler(mcp.NewHTTPHandler(s.mcpServer), "mcp")).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.health")
	defer span.End()

	resp := HealthResponse{
		Status:        "ok",
		Version:       s.versionInfo,
		StorageDriver: s.backend.Driver().String(),
		SessionState:  "none",
	}
	if err := s.store.LastWriteError(); err != nil {
		resp.Status = "degraded"
		resp.LastWriteError = err.Error()
	}
	if draft, ok := s.sessionManager.Current(); ok {
		resp.SessionState = string(draft.State)
	}

	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the storage goes away
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if draft, ok := s.sessionManager.Current(); ok {
		log.Warnf("shutting down with an unfinished session, state [%s], routine [%s]", draft.State, draft.RoutineID)
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.ownsRedisClient {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.backend != nil {
		log.Debugln("closing storage ...")
		if err := s.backend.Close(); err != nil {
			log.Errorf("failed to close storage: %s", err)
		}
		log.Debugln("storage closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
