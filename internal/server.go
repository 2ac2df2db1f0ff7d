package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"gorm.io/gorm"

	"github.com/2beens/notesbox/internal/config"
	"github.com/2beens/notesbox/internal/db"
	"github.com/2beens/notesbox/internal/middleware"
	"github.com/2beens/notesbox/internal/misc"
	notesBox "github.com/2beens/notesbox/internal/notes_box"
	"github.com/2beens/notesbox/internal/telemetry/metrics"
	"github.com/2beens/notesbox/internal/telemetry/tracing"
	"github.com/2beens/notesbox/pkg"
)

const writeRateLimitGroup = "notes-write"

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config       *config.Config
	notesService *notesBox.Service

	// storage, only one is set depending on the configured driver
	dbPool *pgxpool.Pool
	gormDB *gorm.DB

	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "notes-service")
	if err != nil {
		return nil, err
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("notesbox", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // set to 1 once serving

	s := &Server{
		config:         params.Config,
		versionInfo:    params.VersionInfo,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if err := s.setupStorage(ctx, params.HoneycombTracingEnabled); err != nil {
		s.closeStorage()
		otelShutdown()
		return nil, fmt.Errorf("setup storage [%s]: %w", params.Config.StorageDriver, err)
	}

	if params.Config.RateLimitEnabled() {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
			Password: params.Config.RedisPassword,
			DB:       0, // use default DB
		})
		if params.HoneycombTracingEnabled {
			s.redisClient.AddHook(redisotel.NewTracingHook())
		}

		rdbStatus := s.redisClient.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}

		s.rateLimiter = redis_rate.NewLimiter(s.redisClient)
		log.Debugf("write rate limit: %d per minute", params.Config.WriteRateLimitAllowedPerMin)
	} else {
		log.Debugln("write rate limiting disabled")
	}

	return s, nil
}

func (s *Server) setupStorage(ctx context.Context, tracingEnabled bool) error {
	cfg := s.config

	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     cfg.PostgresPassword,
			ConnectRetries: cfg.DBConnectRetries,
			TracingEnabled: tracingEnabled,
		})
		if err != nil {
			return fmt.Errorf("new db pool: %w", err)
		}
		s.dbPool = dbPool

		if err := db.Migrate(ctx, dbPool); err != nil {
			return err
		}

		s.promRegistry.MustRegister(pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
		s.notesService = notesBox.NewService(notesBox.NewRepo(dbPool), s.metricsManager)

	case config.StorageDriverSQLite, config.StorageDriverMySQL:
		dialect, dsn, dbName := db.DialectSQLite, cfg.SQLitePath, "sqlite"
		if cfg.StorageDriver == config.StorageDriverMySQL {
			dialect, dsn, dbName = db.DialectMySQL, cfg.MySQLDSN, "mysql"
		}

		gormDB, err := db.NewGormDB(dialect, dsn)
		if err != nil {
			return err
		}
		s.gormDB = gormDB

		repo := notesBox.NewGormRepo(gormDB)
		if err := repo.Migrate(ctx); err != nil {
			return err
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			return fmt.Errorf("get sql db handle: %w", err)
		}
		s.promRegistry.MustRegister(collectors.NewDBStatsCollector(sqlDB, dbName))
		s.notesService = notesBox.NewService(repo, s.metricsManager)

	case config.StorageDriverMemory:
		log.Warnln("using in-memory storage, notes are lost on restart")
		s.notesService = notesBox.NewService(notesBox.NewMemoryRepo(), s.metricsManager)

	default:
		return fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}

	log.Debugf("storage driver: %s", cfg.StorageDriver)
	return nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("notes-router"))

	miscHandler := misc.NewHandler(s.versionInfo)
	miscHandler.SetupRoutes(r)

	var writeMiddlewares []mux.MiddlewareFunc
	if s.rateLimiter != nil {
		writeMiddlewares = append(writeMiddlewares, middleware.RateLimit(
			s.rateLimiter,
			writeRateLimitGroup,
			s.config.WriteRateLimitAllowedPerMin,
			s.metricsManager,
		))
	}

	notesHandler := notesBox.NewHandler(s.notesService)
	notesHandler.SetupRoutes(r, writeMiddlewares...)

	// all the rest - unhandled paths and methods
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSONError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

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

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	s.closeStorage()

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) closeStorage() {
	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if s.gormDB != nil {
		if err := db.CloseGormDB(s.gormDB); err != nil {
			log.Errorf("failed to close gorm db: %s", err)
		}
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
