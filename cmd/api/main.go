package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bizsimlab/venture-sim/internal/application"
	appauth "github.com/bizsimlab/venture-sim/internal/application/auth"
	appsims "github.com/bizsimlab/venture-sim/internal/application/simulations"
	"github.com/bizsimlab/venture-sim/internal/config"
	"github.com/bizsimlab/venture-sim/internal/infra/ai/openai"
	mysqlp "github.com/bizsimlab/venture-sim/internal/infra/db/mysql"
	postgresp "github.com/bizsimlab/venture-sim/internal/infra/db/postgres"
	"github.com/bizsimlab/venture-sim/internal/infra/httpserver"
	minioStore "github.com/bizsimlab/venture-sim/internal/infra/storage"
	"github.com/bizsimlab/venture-sim/internal/middleware"

	domscen "github.com/bizsimlab/venture-sim/internal/domain/scenarios"
	domusers "github.com/bizsimlab/venture-sim/internal/domain/users"
)

func main() {
	// .env is optional, real config lives in config.yaml
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// connect DB and pick repositories by driver
	var (
		db           *sql.DB
		scenarioRepo domscen.Repository
		userRepo     domusers.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			logger.Fatal("postgres connect error", zap.Error(err))
		}
		scenarioRepo = postgresp.NewScenarioRepository(db)
		userRepo = postgresp.NewUserRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			logger.Fatal("mysql connect error", zap.Error(err))
		}
		scenarioRepo = mysqlp.NewScenarioRepository(db)
		userRepo = mysqlp.NewUserRepository(db)
	}
	defer db.Close()

	// report archive is optional
	var reports domscen.ReportArchive
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Fatal("minio init error", zap.Error(err))
		}
		reports = store
	} else {
		logger.Info("report archive disabled, no minio endpoint configured")
	}

	simulator := openai.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model, logger)

	simsSvc := &appsims.Service{
		Repo:    scenarioRepo,
		AI:      simulator,
		Reports: reports,
		Clock:   application.SystemClock{},
		Log:     logger,
	}
	authSvc := &appauth.Service{
		Repo:   userRepo,
		Secret: []byte(cfg.Auth.JWTSecret),
		Clock:  application.SystemClock{},
	}

	requireAuth := middleware.JWTAuth([]byte(cfg.Auth.JWTSecret), userRepo)

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	mux.Use(middleware.RequestLogger(logger))
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}))
	mux.Get("/healthz", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(simsSvc, authSvc, requireAuth, cfg.Server.SecureCookies, logger))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // the AI call alone may take up to 30s
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
}
