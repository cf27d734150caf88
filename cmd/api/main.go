package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/mindtype/insights/internal/application"
	appai "github.com/mindtype/insights/internal/application/ai"
	appreports "github.com/mindtype/insights/internal/application/reports"
	"github.com/mindtype/insights/internal/application/assessment"
	"github.com/mindtype/insights/internal/config"
	domai "github.com/mindtype/insights/internal/domain/ai"
	domreports "github.com/mindtype/insights/internal/domain/reports"
	"github.com/mindtype/insights/internal/infra/ai/mockai"
	openaiclient "github.com/mindtype/insights/internal/infra/ai/openai"
	mockauth "github.com/mindtype/insights/internal/infra/auth/mock"
	mysqldb "github.com/mindtype/insights/internal/infra/db/mysql"
	postgresdb "github.com/mindtype/insights/internal/infra/db/postgres"
	"github.com/mindtype/insights/internal/infra/httpserver"
	"github.com/mindtype/insights/internal/infra/kv"
	minioStore "github.com/mindtype/insights/internal/infra/storage"
	"github.com/mindtype/insights/internal/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()
	health := map[string]middleware.HealthChecker{}

	// report history backend
	var repo domreports.Repository
	switch cfg.Storage.Backend {
	case "mysql":
		db, err := mysqldb.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		r := mysqldb.NewReportRepository(db)
		if err := r.Migrate(ctx); err != nil {
			log.Fatalf("mysql migrate error: %v", err)
		}
		repo = r
		health["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "postgres":
		db, err := postgresdb.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		r := postgresdb.NewReportRepository(db)
		if err := r.Migrate(ctx); err != nil {
			log.Fatalf("postgres migrate error: %v", err)
		}
		repo = r
		health["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		repo = kv.NewRedisStore(client, cfg.Redis.Prefix)
		health["redis"] = &middleware.RedisHealthChecker{Client: client}
	case "memory":
		repo = kv.NewMemoryStore()
	default:
		log.Fatalf("unknown storage backend: %q", cfg.Storage.Backend)
	}

	// completion service client
	var aiClient domai.Client
	switch cfg.AI.Provider {
	case "mock":
		aiClient = mockai.New(5)
	default:
		aiClient = openaiclient.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL)
	}
	gateway := appai.NewGateway(aiClient)

	// artifact store for report exports (optional)
	var artifacts domreports.ArtifactStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		artifacts = store
	}

	sessions := assessment.NewManager(time.Duration(cfg.Session.TTLMinutes) * time.Minute)
	defer sessions.Close()

	assessSvc := &assessment.Service{
		Gateway:   gateway,
		Sessions:  sessions,
		Repo:      repo,
		Clock:     application.SystemClock{},
		SoftLimit: cfg.Session.SoftLimit,
		HardLimit: cfg.Session.HardLimit,
	}
	reportSvc := &appreports.Service{
		Repo:      repo,
		Gateway:   gateway,
		Artifacts: artifacts,
		Clock:     application.SystemClock{},
	}

	authProvider := mockauth.New()

	handler := httpserver.NewRouter(assessSvc, reportSvc, authProvider, httpserver.Config{
		ClearHistoryOnLogout: cfg.Auth.ClearHistoryOnLogout,
		CORSOrigins:          cfg.Server.CORSOrigins,
		RateLimiter:          middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate),
		Health:               health,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // completion calls are slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
