package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/job_board/internal/config"
	"github.com/Skotchmaster/job_board/internal/es"
	"github.com/Skotchmaster/job_board/internal/httpserver"
	"github.com/Skotchmaster/job_board/internal/mailer"
	"github.com/Skotchmaster/job_board/internal/middleware"
	"github.com/Skotchmaster/job_board/internal/models"
	"github.com/Skotchmaster/job_board/internal/mykafka"
	"github.com/Skotchmaster/job_board/internal/ratelimit"
	"github.com/Skotchmaster/job_board/internal/repo"
	"github.com/Skotchmaster/job_board/internal/search"
	"github.com/Skotchmaster/job_board/internal/service"
	pkgdb "github.com/Skotchmaster/job_board/pkg/db"
	"github.com/Skotchmaster/job_board/pkg/logging"
	loggingmw "github.com/Skotchmaster/job_board/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var events service.EventPublisher = service.NopPublisher{}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		events = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	var index service.JobIndexer
	esClient, err := es.NewClient(es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
	switch {
	case err != nil:
		logger.Error("elasticsearch_unavailable", "reason", "falling back to database search", "error", err)
	case esClient != nil:
		index = search.NewJobIndex(esClient, cfg.ESIndex)
	default:
		logger.Warn("elasticsearch_disabled", "reason", "ES_URL is empty")
	}

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	rdb, err := ratelimit.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	cancel()
	if err != nil {
		logger.Error("redis_unavailable", "reason", "password reset is not rate limited", "error", err)
	}

	r := repo.New(db, cfg.DBQueryTimeout)

	deps := &httpserver.Deps{
		Gate:   &middleware.Gate{Users: r, JWTSecret: cfg.JWTSecret, APIKey: cfg.APIKey},
		System: &httpserver.SystemHTTP{DB: db},
		Auth:   &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: r, JWTSecret: cfg.JWTSecret, Events: events}},
		Password: &httpserver.PasswordHTTP{Svc: &service.PasswordService{
			Repo: r,
			Mailer: mailer.NewSMTP(mailer.Config{
				Host:     cfg.SMTP.Host,
				Port:     cfg.SMTP.Port,
				User:     cfg.SMTP.User,
				Password: cfg.SMTP.Password,
				From:     cfg.SMTP.From,
			}),
			Limiter:     ratelimit.New(rdb, cfg.ResetRateLimit),
			FrontendURL: cfg.FrontendURL,
		}},
		Jobs:        &httpserver.JobHTTP{Svc: &service.JobService{Repo: r, Events: events, Index: index}, ListLimit: cfg.JobListLimit},
		Application: &httpserver.ApplicationHTTP{Svc: &service.ApplicationService{Repo: r, Events: events}},
		Report:      &httpserver.ReportHTTP{Svc: &service.ReportService{Repo: r}},
		CV:          &httpserver.CVHTTP{Svc: &service.CVService{Repo: r, Events: events}},
		Users:       &httpserver.UserHTTP{Svc: &service.UserService{Repo: r}},
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, middleware.APIKeyHeader},
	}))
	e.Use(echomw.BodyLimit("20M"))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           e,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_failed", "error", err)
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("shutdown_complete")
}
