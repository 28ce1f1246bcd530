package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	_ "github.com/soulbliss/soulbliss-api/api/swagger"
	"github.com/soulbliss/soulbliss-api/internal/handler"
	internalmiddleware "github.com/soulbliss/soulbliss-api/internal/middleware"
	"github.com/soulbliss/soulbliss-api/internal/repository"
	"github.com/soulbliss/soulbliss-api/internal/repository/mongostore"
	"github.com/soulbliss/soulbliss-api/internal/router"
	"github.com/soulbliss/soulbliss-api/internal/service"
	"github.com/soulbliss/soulbliss-api/pkg/cache"
	"github.com/soulbliss/soulbliss-api/pkg/config"
	"github.com/soulbliss/soulbliss-api/pkg/database"
	"github.com/soulbliss/soulbliss-api/pkg/jobs"
	"github.com/soulbliss/soulbliss-api/pkg/logger"
	"github.com/soulbliss/soulbliss-api/pkg/mailer"
	corsmiddleware "github.com/soulbliss/soulbliss-api/pkg/middleware/cors"
	reqidmiddleware "github.com/soulbliss/soulbliss-api/pkg/middleware/requestid"
	"github.com/soulbliss/soulbliss-api/pkg/observability"
	"github.com/soulbliss/soulbliss-api/pkg/payment"
)

// @title SoulBliss API
// @version 1.0.0
// @description Course marketplace backend: classes, selections, payments and enrollments
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

// stores is the backend-neutral set of repositories the services run on.
type stores struct {
	users       service.UserRepository
	classes     service.ClassRepository
	selections  service.SelectionRepository
	enrollments service.EnrollmentRepository
	purchases   service.PurchaseStore
	ping        handler.Pinger
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	flushSentry, err := observability.InitSentry(cfg.Sentry.DSN, cfg.Env, cfg.Release)
	if err != nil {
		logr.Warn("sentry disabled", zap.Error(err))
	}
	defer flushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to open store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer st.close()

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	var redisClient *redis.Client
	if cfg.ClassCache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("class cache disabled: redis unavailable", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
		}
	}
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient, logr), metricsSvc, cfg.ClassCache.TTL, logr, redisClient != nil)

	var sender mailer.Sender
	if smtp := mailer.NewSMTPSender(cfg.SMTP); smtp != nil {
		sender = smtp
	}
	notifier := service.NewNotificationService(sender, metricsSvc, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	}, logr)
	notifier.Start(context.Background())
	defer notifier.Stop()

	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	roleGate := service.NewRoleGate(st.users, logr)
	userSvc := service.NewUserService(st.users, validate, logr)
	classSvc := service.NewClassService(st.classes, cacheSvc, validate, logr)
	selectionSvc := service.NewSelectionService(st.selections, validate, logr)
	paymentSvc := service.NewPaymentService(payment.NewStripeProvider(cfg.Payment.SecretKey, cfg.Payment.Currency), logr)
	purchaseSvc := service.NewPurchaseService(st.purchases, notifier, metricsSvc, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(st.enrollments, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Sentry.DSN != "" {
		r.Use(observability.GinMiddleware())
	}
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	if cfg.Sentry.DSN != "" {
		r.Use(observability.ReportServerErrors())
	}

	router.Register(r, cfg, router.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Users:       handler.NewUserHandler(userSvc, roleGate),
		Classes:     handler.NewClassHandler(classSvc),
		Selections:  handler.NewSelectionHandler(selectionSvc),
		Payments:    handler.NewPaymentHandler(paymentSvc, purchaseSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc),
		Metrics:     handler.NewMetricsHandler(metricsSvc, st.ping),
	}, router.Guards{Auth: authSvc, Roles: roleGate})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStores(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*stores, error) {
	if cfg.Database.Driver == config.DriverMongo {
		client, db, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return mongoStores(client, db), nil
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db.DB); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logr.Info("database migrations applied")
	}
	return postgresStores(db), nil
}

func postgresStores(db *sqlx.DB) *stores {
	return &stores{
		users:       repository.NewUserRepository(db),
		classes:     repository.NewClassRepository(db),
		selections:  repository.NewSelectionRepository(db),
		enrollments: repository.NewEnrollmentRepository(db),
		purchases:   repository.NewPurchaseRepository(db),
		ping:        db.PingContext,
		close:       func() { _ = db.Close() },
	}
}

func mongoStores(client *mongo.Client, db *mongo.Database) *stores {
	return &stores{
		users:       mongostore.NewUserRepository(db),
		classes:     mongostore.NewClassRepository(db),
		selections:  mongostore.NewSelectionRepository(db),
		enrollments: mongostore.NewEnrollmentRepository(db),
		purchases:   mongostore.NewPurchaseRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: func() { _ = client.Disconnect(context.Background()) },
	}
}
