package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "refstaff/docs"
	"refstaff/internal/caching"
	"refstaff/internal/config"
	"refstaff/internal/dadata"
	"refstaff/internal/handlers"
	"refstaff/internal/jobs/background"
	"refstaff/internal/middleware"
	"refstaff/internal/repositories"
	"refstaff/internal/services"
	"refstaff/pkg/database"
	"refstaff/pkg/logging"
)

const version = "1.0.0"

// @title RefStaff API
// @version 1.0
// @description Referral recruiting backend: vacancies, recommendations, rewards and payouts.
// @BasePath /
// @securityDefinitions.apikey AuthToken
// @in header
// @name X-Auth-Token
func main() {
	// Bootstrap logger until the configured one replaces it.
	if _, err := logging.Setup("info", os.Getenv("APP_ENV") != "production"); err != nil {
		panic(err)
	}
	if err := run(); err != nil {
		zap.L().Fatal("Server stopped", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.Setup(cfg.LogLevel, !cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, cfg.DBSchema)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}

	// Redis is optional. Without it caches are no-ops.
	var cacheSvc caching.CacheService
	var redisPinger handlers.Pinger
	if cfg.Redis.Addr != "" {
		redisCache := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisCache.Close()
		cacheSvc = redisCache
		redisPinger = redisCache
	} else {
		zap.L().Info("REDIS_ADDR not set, caching disabled")
		cacheSvc = caching.NewNoopCacheService()
	}

	// MinIO only backs the share image cache.
	var minioSvc services.MinioService
	var storagePinger handlers.Pinger
	if cfg.Minio.Enabled() {
		minioSvc, err = services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL, cfg.Minio.Bucket)
		if err != nil {
			return fmt.Errorf("init minio: %w", err)
		}
		bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := minioSvc.EnsureBucketExists(bucketCtx); err != nil {
			zap.L().Warn("MinIO bucket unavailable, share images will not be cached", zap.Error(err))
		}
		cancel()
		storagePinger = minioSvc
	}

	var dadataClient dadata.Client
	if cfg.DadataAPIKey != "" {
		dadataClient = dadata.NewClient("", cfg.DadataAPIKey)
	} else {
		zap.L().Warn("DADATA_API_KEY not set, INN verification disabled")
	}

	if !cfg.SMTP.Configured() {
		zap.L().Warn("SMTP not configured, outbound email disabled")
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	companyRepo := repositories.NewCompanyRepo(pool)
	vacancyRepo := repositories.NewVacancyRepo(pool)
	recommendationRepo := repositories.NewRecommendationRepo(pool)
	walletRepo := repositories.NewWalletRepo(pool)
	payoutRepo := repositories.NewPayoutRepo(pool)
	chatRepo := repositories.NewChatRepo(pool)
	peerChatRepo := repositories.NewEmployeeChatRepo(pool)
	gameScoreRepo := repositories.NewGameScoreRepo(pool)
	resetRepo := repositories.NewPasswordResetRepo(pool)
	contactRepo := repositories.NewContactRepo(pool)

	// Services
	mailer := services.NewSMTPMailer(cfg.SMTP)
	notificationSvc := services.NewNotificationService(companyRepo, userRepo, mailer, cfg.AppURL)
	tokenSvc := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, nil)
	authSvc := services.NewAuthService(userRepo, companyRepo, tokenSvc, notificationSvc, services.AuthServiceConfig{
		DefaultCompanyID: cfg.DefaultCompanyID,
		AppURL:           cfg.AppURL,
	})
	vacancySvc := services.NewVacancyService(vacancyRepo, userRepo)
	recommendationSvc := services.NewRecommendationService(recommendationRepo, vacancyRepo, userRepo, notificationSvc, nil)
	employeeSvc := services.NewEmployeeService(userRepo)
	companySvc := services.NewCompanyService(companyRepo, userRepo, nil)
	walletSvc := services.NewWalletService(walletRepo, nil)
	payoutSvc := services.NewPayoutService(payoutRepo, userRepo, notificationSvc, nil)
	chatSvc := services.NewChatService(chatRepo, peerChatRepo, userRepo)
	gameScoreSvc := services.NewGameScoreService(gameScoreRepo, cacheSvc)
	innSvc := services.NewINNService(dadataClient, cacheSvc)
	resetSvc := services.NewPasswordResetService(resetRepo, userRepo, notificationSvc, cfg.SiteURL, nil)
	contactSvc := services.NewContactService(contactRepo)
	ogSvc := services.NewOGService(vacancyRepo, minioSvc, cfg.AppURL)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	h := &handlers.Handlers{
		Auth: authHandlers,
		API: handlers.NewAPIHandlers(handlers.APIServices{
			Vacancies:       vacancySvc,
			Recommendations: recommendationSvc,
			Employees:       employeeSvc,
			Companies:       companySvc,
			Wallets:         walletSvc,
			Chats:           chatSvc,
		}, authHandlers),
		Payouts:       handlers.NewPayoutHandlers(payoutSvc),
		Games:         handlers.NewGameScoreHandlers(gameScoreSvc),
		Public:        handlers.NewPublicHandlers(innSvc, resetSvc, companySvc, contactSvc),
		Notifications: handlers.NewNotificationHandlers(notificationSvc),
		OG:            handlers.NewOGHandlers(ogSvc),
		Health:        handlers.NewHealthHandlers(pool, redisPinger, storagePinger, version),
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				zap.L().Warn("Request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			zap.L().Info("Request", fields...)
			return nil
		},
	}))
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.CORS())

	handlers.RegisterRoutes(e, h, tokenSvc)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Background jobs
	scheduler, err := background.NewJobScheduler(walletSvc, resetSvc, companySvc)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			zap.L().Error("Scheduler shutdown failed", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("RefStaff server starting", zap.String("version", version), zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-quit:
		zap.L().Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
