package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hoodies-be/internal/admin"
	"hoodies-be/internal/api"
	"hoodies-be/internal/cart"
	"hoodies-be/internal/checkout"
	"hoodies-be/internal/config"
	"hoodies-be/internal/db"
	"hoodies-be/internal/logger"
	"hoodies-be/internal/metrics"
	"hoodies-be/internal/middleware"
	"hoodies-be/internal/notification"
	"hoodies-be/internal/order"
	"hoodies-be/internal/product"
	"hoodies-be/internal/profile"
	"hoodies-be/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 15 * time.Second
	startupTimeout  = 5 * time.Second
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

// server is everything run needs to serve and later drain.
type server struct {
	handler  http.Handler
	limiter  *middleware.RateLimiter
	checkout *checkout.Processor
}

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped with error", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := newRedisClient(ctx, cfg)
	defer rdb.Close()

	s := newServer(cfg, database, rdb)
	go s.limiter.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.L().Info("http server listening", zap.String("addr", srv.Addr))

	errCh := make(chan error, 1)
	go func() { errCh <- startServerFunc(srv) }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	s.checkout.Wait()
	logger.L().Info("server stopped")
	return nil
}

// newRedisClient builds the cart store client. An unreachable Redis is not
// fatal: cart requests answer 503 until it comes back.
func newRedisClient(ctx context.Context, cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.L().Warn("redis unavailable, cart requests will fail until it recovers", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	return rdb
}

func newServer(cfg *config.Config, database *sql.DB, rdb redis.Cmdable) *server {
	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, productSvc)

	profileRepo := profile.NewRepository(database)
	profileSvc := profile.NewService(profileRepo)

	adminRepo := admin.NewRepository(database)

	carts := cart.NewManager(cart.NewRedisStorage(rdb, cart.DefaultTTL))
	cartSvc := cart.NewService(carts, productRepo)

	checkoutMetrics := &metrics.Checkout{}
	processor := checkout.NewService(
		carts,
		orderRepo,
		profileRepo,
		newNotifier(cfg, adminRepo),
		checkoutMetrics,
		checkout.Options{},
	)

	h := api.NewHandler(api.Deps{
		Products: productSvc,
		Carts:    cartSvc,
		Checkout: processor,
		Orders:   orderSvc,
		Profiles: profileSvc,
		Uploader: newUploader(cfg),
		Admins:   adminRepo,
		Metrics:  checkoutMetrics,
	})

	limiter := middleware.NewRateLimiter()
	router := setupRouter(h, cfg.CORSOrigins)

	var handler http.Handler = router
	handler = limiter.Middleware(handler)
	handler = middleware.Auth([]byte(cfg.JWTSecret))(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)

	return &server{handler: handler, limiter: limiter, checkout: processor}
}

func setupRouter(h *api.Handler, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.CORS(origins))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	h.Register(r)
	return r
}

// newNotifier returns nil when no SMTP relay is configured, which turns
// admin order e-mails off.
func newNotifier(cfg *config.Config, admins notification.AdminDirectory) notification.Notifier {
	if cfg.SMTPHost == "" {
		logger.L().Warn("SMTP_HOST not set, order notifications disabled")
		return nil
	}

	client, err := notification.NewSMTPClient(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	})
	if err != nil {
		logger.L().Error("invalid SMTP configuration, order notifications disabled", zap.Error(err))
		return nil
	}
	return notification.NewMailer(client, admins, cfg.MailFrom)
}

func newUploader(cfg *config.Config) api.ImageUploader {
	if cfg.MinioEndpoint == "" {
		logger.L().Warn("MINIO_ENDPOINT not set, image uploads disabled")
		return storage.Disabled{}
	}

	scfg := storage.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		Secure:    cfg.MinioSecure,
	}
	client, err := storage.NewMinioClient(scfg)
	if err != nil {
		logger.L().Error("invalid object storage configuration, image uploads disabled", zap.Error(err))
		return storage.Disabled{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	if err := storage.EnsureBucket(ctx, client, scfg.Bucket); err != nil {
		logger.L().Warn("object storage bucket check failed", zap.String("bucket", scfg.Bucket), zap.Error(err))
	}

	return storage.NewUploader(client, scfg.Bucket, storage.PublicBaseURL(scfg))
}
