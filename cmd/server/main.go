package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"go-ticket-marketplace/config"
	"go-ticket-marketplace/internal/auth"
	"go-ticket-marketplace/internal/cache"
	"go-ticket-marketplace/internal/database"
	"go-ticket-marketplace/internal/handler"
	"go-ticket-marketplace/internal/ledger"
	"go-ticket-marketplace/internal/middleware"
	"go-ticket-marketplace/internal/model"
	"go-ticket-marketplace/internal/queue"
	"go-ticket-marketplace/internal/registry"
	"go-ticket-marketplace/internal/service"
	"go-ticket-marketplace/internal/store"
	"go-ticket-marketplace/internal/worker"
	apperrors "go-ticket-marketplace/pkg/app_errors"
	"go-ticket-marketplace/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	log := logger.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	pool, err := database.InitDatabase(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	st, err := store.NewPostgresStore(ctx, pool)
	if err != nil {
		log.Fatal("failed to initialize store", zap.Error(err))
	}

	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatal("failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	ledgerQueue, err := queue.NewRedisStreamLedgerEventQueue(rdb, "", nil)
	if err != nil {
		log.Fatal("failed to initialize ledger queue", zap.Error(err))
	}

	guard := auth.NewGuard(auth.TrustingVerifier())
	marketplace := service.NewMarketplaceService(
		st,
		guard,
		registry.NewEventRegistry(guard),
		registry.NewTicketRegistry(guard),
		ledger.NewEscrowLedger(),
		service.NewLoggingPaymentGateway(),
		cache.NewRedisCapacityGate(rdb),
		ledgerQueue,
	)

	// 啟動時以環境設定的 admin 做一次性 initialize
	if cfg.Platform.Admin != "" {
		err := marketplace.Initialize(ctx, model.Principal(cfg.Platform.Admin))
		if err != nil && !errors.Is(err, apperrors.ErrAlreadyInitialized) {
			log.Fatal("failed to initialize platform", zap.Error(err))
		}
	}

	auditWorker := worker.NewAuditWorker(ledgerQueue)
	if err := auditWorker.Start(ctx); err != nil {
		log.Fatal("failed to start audit worker", zap.Error(err))
	}

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
	handler.NewPlatformHandler(marketplace).RegisterRoutes(api)
	handler.NewEventHandler(marketplace).RegisterRoutes(api)
	handler.NewTicketHandler(marketplace).RegisterRoutes(api)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.Info("server listening", zap.String("addr", cfg.HTTPAddr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", zap.Error(err))
	}
}
