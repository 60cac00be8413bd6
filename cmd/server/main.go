package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"raffleland/internal/config"
	cronrunner "raffleland/internal/cron"
	"raffleland/internal/db"
	"raffleland/internal/handler"
	"raffleland/internal/identity"
	"raffleland/internal/ledger"
	"raffleland/internal/logger"
	"raffleland/internal/oracle"
	gormrepository "raffleland/internal/repository/gorm"
	"raffleland/internal/service"
	"raffleland/internal/stream"

	_ "raffleland/docs"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("RL_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	envOnly := false
	if raw := os.Getenv("RL_ENV_ONLY"); raw != "" {
		envOnly = strings.EqualFold(raw, "true") || raw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	ledgerSvc := &ledger.Service{Repo: store, Logger: logger}
	oracleClient := oracle.NewClient(&http.Client{Timeout: cfg.Oracle.Timeout}, cfg.Oracle.BaseURL)

	var hub *stream.Hub
	if cfg.Stream.Enabled {
		hub = stream.NewHub(cfg.Stream.Buffer, logger)
	}

	registry := &service.RegistryService{
		Repo:          store,
		Ledger:        ledgerSvc,
		Oracle:        oracleClient,
		Hub:           hub,
		Logger:        logger,
		Config:        cfg.Raffle,
		OracleTimeout: cfg.Oracle.Timeout,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(identity.Middleware())

	healthHandler := &handler.HealthHandler{DB: dbConn}
	healthHandler.Register(engine)
	raffleHandler := &handler.RaffleHandler{
		Service: registry,
		Repo:    store,
		Logger:  logger,
	}
	raffleHandler.Register(engine)
	accountHandler := &handler.AccountHandler{Ledger: ledgerSvc, Repo: store}
	accountHandler.Register(engine)
	if hub != nil {
		streamHandler := &handler.StreamHandler{Hub: hub, Logger: logger}
		streamHandler.Register(engine)
	}

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		sweeper := &service.Sweeper{
			Service:    registry,
			Logger:     logger,
			PendingTTL: cfg.Oracle.PendingTTL,
			AutoClose:  cfg.Raffle.AutoClose,
		}
		_, err := cronRunner.Add("sweep", cfg.Cron.Sweep, func(ctx context.Context) {
			if err := sweeper.RunOnce(ctx); err != nil {
				logger.Warn("sweep failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register sweep failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,"+identity.AccountHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
