package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/cart"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/commons"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/config"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/infrastructure/logger"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/infrastructure/mysql"
	temporalinfra "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/infrastructure/temporal"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/order"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/product"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/server"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/stats"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/workflow"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	bridge, cleanup, err := newBridge(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("creating workflow bridge", zap.Error(err))
	}
	defer cleanup()

	orderCtrl := order.NewModule(db, cfg, bridge, zapLogger)
	cartCtrl := cart.NewModule(db, zapLogger)
	productCtrl := product.NewModule(db, zapLogger)
	statsCtrl := stats.NewModule(db, zapLogger)

	router := server.NewRouter(orderCtrl, cartCtrl, productCtrl, statsCtrl, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

// loadConfig prefers the yaml file when one is present and falls back to
// environment variables.
func loadConfig() (*config.Config, error) {
	const path = "internal/config/config.yaml"
	if _, err := os.Stat(path); err == nil {
		return commons.LoadConfig(path)
	}
	return config.Load()
}

func newBridge(cfg *config.Config, zapLogger *zap.Logger) (workflow.Bridge, func(), error) {
	switch cfg.Workflow.Engine {
	case config.EngineInProc:
		zapLogger.Info("using in-process workflow engine")
		return workflow.NewInProcEngine(zapLogger), func() {}, nil
	default:
		c, err := temporalinfra.NewClient(cfg.Workflow)
		if err != nil {
			return nil, nil, err
		}
		zapLogger.Info("temporal client connected",
			zap.String("hostPort", cfg.Workflow.HostPort),
			zap.String("taskQueue", cfg.Workflow.TaskQueue))
		return workflow.NewTemporalBridge(c, cfg.Workflow.TaskQueue, zapLogger), c.Close, nil
	}
}
