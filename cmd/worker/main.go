package main

import (
	"log"
	"os"

	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/config"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/infrastructure/logger"
	temporalinfra "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/infrastructure/temporal"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/workflow"
)

// The worker hosts the order fulfillment workflow. It needs neither the
// database nor the HTTP server; the API's workflow bridge reaches it
// through the Temporal task queue.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	c, err := temporalinfra.NewClient(cfg.Workflow)
	if err != nil {
		zapLogger.Fatal("creating temporal client", zap.Error(err))
	}
	defer c.Close()

	w := worker.New(c, cfg.Workflow.TaskQueue, worker.Options{
		Identity: "fulfillment-worker-" + hostname(),
	})
	w.RegisterWorkflow(workflow.FulfillmentWorkflow)

	zapLogger.Info("worker starting",
		zap.String("taskQueue", cfg.Workflow.TaskQueue),
		zap.String("hostPort", cfg.Workflow.HostPort))

	if err := w.Run(worker.InterruptCh()); err != nil {
		zapLogger.Fatal("worker stopped", zap.Error(err))
	}
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
