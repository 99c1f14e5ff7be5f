package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"wealthgrows/internal/amqp"
	"wealthgrows/internal/cli"
	"wealthgrows/internal/report"
	"wealthgrows/internal/services"
	"wealthgrows/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting report-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the report worker")
		os.Exit(1)
	}

	st := cli.OpenStore(logger, cfg)
	defer st.Close()

	generator, err := report.NewGeneratorFromEnv(context.Background(), cfg.ReportModel)
	if err != nil {
		logger.Error("Failed to initialize report generator", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized report generator", "model", cfg.ReportModel)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	reports := services.NewReportService(st, generator, nil)
	reportWorker := worker.NewReportWorker(reports, amqpClient)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return reportWorker.Run(ctx)
	})

	logger.Info("Consuming report requests", "queue", cfg.AMQPQueue)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
