package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wealthgrows/internal/amqp"
	"wealthgrows/internal/cli"
	apphttp "wealthgrows/internal/http"
	"wealthgrows/internal/report"
	"wealthgrows/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	st := cli.OpenStore(logger, cfg)
	defer st.Close()

	// AMQP is optional. Without it report requests are served inline.
	var publisher services.ReportPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, reports will be generated inline", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	// The Gemini generator is also optional. Without a key and without AMQP
	// the report endpoints report themselves unavailable.
	var generator services.ReportGenerator
	gen, err := report.NewGeneratorFromEnv(context.Background(), cfg.ReportModel)
	switch {
	case err == nil:
		generator = gen
		logger.Info("Initialized report generator", "model", cfg.ReportModel)
	case errors.Is(err, report.ErrMissingAPIKey):
		logger.Info("No Gemini API key configured, inline report generation disabled")
	default:
		logger.Error("Failed to initialize report generator", "error", err)
		os.Exit(1)
	}

	ledger := services.NewLedgerService(st)
	reports := services.NewReportService(st, generator, publisher)

	srv := apphttp.NewServer(":"+cfg.Port, ledger, reports, cfg.ReportCacheTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting wealthgrows server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
