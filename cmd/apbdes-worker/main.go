package main

import (
	"context"
	"errors"
	"os"
	"time"

	"apbdes/internal/amqp"
	"apbdes/internal/cli"
	"apbdes/internal/config"
	applog "apbdes/internal/log"
	"apbdes/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	logger.Info("Starting apbdes-worker")

	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		_ = repo.Close()
		os.Exit(1)
	}

	journal := worker.NewJournalWorker(repo)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if err := amqpClient.Close(); err != nil {
			logger.Error("AMQP close error", applog.FieldError, err)
		}
		if err := repo.Close(); err != nil {
			logger.Error("SQLite close error", applog.FieldError, err)
		}
	})

	go func() {
		if err := amqpClient.ConsumeExportEvents(ctx, journal.HandleExportEvent); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Export event consumption failed", applog.FieldError, err)
		}
	}()

	go func() {
		ticker := time.NewTicker(cfg.SummaryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := journal.LogSummary(ctx); err != nil {
					logger.Error("Journal summary failed", applog.FieldError, err)
				}
			}
		}
	}()

	logger.Info("Worker consuming export events",
		"queue", cfg.AMQPQueue,
		"exchange", cfg.AMQPExchange,
		"db_path", cfg.SQLiteDBPath)

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped", "handled", journal.Handled())
}
