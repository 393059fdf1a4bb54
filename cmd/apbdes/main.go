package main

import (
	"context"
	"image"
	"net/http"
	"os"
	"time"

	"apbdes/internal/backend"
	"apbdes/internal/cache"
	"apbdes/internal/cli"
	"apbdes/internal/config"
	"apbdes/internal/core"
	"apbdes/internal/export"
	apphttp "apbdes/internal/http"
	applog "apbdes/internal/log"
	"apbdes/internal/session"
)

const (
	imageCacheSize = 64
	imageCacheTTL  = 30 * time.Minute
	cleanupEvery   = 10 * time.Minute
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)

	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	factory := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger)
	result, err := factory.CreateBackend(initCtx, backendCfg)
	initCancel()
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err,
			"seed_source", backendCfg.Seed.String(), "export_journal", backendCfg.Journal.String())
		os.Exit(1)
	}

	// Session documents expire after SESSION_TTL without activity; decoded
	// header images are shared by all PNG exports.
	docs := cache.NewSlidingCache[core.Document](cfg.SessionMax, cfg.SessionTTL)
	images := cache.NewLRUCache[image.Image](imageCacheSize, imageCacheTTL)
	caches := cache.NewManager()
	caches.Register("sessions", docs)
	caches.Register("images", images)
	caches.StartCleanup(cleanupEvery)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:     ":" + cfg.Port,
		Sessions: session.NewStore(docs, result.Seeds),
		Journal:  result.Journal,
		Formats: []export.Format{
			export.PNGFormat(export.NewPNGExporter(images)),
			export.XLSXFormat(),
		},
		Logger:         logger,
		ExportTimeout:  cfg.ExportTimeout,
		ExportRate:     cfg.ExportRatePerMinute,
		SessionTTL:     cfg.SessionTTL,
		FilenamePrefix: cfg.AppPrefix,
	})

	// Configure server timeouts and limits. Writes allow for a slow export.
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = cfg.ExportTimeout + 10*time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		caches.Stop()
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", applog.FieldError, err)
			}
		}
	})

	logger.Info("Starting apbdes server",
		"port", cfg.Port,
		"seed_source", backendCfg.Seed.String(),
		"export_journal", backendCfg.Journal.String())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
