package main

import (
	"context"
	"os"
	"time"

	"airquality/internal/api"
	"airquality/internal/config"
	"airquality/internal/engine"
	"airquality/internal/logger"
	"airquality/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	l := logger.Setup()
	cfg, warns := config.Load()
	for _, w := range warns {
		l.Warn("config_ignored", "err", w)
	}
	l.Info("config_loaded", "data_dir", cfg.DataDir, "addr", cfg.Addr, "workers", cfg.Workers, "top_k", cfg.TopK)

	// 1. Start ingestion in the background. The API answers 503 until it is done.
	ctx := context.Background()
	cancel := context.CancelFunc(func() {})
	if cfg.LoadTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.LoadTimeout)
	}
	defer cancel()
	t0 := time.Now()
	data := engine.Start(ctx, cfg.DataDir,
		engine.WithWorkers(cfg.Workers),
		engine.WithLogger(l))
	go func() {
		if _, err := data.Wait(context.Background()); err != nil {
			l.Error("ingest_aborted", "err", err)
			return
		}
		l.Info("store_ready", "took", time.Since(t0))
	}()

	// 2. HTTP
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				l.Warn("http_request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "err", v.Error)
			} else {
				l.Debug("http_request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			}
			return nil
		},
	}))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	h := api.NewHandler(data, cfg.TopK)
	h.RegisterRoutes(e)

	l.Info("server_start", "addr", cfg.Addr)
	if err := e.Start(cfg.Addr); err != nil {
		l.Error("server_exit", "err", err)
		os.Exit(1)
	}
}
