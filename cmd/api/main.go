package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bryanwahyu/coderefine/internal/application"
	appreview "github.com/bryanwahyu/coderefine/internal/application/review"
	"github.com/bryanwahyu/coderefine/internal/config"
	domain "github.com/bryanwahyu/coderefine/internal/domain/review"
	"github.com/bryanwahyu/coderefine/internal/infra/ai/fallback"
	"github.com/bryanwahyu/coderefine/internal/infra/ai/gemini"
	"github.com/bryanwahyu/coderefine/internal/infra/httpserver"
	"github.com/bryanwahyu/coderefine/internal/logging"
	"github.com/bryanwahyu/coderefine/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Logging, os.Stdout)
	if cfg.Gemini.APIKey == "" {
		log.Warn("GEMINI_API_KEY not set, every analysis will use demo mode")
	}

	analyzer := fallback.New()
	svc := appreview.NewService(
		gemini.NewClient(cfg.Gemini),
		analyzer,
		log,
		appreview.WithStatusTTL(cfg.Status.CacheTTL),
		appreview.WithClock(application.SystemClock{}),
	)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		defer limiter.Stop()
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		Log:          log,
		Metrics:      middleware.NewMetrics(),
		RateLimiter:  limiter,
		CORSOrigins:  cfg.Server.CORSOrigins,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Checkers: map[string]middleware.HealthChecker{
			"fallback_analyzer": middleware.CheckerFunc(func(context.Context) error {
				return selfTest(analyzer)
			}),
		},
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.WithField("addr", srv.Addr).WithField("model", cfg.Gemini.Model).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown error")
	}
}

// selfTest checks the fallback answers a clean snippet with a bounded score.
func selfTest(a domain.Analyzer) error {
	res := a.Analyze("x = 1")
	if res.Score < domain.MinScore || res.Score > domain.MaxScore || len(res.Issues) == 0 {
		return fmt.Errorf("fallback analyzer returned an invalid result: %+v", res)
	}
	return nil
}
