package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"carrierrates/internal/calendar"
	"carrierrates/internal/config"
	"carrierrates/internal/db"
	"carrierrates/internal/fedex"
	"carrierrates/internal/logging"
	"carrierrates/internal/rate"
	"carrierrates/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("load config", zap.Error(err))
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("build logger", zap.Error(err))
	}
	defer logger.Sync()

	cal, err := loadCalendar(cfg, logger)
	if err != nil {
		logger.Fatal("load holiday calendar", zap.Error(err))
	}

	providers := rate.NewRegistry(cfg.RateProvider)
	providers.Register("dummy", rate.NewDummy(cal))
	providers.Register("fedex", fedex.NewClient(fedex.Config{
		Credentials: fedex.Credentials{
			Key:           cfg.FedEx.Key,
			Password:      cfg.FedEx.Password,
			AccountNumber: cfg.FedEx.AccountNumber,
			MeterNumber:   cfg.FedEx.MeterNumber,
		},
		Mode:    cfg.FedEx.Mode,
		URL:     cfg.FedEx.URL,
		Timeout: cfg.FedEx.Timeout,
		Debug:   cfg.FedEx.Debug,
	}, fedex.WithLogger(logger.Named("fedex")), fedex.WithCalendar(cal)))
	if _, ok := providers.ByName(""); !ok {
		logger.Fatal("unknown RATE_PROVIDER", zap.String("provider", cfg.RateProvider))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r := server.New(providers,
		server.WithLogger(logger),
		server.WithMetrics(server.NewMetrics(reg)),
		server.WithEstimator(rate.NewDummy(cal)),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.FedEx.Timeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("api listening",
		zap.String("port", cfg.Port),
		zap.String("rate_provider", providers.Default()),
		zap.String("fedex_mode", cfg.FedEx.Mode),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

// loadCalendar merges configured holidays with the holidays table when a
// database is configured.
func loadCalendar(cfg config.Config, logger *zap.Logger) (*calendar.Calendar, error) {
	days, err := calendar.ParseHolidays(cfg.Holidays)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		logger.Info("DATABASE_URL not set, using configured holidays only", zap.Int("holidays", len(days)))
		return calendar.New(days...), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	// Verify connectivity proactively
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}
	stored, err := calendar.LoadHolidays(ctx, pool)
	if err != nil {
		return nil, err
	}
	logger.Info("holidays loaded", zap.Int("configured", len(days)), zap.Int("stored", len(stored)))
	return calendar.New(append(days, stored...)...), nil
}
