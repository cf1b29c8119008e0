package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_dashboard/internal/app/di"
	"stock_dashboard/internal/app/router"
	candleshandler "stock_dashboard/internal/feature/candles/transport/handler"
	candlesusecase "stock_dashboard/internal/feature/candles/usecase"
	dashboardhandler "stock_dashboard/internal/feature/indicators/transport/handler"
	dashboardusecase "stock_dashboard/internal/feature/indicators/usecase"
	symbollisthandler "stock_dashboard/internal/feature/symbollist/transport/handler"
	symbollistusecase "stock_dashboard/internal/feature/symbollist/usecase"
	"stock_dashboard/internal/platform/config"
	platformdb "stock_dashboard/internal/platform/db"
	"stock_dashboard/internal/platform/http/handler"
	"stock_dashboard/internal/platform/logger"
	"stock_dashboard/internal/platform/metrics"
	platformredis "stock_dashboard/internal/platform/redis"
	"stock_dashboard/internal/shared/daterange"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 設定（.env → configs/config.yaml → 環境変数）
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.Init("stock-dashboard", cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis（任意）
	var rdb *redisv9.Client
	if cfg.Redis.Enabled {
		tmp, err := platformredis.NewRedisClient(ctx, platformredis.Config{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// DB（銘柄カタログ用、任意）
	var db *gorm.DB
	if cfg.Database.Driver != "none" {
		db, err = platformdb.OpenDB(platformdb.Config{
			Driver:   cfg.Database.Driver,
			Path:     cfg.Database.Path,
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Name:     cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
		}, 30*time.Second)
		if err != nil {
			log.Warn("database unavailable. Serving built-in symbol list.", "error", err)
			db = nil
		}
	}

	// Repository
	market, err := di.NewMarket(cfg)
	if err != nil {
		return err
	}
	var prom *metrics.Metrics
	if cfg.Metrics.Enabled {
		prom = metrics.New()
	}
	cachedMarket := di.NewCachedMarket(cfg, rdb, market, prom)
	symbolRepo, err := di.NewSymbolRepository(ctx, db, cfg.Database.RunMigrations)
	if err != nil {
		return err
	}

	// Usecase
	candlesUC := candlesusecase.NewCandlesUsecase(cachedMarket)
	dashboardUC := dashboardusecase.NewDashboardUsecase(candlesUC, dashboardusecase.DefaultParams())
	symbolUC := symbollistusecase.NewSymbolUsecase(symbolRepo)

	// Handler
	rangeDefaults, err := dateDefaults(cfg.Dashboard)
	if err != nil {
		return err
	}
	var pinger handler.Pinger
	var cacheH *handler.CacheHandler
	if rdb != nil {
		pinger = handler.PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		cacheH = handler.NewCacheHandler(cachedMarket)
	}
	handlers := router.Handlers{
		Dashboard: dashboardhandler.NewDashboardHandler(dashboardUC, dashboardhandler.Defaults{
			Ticker: cfg.Dashboard.DefaultTicker,
			Range:  rangeDefaults,
		}),
		Candles:     candleshandler.NewCandlesHandler(candlesUC, rangeDefaults),
		Symbols:     symbollisthandler.NewSymbolHandler(symbolUC),
		Health:      handler.NewHealthHandler(cfg.Market.Provider, pinger),
		Cache:       cacheH,
		Metrics:     prom,
		MetricsPath: cfg.Metrics.Path,
	}

	// ルータ生成
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router.NewRouter(log, handlers),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "provider", cfg.Market.Provider, "cache", rdb != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func dateDefaults(d config.DashboardConfig) (daterange.Defaults, error) {
	start, err := daterange.ParseDate(d.DefaultStart, time.Time{})
	if err != nil {
		return daterange.Defaults{}, err
	}
	end, err := daterange.ParseDate(d.DefaultEnd, time.Time{})
	if err != nil {
		return daterange.Defaults{}, err
	}
	return daterange.Defaults{Start: start, End: end}, nil
}
