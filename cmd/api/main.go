package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salonflow/salon-scheduler/internal/config"
	"github.com/salonflow/salon-scheduler/internal/cron"
	dbpkg "github.com/salonflow/salon-scheduler/internal/db"
	infraRepo "github.com/salonflow/salon-scheduler/internal/infra/repository"
	"github.com/salonflow/salon-scheduler/internal/logging"
	"github.com/salonflow/salon-scheduler/internal/metrics"
	"github.com/salonflow/salon-scheduler/internal/notify"
	"github.com/salonflow/salon-scheduler/internal/ratelimit"
	"github.com/salonflow/salon-scheduler/internal/routes"
	"github.com/salonflow/salon-scheduler/internal/timezone"
	ucBooking "github.com/salonflow/salon-scheduler/internal/usecase/booking"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	metrics.Register()

	db := dbpkg.NewDB(cfg, log)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, rate limiting degrades to per-process")
		}
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, log)
		if err != nil {
			log.Warn().Err(err).Msg("telegram disabled")
		} else {
			notifier = tg
		}
	}

	limiter := ratelimit.New(rdb, cfg.PublicRateLimit, cfg.PublicRateWindow, log)
	resolver := timezone.NewResolver(log)

	// Background sweep: flips elapsed CONFIRMED bookings to COMPLETED.
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	autoCompleteUC := ucBooking.NewAutoComplete(scheduleRepo, log)
	runner := cron.NewRunner(autoCompleteUC, scheduleRepo, cfg.SweepInterval, log)
	runner.Start(context.Background())
	defer runner.Stop()

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.RegisterRoutes(r, db, cfg, routes.Deps{
		Log:      log,
		Notifier: notifier,
		Limiter:  limiter,
		Resolver: resolver,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
