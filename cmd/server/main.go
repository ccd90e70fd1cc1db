package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/agrikart/checkout/internal/adapter/handler"
	"github.com/agrikart/checkout/internal/adapter/hostinger"
	"github.com/agrikart/checkout/internal/adapter/notify"
	"github.com/agrikart/checkout/internal/adapter/storage"
	"github.com/agrikart/checkout/internal/core/domain"
	"github.com/agrikart/checkout/internal/core/service"
	"github.com/agrikart/checkout/internal/port"
	"github.com/agrikart/checkout/pkg/config"
	"github.com/agrikart/checkout/pkg/logger"
	"github.com/agrikart/checkout/pkg/metrics"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "checkout",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	if err := domain.ValidateCouponRules(); err != nil {
		log.Error("coupon rule table invalid", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Error("failed to open mysql", "error", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to ping mysql", "error", err)
		os.Exit(1)
	}
	log.Info("connected to mysql")

	if err := storage.RunMigrations(db, cfg.MigrationsPath); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	log.Info("database migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("failed to connect redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to redis")

	m := metrics.New(prometheus.DefaultRegisterer)

	primary := storage.NewMySQLAdapter(db)
	sessions := storage.NewRedisAdapter(rdb)
	secondary := hostinger.NewClient(cfg.HostingerBaseURL, cfg.HostingerAPIKey)

	var kafkaSMS port.SMSProvider
	var kafkaProvider *notify.KafkaSMSProvider
	if cfg.KafkaBrokers != "" {
		kafkaProvider = notify.NewKafkaSMSProvider(strings.Split(cfg.KafkaBrokers, ","))
		kafkaSMS = kafkaProvider
		log.Info("kafka sms channel enabled", "brokers", cfg.KafkaBrokers)
	}

	pricing := service.NewPricingEngine(domain.FeeSchedule{
		Delivery: cfg.DeliveryFee,
		Platform: cfg.PlatformFee,
		Handling: cfg.HandlingFee,
	})
	sink := service.NewDualWriteOrderSink(primary, secondary, log, m)
	checkout := service.NewCheckoutService(pricing, sink, sessions, log)
	addresses := service.NewAddressService(primary)
	notifier := service.NewNotifier(secondary, kafkaSMS, log, m)

	h := handler.NewHTTPHandler(checkout, addresses, sink, notifier, secondary)

	mux := chiWithMetrics(h)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: mux,
	}

	go func() {
		log.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Info("http server stopped")

	if kafkaProvider != nil {
		kafkaProvider.Close()
	}
	rdb.Close()
	db.Close()
	log.Info("connections closed")
}

func chiWithMetrics(h *handler.HTTPHandler) http.Handler {
	r := h.Router()
	r.Handle("/metrics", metrics.Handler())
	return r
}
