package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"github.com/xvolv/tenant/internal/app"
	"github.com/xvolv/tenant/internal/domain/notification"
	"github.com/xvolv/tenant/internal/infra/config"
	idb "github.com/xvolv/tenant/internal/infra/database"
	"github.com/xvolv/tenant/internal/infra/dedup"
	"github.com/xvolv/tenant/internal/infra/httpapi"
	"github.com/xvolv/tenant/internal/infra/logger"
	"github.com/xvolv/tenant/internal/infra/scheduler"
	"github.com/xvolv/tenant/internal/infra/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(&config.AppConfig{LogLevel: "info"}).Fatalf("Could not load application configuration: %v", err)
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"environment":   cfg.Environment,
		"scan_interval": cfg.ScanInterval.String(),
	}).Info("rent notification bot starting")

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("database connection established")

	roomRepo := idb.NewPostgresRoomRepository(db)
	directoryRepo := idb.NewPostgresDirectoryRepository(db)

	var notified notification.NotifiedLedger
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Could not connect to redis at %s: %v", cfg.RedisAddr, err)
		}
		defer rdb.Close()
		notified = dedup.NewRedisLedger(rdb)
		log.WithField("addr", cfg.RedisAddr).Info("using redis notified ledger")
	} else {
		notified = dedup.NewMemoryLedger()
		log.Info("REDIS_ADDR not set, using in-memory notified ledger")
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		Client: &http.Client{Timeout: cfg.SendTimeout + 5*time.Second},
	})
	if err != nil {
		log.Fatalf("Could not create Telegram bot: %v", err)
	}
	gateway := telegram.NewTelebotAdapter(bot)

	dispatchCfg := app.DispatchConfig{
		RentAmount:      cfg.RentAmount,
		SendTimeout:     cfg.SendTimeout,
		DefaultLanguage: notification.ParseLanguage(cfg.DefaultLanguage),
	}
	clock := app.SystemClock{}
	dispatchService := app.NewDispatchService(roomRepo, directoryRepo, gateway, notified, clock, log, dispatchCfg)
	paymentService := app.NewPaymentService(roomRepo, directoryRepo, gateway, clock, log, dispatchCfg)

	notifScheduler := scheduler.NewNotificationScheduler(dispatchService, log, cfg.ScanInterval)
	if err := notifScheduler.Start(); err != nil {
		log.Fatalf("Could not start notification scheduler: %v", err)
	}

	router := httpapi.NewRouter(httpapi.NewHandler(dispatchService, notifScheduler, paymentService, log))
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // a manual scan can take a while
	}
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown: %v", err)
	}
	notifScheduler.Stop()
	log.Info("rent notification bot stopped")
}
