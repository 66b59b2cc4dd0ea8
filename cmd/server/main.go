package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/legalpadi/internal/config"
	"github.com/Skotchmaster/legalpadi/internal/db"
	"github.com/Skotchmaster/legalpadi/internal/dictionary"
	"github.com/Skotchmaster/legalpadi/internal/es"
	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/mailer"
	"github.com/Skotchmaster/legalpadi/internal/mykafka"
	"github.com/Skotchmaster/legalpadi/internal/repo"
	"github.com/Skotchmaster/legalpadi/internal/service"
	"github.com/Skotchmaster/legalpadi/internal/service/search"
	httpserver "github.com/Skotchmaster/legalpadi/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DB.Driver, cfg.DB.DSN())
	cancel()
	if err != nil {
		logger.Error("db init failed", "error", err)
		os.Exit(1)
	}
	r := repo.New(gdb)

	var prod mykafka.Publisher = mykafka.NopProducer{}
	var mail mailer.Dispatcher = &mailer.LogDispatcher{Logger: logger}
	if cfg.KafkaEnabled() {
		p, err := mykafka.NewProducer(cfg.Kafka.Brokers)
		if err != nil {
			logger.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		prod = p
		mail = &mailer.KafkaDispatcher{Producer: p, Topic: cfg.Kafka.MailTopic}
	}

	var index search.CourseIndex = &search.DBIndex{Repo: r}
	if cfg.SearchEnabled() {
		esCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := es.NewClient(esCtx, cfg.Search, logger)
		cancel()
		if err != nil {
			logger.Warn("elasticsearch unavailable, using database search", "error", err)
		} else {
			index = &search.ESIndex{ES: client, Index: cfg.Search.Index}
		}
	}

	dict, err := dictionary.Load(cfg.DictionaryPath)
	if err != nil {
		logger.Error("dictionary load failed", "path", cfg.DictionaryPath, "error", err)
		os.Exit(1)
	}
	logger.Info("dictionary loaded", "terms", dict.Len())

	notify := &service.Notifier{Mailer: mail, Events: prod, Topic: cfg.Kafka.EventsTopic}
	svcs, err := service.New(r, notify, index, cfg)
	if err != nil {
		logger.Error("service init failed", "error", err)
		os.Exit(1)
	}

	runCtx, stopRun := context.WithCancel(context.Background())
	sweeper := &service.Sweeper{
		Repo:     r,
		Interval: cfg.Auth.SweepInterval,
		Grace:    cfg.Auth.RefreshTokenTTL,
		Logger:   logger,
	}
	go sweeper.Run(runCtx)

	e := httpserver.NewEcho(logger)
	httpserver.Register(e, httpserver.NewDeps(gdb, svcs, dict))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force exit")
		os.Exit(1)
	}()

	logger.Info("shutting down")
	stopRun()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	notify.Wait()
	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close error", "error", err)
	}

	logger.Info("shutdown complete")
}
