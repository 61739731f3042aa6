package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"madrasa/internal/amqp"
	"madrasa/internal/config"
	apphttp "madrasa/internal/http"
	"madrasa/internal/ledger"
	applog "madrasa/internal/log"
	"madrasa/internal/report"
	"madrasa/internal/services"
	"madrasa/internal/storage"
	"madrasa/internal/store"
	mem "madrasa/internal/store/memory"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		source    store.TransactionSource
		querier   store.TransactionQuerier
		txWriter  store.TransactionWriter
		students  store.StudentStore
		staff     store.StaffStore
		inventory store.InventoryStore
		feed      *services.Feed
	)

	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite repository",
				applog.FieldError, err.Error(), "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()

		feed, err = services.NewFeed(ctx, repo, logger)
		if err != nil {
			logger.Error("Failed to prime transaction feed", applog.FieldError, err.Error())
			os.Exit(1)
		}

		source, querier, txWriter = feed, repo, repo
		students, staff, inventory = repo, repo, repo
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		st := mem.New()
		source, querier, txWriter = st, st, st
		students, staff, inventory = st, st, st
		logger.Info("Initialized memory backend")
	}

	// The change bus is optional. Without it a single process still gets
	// live updates from its own writes; it just cannot see other processes.
	var bus *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		bus, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without change bus",
				applog.FieldError, err.Error())
			bus = nil
		} else {
			defer bus.Close()
			logger.Info("Connected to AMQP change bus",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	records := services.NewRecordService(txWriter, students, staff, inventory, feed, bus, logger)
	watcher := ledger.NewWatcher(source, logger)
	extractor := report.NewExtractor(querier, logger)

	if err := watcher.Start(ctx); err != nil {
		logger.Error("Failed to start ledger watcher", applog.FieldError, err.Error())
		os.Exit(1)
	}

	var listener *services.ChangeListener
	if bus != nil && feed != nil {
		listener = services.NewChangeListener(bus, feed, logger)
		if err := listener.Start(ctx); err != nil {
			logger.Error("Failed to start change listener", applog.FieldError, err.Error())
			os.Exit(1)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, watcher, extractor, records,
		cfg.InstitutionName, cfg.InstitutionAddress)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting madrasa server",
			"port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
		if listener != nil {
			if err := listener.Stop(shutdownCtx); err != nil {
				logger.Error("Change listener stop error", applog.FieldError, err.Error())
			}
		}
		if err := watcher.Stop(shutdownCtx); err != nil {
			logger.Error("Ledger watcher stop error", applog.FieldError, err.Error())
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
