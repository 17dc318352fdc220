package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wis2kit/downloader/internal/api/handler"
	"github.com/wis2kit/downloader/internal/api/router"
	"github.com/wis2kit/downloader/internal/config"
	"github.com/wis2kit/downloader/internal/history"
	"github.com/wis2kit/downloader/internal/output"
	"github.com/wis2kit/downloader/internal/queue"
	"github.com/wis2kit/downloader/internal/subscription"
	"github.com/wis2kit/downloader/internal/worker"
	"github.com/wis2kit/downloader/shared/broker"
	"github.com/wis2kit/downloader/shared/logger"
	"github.com/wis2kit/downloader/shared/postgresql"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("DOWNLOADER_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/downloader-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting downloader service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	// The download directory must be usable before anything connects.
	if err := output.CheckWritableDir(cfg.Download.Directory); err != nil {
		return fmt.Errorf("download directory is not writable: %w", err)
	}

	// Initialize broker client
	brokerClient, err := initBroker(&cfg.Broker, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	appLogger.Info("Broker connection established")

	// Initialize the optional download history store
	var dbClient *postgresql.Client
	var historyStore *history.Storage
	var recorder history.Recorder = history.NopRecorder{}

	if cfg.Database.Enabled {
		dbClient, err = initPostgreSQL(&cfg.Database, appLogger.Logger)
		if err != nil {
			brokerClient.Close()
			return fmt.Errorf("failed to initialize database: %w", err)
		}

		historyStore = history.NewStorage(dbClient.GetDB())
		if err := historyStore.Migrate(context.Background()); err != nil {
			dbClient.Close()
			brokerClient.Close()
			return fmt.Errorf("failed to migrate history store: %w", err)
		}
		recorder = historyStore

		appLogger.Info("Download history store enabled")
	}

	cleanup := func() {
		if dbClient != nil {
			dbClient.Close()
		}
		brokerClient.Close()
	}

	// Build the subscription table and seed the configured topics
	table := subscription.NewTable()
	subscriptions := subscription.NewService(table, brokerClient, cfg.Download.Directory, appLogger.Logger)

	for _, topic := range cfg.Download.Topics {
		if _, err := subscriptions.Add(topic); err != nil {
			cleanup()
			return fmt.Errorf("failed to subscribe to topic %q: %w", topic, err)
		}
	}

	jobQueue := queue.New()

	// Create worker instance
	workerInstance := worker.New(&worker.Config{
		Logger:              appLogger.Logger,
		Queue:               jobQueue,
		Table:               table,
		Broker:              brokerClient,
		Recorder:            recorder,
		DefaultDirectory:    cfg.Download.Directory,
		Concurrency:         cfg.Download.Workers,
		FetchTimeout:        cfg.Download.FetchTimeout,
		QueueReportInterval: cfg.Download.QueueReportInterval,
	})

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start worker in a goroutine
	errChan := make(chan error, 2)
	go func() {
		if err := workerInstance.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Setup the control server
	deps := &handler.Dependencies{
		Logger:        appLogger.Logger,
		Subscriptions: subscriptions,
		History:       historyStore,
		Queue:         jobQueue,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router.SetupRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Control server listening",
			slog.Int("port", cfg.Server.Port),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("control server error: %w", err)
		}
	}()

	appLogger.Info("Downloader service started successfully",
		slog.Int("topics", len(cfg.Download.Topics)),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Received signal, shutting down gracefully",
			slog.String("signal", sig.String()),
		)
	case err := <-errChan:
		appLogger.Error("Service error",
			slog.Any("error", err),
		)
		cleanup()
		return err
	}

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	// Stop accepting control requests first
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Warn("Control server shutdown error",
			slog.Any("error", err),
		)
	}

	// Cancel context to stop the dispatcher, then drain the queue
	cancel()

	done := make(chan struct{})
	go func() {
		workerInstance.Stop()
		close(done)
	}()

	select {
	case <-done:
		appLogger.Info("Worker stopped gracefully")
	case <-shutdownCtx.Done():
		appLogger.Warn("Worker shutdown timeout exceeded, forcing exit")
	}

	cleanup()

	appLogger.Info("Downloader service shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	}

	return logger.New(loggerCfg)
}

// initBroker initializes the notification broker client
func initBroker(cfg *config.BrokerConfig, logger *slog.Logger) (*broker.Client, error) {
	brokerConfig := &broker.Config{
		Host:              cfg.Host,
		Port:              cfg.Port,
		User:              cfg.User,
		Password:          cfg.Password,
		VHost:             cfg.VHost,
		Exchange:          cfg.Exchange,
		RetryAttempts:     cfg.Connection.RetryAttempts,
		RetryInterval:     cfg.Connection.RetryInterval,
		Heartbeat:         cfg.Connection.Heartbeat,
		ConnectionTimeout: cfg.Connection.ConnectionTimeout,
	}

	return broker.NewClient(brokerConfig, logger)
}

// initPostgreSQL initializes the download history database client
func initPostgreSQL(cfg *config.DatabaseConfig, logger *slog.Logger) (*postgresql.Client, error) {
	dbConfig := &postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}

	return postgresql.NewClient(dbConfig, logger)
}
