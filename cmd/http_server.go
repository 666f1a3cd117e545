package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peerconnect/pairing-service/internal"
	"github.com/peerconnect/pairing-service/internal/core/events"
	"github.com/peerconnect/pairing-service/internal/directory"
	"github.com/peerconnect/pairing-service/internal/matching"
	matchingpg "github.com/peerconnect/pairing-service/internal/matching/postgres"
	"github.com/peerconnect/pairing-service/internal/pairing"
	pairingpg "github.com/peerconnect/pairing-service/internal/pairing/postgres"
	"github.com/peerconnect/pairing-service/internal/subscription"
	subscriptionpg "github.com/peerconnect/pairing-service/internal/subscription/postgres"
	"github.com/peerconnect/pairing-service/internal/transport"
	"github.com/peerconnect/pairing-service/internal/transport/rest"
	"github.com/peerconnect/pairing-service/internal/user"
	userpg "github.com/peerconnect/pairing-service/internal/user/postgres"
	"github.com/peerconnect/pairing-service/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger

	SubscriptionHandler *subscription.Handler
	UserHandler         *user.Handler
	PairingHandler      *pairing.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.SubscriptionHandler, deps.UserHandler, deps.PairingHandler, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	router := chi.NewRouter()
	baseHandler := transport.NewBaseHandler(log)

	eventBus := events.NewEventBus(log)
	registerEventHandlers(eventBus, log)

	directoryClient := directory.NewClient(directory.Config{
		BaseURL: config.Directory.BaseURL,
		APIKey:  config.Directory.APIKey,
		Timeout: config.Directory.Timeout,
	}, log)

	historyRepo := matchingpg.NewHistoryRepository(gormDB)
	historyService := matching.NewHistoryService(historyRepo, config.Matching.CooldownWeeks, log)
	preferenceRepo := pairingpg.NewPreferenceRepository(gormDB)
	engine := matching.NewEngine(historyService, directoryClient, preferenceRepo, log)

	subscriptionRepo := subscriptionpg.NewSubscriptionRepository(gormDB)
	subscriptionService := subscription.NewService(subscriptionRepo, log)
	subscriptionHandler := subscription.NewHandler(baseHandler, subscriptionService)

	userRepo := userpg.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, log)
	userHandler := user.NewHandler(baseHandler, userService)

	cohortRepo := pairingpg.NewCohortRepository(gormDB)
	meetingRepo := pairingpg.NewMeetingRepository(gormDB)
	runService := pairing.NewRunService(subscriptionRepo, cohortRepo, meetingRepo, engine, eventBus, log)
	pairingHandler := pairing.NewHandler(baseHandler, runService)

	return &Dependencies{
		Config: config,
		Logger: log,
		DB:     db,
		GormDB: gormDB,
		Router: router,

		SubscriptionHandler: subscriptionHandler,
		UserHandler:         userHandler,
		PairingHandler:      pairingHandler,
	}, nil
}

// registerEventHandlers attaches audit logging to run lifecycle events.
func registerEventHandlers(bus *events.EventBus, log *slog.Logger) {
	bus.Subscribe(events.EventTypePairingCompleted, func(ctx context.Context, event events.Event) error {
		log.Info("pairing run completed",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})

	bus.Subscribe(events.EventTypePairingFailed, func(ctx context.Context, event events.Event) error {
		log.Error("pairing run failed",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
