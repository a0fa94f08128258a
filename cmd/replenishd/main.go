package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	procurementapp "github.com/flexiwear/backend/internal/application/procurement"
	replenishmentapp "github.com/flexiwear/backend/internal/application/replenishment"
	"github.com/flexiwear/backend/internal/domain/replenishment"
	"github.com/flexiwear/backend/internal/infrastructure/config"
	"github.com/flexiwear/backend/internal/infrastructure/event"
	"github.com/flexiwear/backend/internal/infrastructure/logger"
	"github.com/flexiwear/backend/internal/infrastructure/notify"
	"github.com/flexiwear/backend/internal/infrastructure/persistence"
	"github.com/flexiwear/backend/internal/infrastructure/scheduler"
	"github.com/flexiwear/backend/internal/interfaces/http/handler"
	"github.com/flexiwear/backend/internal/interfaces/http/middleware"
	"github.com/flexiwear/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting replenishment engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories and read models
	stockRepo := persistence.NewGormProductStockRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	forecastRepo := persistence.NewGormForecastRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	accuracyRepo := persistence.NewGormAccuracyRepository(db.DB)
	salesHistory := persistence.NewGormSalesHistory(db.DB)
	salesOrders := persistence.NewGormSalesOrderGateway(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus with an audit logging subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLoggingEventHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Redis Pub/Sub notifier. Optional: the engine stays functional when
	// Redis is down, alerts remain queryable through the API.
	notifier, err := notify.NewRedisNotifier(notify.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	},
		notify.WithAlertChannel(cfg.Notify.AlertChannel),
		notify.WithSupplierChannel(cfg.Notify.SupplierChannel),
		notify.WithNotifierLogger(log),
	)
	if err != nil {
		log.Warn("Redis notifier unavailable, continuing without pub/sub notifications", zap.Error(err))
		notifier = nil
	} else {
		defer func() {
			if err := notifier.Close(); err != nil {
				log.Error("Error closing Redis notifier", zap.Error(err))
			}
		}()
	}

	// Application services
	crossDock := procurementapp.NewCrossDockCoordinator(salesOrders, log)
	orderService := procurementapp.NewPurchaseOrderService(
		orderRepo, supplierRepo, stockRepo, txScope, crossDock, log,
	)
	orderService.SetEventPublisher(eventBus)
	if notifier != nil {
		orderService.SetSupplierNotifier(notifier)
	}

	policy := replenishment.Policy{
		ServiceLevel:      cfg.Replenishment.ServiceLevel,
		RestockMultiplier: cfg.Replenishment.RestockMultiplier,
	}
	forecastService := replenishmentapp.NewForecastService(
		stockRepo, supplierRepo, forecastRepo, alertRepo, accuracyRepo,
		replenishment.NewWindowEstimator(salesHistory), salesHistory,
		policy, cfg.Replenishment.WindowDays, log,
	)
	if notifier != nil {
		forecastService.SetAlertNotifier(notifier)
	}

	accuracyService := replenishmentapp.NewAccuracyService(
		stockRepo, forecastRepo, accuracyRepo, salesHistory, log,
	)

	// Daily replenishment trigger
	trigger := scheduler.NewReplenishmentTrigger(
		scheduler.TriggerConfig{
			DailyRunHour:   cfg.Scheduler.DailyRunHour,
			DailyRunMinute: cfg.Scheduler.DailyRunMinute,
			CheckInterval:  cfg.Scheduler.CheckInterval,
		},
		forecastService, accuracyService, orderService, log,
	)
	if cfg.Scheduler.Enabled {
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start replenishment trigger", zap.Error(err))
		}
	} else {
		log.Info("Replenishment trigger disabled by configuration")
	}

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	middleware.SetupValidator()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS())

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine)
	r.Register(handler.NewPurchaseOrderHandler(orderService))
	r.Register(handler.NewReplenishmentHandler(forecastService, accuracyService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if cfg.Scheduler.Enabled {
		if err := trigger.Stop(ctx); err != nil {
			log.Error("Trigger did not stop cleanly", zap.Error(err))
		}
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Event bus did not stop cleanly", zap.Error(err))
	}

	log.Info("Shutdown complete")
}

// healthHandler reports liveness and database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
