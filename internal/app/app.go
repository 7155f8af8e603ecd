package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Evgen-Mutagen/breakfast-orders/internal/controller"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/core"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/decor"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/middlewareinternal"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/notifier"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/repository"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/service"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg          *Config
	Router       *chi.Mux
	db           *repository.Database
	Logger       *zap.Logger
	Server       *http.Server
	OrderService core.OrderService
}

func New(cfg *Config, logger *zap.Logger) (*App, error) {
	app := &App{
		cfg:    cfg,
		Router: chi.NewRouter(),
		Logger: logger,
	}

	if err := app.initDB(); err != nil {
		return nil, err
	}

	orderRepo := repository.NewOrderRepository(app.db)
	app.OrderService = service.NewOrderService(orderRepo, app.newNotifier(), logger,
		service.WithNotifyTimeout(cfg.NotifyTimeout),
		service.WithAsyncNotify(cfg.NotifyAsync),
	)

	if err := app.initRouter(); err != nil {
		app.db.Close()
		return nil, err
	}

	app.Server = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("Starting HTTP server", zap.String("address", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			a.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	}

	return a.shutdown()
}

// Close waits for pending notifications and releases the database.
func (a *App) Close() error {
	a.OrderService.Wait()
	return a.db.Close()
}

func (a *App) initDB() error {
	db, err := repository.NewDatabase(repository.DatabaseConfig{
		Driver: a.cfg.DatabaseDriver,
		DSN:    a.cfg.DatabaseURI,
	})
	if err != nil {
		a.Logger.Error("Database initialization failed",
			zap.String("driver", a.cfg.DatabaseDriver),
			zap.String("dsn", a.cfg.MaskDBPassword()),
			zap.Error(err))
		return fmt.Errorf("database initialization failed: %w", err)
	}

	a.db = db
	a.Logger.Info("Database initialized successfully",
		zap.String("driver", db.Driver()),
		zap.String("dsn", a.cfg.MaskDBPassword()))

	return nil
}

func (a *App) newNotifier() core.Notifier {
	if !a.cfg.NotificationsEnabled() {
		a.Logger.Warn("Telegram credentials not configured, order notifications are disabled")
		return notifier.NewNopNotifier(a.Logger)
	}

	return notifier.NewTelegramNotifier(notifier.TelegramConfig{
		APIURL:   a.cfg.TelegramAPIURL,
		BotToken: a.cfg.TelegramBotToken,
		ChatID:   a.cfg.TelegramChatID,
	}, &http.Client{Timeout: a.cfg.NotifyTimeout}, a.Logger)
}

func (a *App) initRouter() error {
	a.Router.Use(middleware.RequestID)
	a.Router.Use(middleware.RealIP)
	a.Router.Use(middlewareinternal.RequestLogger(a.Logger))
	a.Router.Use(middleware.Recoverer)
	a.Router.Use(middleware.Compress(5))
	a.Router.Use(middleware.Timeout(30 * time.Second))

	decorator := decor.NewCatDecorator(decor.Config{
		CatFactURL:    a.cfg.CatFactURL,
		CatPictureURL: a.cfg.CatPictureURL,
		Timeout:       a.cfg.DecorTimeout,
	}, &http.Client{Timeout: a.cfg.DecorTimeout}, a.Logger)

	// Controllers
	orderController := controller.NewOrderController(a.OrderService, a.Logger)
	healthController := controller.NewHealthController(a.db, a.Logger)
	pageController, err := controller.NewPageController(a.OrderService, decorator, a.Logger)
	if err != nil {
		return err
	}

	// Pages
	a.Router.Get("/", pageController.Index)
	a.Router.Get("/success", pageController.Success)
	a.Router.Get("/admin", pageController.Admin)

	// Form actions
	a.Router.Post("/submit", orderController.SubmitOrder)
	a.Router.Post("/delete/{id:[0-9]+}", orderController.DeleteOrder)

	// Public JSON
	a.Router.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: a.cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet},
			AllowedHeaders: []string{"Accept"},
			MaxAge:         300,
		}))

		r.Get("/orders", orderController.GetOrders)
		r.Get("/orders/{id:[0-9]+}", orderController.GetOrder)
	})

	a.Router.Get("/health", healthController.Health)

	return nil
}

func (a *App) shutdown() error {
	a.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.Server.Shutdown(ctx)
	if closeErr := a.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return err
}
