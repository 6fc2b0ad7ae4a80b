// Пакет server — HTTP-сервер Admin Console с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/goartstore/admin-console/internal/api/errors"
	"github.com/bigkaa/goartstore/admin-console/internal/api/middleware"
	"github.com/bigkaa/goartstore/admin-console/internal/config"
	uihandlers "github.com/bigkaa/goartstore/admin-console/internal/ui/handlers"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/navigation"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/static"
)

// Handlers — обработчики, подключаемые к маршрутам.
type Handlers struct {
	Health  *uihandlers.HealthHandler
	Console *uihandlers.ConsoleHandler
	API     *uihandlers.APIHandler
	Menu    *uihandlers.MenuHandler
}

// Server — HTTP-сервер Admin Console.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, handlers Handlers) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(logger, handlers),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает маршруты консоли.
func NewRouter(logger *slog.Logger, h Handlers) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apierrors.NotFound(w, "Маршрут не найден")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apierrors.MethodNotAllowed(w, "Метод не поддерживается")
	})

	// Health и metrics проверяются Kubernetes напрямую, без сессии.
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	router.Handle("/admin/static/*",
		http.StripPrefix("/admin/static/", http.FileServer(static.FileSystem())))

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.SessionCookie())
		r.Use(i18n.Middleware())
		r.Use(navigation.Middleware())

		r.Get("/", h.Console.HandleConsole)
		r.Get("/errors", h.Console.HandleErrors)
		r.Post("/logout", h.Console.HandleLogout)
		r.Post("/set-language", uihandlers.HandleSetLanguage)

		r.Get("/menu/ws", h.Menu.HandleMenuSocket)

		r.Route("/api", func(r chi.Router) {
			r.Get("/me", h.API.HandleMe)
			r.Get("/roles", h.API.HandleRoles)
			r.Get("/app", h.API.HandleApp)
			r.Get("/apps/{appID}/route-link", h.API.HandleAppRouteLink)
		})
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
