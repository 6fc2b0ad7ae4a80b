package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bigkaa/goartstore/admin-console/internal/config"
	"github.com/bigkaa/goartstore/admin-console/internal/identity"
	"github.com/bigkaa/goartstore/admin-console/internal/server"
	"github.com/bigkaa/goartstore/admin-console/internal/service"
	uihandlers "github.com/bigkaa/goartstore/admin-console/internal/ui/handlers"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/menustore"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/navigation"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP-сервер консоли.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// 1. Конфигурация и логирование
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.SetupLogger(cfg)
	logger.Info("Admin Console запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("backend", cfg.BackendURL),
	)

	if os.Getenv("AC_DEPHEALTH_GROUP") == "" {
		logger.Warn("AC_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 2. Identity-клиент: ошибки backend'а перенаправляют на /admin/errors
	client, err := identity.New(
		cfg.BackendURL,
		cfg.BackendCACertPath,
		cfg.BackendTimeout,
		navigation.Navigator{},
		logger,
	)
	if err != nil {
		return err
	}

	// 3. Мониторинг backend'а (topologymetrics)
	var readiness uihandlers.ReadinessChecker
	dephealthSvc, err := service.NewDephealthService(
		"admin-console",
		cfg.DephealthGroup,
		cfg.BackendURL,
		cfg.BackendHealthPath,
		cfg.DephealthCheckInterval,
		logger,
	)
	if err != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", err.Error()),
		)
	} else if err := dephealthSvc.Start(ctx); err != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", err.Error()))
	} else {
		defer dephealthSvc.Stop()
		readiness = dephealthSvc
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 4. UI: переводы, состояние меню, обработчики
	bundle, err := i18n.Load(logger)
	if err != nil {
		return err
	}
	store := menustore.New(cfg.MenuSessionMax, cfg.MenuSessionTTL)

	handlers := server.Handlers{
		Health:  uihandlers.NewHealthHandler(readiness),
		Console: uihandlers.NewConsoleHandler(client, bundle, store, logger),
		API:     uihandlers.NewAPIHandler(client, logger),
		Menu:    uihandlers.NewMenuHandler(store, cfg.MenuTolerance, cfg.MenuDelay, logger),
	}

	// 5. HTTP-сервер с graceful shutdown
	return server.New(cfg, logger, handlers).Run()
}
