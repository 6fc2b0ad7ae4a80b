// dephealth.go — интеграция с topologymetrics SDK для мониторинга зависимостей.
//
// Admin Console мониторит одну зависимость: backend сессий — HTTP checker
// к AC_BACKEND_URL + AC_BACKEND_HEALTH_PATH (critical).
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
//   - app_dependency_status — категория статуса
//   - app_dependency_status_detail — детальный статус
package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // HTTP checker для backend
	"github.com/prometheus/client_golang/prometheus"
)

// BackendDependency — имя зависимости backend'а сессий в графе topologymetrics.
const BackendDependency = "session-backend"

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Метрики регистрируются в глобальном Prometheus registry.
//
// Параметры:
//   - serviceID — имя вершины графа текущего приложения ("admin-console")
//   - group — имя группы в метриках (AC_DEPHEALTH_GROUP)
//   - backendURL — URL backend'а сессий (AC_BACKEND_URL)
//   - healthPath — путь проверки backend'а (AC_BACKEND_HEALTH_PATH)
//   - checkInterval — интервал проверки (AC_DEPHEALTH_CHECK_INTERVAL)
func NewDephealthService(
	serviceID string,
	group string,
	backendURL string,
	healthPath string,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, backendURL, healthPath, checkInterval, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с указанным Prometheus registerer.
// Используется в тестах для изоляции метрик.
func NewDephealthServiceWithRegisterer(
	serviceID string,
	group string,
	backendURL string,
	healthPath string,
	checkInterval time.Duration,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, backendURL, healthPath, checkInterval,
		logger, dephealth.WithRegisterer(registerer))
}

// newDephealthService — внутренний конструктор.
func newDephealthService(
	serviceID string,
	group string,
	backendURL string,
	healthPath string,
	checkInterval time.Duration,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	depOpts := []dephealth.DependencyOption{
		dephealth.FromURL(backendURL),
		dephealth.WithHTTPHealthPath(healthPath),
		dephealth.CheckInterval(checkInterval),
		dephealth.Critical(true),
	}

	// TLS определяется схемой URL
	if parsed, err := url.Parse(backendURL); err == nil && parsed.Scheme == "https" {
		depOpts = append(depOpts, dephealth.WithHTTPTLSSkipVerify(false))
	}

	opts := make([]dephealth.Option, 0, 2+len(extraOpts))
	opts = append(opts,
		dephealth.WithLogger(logger),
		dephealth.HTTP(BackendDependency, depOpts...),
	)
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен (backend сессий)")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — "зависимость:host:port", значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}

// CheckReady — готовность backend'а сессий для /health/ready.
func (ds *DephealthService) CheckReady() (status, message string) {
	return readiness(ds.Health(), BackendDependency)
}

// readiness переводит состояние зависимости в статус readiness probe.
func readiness(health map[string]bool, dependency string) (status, message string) {
	ok, found := findHealthByPrefix(health, dependency)
	switch {
	case !found:
		return "fail", "проверка ещё не выполнялась"
	case !ok:
		return "fail", "backend сессий недоступен"
	default:
		return "ok", ""
	}
}

// findHealthByPrefix ищет состояние зависимости по имени.
// Несколько endpoint'ов одной зависимости: ok, только если все ok.
func findHealthByPrefix(health map[string]bool, prefix string) (ok, found bool) {
	for key, healthy := range health {
		if strings.HasPrefix(key, prefix+":") || key == prefix {
			if !healthy {
				return false, true
			}
			found = true
		}
	}
	return found, found
}
