// Пакет config — загрузка и валидация конфигурации Admin Console
// из переменных окружения (и файла .env, если он есть).
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Admin Console.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Backend сессий ---

	// URL backend'а (без trailing slash)
	BackendURL string
	// Таймаут HTTP-запросов к backend'у
	BackendTimeout time.Duration
	// Путь к CA-сертификату для TLS-соединений с backend'ом (опционально)
	BackendCACertPath string
	// Путь проверки доступности backend'а
	BackendHealthPath string

	// --- Боковое меню ---

	// Запас (px) по вертикали при предсказании движения к подменю
	MenuTolerance float64
	// Задержка повторной проверки активации строки
	MenuDelay time.Duration
	// Время жизни сохранённого состояния меню
	MenuSessionTTL time.Duration
	// Максимальное количество сохранённых состояний меню
	MenuSessionMax int

	// --- Зависимости ---

	// Группа сервиса в topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// LoadDotEnv загружает переменные из файла .env (по умолчанию "./.env").
// Отсутствие файла ошибкой не считается; уже заданные переменные не
// перезаписываются.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("загрузка .env: %w", err)
	}
	return nil
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// AC_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("AC_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("AC_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("AC_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// AC_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("AC_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("AC_LOG_LEVEL: %w", err)
	}

	// AC_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("AC_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("AC_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Backend сессий ---

	// AC_BACKEND_URL — обязательный
	cfg.BackendURL, err = getEnvRequired("AC_BACKEND_URL")
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(cfg.BackendURL, "http://") && !strings.HasPrefix(cfg.BackendURL, "https://") {
		return nil, fmt.Errorf("AC_BACKEND_URL: ожидается схема http:// или https://, получено %q", cfg.BackendURL)
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	// AC_BACKEND_TIMEOUT — таймаут запросов к backend'у (по умолчанию 30s)
	cfg.BackendTimeout, err = getEnvDuration("AC_BACKEND_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AC_BACKEND_TIMEOUT: %w", err)
	}

	// AC_BACKEND_CA_CERT_PATH — путь к CA-сертификату backend'а (опционально)
	cfg.BackendCACertPath = getEnvDefault("AC_BACKEND_CA_CERT_PATH", "")

	// AC_BACKEND_HEALTH_PATH — путь проверки доступности (по умолчанию /api/session)
	cfg.BackendHealthPath = getEnvDefault("AC_BACKEND_HEALTH_PATH", "/api/session")
	if !strings.HasPrefix(cfg.BackendHealthPath, "/") {
		return nil, fmt.Errorf("AC_BACKEND_HEALTH_PATH: путь должен начинаться с /, получено %q", cfg.BackendHealthPath)
	}

	// --- Боковое меню ---

	// AC_MENU_TOLERANCE — запас в пикселях (по умолчанию 75)
	cfg.MenuTolerance, err = getEnvFloat("AC_MENU_TOLERANCE", 75)
	if err != nil {
		return nil, fmt.Errorf("AC_MENU_TOLERANCE: %w", err)
	}
	if cfg.MenuTolerance < 0 {
		return nil, fmt.Errorf("AC_MENU_TOLERANCE: значение %v не может быть отрицательным", cfg.MenuTolerance)
	}

	// AC_MENU_DELAY — задержка повторной проверки (по умолчанию 600ms)
	cfg.MenuDelay, err = getEnvDuration("AC_MENU_DELAY", 600*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("AC_MENU_DELAY: %w", err)
	}
	if cfg.MenuDelay <= 0 {
		return nil, fmt.Errorf("AC_MENU_DELAY: значение %v должно быть положительным", cfg.MenuDelay)
	}

	// AC_MENU_SESSION_TTL — время жизни состояния меню (по умолчанию 30m)
	cfg.MenuSessionTTL, err = getEnvDuration("AC_MENU_SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("AC_MENU_SESSION_TTL: %w", err)
	}

	// AC_MENU_SESSION_MAX — максимум сохранённых состояний (по умолчанию 1024)
	cfg.MenuSessionMax, err = getEnvInt("AC_MENU_SESSION_MAX", 1024)
	if err != nil {
		return nil, fmt.Errorf("AC_MENU_SESSION_MAX: %w", err)
	}
	if cfg.MenuSessionMax < 1 {
		return nil, fmt.Errorf("AC_MENU_SESSION_MAX: значение %d должно быть не меньше 1", cfg.MenuSessionMax)
	}

	// --- Зависимости ---

	// AC_DEPHEALTH_GROUP — группа сервиса (по умолчанию admin-console)
	cfg.DephealthGroup = getEnvDefault("AC_DEPHEALTH_GROUP", "admin-console")

	// AC_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("AC_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AC_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// AC_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("AC_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AC_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	logger := NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)
	return logger
}

// NewLogger создаёт slog-логгер, пишущий в w (команды CLI пишут логи в stderr).
func NewLogger(cfg *Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvFloat возвращает дробное значение переменной окружения или значение по умолчанию.
func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное число: %q", val)
	}
	return f, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 600ms, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
