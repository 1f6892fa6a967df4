package app

import "os"

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string
	PostgresDSN string
	LogLevel    string
}

// DefaultConfig возвращает базовые настройки: API на :8080, метрики на :9090,
// хранилище in-memory (пустой DSN).
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
		LogLevel:    "info",
	}
}

// ConfigFromEnv строит конфигурацию из переменных окружения поверх значений
// по умолчанию. Пустая переменная оставляет значение по умолчанию.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("OMS_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("OMS_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("OMS_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("OMS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}
