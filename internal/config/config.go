// Пакет config — загрузка и валидация конфигурации Registry Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Registry Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера (диапазон 8000-8009)
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Keycloak ---

	// URL Keycloak (например, https://keycloak.kryukov.lan)
	KeycloakURL string
	// Имя realm в Keycloak
	KeycloakRealm string
	// Путь к CA-сертификату для TLS-соединений с Keycloak (опционально)
	KeycloakCACertPath string
	// Таймаут проверки готовности Keycloak
	KeycloakReadinessTimeout time.Duration

	// --- JWT (fallback-валидация, основная на API Gateway) ---

	// Issuer JWT (авто-вычисляется из KeycloakURL, если не задан)
	JWTIssuer string
	// URL JWKS endpoint (авто-вычисляется из KeycloakURL, если не задан)
	JWTJWKSURL string
	// Таймаут HTTP-клиента JWKS
	JWKSClientTimeout time.Duration
	// Интервал обновления JWKS-ключей
	JWKSRefreshInterval time.Duration
	// Допустимое отклонение времени при проверке JWT
	JWTLeeway time.Duration

	// --- Blob-хранилище ---

	// Тип blob-хранилища: memory, s3
	BlobStoreType string
	// Имя S3-бакета (обязателен для типа s3)
	S3Bucket string
	// Адрес S3-совместимого хранилища (пусто — стандартный AWS)
	S3Endpoint string
	// Регион S3
	S3Region string
	// Статические ключи доступа S3 (пусто — цепочка credentials SDK)
	S3AccessKeyID     string
	S3SecretAccessKey string

	// --- Фоновые сервисы ---

	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration
	// Группа сервиса в метриках topologymetrics
	DephealthGroup string
	// Интервал пометки просроченных выдач
	OverdueSweepInterval time.Duration

	// --- Заявки ---

	// Искусственная задержка подачи заявки (0 — без задержки)
	SubmitDelay time.Duration

	// --- Маппинг групп → ролей ---

	// Группы Keycloak, дающие роль admin (через запятую)
	RoleAdminGroups []string

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// RM_PORT — порт HTTP-сервера (по умолчанию 8000)
	cfg.Port, err = getEnvInt("RM_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("RM_PORT: %w", err)
	}
	if cfg.Port < 8000 || cfg.Port > 8009 {
		return nil, fmt.Errorf("RM_PORT: значение %d вне допустимого диапазона 8000-8009", cfg.Port)
	}

	// RM_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("RM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("RM_LOG_LEVEL: %w", err)
	}

	// RM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("RM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("RM_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Keycloak ---

	// RM_KEYCLOAK_URL — обязательный
	cfg.KeycloakURL, err = getEnvRequired("RM_KEYCLOAK_URL")
	if err != nil {
		return nil, err
	}
	// Убираем trailing slash
	cfg.KeycloakURL = strings.TrimRight(cfg.KeycloakURL, "/")

	// RM_KEYCLOAK_REALM — realm (по умолчанию filetrack)
	cfg.KeycloakRealm = getEnvDefault("RM_KEYCLOAK_REALM", "filetrack")

	// RM_KEYCLOAK_CA_CERT_PATH — путь к CA-сертификату (опционально)
	cfg.KeycloakCACertPath = getEnvDefault("RM_KEYCLOAK_CA_CERT_PATH", "")

	// RM_KEYCLOAK_READINESS_TIMEOUT — таймаут readiness-проверки (по умолчанию 5s)
	cfg.KeycloakReadinessTimeout, err = getEnvDuration("RM_KEYCLOAK_READINESS_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("RM_KEYCLOAK_READINESS_TIMEOUT: %w", err)
	}

	// --- JWT ---

	// RM_JWT_ISSUER — авто-вычисляется из KeycloakURL, если не задан
	cfg.JWTIssuer = getEnvDefault("RM_JWT_ISSUER",
		fmt.Sprintf("%s/realms/%s", cfg.KeycloakURL, cfg.KeycloakRealm))

	// RM_JWT_JWKS_URL — авто-вычисляется из KeycloakURL, если не задан
	cfg.JWTJWKSURL = getEnvDefault("RM_JWT_JWKS_URL",
		fmt.Sprintf("%s/realms/%s/protocol/openid-connect/certs", cfg.KeycloakURL, cfg.KeycloakRealm))

	// RM_JWKS_CLIENT_TIMEOUT — таймаут HTTP-клиента JWKS (по умолчанию 10s)
	cfg.JWKSClientTimeout, err = getEnvDuration("RM_JWKS_CLIENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("RM_JWKS_CLIENT_TIMEOUT: %w", err)
	}

	// RM_JWKS_REFRESH_INTERVAL — интервал обновления JWKS-ключей (по умолчанию 1h)
	cfg.JWKSRefreshInterval, err = getEnvDuration("RM_JWKS_REFRESH_INTERVAL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("RM_JWKS_REFRESH_INTERVAL: %w", err)
	}

	// RM_JWT_LEEWAY — допустимое отклонение времени (по умолчанию 30s)
	cfg.JWTLeeway, err = getEnvDuration("RM_JWT_LEEWAY", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("RM_JWT_LEEWAY: %w", err)
	}

	// --- Blob-хранилище ---

	// RM_BLOBSTORE_TYPE — тип хранилища (по умолчанию memory)
	cfg.BlobStoreType = getEnvDefault("RM_BLOBSTORE_TYPE", "memory")
	if cfg.BlobStoreType != "memory" && cfg.BlobStoreType != "s3" {
		return nil, fmt.Errorf("RM_BLOBSTORE_TYPE: недопустимое значение %q, допустимые: memory, s3", cfg.BlobStoreType)
	}

	if cfg.BlobStoreType == "s3" {
		// RM_S3_BUCKET — обязателен для s3
		cfg.S3Bucket, err = getEnvRequired("RM_S3_BUCKET")
		if err != nil {
			return nil, err
		}
	}

	// RM_S3_ENDPOINT — адрес S3-совместимого хранилища (опционально)
	cfg.S3Endpoint = getEnvDefault("RM_S3_ENDPOINT", "")

	// RM_S3_REGION — регион S3 (по умолчанию us-east-1)
	cfg.S3Region = getEnvDefault("RM_S3_REGION", "us-east-1")

	// RM_S3_ACCESS_KEY_ID / RM_S3_SECRET_ACCESS_KEY — статические ключи (опционально)
	cfg.S3AccessKeyID = getEnvDefault("RM_S3_ACCESS_KEY_ID", "")
	cfg.S3SecretAccessKey = getEnvDefault("RM_S3_SECRET_ACCESS_KEY", "")

	// --- Фоновые сервисы ---

	// RM_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("RM_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("RM_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// RM_DEPHEALTH_GROUP — группа в метриках topologymetrics (по умолчанию filetrack)
	cfg.DephealthGroup = getEnvDefault("RM_DEPHEALTH_GROUP", "filetrack")

	// RM_OVERDUE_SWEEP_INTERVAL — интервал пометки просроченных выдач (по умолчанию 5m)
	cfg.OverdueSweepInterval, err = getEnvDuration("RM_OVERDUE_SWEEP_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("RM_OVERDUE_SWEEP_INTERVAL: %w", err)
	}

	// --- Заявки ---

	// RM_SUBMIT_DELAY — искусственная задержка подачи заявки (по умолчанию 0)
	cfg.SubmitDelay, err = getEnvDuration("RM_SUBMIT_DELAY", 0)
	if err != nil {
		return nil, fmt.Errorf("RM_SUBMIT_DELAY: %w", err)
	}

	// --- Маппинг групп → ролей ---

	// RM_ROLE_ADMIN_GROUPS — группы для роли admin (по умолчанию "registry-admins")
	cfg.RoleAdminGroups = parseCSV(getEnvDefault("RM_ROLE_ADMIN_GROUPS", "registry-admins"))

	// --- Graceful shutdown ---

	// RM_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("RM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("RM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
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

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
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

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
