package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	MySQLDSN       string
	MigrationsPath string
	RedisAddr      string

	HostingerBaseURL string
	HostingerAPIKey  string

	// Comma-separated broker list; empty disables the kafka SMS channel.
	KafkaBrokers string

	DeliveryFee int64
	PlatformFee int64
	HandlingFee int64
}

func Load() Config {
	return Config{
		AppEnv:           getEnv("APP_ENV", "dev"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		HTTPPort:         getEnvInt("HTTP_PORT", 8080),
		MySQLDSN:         getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/agrikart?parseTime=true&multiStatements=true"),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "./internal/adapter/storage/migrations"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		HostingerBaseURL: getEnv("HOSTINGER_BASE_URL", "http://localhost:9090"),
		HostingerAPIKey:  getEnv("HOSTINGER_API_KEY", ""),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", ""),
		DeliveryFee:      getEnvInt64("DELIVERY_FEE", 0),
		PlatformFee:      getEnvInt64("PLATFORM_FEE", 0),
		HandlingFee:      getEnvInt64("HANDLING_FEE", 0),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}

	return n
}
