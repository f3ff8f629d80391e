package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	GreenhouseAPIBaseURL string
	LeverAPIBaseURL      string
	AshbyGraphQLURL      string
	AshbyJobsBaseURL     string
	SourceTimeout        time.Duration
	SourceUserAgent      string
	HostRateLimit        float64
	HostRateBurst        int

	// MaxNewListings caps additions per account per run; refs beyond the cap
	// reappear as new on the next run.
	MaxNewListings int
	ItemDelay      time.Duration
	AccountDelay   time.Duration

	ClickHouseDSN          string
	ClickHouseMaxOpenConns int
	ClickHouseMaxIdleConns int
	ClickHouseConnMaxLife  time.Duration
	ClickHouseUsername     string
	ClickHousePassword     string
	ClickHouseDatabase     string

	NATSURL         string
	NATSConnTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	OpenAIAPIKey       string
	OpenAIModel        string
	ExtractionTimeout  time.Duration
	ExtractionMaxChars int

	OTELCollectorURL string
}

func LoadConfig() (*Config, error) {
	config := &Config{
		GreenhouseAPIBaseURL: getEnvString("GREENHOUSE_API_BASE_URL", "https://boards-api.greenhouse.io/v1/boards"),
		LeverAPIBaseURL:      getEnvString("LEVER_API_BASE_URL", "https://api.lever.co/v0/postings"),
		AshbyGraphQLURL:      getEnvString("ASHBY_GRAPHQL_URL", "https://jobs.ashbyhq.com/api/non-user-graphql"),
		AshbyJobsBaseURL:     getEnvString("ASHBY_JOBS_BASE_URL", "https://jobs.ashbyhq.com"),
		SourceTimeout:        getEnvDuration("SOURCE_TIMEOUT", 10*time.Second),
		SourceUserAgent:      getEnvString("SOURCE_USER_AGENT", "aijobcareer-sync/1.0"),
		HostRateLimit:        getEnvFloat("HOST_RATE_LIMIT", 2),
		HostRateBurst:        getEnvInt("HOST_RATE_BURST", 1),

		MaxNewListings: getEnvInt("MAX_NEW_LISTINGS", 4),
		ItemDelay:      getEnvDuration("SYNC_ITEM_DELAY", time.Second),
		AccountDelay:   getEnvDuration("SYNC_ACCOUNT_DELAY", 2*time.Second),

		ClickHouseDSN:          getEnvString("CLICKHOUSE_DSN", "localhost:9000"),
		ClickHouseMaxOpenConns: getEnvInt("CLICKHOUSE_MAX_OPEN_CONNS", 10),
		ClickHouseMaxIdleConns: getEnvInt("CLICKHOUSE_MAX_IDLE_CONNS", 5),
		ClickHouseConnMaxLife:  getEnvDuration("CLICKHOUSE_CONN_MAX_LIFE", time.Hour),
		ClickHouseUsername:     getEnvString("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword:     getEnvString("CLICKHOUSE_PASSWORD", ""),
		ClickHouseDatabase:     getEnvString("CLICKHOUSE_DATABASE", "aijobcareer"),

		NATSURL:         getEnvString("NATS_URL", ""),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),

		RedisAddr:     getEnvString("REDIS_ADDR", ""),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 24*time.Hour),

		OpenAIAPIKey:       getEnvString("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnvString("OPENAI_MODEL", "gpt-4o-mini"),
		ExtractionTimeout:  getEnvDuration("EXTRACTION_TIMEOUT", 60*time.Second),
		ExtractionMaxChars: getEnvInt("EXTRACTION_MAX_CHARS", 20000),

		OTELCollectorURL: getEnvString("OTEL_COLLECTOR_URL", ""),
	}

	return config, nil
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
