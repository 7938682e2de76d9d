package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration loaded from environment
// variables. Storage defaults to the in-memory implementation so the server
// runs without any external services.
type Config struct {
	Env                  string
	HTTPAddr             string
	StorageMode          string
	MongoURI             string
	MongoDB              string
	KafkaBrokers         []string
	KafkaTopicPrefix     string
	OutboxPollInterval   time.Duration
	RetryBackoff         []time.Duration
	Currency             string
	DepositPercent       int64
	BalanceDueOffsetDays int
	AppendRetries        int
	ListingFixtures      string
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		StorageMode:      strings.ToLower(getEnv("STORAGE_MODE", "memory")),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "lodgebook"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		Currency:         strings.ToUpper(getEnv("CURRENCY", "USD")),
		ListingFixtures:  getEnv("LISTING_FIXTURES", ""),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	poll, err := parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.OutboxPollInterval = poll

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	deposit, err := parseIntEnv("DEPOSIT_PERCENT", 20)
	if err != nil {
		return Config{}, err
	}
	if deposit < 0 || deposit > 100 {
		return Config{}, fmt.Errorf("DEPOSIT_PERCENT must be between 0 and 100")
	}
	cfg.DepositPercent = int64(deposit)

	offset, err := parseIntEnv("BALANCE_DUE_OFFSET_DAYS", 7)
	if err != nil {
		return Config{}, err
	}
	cfg.BalanceDueOffsetDays = offset

	retries, err := parseIntEnv("APPEND_RETRIES", 3)
	if err != nil {
		return Config{}, err
	}
	cfg.AppendRetries = retries

	switch cfg.StorageMode {
	case "memory":
	case "mongo":
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_MODE %q", cfg.StorageMode)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return v, nil
}
