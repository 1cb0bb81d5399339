// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime knobs for the HTTP server, storage and the bus.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// JWTKey signs/verifies session tokens. Required.
	JWTKey string

	// SpannerDatabase is the full database path
	// (projects/<p>/instances/<i>/databases/<d>). Required.
	SpannerDatabase string

	// KafkaBrokers is a comma-separated broker list. Required.
	KafkaBrokers []string
	KafkaTopic   string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durenvs(key string, defSec int) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return time.Duration(defSec) * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return time.Duration(defSec) * time.Second
	}
	return time.Duration(n) * time.Second
}

// Load collects configuration from environment. Missing required values
// are a startup error; the process must not come up half-configured.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":3000"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		JWTKey:          os.Getenv("JWT_KEY"),
		SpannerDatabase: os.Getenv("SPANNER_DATABASE"),
		KafkaTopic:      getenv("KAFKA_TOPIC", "products"),
	}

	if cfg.JWTKey == "" {
		return nil, fmt.Errorf("JWT_KEY environment variable is required")
	}
	if cfg.SpannerDatabase == "" {
		return nil, fmt.Errorf("SPANNER_DATABASE environment variable is required")
	}

	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS contains no brokers")
	}

	return cfg, nil
}
