package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/environment"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/kafka"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/logger"
)

// appConfig collects everything the CLI reads from the environment. Every
// field has a default that matches the local sandbox, so a bare invocation
// works against a freshly started environment.
type appConfig struct {
	logLevel logger.Level

	brokers          []string
	tls              kafka.TLSConfig
	sasl             kafka.SASLConfig
	registryURL      string
	registryUser     string
	registryPassword string

	topic string

	containerName string
	networkName   string
	devContainer  string
	kafkaPort     int
	registryPort  int

	readinessInterval    time.Duration
	readinessMaxAttempts int

	batchDelay  time.Duration
	stopOnError bool
}

// loadConfig reads from environment variables.
func loadConfig() appConfig {
	kafkaPort := envInt("SANDBOX_KAFKA_PORT", environment.DefaultKafkaPort)
	registryPort := envInt("SANDBOX_REGISTRY_PORT", environment.DefaultRegistryPort)

	defaults := environment.Config{KafkaPort: kafkaPort, RegistryPort: registryPort}.Endpoints()

	return appConfig{
		logLevel: logger.Level(envOr("LOG_LEVEL", string(logger.Info))),

		brokers: strings.Split(envOr("KAFKA_BROKERS", strings.Join(defaults.Brokers, ",")), ","),
		tls: kafka.TLSConfig{
			Enabled:            envBool("KAFKA_TLS_ENABLED", false),
			CACertPath:         os.Getenv("KAFKA_TLS_CA_CERT"),
			ClientCertPath:     os.Getenv("KAFKA_TLS_CLIENT_CERT"),
			ClientKeyPath:      os.Getenv("KAFKA_TLS_CLIENT_KEY"),
			InsecureSkipVerify: envBool("KAFKA_TLS_INSECURE_SKIP_VERIFY", false),
		},
		sasl: kafka.SASLConfig{
			Enabled:   envBool("KAFKA_SASL_ENABLED", false),
			Mechanism: envOr("KAFKA_SASL_MECHANISM", "PLAIN"),
			Username:  os.Getenv("KAFKA_SASL_USERNAME"),
			Password:  os.Getenv("KAFKA_SASL_PASSWORD"),
		},
		registryURL:      envOr("SCHEMA_REGISTRY_URL", defaults.RegistryURL),
		registryUser:     os.Getenv("SCHEMA_REGISTRY_USER"),
		registryPassword: os.Getenv("SCHEMA_REGISTRY_PASSWORD"),

		topic: envOr("SANDBOX_TOPIC", "incoming-topic"),

		containerName: envOr("SANDBOX_CONTAINER_NAME", environment.DefaultContainerName),
		networkName:   envOr("SANDBOX_NETWORK_NAME", environment.DefaultNetworkName),
		devContainer:  os.Getenv("SANDBOX_DEV_CONTAINER"),
		kafkaPort:     kafkaPort,
		registryPort:  registryPort,

		readinessInterval:    time.Duration(envInt("READINESS_INTERVAL_SECONDS", 2)) * time.Second,
		readinessMaxAttempts: envInt("READINESS_MAX_ATTEMPTS", 30),

		batchDelay:  time.Duration(envInt("BATCH_DELAY_MS", 500)) * time.Millisecond,
		stopOnError: envBool("BATCH_STOP_ON_ERROR", false),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
