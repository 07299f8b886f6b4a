package environment

import (
	"fmt"
	"time"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/logger"
)

// Default values applied by NewManager when the corresponding Config field
// is left at its zero value.
const (
	// DefaultContainerName names the sandbox broker container. Start
	// reuses a container with this name instead of creating a second one.
	DefaultContainerName = "kafka-sandbox-redpanda"

	// DefaultNetworkName names the sandbox docker network.
	DefaultNetworkName = "kafka-sandbox-net"

	// DefaultImage is a single-binary Redpanda build that serves both the
	// Kafka protocol and a Confluent-compatible schema registry.
	DefaultImage = "docker.redpanda.com/redpandadata/redpanda:v24.2.4"

	// DefaultKafkaPort is the host port bound to the Kafka listener.
	DefaultKafkaPort = 9092

	// DefaultRegistryPort is the host port bound to the schema registry.
	DefaultRegistryPort = 8081

	// DefaultStartupTimeout bounds the wait for the container's
	// listeners to come up.
	DefaultStartupTimeout = 60 * time.Second
)

// Config holds the configuration for the sandbox environment Manager.
type Config struct {
	// ContainerName is the fixed name of the broker container.
	// Default: "kafka-sandbox-redpanda"
	ContainerName string

	// NetworkName is the docker network the container joins.
	// Default: "kafka-sandbox-net"
	NetworkName string

	// Image is the container image to run.
	// Default: DefaultImage
	Image string

	// KafkaPort is the host port bound to the Kafka listener. The same
	// port is used inside the container so the advertised address is
	// valid from the host. Default: 9092
	KafkaPort int

	// RegistryPort is the host port bound to the schema registry.
	// Default: 8081
	RegistryPort int

	// StartupTimeout bounds the wait for the container's listeners.
	// Default: 60 seconds
	StartupTimeout time.Duration

	// Logger is an optional logger.
	Logger *logger.Logger
}

func (c *Config) applyDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = DefaultContainerName
	}
	if c.NetworkName == "" {
		c.NetworkName = DefaultNetworkName
	}
	if c.Image == "" {
		c.Image = DefaultImage
	}
	if c.KafkaPort == 0 {
		c.KafkaPort = DefaultKafkaPort
	}
	if c.RegistryPort == 0 {
		c.RegistryPort = DefaultRegistryPort
	}
	if c.StartupTimeout == 0 {
		c.StartupTimeout = DefaultStartupTimeout
	}
}

// Endpoints are the host-reachable addresses of the sandbox services.
type Endpoints struct {
	Brokers     []string
	RegistryURL string
}

// Endpoints derives the host addresses from the configured port bindings.
func (c Config) Endpoints() Endpoints {
	return Endpoints{
		Brokers:     []string{fmt.Sprintf("localhost:%d", c.KafkaPort)},
		RegistryURL: fmt.Sprintf("http://localhost:%d", c.RegistryPort),
	}
}
