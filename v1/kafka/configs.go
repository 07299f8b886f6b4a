package kafka

import (
	"time"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/logger"
)

// Default values applied by NewClient when the corresponding Config field is
// left at its zero value.
const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultMaxAttempts  = 3
)

// Config defines the configuration for the Kafka client.
type Config struct {
	// Brokers is the list of bootstrap broker addresses ("host:port").
	Brokers []string

	// DialTimeout is the timeout for establishing connections to brokers.
	// Default: 5 seconds
	DialTimeout time.Duration

	// WriteTimeout is the timeout for produce requests.
	// Default: 10 seconds
	WriteTimeout time.Duration

	// MaxAttempts is the number of attempts for produce requests before
	// giving up.
	// Default: 3
	MaxAttempts int

	// TLS contains TLS/SSL configuration for broker connections.
	TLS TLSConfig

	// SASL contains SASL authentication configuration.
	SASL SASLConfig

	// Logger is an optional logger. Internal kafka-go errors are routed
	// through it when set.
	Logger *logger.Logger
}

// TLSConfig contains TLS/SSL configuration parameters.
type TLSConfig struct {
	// Enabled determines whether to use TLS for broker connections.
	Enabled bool

	// CACertPath is the file path to the CA certificate for verifying the
	// brokers.
	CACertPath string

	// ClientCertPath is the file path to the client certificate.
	ClientCertPath string

	// ClientKeyPath is the file path to the client certificate's private key.
	ClientKeyPath string

	// InsecureSkipVerify controls whether to skip verification of the
	// broker's certificate chain. Testing only.
	InsecureSkipVerify bool
}

// SASLConfig contains SASL authentication configuration.
type SASLConfig struct {
	// Enabled determines whether SASL authentication is used.
	Enabled bool

	// Mechanism is one of "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512".
	Mechanism string

	// Username for SASL authentication.
	Username string

	// Password for SASL authentication.
	Password string
}

// TopicSpec describes the desired configuration of a topic. The provisioner
// never alters the parameters of an existing topic; a spec whose name is
// already taken is reported as already existing regardless of its parameters.
type TopicSpec struct {
	// Name is the topic name.
	Name string

	// Partitions is the partition count used at creation time.
	Partitions int

	// Replication is the replication factor used at creation time.
	Replication int
}
