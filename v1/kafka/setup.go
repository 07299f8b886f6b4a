package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// KafkaClient represents a client for interacting with Apache Kafka. It
// bundles the administrative client used for metadata and topic management
// with the writer used for publishing raw messages.
//
// All methods are safe for concurrent use by multiple goroutines.
type KafkaClient struct {
	// cfg stores the configuration for this Kafka client
	cfg Config

	// client is the administrative client used for metadata and topic CRUD
	client *kafka.Client

	// writer is the Kafka writer used for publishing messages
	writer *kafka.Writer

	// mu protects concurrent access to the writer during shutdown
	mu sync.RWMutex

	closed bool
}

// NewClient creates and initializes a new KafkaClient with the provided
// configuration. The client is lazy: no connection is made until the first
// operation, so constructing it against a not-yet-running broker is safe.
func NewClient(cfg Config) (*KafkaClient, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: at least one broker address is required")
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}

	transport, err := createTransport(cfg)
	if err != nil {
		return nil, err
	}

	k := &KafkaClient{
		cfg: cfg,
		client: &kafka.Client{
			Addr:      kafka.TCP(cfg.Brokers...),
			Timeout:   cfg.WriteTimeout,
			Transport: transport,
		},
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.LeastBytes{},
			MaxAttempts:  cfg.MaxAttempts,
			WriteTimeout: cfg.WriteTimeout,
			RequiredAcks: kafka.RequireAll,
			Transport:    transport,
			ErrorLogger:  createErrorLogger(cfg),

			// Publishing must never implicitly create topics; topic
			// creation is the provisioner's job.
			AllowAutoTopicCreation: false,
		},
	}

	return k, nil
}

// Probe performs a metadata request against the bootstrap brokers. It is
// side-effect free and suitable as a readiness probe: it fails while the
// broker is still starting and succeeds once the advertised listener answers.
func (k *KafkaClient) Probe(ctx context.Context) error {
	resp, err := k.client.Metadata(ctx, &kafka.MetadataRequest{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrokerUnreachable, err)
	}
	if len(resp.Brokers) == 0 {
		return fmt.Errorf("%w: metadata response contains no brokers", ErrBrokerUnreachable)
	}
	return nil
}

// ListTopics returns the names of all non-internal topics the broker
// currently reports, sorted for deterministic output.
func (k *KafkaClient) ListTopics(ctx context.Context) ([]string, error) {
	resp, err := k.client.Metadata(ctx, &kafka.MetadataRequest{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrokerUnreachable, err)
	}

	names := make([]string, 0, len(resp.Topics))
	for _, topic := range resp.Topics {
		if topic.Internal {
			continue
		}
		names = append(names, topic.Name)
	}
	sort.Strings(names)
	return names, nil
}

// CreateTopic issues a create call for the given topic spec. The broker's
// "already exists" rejection is passed through untranslated so the caller
// can decide whether it is benign.
func (k *KafkaClient) CreateTopic(ctx context.Context, spec TopicSpec) error {
	resp, err := k.client.CreateTopics(ctx, &kafka.CreateTopicsRequest{
		Topics: []kafka.TopicConfig{
			{
				Topic:             spec.Name,
				NumPartitions:     spec.Partitions,
				ReplicationFactor: spec.Replication,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrokerUnreachable, err)
	}
	if topicErr := resp.Errors[spec.Name]; topicErr != nil {
		return topicErr
	}
	return nil
}

// PublishRaw writes a single message with pre-encoded key and value bytes to
// the given topic. The bytes are produced as-is; encoding (including the
// schema registry envelope) is the caller's responsibility.
func (k *KafkaClient) PublishRaw(ctx context.Context, topic string, key, value []byte) error {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.closed {
		return fmt.Errorf("kafka: client is closed")
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
}

// GracefulShutdown flushes and closes the writer. It may only be called once.
func (k *KafkaClient) GracefulShutdown() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil
	}
	k.closed = true
	return k.writer.Close()
}

// createErrorLogger creates a kafka-go error logger from the config.
func createErrorLogger(cfg Config) kafka.LoggerFunc {
	if cfg.Logger != nil {
		return func(msg string, args ...interface{}) {
			cfg.Logger.Error("kafka internal error", nil, map[string]interface{}{
				"error": fmt.Sprintf(msg, args...),
			})
		}
	}
	return func(msg string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, "KAFKA ERROR: "+msg+"\n", args...)
	}
}

// createTransport creates the shared transport with TLS and SASL applied.
func createTransport(cfg Config) (*kafka.Transport, error) {
	transport := &kafka.Transport{
		DialTimeout: cfg.DialTimeout,
	}

	if cfg.TLS.Enabled {
		tlsConfig, err := createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		transport.TLS = tlsConfig
	}

	if cfg.SASL.Enabled {
		mechanism, err := createSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("failed to create SASL mechanism: %w", err)
		}
		transport.SASL = mechanism
	}

	return transport, nil
}

// createTLSConfig creates a TLS configuration from the provided config.
func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// createSASLMechanism creates a SASL mechanism from the provided config.
func createSASLMechanism(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.Mechanism)
	}
}
