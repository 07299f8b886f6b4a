package bootstrap

import (
	"github.com/Aleph-Alpha/kafka-sandbox/v1/kafka"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/logger"
)

// Config holds the configuration for the bootstrap Orchestrator.
type Config struct {
	// Topics to ensure, in order. Default: DefaultTopics().
	Topics []kafka.TopicSpec

	// Schemas to ensure, in order. Default: DefaultSchemas().
	Schemas []SchemaSpec

	// DevContainerName, when set, is a container to attach to the sandbox
	// network after provisioning so it can reach the broker directly.
	// Attach failures are warnings, never fatal.
	DevContainerName string

	// NetworkName is the sandbox network used for the devcontainer
	// attach. Required only when DevContainerName is set.
	NetworkName string

	// Logger is an optional logger.
	Logger *logger.Logger
}

func (c *Config) applyDefaults() {
	if len(c.Topics) == 0 {
		c.Topics = DefaultTopics()
	}
	if len(c.Schemas) == 0 {
		c.Schemas = DefaultSchemas()
	}
}
