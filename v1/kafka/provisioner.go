package kafka

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/logger"
	kafkago "github.com/segmentio/kafka-go"
)

// TopicAdmin is the broker surface the provisioner needs. *KafkaClient
// implements it; tests supply fakes.
type TopicAdmin interface {
	// ListTopics returns the names of all existing topics.
	ListTopics(ctx context.Context) ([]string, error)

	// CreateTopic creates a topic with the given spec.
	CreateTopic(ctx context.Context, spec TopicSpec) error
}

// ProvisionOutcome reports how EnsureTopic satisfied the request.
type ProvisionOutcome string

const (
	// TopicCreated means the topic did not exist and was created.
	TopicCreated ProvisionOutcome = "created"

	// TopicAlreadyExists means the topic name was already taken; its
	// parameters were left untouched.
	TopicAlreadyExists ProvisionOutcome = "already-exists"
)

// Provisioner idempotently ensures topics exist. It assumes broker readiness
// has already been confirmed by a readiness gate and does not re-check it.
type Provisioner struct {
	admin TopicAdmin
	log   *logger.Logger
}

// NewProvisioner creates a topic provisioner on top of the given admin
// client. The logger may be nil.
func NewProvisioner(admin TopicAdmin, log *logger.Logger) *Provisioner {
	return &Provisioner{admin: admin, log: log}
}

// EnsureTopic makes sure a topic with the given name exists.
//
// The existing-topic check runs first so that re-provisioning never surfaces
// a duplicate-topic error. When the topic is absent a create call is issued
// and verified by re-listing. A create rejected with the broker's
// "already exists" code is treated as TopicAlreadyExists: two processes
// racing on the same name must both succeed, with at most one of them
// observing TopicCreated.
func (p *Provisioner) EnsureTopic(ctx context.Context, spec TopicSpec) (ProvisionOutcome, error) {
	existing, err := p.admin.ListTopics(ctx)
	if err != nil {
		return "", fmt.Errorf("listing topics before creating %q: %w", spec.Name, err)
	}

	if slices.Contains(existing, spec.Name) {
		p.logInfo("topic already exists", spec)
		return TopicAlreadyExists, nil
	}

	if err := p.admin.CreateTopic(ctx, spec); err != nil {
		if isTopicExistsError(err) {
			p.logInfo("topic created concurrently by another process", spec)
			return TopicAlreadyExists, nil
		}
		return "", fmt.Errorf("%w: create %q rejected: %v", ErrProvisionFailed, spec.Name, err)
	}

	// Post-condition check: the broker accepted the create, so the topic
	// must now be listed.
	existing, err = p.admin.ListTopics(ctx)
	if err != nil {
		return "", fmt.Errorf("verifying topic %q after create: %w", spec.Name, err)
	}
	if !slices.Contains(existing, spec.Name) {
		return "", fmt.Errorf("%w: topic %q not visible after create", ErrProvisionFailed, spec.Name)
	}

	p.logInfo("topic created", spec)
	return TopicCreated, nil
}

func (p *Provisioner) logInfo(msg string, spec TopicSpec) {
	if p.log == nil {
		return
	}
	p.log.Info(msg, nil, map[string]interface{}{
		"topic":       spec.Name,
		"partitions":  spec.Partitions,
		"replication": spec.Replication,
	})
}

// isTopicExistsError reports whether the broker rejected a create because
// the topic name is already taken.
func isTopicExistsError(err error) bool {
	return errors.Is(err, kafkago.TopicAlreadyExists)
}
