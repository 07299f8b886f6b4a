package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/kafka"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/network"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/readiness"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/schema_registry"
)

// Awaiter gates provisioning on the external services being reachable.
// *readiness.Gate implements it.
type Awaiter interface {
	AwaitAll(ctx context.Context, probes map[string]readiness.Probe) error
}

// TopicEnsurer idempotently provisions topics. *kafka.Provisioner
// implements it.
type TopicEnsurer interface {
	EnsureTopic(ctx context.Context, spec kafka.TopicSpec) (kafka.ProvisionOutcome, error)
}

// SchemaEnsurer idempotently registers schemas. schema_registry.Registry
// implementations satisfy it.
type SchemaEnsurer interface {
	EnsureSchema(ctx context.Context, subject, schema, schemaType string) (schema_registry.EnsureResult, error)
}

// NetworkReconciler manages the devcontainer's membership in the sandbox
// network. *network.Reconciler implements it.
type NetworkReconciler interface {
	Attach(ctx context.Context, containerName, networkName string) (network.MembershipResult, error)
	Detach(ctx context.Context, containerName, networkName string) (network.MembershipResult, error)
}

// Result summarizes one bootstrap run: the per-topic and per-subject
// outcomes plus how the optional devcontainer attach went.
type Result struct {
	Topics        map[string]kafka.ProvisionOutcome
	Schemas       map[string]schema_registry.EnsureResult
	SchemaErrors  map[string]error
	NetworkResult network.MembershipResult
}

// Orchestrator runs the bootstrap sequence: wait for the broker and the
// registry, ensure every topic, ensure every schema, then attach the
// devcontainer to the sandbox network. The sequence is safe to re-run; every
// step converges on already-provisioned state.
//
// Failure propagation follows the dependency order. A readiness or topic
// failure halts the remaining steps, because later steps assume earlier ones
// succeeded. A schema failure is fatal for that subject only; sibling
// subjects are still attempted. The network attach can never fail the
// bootstrap.
type Orchestrator struct {
	gate    Awaiter
	topics  TopicEnsurer
	schemas SchemaEnsurer
	network NetworkReconciler
	probes  map[string]readiness.Probe
	cfg     Config
}

// NewOrchestrator creates a bootstrap orchestrator. The probes map names
// each service the run must wait for.
func NewOrchestrator(
	gate Awaiter,
	topics TopicEnsurer,
	schemas SchemaEnsurer,
	reconciler NetworkReconciler,
	probes map[string]readiness.Probe,
	cfg Config,
) *Orchestrator {
	cfg.applyDefaults()
	return &Orchestrator{
		gate:    gate,
		topics:  topics,
		schemas: schemas,
		network: reconciler,
		probes:  probes,
		cfg:     cfg,
	}
}

// Run executes the bootstrap sequence. The returned Result is valid even on
// error and reports how far the run got.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	result := Result{
		Topics:       map[string]kafka.ProvisionOutcome{},
		Schemas:      map[string]schema_registry.EnsureResult{},
		SchemaErrors: map[string]error{},
	}

	if err := o.gate.AwaitAll(ctx, o.probes); err != nil {
		return result, err
	}

	for _, spec := range o.cfg.Topics {
		outcome, err := o.topics.EnsureTopic(ctx, spec)
		if err != nil {
			return result, fmt.Errorf("bootstrap: ensuring topic %q: %w", spec.Name, err)
		}
		result.Topics[spec.Name] = outcome
		o.logInfo("topic ensured", map[string]interface{}{
			"topic":   spec.Name,
			"outcome": string(outcome),
		})
	}

	var schemaErrs []error
	for _, spec := range o.cfg.Schemas {
		ensured, err := o.schemas.EnsureSchema(ctx, spec.Subject, spec.Schema, spec.SchemaType)
		if err != nil {
			result.SchemaErrors[spec.Subject] = err
			schemaErrs = append(schemaErrs, fmt.Errorf("subject %q: %w", spec.Subject, err))
			o.logWarn("schema registration failed", err, map[string]interface{}{
				"subject": spec.Subject,
			})
			continue
		}
		result.Schemas[spec.Subject] = ensured
		o.logInfo("schema ensured", map[string]interface{}{
			"subject":         spec.Subject,
			"schema_id":       ensured.ID,
			"version":         ensured.Version,
			"already_existed": ensured.AlreadyExisted,
		})
	}

	result.NetworkResult = o.reconcileDevContainer(ctx)

	if len(schemaErrs) > 0 {
		return result, fmt.Errorf("bootstrap: %w", errors.Join(schemaErrs...))
	}
	return result, nil
}

// Teardown detaches the devcontainer from the sandbox network. Failures are
// logged, never returned: teardown must not block an operator shutting the
// sandbox down.
func (o *Orchestrator) Teardown(ctx context.Context) network.MembershipResult {
	if o.cfg.DevContainerName == "" {
		return ""
	}
	outcome, err := o.network.Detach(ctx, o.cfg.DevContainerName, o.cfg.NetworkName)
	if err != nil {
		o.logWarn("devcontainer detach failed", err, map[string]interface{}{
			"container": o.cfg.DevContainerName,
			"network":   o.cfg.NetworkName,
		})
		return ""
	}
	return outcome
}

// reconcileDevContainer attaches the configured devcontainer, absorbing any
// failure into a warning.
func (o *Orchestrator) reconcileDevContainer(ctx context.Context) network.MembershipResult {
	if o.cfg.DevContainerName == "" {
		return ""
	}
	outcome, err := o.network.Attach(ctx, o.cfg.DevContainerName, o.cfg.NetworkName)
	if err != nil {
		o.logWarn("devcontainer attach failed", err, map[string]interface{}{
			"container": o.cfg.DevContainerName,
			"network":   o.cfg.NetworkName,
		})
		return ""
	}
	return outcome
}

func (o *Orchestrator) logInfo(msg string, fields map[string]interface{}) {
	if o.cfg.Logger != nil {
		o.cfg.Logger.Info(msg, nil, fields)
	}
}

func (o *Orchestrator) logWarn(msg string, err error, fields map[string]interface{}) {
	if o.cfg.Logger != nil {
		o.cfg.Logger.Warn(msg, err, fields)
	}
}
