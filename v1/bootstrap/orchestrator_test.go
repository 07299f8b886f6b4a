package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/kafka"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/network"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/readiness"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/schema_registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGate struct {
	err   error
	calls int
}

func (f *fakeGate) AwaitAll(ctx context.Context, probes map[string]readiness.Probe) error {
	f.calls++
	return f.err
}

type fakeTopics struct {
	ensured []string
	failOn  string
}

func (f *fakeTopics) EnsureTopic(ctx context.Context, spec kafka.TopicSpec) (kafka.ProvisionOutcome, error) {
	if spec.Name == f.failOn {
		return "", fmt.Errorf("%w: topic %q rejected", kafka.ErrProvisionFailed, spec.Name)
	}
	f.ensured = append(f.ensured, spec.Name)
	return kafka.TopicCreated, nil
}

type fakeSchemas struct {
	ensured []string
	failOn  map[string]error
	nextID  int
}

func (f *fakeSchemas) EnsureSchema(ctx context.Context, subject, schema, schemaType string) (schema_registry.EnsureResult, error) {
	if err, ok := f.failOn[subject]; ok {
		return schema_registry.EnsureResult{}, err
	}
	f.ensured = append(f.ensured, subject)
	f.nextID++
	return schema_registry.EnsureResult{ID: f.nextID, Version: 1}, nil
}

type fakeReconciler struct {
	attached, detached int
	err                error
}

func (f *fakeReconciler) Attach(ctx context.Context, containerName, networkName string) (network.MembershipResult, error) {
	f.attached++
	if f.err != nil {
		return "", f.err
	}
	return network.Attached, nil
}

func (f *fakeReconciler) Detach(ctx context.Context, containerName, networkName string) (network.MembershipResult, error) {
	f.detached++
	if f.err != nil {
		return "", f.err
	}
	return network.Detached, nil
}

type fixture struct {
	gate       *fakeGate
	topics     *fakeTopics
	schemas    *fakeSchemas
	reconciler *fakeReconciler
}

func newOrchestrator(cfg Config) (*Orchestrator, *fixture) {
	f := &fixture{
		gate:       &fakeGate{},
		topics:     &fakeTopics{},
		schemas:    &fakeSchemas{failOn: map[string]error{}},
		reconciler: &fakeReconciler{},
	}
	probes := map[string]readiness.Probe{
		"broker":          func(ctx context.Context) error { return nil },
		"schema-registry": func(ctx context.Context) error { return nil },
	}
	return NewOrchestrator(f.gate, f.topics, f.schemas, f.reconciler, probes, cfg), f
}

func TestRunProvisionsDefaultSet(t *testing.T) {
	orch, f := newOrchestrator(Config{})

	result, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, f.gate.calls)
	assert.Equal(t, []string{"incoming-topic", "response-topic"}, f.topics.ensured)
	assert.Equal(t, []string{
		"incoming-topic-key", "incoming-topic-value",
		"response-topic-key", "response-topic-value",
	}, f.schemas.ensured)
	assert.Len(t, result.Topics, 2)
	assert.Len(t, result.Schemas, 4)
	assert.Empty(t, result.SchemaErrors)
}

func TestRunHaltsWhenServicesUnavailable(t *testing.T) {
	orch, f := newOrchestrator(Config{})
	f.gate.err = fmt.Errorf("%w: broker", readiness.ErrServiceUnavailable)

	_, err := orch.Run(context.Background())
	require.Error(t, err)
	assert.True(t, readiness.IsServiceUnavailable(err))
	assert.Empty(t, f.topics.ensured, "no provisioning before readiness is confirmed")
	assert.Empty(t, f.schemas.ensured)
}

func TestRunHaltsOnTopicFailure(t *testing.T) {
	orch, f := newOrchestrator(Config{})
	f.topics.failOn = "incoming-topic"

	result, err := orch.Run(context.Background())
	require.Error(t, err)
	assert.True(t, kafka.IsProvisionFailed(err))
	assert.Contains(t, err.Error(), "incoming-topic")
	assert.Empty(t, f.schemas.ensured, "schema steps assume topics succeeded")
	assert.Empty(t, result.Topics)
}

func TestRunAttemptsSiblingSchemasAfterFailure(t *testing.T) {
	orch, f := newOrchestrator(Config{})
	f.schemas.failOn["incoming-topic-value"] = &schema_registry.RegistrationError{
		Subject:    "incoming-topic-value",
		StatusCode: 422,
		Body:       "invalid schema",
	}

	result, err := orch.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incoming-topic-value")

	// The failing subject is recorded; the other three are still ensured.
	assert.Len(t, result.SchemaErrors, 1)
	assert.Len(t, result.Schemas, 3)
	assert.Equal(t, []string{
		"incoming-topic-key",
		"response-topic-key", "response-topic-value",
	}, f.schemas.ensured)

	var regErr *schema_registry.RegistrationError
	require.ErrorAs(t, result.SchemaErrors["incoming-topic-value"], &regErr)
	assert.Equal(t, 422, regErr.StatusCode)
}

func TestDevContainerAttachFailureIsNotFatal(t *testing.T) {
	orch, f := newOrchestrator(Config{
		DevContainerName: "devbox",
		NetworkName:      "kafka-sandbox-net",
	})
	f.reconciler.err = errors.New("no such container: devbox")

	result, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.reconciler.attached)
	assert.Equal(t, network.MembershipResult(""), result.NetworkResult)
}

func TestDevContainerAttachRecorded(t *testing.T) {
	orch, f := newOrchestrator(Config{
		DevContainerName: "devbox",
		NetworkName:      "kafka-sandbox-net",
	})

	result, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, network.Attached, result.NetworkResult)
	assert.Equal(t, 1, f.reconciler.attached)
}

func TestNoAttachWithoutDevContainer(t *testing.T) {
	orch, f := newOrchestrator(Config{})

	_, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, f.reconciler.attached)
}

func TestTeardownDetachIsWarnOnly(t *testing.T) {
	orch, f := newOrchestrator(Config{
		DevContainerName: "devbox",
		NetworkName:      "kafka-sandbox-net",
	})
	f.reconciler.err = errors.New("engine unavailable")

	outcome := orch.Teardown(context.Background())
	assert.Equal(t, network.MembershipResult(""), outcome)
	assert.Equal(t, 1, f.reconciler.detached)
}

func TestTeardownDetachesDevContainer(t *testing.T) {
	orch, f := newOrchestrator(Config{
		DevContainerName: "devbox",
		NetworkName:      "kafka-sandbox-net",
	})

	outcome := orch.Teardown(context.Background())
	assert.Equal(t, network.Detached, outcome)
	assert.Equal(t, 1, f.reconciler.detached)
}

func TestCustomProvisioningSetOverridesDefaults(t *testing.T) {
	orch, f := newOrchestrator(Config{
		Topics:  []kafka.TopicSpec{{Name: "orders", Partitions: 3, Replication: 1}},
		Schemas: []SchemaSpec{{Subject: "orders-value", Schema: sampleValueSchema}},
	})

	result, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"orders"}, f.topics.ensured)
	assert.Equal(t, []string{"orders-value"}, f.schemas.ensured)
	assert.Len(t, result.Topics, 1)
}
