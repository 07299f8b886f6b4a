package environment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/readiness"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// EngineAPI is the subset of the docker engine client the manager needs.
// *client.Client implements it; tests supply fakes.
type EngineAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	NetworkInspect(ctx context.Context, networkID string, options network.InspectOptions) (network.Inspect, error)
	NetworkCreate(ctx context.Context, name string, options network.CreateOptions) (network.CreateResponse, error)
	NetworkRemove(ctx context.Context, networkID string) error
}

// StartOutcome reports how a Start request was satisfied.
type StartOutcome string

const (
	ContainerCreated StartOutcome = "created"
	ContainerStarted StartOutcome = "started"
	AlreadyRunning   StartOutcome = "already-running"
)

// stopTimeout is the grace period the engine gives the container before
// killing it.
const stopTimeout = 30 * time.Second

// StopOutcome reports how a Stop request was satisfied.
type StopOutcome string

const (
	ContainerStopped StopOutcome = "stopped"
	AlreadyStopped   StopOutcome = "already-stopped"
	ContainerAbsent  StopOutcome = "absent"
)

// Status is what the status command reports: the container's state plus a
// live reachability check of each service.
type Status struct {
	ContainerName string
	State         string // "running", "exited", ..., or "absent"
	Running       bool
	BrokerReady   bool
	RegistryReady bool
}

// Manager owns the lifecycle of the sandbox: one named Redpanda container —
// serving both the Kafka protocol and a Confluent-compatible schema registry —
// on a named docker network with fixed host port bindings. Every operation is
// idempotent against the engine's current state, so repeated start or stop
// invocations converge instead of failing.
type Manager struct {
	cfg    Config
	engine EngineAPI

	// createContainer is swappable for tests that fake the engine.
	createContainer func(ctx context.Context) error
}

// NewManager creates a sandbox manager over the given engine client.
func NewManager(engine EngineAPI, cfg Config) *Manager {
	cfg.applyDefaults()
	m := &Manager{cfg: cfg, engine: engine}
	m.createContainer = m.runContainer
	return m
}

// Endpoints returns the host-reachable addresses of the sandbox services.
func (m *Manager) Endpoints() Endpoints {
	return m.cfg.Endpoints()
}

// Start brings the sandbox container up. An existing running container is
// left untouched, a stopped one is restarted, and only when none exists is a
// new one created on the sandbox network.
func (m *Manager) Start(ctx context.Context) (StartOutcome, error) {
	if err := m.ensureNetwork(ctx); err != nil {
		return "", err
	}

	summary, err := m.findContainer(ctx)
	if err != nil {
		return "", err
	}

	switch {
	case summary == nil:
		if err := m.createContainer(ctx); err != nil {
			return "", fmt.Errorf("%w: creating container %q: %v", ErrEnvironmentFailed, m.cfg.ContainerName, err)
		}
		m.logOutcome("sandbox container created", string(ContainerCreated))
		return ContainerCreated, nil

	case isRunning(summary):
		m.logOutcome("sandbox container already running", string(AlreadyRunning))
		return AlreadyRunning, nil

	default:
		if err := m.engine.ContainerStart(ctx, summary.ID, container.StartOptions{}); err != nil {
			return "", fmt.Errorf("%w: starting container %q: %v", ErrEnvironmentFailed, m.cfg.ContainerName, err)
		}
		m.logOutcome("sandbox container restarted", string(ContainerStarted))
		return ContainerStarted, nil
	}
}

// Stop stops the sandbox container if it is running. Topics and schemas
// survive a stop; only Cleanup destroys state.
func (m *Manager) Stop(ctx context.Context) (StopOutcome, error) {
	summary, err := m.findContainer(ctx)
	if err != nil {
		return "", err
	}
	if summary == nil {
		m.logOutcome("sandbox container not found", string(ContainerAbsent))
		return ContainerAbsent, nil
	}
	if !isRunning(summary) {
		m.logOutcome("sandbox container already stopped", string(AlreadyStopped))
		return AlreadyStopped, nil
	}

	timeout := int(stopTimeout.Seconds())
	if err := m.engine.ContainerStop(ctx, summary.ID, container.StopOptions{Timeout: &timeout}); err != nil {
		return "", fmt.Errorf("%w: stopping container %q: %v", ErrEnvironmentFailed, m.cfg.ContainerName, err)
	}
	m.logOutcome("sandbox container stopped", string(ContainerStopped))
	return ContainerStopped, nil
}

// Status reports the container state and, when it is running, a
// single-attempt reachability probe of the broker and the registry. Probes
// may be nil.
func (m *Manager) Status(ctx context.Context, brokerProbe, registryProbe readiness.Probe) (Status, error) {
	status := Status{ContainerName: m.cfg.ContainerName, State: "absent"}

	summary, err := m.findContainer(ctx)
	if err != nil {
		return status, err
	}
	if summary == nil {
		return status, nil
	}

	status.State = string(summary.State)
	status.Running = isRunning(summary)
	if !status.Running {
		return status, nil
	}

	if brokerProbe != nil {
		status.BrokerReady = brokerProbe(ctx) == nil
	}
	if registryProbe != nil {
		status.RegistryReady = registryProbe(ctx) == nil
	}
	return status, nil
}

// Cleanup destroys the sandbox: the container is force-removed together with
// its volumes, then the sandbox network is removed. This is the only
// operation that deletes topics and schemas. Already-absent resources are
// no-ops.
func (m *Manager) Cleanup(ctx context.Context) error {
	summary, err := m.findContainer(ctx)
	if err != nil {
		return err
	}
	if summary != nil {
		err := m.engine.ContainerRemove(ctx, summary.ID, container.RemoveOptions{
			Force:         true,
			RemoveVolumes: true,
		})
		if err != nil && !isNotFoundError(err) {
			return fmt.Errorf("%w: removing container %q: %v", ErrEnvironmentFailed, m.cfg.ContainerName, err)
		}
	}

	if err := m.engine.NetworkRemove(ctx, m.cfg.NetworkName); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("%w: removing network %q: %v", ErrEnvironmentFailed, m.cfg.NetworkName, err)
	}

	m.logOutcome("sandbox removed", "cleaned")
	return nil
}

// ensureNetwork creates the sandbox network when it does not exist yet.
func (m *Manager) ensureNetwork(ctx context.Context) error {
	_, err := m.engine.NetworkInspect(ctx, m.cfg.NetworkName, network.InspectOptions{})
	if err == nil {
		return nil
	}
	if !isNotFoundError(err) {
		return fmt.Errorf("%w: inspecting network %q: %v", ErrEnvironmentFailed, m.cfg.NetworkName, err)
	}

	_, err = m.engine.NetworkCreate(ctx, m.cfg.NetworkName, network.CreateOptions{Driver: "bridge"})
	if err != nil && !isAlreadyExistsError(err) {
		return fmt.Errorf("%w: creating network %q: %v", ErrEnvironmentFailed, m.cfg.NetworkName, err)
	}
	return nil
}

// findContainer looks the sandbox container up by its exact name. The name
// filter matches substrings, so the result list is checked again.
func (m *Manager) findContainer(ctx context.Context) (*container.Summary, error) {
	summaries, err := m.engine.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", m.cfg.ContainerName)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing containers: %v", ErrEnvironmentFailed, err)
	}

	for i := range summaries {
		for _, name := range summaries[i].Names {
			if strings.TrimPrefix(name, "/") == m.cfg.ContainerName {
				return &summaries[i], nil
			}
		}
	}
	return nil, nil
}

// runContainer creates and starts the Redpanda container. The container
// port equals the bound host port on each listener so the advertised Kafka
// address is valid from the host.
func (m *Manager) runContainer(ctx context.Context) error {
	kafkaPort := nat.Port(fmt.Sprintf("%d/tcp", m.cfg.KafkaPort))
	registryPort := nat.Port(fmt.Sprintf("%d/tcp", m.cfg.RegistryPort))

	portBindings := nat.PortMap{
		kafkaPort:    []nat.PortBinding{{HostPort: fmt.Sprintf("%d", m.cfg.KafkaPort)}},
		registryPort: []nat.PortBinding{{HostPort: fmt.Sprintf("%d", m.cfg.RegistryPort)}},
	}

	req := testcontainers.ContainerRequest{
		Image:        m.cfg.Image,
		Name:         m.cfg.ContainerName,
		ExposedPorts: []string{string(kafkaPort), string(registryPort)},
		Cmd: []string{
			"redpanda", "start",
			"--mode", "dev-container",
			"--smp", "1",
			"--kafka-addr", fmt.Sprintf("PLAINTEXT://0.0.0.0:%d", m.cfg.KafkaPort),
			"--advertise-kafka-addr", fmt.Sprintf("PLAINTEXT://localhost:%d", m.cfg.KafkaPort),
			"--schema-registry-addr", fmt.Sprintf("0.0.0.0:%d", m.cfg.RegistryPort),
		},
		Networks:       []string{m.cfg.NetworkName},
		NetworkAliases: map[string][]string{m.cfg.NetworkName: {"redpanda", "kafka"}},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(kafkaPort).WithStartupTimeout(m.cfg.StartupTimeout),
			wait.ForListeningPort(registryPort).WithStartupTimeout(m.cfg.StartupTimeout),
		),
	}

	_, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
		Reuse:            true,
	})
	return err
}

func (m *Manager) logOutcome(msg, outcome string) {
	if m.cfg.Logger == nil {
		return
	}
	m.cfg.Logger.Info(msg, nil, map[string]interface{}{
		"container": m.cfg.ContainerName,
		"network":   m.cfg.NetworkName,
		"outcome":   outcome,
	})
}

func isRunning(summary *container.Summary) bool {
	return string(summary.State) == "running"
}

func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var notFound interface{ NotFound() }
	if errors.As(err, &notFound) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "No such") || strings.Contains(msg, "not found")
}

func isAlreadyExistsError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "already exists")
}
