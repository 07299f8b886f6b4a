package network

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/logger"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
)

// DockerAPI is the subset of the docker engine client the reconciler needs.
// *client.Client implements it; tests supply fakes.
type DockerAPI interface {
	NetworkInspect(ctx context.Context, networkID string, options network.InspectOptions) (network.Inspect, error)
	NetworkConnect(ctx context.Context, networkID, containerID string, config *network.EndpointSettings) error
	NetworkDisconnect(ctx context.Context, networkID, containerID string, force bool) error
}

// MembershipResult reports how an attach or detach request was satisfied.
type MembershipResult string

const (
	Attached        MembershipResult = "attached"
	AlreadyAttached MembershipResult = "already-attached"
	Detached        MembershipResult = "detached"
	AlreadyDetached MembershipResult = "already-detached"
)

// Reconciler idempotently manages a container's membership in a docker
// network. Bootstrap and teardown are both re-entrant, so attach and detach
// convert "nothing to do" situations into no-op successes instead of errors.
type Reconciler struct {
	docker DockerAPI
	log    *logger.Logger
}

// NewReconciler creates a network reconciler on top of the given docker
// client. The logger may be nil.
func NewReconciler(docker DockerAPI, log *logger.Logger) *Reconciler {
	return &Reconciler{docker: docker, log: log}
}

// NewDockerClient creates a docker engine client from the environment
// (DOCKER_HOST et al.) with API version negotiation.
func NewDockerClient() (*client.Client, error) {
	return client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
}

// Attach connects the container to the network. Attaching a container that
// is already a member returns AlreadyAttached without error.
func (r *Reconciler) Attach(ctx context.Context, containerName, networkName string) (MembershipResult, error) {
	member, err := r.isMember(ctx, containerName, networkName)
	if err != nil {
		return "", err
	}
	if member {
		r.logResult(AlreadyAttached, containerName, networkName)
		return AlreadyAttached, nil
	}

	if err := r.docker.NetworkConnect(ctx, networkName, containerName, nil); err != nil {
		// Another process may have attached the container between the
		// inspect and the connect.
		if isAlreadyConnectedError(err) {
			r.logResult(AlreadyAttached, containerName, networkName)
			return AlreadyAttached, nil
		}
		return "", fmt.Errorf("attaching container %q to network %q: %w", containerName, networkName, err)
	}

	r.logResult(Attached, containerName, networkName)
	return Attached, nil
}

// Detach disconnects the container from the network. Detaching a container
// that is not a member returns AlreadyDetached without error — membership is
// inspected first so the engine's hard error never surfaces.
func (r *Reconciler) Detach(ctx context.Context, containerName, networkName string) (MembershipResult, error) {
	member, err := r.isMember(ctx, containerName, networkName)
	if err != nil {
		return "", err
	}
	if !member {
		r.logResult(AlreadyDetached, containerName, networkName)
		return AlreadyDetached, nil
	}

	if err := r.docker.NetworkDisconnect(ctx, networkName, containerName, false); err != nil {
		if isNotConnectedError(err) {
			r.logResult(AlreadyDetached, containerName, networkName)
			return AlreadyDetached, nil
		}
		return "", fmt.Errorf("detaching container %q from network %q: %w", containerName, networkName, err)
	}

	r.logResult(Detached, containerName, networkName)
	return Detached, nil
}

// isMember inspects the network and reports whether the container is
// currently connected. Matching is by container name because that is what
// operators configure; the inspect result keys by container ID.
func (r *Reconciler) isMember(ctx context.Context, containerName, networkName string) (bool, error) {
	inspect, err := r.docker.NetworkInspect(ctx, networkName, network.InspectOptions{})
	if err != nil {
		return false, fmt.Errorf("inspecting network %q: %w", networkName, err)
	}

	for _, endpoint := range inspect.Containers {
		if endpoint.Name == containerName {
			return true, nil
		}
	}
	return false, nil
}

func (r *Reconciler) logResult(result MembershipResult, containerName, networkName string) {
	if r.log == nil {
		return
	}
	r.log.Info("network membership reconciled", nil, map[string]interface{}{
		"container": containerName,
		"network":   networkName,
		"result":    string(result),
	})
}

func isAlreadyConnectedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "already exists in network")
}

func isNotConnectedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "is not connected to network")
}
