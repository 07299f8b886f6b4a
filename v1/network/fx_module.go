package network

import (
	"github.com/Aleph-Alpha/kafka-sandbox/v1/logger"
	"github.com/docker/docker/client"
	"go.uber.org/fx"
)

// FXModule defines the Fx module for the network package. It provides the
// docker engine client and the reconciler built on top of it.
var FXModule = fx.Module("network",
	fx.Provide(
		NewDockerClient,
		func(c *client.Client) DockerAPI { return c },
		func(docker DockerAPI, log *logger.Logger) *Reconciler {
			return NewReconciler(docker, log)
		},
	),
)
