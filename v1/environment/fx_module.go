package environment

import (
	"github.com/docker/docker/client"
	"go.uber.org/fx"
)

// FXModule defines the Fx module for the environment package.
//
// Dependencies required by this module:
//   - An environment.Config instance
//   - *client.Client (provided by network.FXModule)
var FXModule = fx.Module("environment",
	fx.Provide(
		func(c *client.Client) EngineAPI { return c },
		func(engine EngineAPI, cfg Config) *Manager {
			return NewManager(engine, cfg)
		},
	),
)
