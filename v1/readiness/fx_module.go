package readiness

import "go.uber.org/fx"

// FXModule defines the Fx module for the readiness package.
//
// Dependencies required by this module:
//   - A readiness.Config instance must be available in the container
var FXModule = fx.Module("readiness",
	fx.Provide(
		NewGate,
	),
)
