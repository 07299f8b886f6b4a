package generator

import (
	"github.com/Aleph-Alpha/kafka-sandbox/v1/publisher"
	"go.uber.org/fx"
)

// FXModule defines the Fx module for the generator package.
//
// Dependencies required by this module:
//   - A generator.Config instance
//   - *publisher.Publisher (provided by publisher.FXModule)
var FXModule = fx.Module("generator",
	fx.Provide(
		func(pub *publisher.Publisher, cfg Config) *Driver {
			return NewDriver(pub, cfg)
		},
	),
)
