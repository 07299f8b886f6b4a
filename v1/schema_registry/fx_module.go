package schema_registry

import (
	"go.uber.org/fx"
)

// FXModule is an fx.Module that provides the Schema Registry client.
//
// The module provides both the concrete *Client (needed by callers that use
// the readiness Probe) and the Registry interface.
//
// Usage:
//
//	app := fx.New(
//	    schema_registry.FXModule,
//	    fx.Provide(
//	        func() schema_registry.Config {
//	            return schema_registry.Config{
//	                URL: "http://localhost:8081",
//	            }
//	        },
//	    ),
//	)
var FXModule = fx.Module("schema_registry",
	fx.Provide(
		NewClient,
		func(client *Client) Registry { return client },
	),
)
