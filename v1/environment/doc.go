// Package environment manages the local sandbox: one named Redpanda
// container, serving both the Kafka protocol and a Confluent-compatible
// schema registry, on a named docker network with fixed host port bindings.
//
// Every lifecycle operation is idempotent against the engine's current
// state. Start reuses a running container, restarts a stopped one, and
// creates one only when none exists; Stop and Cleanup convert already-absent
// resources into no-op successes. Stopping the sandbox preserves topics and
// schemas; Cleanup is the only destructive path.
//
//	manager := environment.NewManager(engine, environment.Config{})
//
//	outcome, err := manager.Start(ctx)
//	if err != nil {
//		// engine unreachable or the container failed to come up
//	}
//	endpoints := manager.Endpoints()
package environment
