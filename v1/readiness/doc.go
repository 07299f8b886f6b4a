// Package readiness gates provisioning work on external services becoming
// reachable.
//
// A Gate repeatedly runs a Probe — a side-effect-free capability query such
// as a broker metadata request or a registry root GET — at a fixed interval
// until it succeeds, the configured attempt budget is exhausted, or the
// context is cancelled. The gate performs no writes, so aborting a wait
// leaves no partial state behind.
//
//	gate := readiness.NewGate(readiness.Config{
//		Interval:    2 * time.Second,
//		MaxAttempts: 30,
//	})
//
//	err := gate.AwaitAll(ctx, map[string]readiness.Probe{
//		"broker":          brokerClient.Probe,
//		"schema-registry": registryClient.Probe,
//	})
//	if readiness.IsServiceUnavailable(err) {
//		// infrastructure is down; abort the bootstrap
//	}
package readiness
