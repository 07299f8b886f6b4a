package readiness

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Probe is a side-effect-free capability query against a single service.
// It returns nil when the service is ready to accept requests. Any error
// (connection refused, non-2xx status, timeout) means "not ready yet" —
// the gate does not distinguish a starting service from a down one.
type Probe func(ctx context.Context) error

// Gate polls external services until they respond successfully or the probe
// budget is exceeded. It performs no writes; all subsequent provisioning is
// expected to run only after the gate reports readiness.
type Gate struct {
	cfg Config
}

// NewGate creates a readiness gate with the provided configuration,
// applying defaults for unset fields.
func NewGate(cfg Config) *Gate {
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	return &Gate{cfg: cfg}
}

// Await polls the probe at the configured interval until it succeeds.
//
// With a positive MaxAttempts the probe runs at most that many times and the
// returned error wraps ErrServiceUnavailable once the budget is exhausted.
// With MaxAttempts <= 0 it polls until success or context cancellation.
// Cancelling ctx aborts the wait immediately with ctx.Err().
func (g *Gate) Await(ctx context.Context, service string, probe Probe) error {
	var lastErr error

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = probe(ctx)
		if lastErr == nil {
			if g.cfg.Logger != nil {
				g.cfg.Logger.Info("service ready", nil, map[string]interface{}{
					"service":  service,
					"attempts": attempt,
				})
			}
			return nil
		}

		if g.cfg.Logger != nil {
			g.cfg.Logger.Debug("service not ready yet", lastErr, map[string]interface{}{
				"service": service,
				"attempt": attempt,
			})
		}

		if g.cfg.MaxAttempts > 0 && attempt >= g.cfg.MaxAttempts {
			return fmt.Errorf("%w: %s did not become ready after %d attempts: %v",
				ErrServiceUnavailable, service, attempt, lastErr)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.cfg.Interval):
		}
	}
}

// AwaitAll waits for every service in probes concurrently. The first failure
// cancels the remaining waits and is returned.
func (g *Gate) AwaitAll(ctx context.Context, probes map[string]Probe) error {
	eg, egCtx := errgroup.WithContext(ctx)
	for service, probe := range probes {
		eg.Go(func() error {
			return g.Await(egCtx, service, probe)
		})
	}
	return eg.Wait()
}
