package generator

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/publisher"
	"github.com/google/uuid"
)

// Publisher is the publish surface the driver needs. *publisher.Publisher
// implements it; tests supply fakes.
type Publisher interface {
	Publish(ctx context.Context, keyJSON, valueJSON []byte) error
}

// Driver produces synthetic key/value pairs and drives them through a
// Publisher, in one of three modes: a single message, a counted batch, or an
// interactive loop fed by an operator.
type Driver struct {
	publisher Publisher
	cfg       Config

	// overridable for deterministic tests
	now   func() time.Time
	newID func() string
}

// NewDriver creates a driver over the given publisher.
func NewDriver(pub Publisher, cfg Config) *Driver {
	cfg.applyDefaults()
	return &Driver{
		publisher: pub,
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Report summarizes a multi-message run. Every message is independently
// attempted; Errors holds one entry per failed publish, in order.
type Report struct {
	Attempted int
	Succeeded int
	Failed    int
	Errors    []error
}

type sampleKey struct {
	PartitionKey string `json:"partitionKey"`
}

type sampleValue struct {
	ID        string `json:"id"`
	EventType string `json:"eventType"`
	UserID    string `json:"userId"`
	Timestamp int64  `json:"timestamp"`
}

// Single publishes one synthetic message for the given event type and user.
func (d *Driver) Single(ctx context.Context, eventType, userID string) error {
	if eventType == "" {
		eventType = d.cfg.EventTypes[0]
	}
	if userID == "" {
		userID = fmt.Sprintf("%s-%s", DefaultUserPrefix, d.newID())
	}
	key, value, err := d.buildMessage(eventType, userID)
	if err != nil {
		return err
	}
	return d.publisher.Publish(ctx, key, value)
}

// Batch publishes count synthetic messages, cycling the configured event
// types round-robin by index with a fixed pause between publishes. A failed
// publish does not abort the remaining iterations unless StopOnError is set;
// the returned report carries the per-message outcome either way. The only
// non-nil error returns are context cancellation and a StopOnError abort.
func (d *Driver) Batch(ctx context.Context, count int) (Report, error) {
	var report Report
	for i := 0; i < count; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(d.cfg.BatchDelay):
			}
		}

		eventType := d.cfg.EventTypes[i%len(d.cfg.EventTypes)]
		userID := fmt.Sprintf("%s-%d", DefaultUserPrefix, i+1)
		report.Attempted++

		err := d.Single(ctx, eventType, userID)
		if err == nil {
			report.Succeeded++
			continue
		}
		report.Failed++
		report.Errors = append(report.Errors, err)
		if d.cfg.Logger != nil {
			d.cfg.Logger.Warn("batch publish failed", err, map[string]interface{}{
				"index":      i,
				"event_type": eventType,
				"user_id":    userID,
			})
		}
		if d.cfg.StopOnError {
			return report, err
		}
	}

	if d.cfg.Logger != nil {
		d.cfg.Logger.Info("batch finished", nil, map[string]interface{}{
			"attempted": report.Attempted,
			"succeeded": report.Succeeded,
			"failed":    report.Failed,
		})
	}
	return report, nil
}

// Sentinel words that end an interactive session.
const (
	sentinelQuit = "quit"
	sentinelExit = "exit"
)

// Interactive reads "key|value" record lines from in until a sentinel word,
// EOF, or context cancellation. Malformed lines and failed publishes are
// reported and skipped; the loop never aborts on a per-line problem.
func (d *Driver) Interactive(ctx context.Context, in io.Reader) (Report, error) {
	var report Report
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == sentinelQuit || line == sentinelExit {
			break
		}

		key, value, err := publisher.SplitRecord(line)
		if err != nil {
			report.Attempted++
			report.Failed++
			report.Errors = append(report.Errors, err)
			if d.cfg.Logger != nil {
				d.cfg.Logger.Warn("skipping malformed record line", err, nil)
			}
			continue
		}

		report.Attempted++
		if err := d.publisher.Publish(ctx, key, value); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, err)
			if d.cfg.Logger != nil {
				d.cfg.Logger.Warn("interactive publish failed", err, nil)
			}
			continue
		}
		report.Succeeded++
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("generator: reading input: %w", err)
	}
	return report, nil
}

func (d *Driver) buildMessage(eventType, userID string) (keyJSON, valueJSON []byte, err error) {
	keyJSON, err = json.Marshal(sampleKey{PartitionKey: userID})
	if err != nil {
		return nil, nil, fmt.Errorf("generator: encoding key: %w", err)
	}
	valueJSON, err = json.Marshal(sampleValue{
		ID:        d.newID(),
		EventType: eventType,
		UserID:    userID,
		Timestamp: d.now().UnixMilli(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("generator: encoding value: %w", err)
	}
	return keyJSON, valueJSON, nil
}
