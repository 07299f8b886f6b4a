// Package generator produces synthetic test messages and drives them through
// a schema-pinned publisher.
//
// A Driver supports three modes: Single publishes one message for a given
// event type and user, Batch publishes a counted sequence cycling a fixed
// event-type set round-robin with a fixed pause between publishes, and
// Interactive reads "key|value" record lines from an operator until a
// sentinel word. Batch and Interactive isolate failures per message: each
// publish is independently attempted and the returned Report carries the
// success and failure counts.
//
//	driver := generator.NewDriver(pub, generator.Config{})
//
//	report, err := driver.Batch(ctx, 10)
//	if err != nil {
//		// cancelled, or StopOnError aborted the run
//	}
//	fmt.Printf("%d succeeded, %d failed\n", report.Succeeded, report.Failed)
package generator
