// Package publisher emits schema-pinned test messages to one topic.
//
// Every publish resolves the current schema ID for the topic's key and value
// subjects (conventionally "<topic>-key" and "<topic>-value"), then encodes
// key and value independently against those exact IDs in the Confluent wire
// format. The IDs are held fixed for the duration of the operation, so a
// concurrent schema registration can never change what a message in flight
// is encoded against — and the publish path never registers schemas itself.
//
//	pub, err := publisher.NewPublisher(registry, kafkaClient, publisher.Config{
//		Topic: "incoming-topic",
//	})
//	err = pub.Publish(ctx,
//		[]byte(`{"partitionKey": "user-1"}`),
//		[]byte(`{"id": "m1", "eventType": "login", "userId": "user-1", "timestamp": 1724671800000}`),
//	)
//
// Failures come back as *PublishError with the raw key/value JSON attached
// and are never retried; batch drivers treat each message independently.
//
// The package also defines the "key|value" record line format used by the
// interactive driver (see JoinRecord and SplitRecord). The pipe separator is
// reserved because it has no syntactic meaning in JSON, unlike the colon.
package publisher
