// Package eventbus provides the in-process event bus that decouples
// publishers from subscribers.
//
// Dispatch is synchronous: Publish invokes every matching handler before it
// returns, in subscription order. The bus is expected to be driven from the
// single thread that owns the UI event loop; producers on other goroutines
// must marshal onto that loop before publishing. Internal state is still
// mutex-protected so misuse cannot corrupt the subscriber table.
package eventbus

import (
	"inventario-go/core/event"
)

// SubscriptionID identifies a single subscription for later removal.
type SubscriptionID string

// Handler is a function that handles a delivered event.
type Handler func(e event.Event)

// EventBus is the interface for the event bus.
type EventBus interface {
	// Subscribe registers a handler for a topic and returns an ID usable for
	// unsubscription. Subscribing the same handler twice is allowed and
	// results in two deliveries per publish; callers that need at-most-once
	// delivery must track their own subscriptions.
	Subscribe(topic event.Topic, handler Handler) SubscriptionID

	// Unsubscribe removes a subscription by its ID. Removing an ID that is
	// already gone is a no-op, so teardown paths may run more than once.
	Unsubscribe(id SubscriptionID)

	// Publish synchronously delivers the event to every handler subscribed
	// to its topic, in subscription order. A handler that panics does not
	// stop delivery to the remaining handlers; the failure is logged and
	// never propagated to the publisher.
	Publish(e event.Event)

	// Clear removes all subscriptions for the given topics, or every
	// subscription when no topic is given.
	Clear(topics ...event.Topic)

	// Close shuts down the bus and removes all subscriptions. After Close,
	// Publish and Subscribe are no-ops. Close is idempotent.
	Close()
}
