package eventbus

import (
	"fmt"

	"inventario-go/core/event"
)

// SubscriberInvocationError records a handler failure during dispatch. It is
// logged for diagnostics and never returned to the publisher: one broken
// listener must not take down the rest of the UI.
type SubscriberInvocationError struct {
	Topic        event.Topic
	Subscription SubscriptionID
	Panic        any
}

func (e *SubscriberInvocationError) Error() string {
	return fmt.Sprintf("subscriber %s panicked handling %q: %v", e.Subscription, e.Topic, e.Panic)
}
