// Package event defines all events exchanged over the application event bus.
// Events represent state changes and user intents; they are published by the
// application layer (or the presentation shell) and consumed by subscribers.
package event

// Topic identifies a category of event on the bus. Subscribers register
// interest per topic; every event carries the topic it belongs to.
type Topic string

// Topics for product lookup and selection.
const (
	TopicProductSearchRequest Topic = "product_search_request"
	TopicProductSearchResult  Topic = "product_search_result"
	TopicProductSelected      Topic = "product_selected"
	TopicScanCompleted        Topic = "scan_completed"
)

// Topics for stock movement entry.
const (
	TopicMovementEntryRequest Topic = "movement_entry_request"
	TopicMovementRegistered   Topic = "movement_registered"
	TopicMovementEntryFailed  Topic = "movement_entry_failed"
	TopicMovementFormCleared  Topic = "movement_form_cleared"
	TopicStockChanged         Topic = "stock_changed"
)

// Topics for cross-widget UI coordination.
const (
	TopicValidationFailed       Topic = "validation_failed"
	TopicQuantityFocusRequested Topic = "quantity_focus_requested"
)

// Event is the base interface for all events.
type Event interface {
	// EventTopic returns the topic the event is published under.
	EventTopic() Topic
}

// ProductSummary is the product payload carried by events. It is a plain
// value so the event package stays free of domain dependencies.
type ProductSummary struct {
	ID           int64
	Code         string
	Name         string
	CategoryID   int64
	CategoryType string
	Stock        int
	Active       bool
}
