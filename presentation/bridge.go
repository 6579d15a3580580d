// Package presentation provides the UI layer with event bridging to the
// application layer.
package presentation

import (
	"log/slog"
	"sync"

	"inventario-go/core/event"
	"inventario-go/core/eventbus"
)

// uiSource identifies events originated by the UI layer.
const uiSource = "ui"

// UIEventBridge bridges UI interactions to the event bus and routes outcome
// events back to UI callbacks. Widgets talk to the bridge, never to domain
// services or to each other.
type UIEventBridge struct {
	eventBus eventbus.EventBus
	logger   *slog.Logger

	// UI callbacks - set by UI components
	callbacks   *UICallbacks
	callbacksMu sync.RWMutex

	subs      []eventbus.SubscriptionID
	closeOnce sync.Once
}

// UICallbacks contains callbacks for UI updates. All callbacks run on the
// publisher's goroutine; the window marshals onto the Fyne loop itself.
type UICallbacks struct {
	// Product search and selection
	OnSearchResults   func(term string, results []event.ProductSummary)
	OnProductSelected func(p event.ProductSummary, auto bool)
	OnQuantityFocus   func(productID int64)

	// Movement entry
	OnMovementRegistered func(movementID string, productID int64, newStock int)
	OnMovementFailed     func(productID int64, reason string)
	OnStockChanged       func(productID int64, delta, newStock int)

	// Validation
	OnValidationFailed func(message string, details []string)
}

// BridgeConfig holds configuration for UIEventBridge.
type BridgeConfig struct {
	EventBus eventbus.EventBus
	Logger   *slog.Logger
}

// NewUIEventBridge creates a new UI event bridge and subscribes it to the
// outcome topics.
func NewUIEventBridge(cfg *BridgeConfig) *UIEventBridge {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	b := &UIEventBridge{
		eventBus:  cfg.EventBus,
		logger:    cfg.Logger,
		callbacks: &UICallbacks{},
	}

	b.subs = []eventbus.SubscriptionID{
		b.eventBus.Subscribe(event.TopicProductSearchResult, b.handleEvent),
		b.eventBus.Subscribe(event.TopicProductSelected, b.handleEvent),
		b.eventBus.Subscribe(event.TopicQuantityFocusRequested, b.handleEvent),
		b.eventBus.Subscribe(event.TopicMovementRegistered, b.handleEvent),
		b.eventBus.Subscribe(event.TopicMovementEntryFailed, b.handleEvent),
		b.eventBus.Subscribe(event.TopicStockChanged, b.handleEvent),
		b.eventBus.Subscribe(event.TopicValidationFailed, b.handleEvent),
	}

	return b
}

// SetCallbacks sets the UI callbacks.
func (b *UIEventBridge) SetCallbacks(callbacks *UICallbacks) {
	b.callbacksMu.Lock()
	defer b.callbacksMu.Unlock()
	b.callbacks = callbacks
}

// Close unsubscribes from the event bus. Safe to call more than once.
func (b *UIEventBridge) Close() {
	b.closeOnce.Do(func() {
		for _, id := range b.subs {
			b.eventBus.Unsubscribe(id)
		}
	})
}

// Intent dispatching methods

// SearchProducts asks for a product search by name or code.
func (b *UIEventBridge) SearchProducts(term string) {
	b.eventBus.Publish(event.NewProductSearchRequested(term, uiSource))
}

// Scan reports a completed barcode read.
func (b *UIEventBridge) Scan(code string) {
	b.eventBus.Publish(event.NewScanCompleted(code, uiSource))
}

// SelectProduct reports a product picked from a results list.
func (b *UIEventBridge) SelectProduct(p event.ProductSummary) {
	b.eventBus.Publish(event.NewProductSelected(p, false, uiSource))
}

// RegisterMovement asks for a stock movement on the current selection.
func (b *UIEventBridge) RegisterMovement(productID int64, movementType string, quantity int, responsible string) {
	b.eventBus.Publish(event.NewMovementEntryRequested(productID, movementType, quantity, responsible, uiSource))
}

// ClearForm reports that the movement entry form has been reset.
func (b *UIEventBridge) ClearForm() {
	b.eventBus.Publish(event.NewMovementFormCleared(uiSource))
}

// Event handling

func (b *UIEventBridge) handleEvent(e event.Event) {
	b.callbacksMu.RLock()
	callbacks := b.callbacks
	b.callbacksMu.RUnlock()

	if callbacks == nil {
		return
	}

	switch evt := e.(type) {
	case *event.ProductSearchCompleted:
		if callbacks.OnSearchResults != nil {
			callbacks.OnSearchResults(evt.Term, evt.Results)
		}

	case *event.ProductSelected:
		if callbacks.OnProductSelected != nil {
			callbacks.OnProductSelected(evt.Product, evt.AutoSelected)
		}

	case *event.QuantityFocusRequested:
		if callbacks.OnQuantityFocus != nil {
			callbacks.OnQuantityFocus(evt.ProductID)
		}

	case *event.MovementRegistered:
		if callbacks.OnMovementRegistered != nil {
			callbacks.OnMovementRegistered(evt.MovementID, evt.ProductID, evt.NewStock)
		}

	case *event.MovementEntryFailed:
		if callbacks.OnMovementFailed != nil {
			callbacks.OnMovementFailed(evt.ProductID, evt.Reason)
		}

	case *event.StockChanged:
		if callbacks.OnStockChanged != nil {
			callbacks.OnStockChanged(evt.ProductID, evt.Delta, evt.NewStock)
		}

	case *event.ValidationFailed:
		if callbacks.OnValidationFailed != nil {
			callbacks.OnValidationFailed(evt.Message, evt.Details)
		}
	}
}
