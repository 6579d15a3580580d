// Package application provides the application layer: service registration
// and the mediators that wire UI widgets together over the event bus.
package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"inventario-go/core/event"
	"inventario-go/core/eventbus"
	"inventario-go/domain/category"
	"inventario-go/domain/movement"
	"inventario-go/domain/product"
)

// mediatorSource identifies events originated by the mediator.
const mediatorSource = "ProductMovementMediator"

// ProductMovementMediator pre-wires the product search/scan widgets to the
// movement entry form. Widgets publish intents; the mediator runs the
// business checks and publishes the outcomes, so the widgets never hold
// references to each other or to domain services.
type ProductMovementMediator struct {
	bus        eventbus.EventBus
	products   *product.Service
	categories *category.Service
	movements  *movement.Service
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	subs      []eventbus.SubscriptionID
	closeOnce sync.Once

	selectedMu sync.RWMutex
	selected   *event.ProductSummary
}

// MediatorConfig holds configuration for ProductMovementMediator.
type MediatorConfig struct {
	EventBus        eventbus.EventBus
	ProductService  *product.Service
	CategoryService *category.Service
	MovementService *movement.Service
	Logger          *slog.Logger
}

// NewProductMovementMediator creates the mediator and registers its
// subscriptions. Call Close on screen teardown to remove them.
func NewProductMovementMediator(cfg *MediatorConfig) *ProductMovementMediator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &ProductMovementMediator{
		bus:        cfg.EventBus,
		products:   cfg.ProductService,
		categories: cfg.CategoryService,
		movements:  cfg.MovementService,
		logger:     cfg.Logger,
		ctx:        ctx,
		cancel:     cancel,
	}

	m.subs = []eventbus.SubscriptionID{
		m.bus.Subscribe(event.TopicProductSearchRequest, m.handleSearchRequest),
		m.bus.Subscribe(event.TopicScanCompleted, m.handleScan),
		m.bus.Subscribe(event.TopicProductSelected, m.handleProductSelected),
		m.bus.Subscribe(event.TopicMovementEntryRequest, m.handleEntryRequest),
		m.bus.Subscribe(event.TopicMovementFormCleared, m.handleFormCleared),
	}

	return m
}

// Close removes all subscriptions. Safe to call more than once.
func (m *ProductMovementMediator) Close() {
	m.closeOnce.Do(func() {
		m.cancel()
		for _, id := range m.subs {
			m.bus.Unsubscribe(id)
		}
	})
}

// SelectedProduct returns the currently selected product, or nil.
func (m *ProductMovementMediator) SelectedProduct() *event.ProductSummary {
	m.selectedMu.RLock()
	defer m.selectedMu.RUnlock()
	if m.selected == nil {
		return nil
	}
	copied := *m.selected
	return &copied
}

func (m *ProductMovementMediator) handleSearchRequest(e event.Event) {
	req, ok := e.(*event.ProductSearchRequested)
	if !ok {
		return
	}

	results, err := m.products.Search(m.ctx, req.Term)
	if err != nil {
		m.logger.Error("Product search failed", "term", req.Term, "error", err)
		m.bus.Publish(event.NewValidationFailed("product search failed", nil, mediatorSource))
		return
	}

	summaries := make([]event.ProductSummary, 0, len(results))
	for _, p := range results {
		summaries = append(summaries, summarize(p))
	}
	m.bus.Publish(event.NewProductSearchCompleted(req.Term, summaries, mediatorSource))

	// A single hit is selected automatically so a scan-like search flows
	// straight into quantity entry.
	if len(summaries) == 1 {
		m.bus.Publish(event.NewProductSelected(summaries[0], true, mediatorSource))
	}
}

func (m *ProductMovementMediator) handleScan(e event.Event) {
	scan, ok := e.(*event.ScanCompleted)
	if !ok {
		return
	}

	p, err := m.products.GetByCode(m.ctx, scan.Code)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			m.bus.Publish(event.NewValidationFailed(
				"no product matches scanned code", []string{scan.Code}, mediatorSource))
			return
		}
		m.logger.Error("Scan lookup failed", "code", scan.Code, "error", err)
		return
	}

	m.bus.Publish(event.NewProductSelected(summarize(p), true, mediatorSource))
}

func (m *ProductMovementMediator) handleProductSelected(e event.Event) {
	sel, ok := e.(*event.ProductSelected)
	if !ok {
		return
	}

	// Every selection passes the same checks, whether the user picked it
	// or the mediator auto-selected it from a scan or single search hit.
	p, err := m.products.GetProduct(m.ctx, sel.Product.ID)
	if err != nil {
		m.rejectSelection("selected product no longer exists", sel.Product)
		return
	}
	if !p.Active {
		m.rejectSelection("selected product is inactive", sel.Product)
		return
	}

	c, err := m.categories.GetCategory(m.ctx, p.CategoryID)
	if err != nil {
		m.rejectSelection("selected product has no valid category", sel.Product)
		return
	}
	if !c.IsMaterial() {
		m.rejectSelection("service categories carry no stock", sel.Product)
		return
	}

	summary := summarize(p)
	summary.CategoryType = string(c.Type)
	m.acceptSelection(summary)
}

func (m *ProductMovementMediator) acceptSelection(p event.ProductSummary) {
	m.selectedMu.Lock()
	m.selected = &p
	m.selectedMu.Unlock()

	m.bus.Publish(event.NewQuantityFocusRequested(p.ID))
}

func (m *ProductMovementMediator) rejectSelection(reason string, p event.ProductSummary) {
	m.logger.Warn("Product selection rejected", "product_id", p.ID, "reason", reason)
	m.bus.Publish(event.NewValidationFailed(reason, []string{p.Code}, mediatorSource))
}

func (m *ProductMovementMediator) handleEntryRequest(e event.Event) {
	req, ok := e.(*event.MovementEntryRequested)
	if !ok {
		return
	}

	recorded, err := m.movements.Register(m.ctx, req.ProductID,
		movement.Type(req.MovementType), req.Quantity, req.Responsible, req.Note)
	if err != nil {
		m.logger.Warn("Movement entry rejected",
			"product_id", req.ProductID, "type", req.MovementType, "error", err)
		m.bus.Publish(event.NewMovementEntryFailed(req.ProductID, err.Error()))
		return
	}

	m.bus.Publish(event.NewMovementRegistered(recorded.ID, recorded.ProductID,
		string(recorded.Type), recorded.Quantity, recorded.PreviousStock, recorded.NewStock))
	m.bus.Publish(event.NewStockChanged(recorded.ProductID,
		recorded.StockDelta(), recorded.NewStock))
}

func (m *ProductMovementMediator) handleFormCleared(e event.Event) {
	m.selectedMu.Lock()
	m.selected = nil
	m.selectedMu.Unlock()
}

func summarize(p *product.Product) event.ProductSummary {
	return event.ProductSummary{
		ID:         p.ID,
		Code:       p.Code,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		Stock:      p.Stock,
		Active:     p.Active,
	}
}
