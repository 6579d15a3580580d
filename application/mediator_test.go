package application

import (
	"context"
	"strings"
	"testing"

	"inventario-go/core/event"
	"inventario-go/core/eventbus"
	"inventario-go/domain/category"
	"inventario-go/domain/movement"
	"inventario-go/domain/product"
)

type fakeCategories struct {
	byID map[int64]*category.Category
}

func (r *fakeCategories) FindByID(ctx context.Context, id int64) (*category.Category, error) {
	return r.byID[id], nil
}

func (r *fakeCategories) FindByName(ctx context.Context, name string) (*category.Category, error) {
	for _, c := range r.byID {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCategories) FindAll(ctx context.Context) ([]*category.Category, error) {
	var out []*category.Category
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCategories) Insert(ctx context.Context, c *category.Category) error { return nil }
func (r *fakeCategories) Update(ctx context.Context, c *category.Category) error { return nil }
func (r *fakeCategories) Delete(ctx context.Context, id int64) error             { return nil }

type fakeProducts struct {
	byID map[int64]*product.Product
}

func (r *fakeProducts) FindByID(ctx context.Context, id int64) (*product.Product, error) {
	return r.byID[id], nil
}

func (r *fakeProducts) FindByCode(ctx context.Context, code string) (*product.Product, error) {
	for _, p := range r.byID {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProducts) Search(ctx context.Context, term string) ([]*product.Product, error) {
	var out []*product.Product
	for _, p := range r.byID {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) || p.Code == term {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProducts) FindAll(ctx context.Context) ([]*product.Product, error) {
	var out []*product.Product
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProducts) Insert(ctx context.Context, p *product.Product) error { return nil }
func (r *fakeProducts) Update(ctx context.Context, p *product.Product) error { return nil }
func (r *fakeProducts) Delete(ctx context.Context, id int64) error           { return nil }

type fakeMovements struct {
	products *fakeProducts
	applied  []*movement.Movement
}

func (r *fakeMovements) Apply(ctx context.Context, m *movement.Movement) error {
	r.applied = append(r.applied, m)
	r.products.byID[m.ProductID].Stock = m.NewStock
	return nil
}

func (r *fakeMovements) FindByID(ctx context.Context, id string) (*movement.Movement, error) {
	return nil, nil
}

func (r *fakeMovements) FindByProduct(ctx context.Context, productID int64) ([]*movement.Movement, error) {
	return nil, nil
}

// recorder captures every event published on the listed topics.
type recorder struct {
	events []event.Event
}

func (r *recorder) attach(bus eventbus.EventBus, topics ...event.Topic) {
	for _, topic := range topics {
		bus.Subscribe(topic, func(e event.Event) {
			r.events = append(r.events, e)
		})
	}
}

func (r *recorder) byTopic(topic event.Topic) []event.Event {
	var out []event.Event
	for _, e := range r.events {
		if e.EventTopic() == topic {
			out = append(out, e)
		}
	}
	return out
}

func newTestMediator(t *testing.T) (*ProductMovementMediator, eventbus.EventBus, *recorder) {
	t.Helper()

	categories := &fakeCategories{byID: map[int64]*category.Category{
		1: {ID: 1, Name: "Papelería", Type: category.TypeMaterial},
		2: {ID: 2, Name: "Impresión", Type: category.TypeService},
	}}
	products := &fakeProducts{byID: map[int64]*product.Product{
		1: {ID: 1, Code: "7501", Name: "Cable UTP", CategoryID: 1, Stock: 10, Active: true},
		2: {ID: 2, Code: "7502", Name: "Cable HDMI", CategoryID: 1, Stock: 4, Active: true},
		3: {ID: 3, Code: "7503", Name: "Tinta negra", CategoryID: 1, Stock: 2, Active: false},
		4: {ID: 4, Code: "7504", Name: "Copias", CategoryID: 2, Stock: 0, Active: true},
	}}
	movements := &fakeMovements{products: products}

	bus := eventbus.New(nil)
	m := NewProductMovementMediator(&MediatorConfig{
		EventBus:        bus,
		ProductService:  product.NewService(products),
		CategoryService: category.NewService(categories),
		MovementService: movement.NewService(movements, products),
	})
	t.Cleanup(m.Close)

	rec := &recorder{}
	rec.attach(bus,
		event.TopicProductSearchResult,
		event.TopicProductSelected,
		event.TopicQuantityFocusRequested,
		event.TopicValidationFailed,
		event.TopicMovementRegistered,
		event.TopicMovementEntryFailed,
		event.TopicStockChanged,
	)
	return m, bus, rec
}

func TestMediator_SearchPublishesResults(t *testing.T) {
	_, bus, rec := newTestMediator(t)

	bus.Publish(event.NewProductSearchRequested("cable", "search_widget"))

	results := rec.byTopic(event.TopicProductSearchResult)
	if len(results) != 1 {
		t.Fatalf("Expected 1 search result event, got %d", len(results))
	}
	completed := results[0].(*event.ProductSearchCompleted)
	if len(completed.Results) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(completed.Results))
	}
	if completed.Results[0].Name != "Cable HDMI" || completed.Results[1].Name != "Cable UTP" {
		t.Errorf("Results not sorted by name: %v", completed.Results)
	}

	if got := rec.byTopic(event.TopicProductSelected); len(got) != 0 {
		t.Errorf("Multiple results must not auto-select, got %d selections", len(got))
	}
}

func TestMediator_SearchSingleResultAutoSelects(t *testing.T) {
	m, bus, rec := newTestMediator(t)

	bus.Publish(event.NewProductSearchRequested("UTP", "search_widget"))

	selections := rec.byTopic(event.TopicProductSelected)
	if len(selections) != 1 {
		t.Fatalf("Expected auto-selection, got %d selection events", len(selections))
	}
	sel := selections[0].(*event.ProductSelected)
	if !sel.AutoSelected || sel.Product.Code != "7501" {
		t.Errorf("Unexpected selection: %+v", sel)
	}

	if got := rec.byTopic(event.TopicQuantityFocusRequested); len(got) != 1 {
		t.Fatalf("Expected quantity focus request, got %d", len(got))
	}
	selected := m.SelectedProduct()
	if selected == nil || selected.ID != 1 {
		t.Errorf("SelectedProduct = %+v, want product 1", selected)
	}
	if selected.CategoryType != string(category.TypeMaterial) {
		t.Errorf("CategoryType = %q, want MATERIAL", selected.CategoryType)
	}
}

func TestMediator_ScanKnownCode(t *testing.T) {
	m, bus, rec := newTestMediator(t)

	bus.Publish(event.NewScanCompleted("7502", "scanner"))

	selections := rec.byTopic(event.TopicProductSelected)
	if len(selections) != 1 {
		t.Fatalf("Expected 1 selection, got %d", len(selections))
	}
	if sel := selections[0].(*event.ProductSelected); !sel.AutoSelected || sel.Product.ID != 2 {
		t.Errorf("Unexpected selection: %+v", sel)
	}
	if m.SelectedProduct() == nil {
		t.Errorf("Scan should set the current selection")
	}
}

func TestMediator_ScanUnknownCode(t *testing.T) {
	m, bus, rec := newTestMediator(t)

	bus.Publish(event.NewScanCompleted("9999", "scanner"))

	failures := rec.byTopic(event.TopicValidationFailed)
	if len(failures) != 1 {
		t.Fatalf("Expected validation failure, got %d", len(failures))
	}
	vf := failures[0].(*event.ValidationFailed)
	if len(vf.Details) != 1 || vf.Details[0] != "9999" {
		t.Errorf("Failure details = %v, want the scanned code", vf.Details)
	}
	if m.SelectedProduct() != nil {
		t.Errorf("Unknown code must not set a selection")
	}
}

func TestMediator_SelectionValidation(t *testing.T) {
	tests := []struct {
		name      string
		productID int64
		code      string
		wantOK    bool
	}{
		{"active material product", 1, "7501", true},
		{"inactive product", 3, "7503", false},
		{"service category product", 4, "7504", false},
		{"vanished product", 99, "none", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, bus, rec := newTestMediator(t)

			bus.Publish(event.NewProductSelected(
				event.ProductSummary{ID: tt.productID, Code: tt.code}, false, "product_list"))

			focus := rec.byTopic(event.TopicQuantityFocusRequested)
			failures := rec.byTopic(event.TopicValidationFailed)
			if tt.wantOK {
				if len(focus) != 1 || len(failures) != 0 {
					t.Errorf("Expected accepted selection, focus=%d failures=%d", len(focus), len(failures))
				}
				if m.SelectedProduct() == nil {
					t.Errorf("Accepted selection must be retained")
				}
			} else {
				if len(focus) != 0 || len(failures) != 1 {
					t.Errorf("Expected rejected selection, focus=%d failures=%d", len(focus), len(failures))
				}
				if m.SelectedProduct() != nil {
					t.Errorf("Rejected selection must not be retained")
				}
			}
		})
	}
}

func TestMediator_EntryRequestRegistersMovement(t *testing.T) {
	_, bus, rec := newTestMediator(t)

	bus.Publish(event.NewMovementEntryRequested(1, "ENTRADA", 5, "admin", "entry_form"))

	registered := rec.byTopic(event.TopicMovementRegistered)
	if len(registered) != 1 {
		t.Fatalf("Expected registered movement, got %d", len(registered))
	}
	mr := registered[0].(*event.MovementRegistered)
	if mr.MovementID == "" {
		t.Errorf("Expected assigned movement ID")
	}
	if mr.PreviousStock != 10 || mr.NewStock != 15 {
		t.Errorf("Stock transition = %d -> %d, want 10 -> 15", mr.PreviousStock, mr.NewStock)
	}

	changes := rec.byTopic(event.TopicStockChanged)
	if len(changes) != 1 {
		t.Fatalf("Expected stock change event, got %d", len(changes))
	}
	sc := changes[0].(*event.StockChanged)
	if sc.ProductID != 1 || sc.Delta != 5 || sc.NewStock != 15 {
		t.Errorf("StockChanged = %+v, want delta 5 to 15", sc)
	}
}

func TestMediator_EntryRequestFailure(t *testing.T) {
	_, bus, rec := newTestMediator(t)

	// Product 2 only has 4 units.
	bus.Publish(event.NewMovementEntryRequested(2, "VENTA", 9, "admin", "entry_form"))

	failures := rec.byTopic(event.TopicMovementEntryFailed)
	if len(failures) != 1 {
		t.Fatalf("Expected entry failure, got %d", len(failures))
	}
	if f := failures[0].(*event.MovementEntryFailed); f.ProductID != 2 || f.Reason == "" {
		t.Errorf("Unexpected failure payload: %+v", f)
	}
	if got := rec.byTopic(event.TopicStockChanged); len(got) != 0 {
		t.Errorf("Failed entry must not publish stock changes")
	}
}

func TestMediator_FormClearedResetsSelection(t *testing.T) {
	m, bus, _ := newTestMediator(t)

	bus.Publish(event.NewScanCompleted("7501", "scanner"))
	if m.SelectedProduct() == nil {
		t.Fatalf("Expected selection after scan")
	}

	bus.Publish(event.NewMovementFormCleared("entry_form"))
	if m.SelectedProduct() != nil {
		t.Errorf("Cleared form must drop the selection")
	}
}

func TestMediator_Close(t *testing.T) {
	m, bus, rec := newTestMediator(t)

	m.Close()
	m.Close()

	bus.Publish(event.NewProductSearchRequested("cable", "search_widget"))
	if got := rec.byTopic(event.TopicProductSearchResult); len(got) != 0 {
		t.Errorf("Closed mediator must not handle events, got %d results", len(got))
	}
}
