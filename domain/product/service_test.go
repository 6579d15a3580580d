package product

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type memoryRepo struct {
	nextID   int64
	products map[int64]*Product
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[int64]*Product)}
}

func (r *memoryRepo) FindByID(ctx context.Context, id int64) (*Product, error) {
	return r.products[id], nil
}

func (r *memoryRepo) FindByCode(ctx context.Context, code string) (*Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) Search(ctx context.Context, term string) ([]*Product, error) {
	var matched []*Product
	for _, p := range r.products {
		if term == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) || p.Code == term {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (r *memoryRepo) FindAll(ctx context.Context) ([]*Product, error) {
	all := make([]*Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, p)
	}
	return all, nil
}

func (r *memoryRepo) Insert(ctx context.Context, p *Product) error {
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = p
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, p *Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	delete(r.products, id)
	return nil
}

func testProduct(code, name string) *Product {
	return &Product{
		Code:       code,
		Name:       name,
		CategoryID: 1,
		SalePrice:  10,
		TaxRate:    7,
	}
}

func TestService_CreateProduct(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	p := testProduct("7501", "Cable UTP")
	if err := svc.CreateProduct(ctx, p); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if p.ID == 0 {
		t.Errorf("Expected assigned ID")
	}
	if !p.Active {
		t.Errorf("New products must start active")
	}

	if err := svc.CreateProduct(ctx, testProduct("7501", "Otro")); !errors.Is(err, ErrDuplicateCode) {
		t.Errorf("Duplicate code = %v, want ErrDuplicateCode", err)
	}
}

func TestService_CreateProduct_Validation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	tests := []struct {
		name    string
		product *Product
	}{
		{"empty code", &Product{Name: "x", CategoryID: 1}},
		{"empty name", &Product{Code: "1", CategoryID: 1}},
		{"no category", &Product{Code: "1", Name: "x"}},
		{"negative price", &Product{Code: "1", Name: "x", CategoryID: 1, SalePrice: -1}},
		{"bad tax rate", &Product{Code: "1", Name: "x", CategoryID: 1, TaxRate: 150}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.CreateProduct(ctx, tt.product); err == nil {
				t.Errorf("Expected validation error")
			}
		})
	}
}

func TestService_GetByCode(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	if err := svc.CreateProduct(ctx, testProduct("7501", "Cable UTP")); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	p, err := svc.GetByCode(ctx, " 7501 ")
	if err != nil {
		t.Fatalf("GetByCode failed: %v", err)
	}
	if p.Name != "Cable UTP" {
		t.Errorf("GetByCode returned wrong product: %s", p.Name)
	}

	if _, err := svc.GetByCode(ctx, "9999"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Unknown code = %v, want ErrProductNotFound", err)
	}
	if _, err := svc.GetByCode(ctx, "  "); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Blank code = %v, want ErrProductNotFound", err)
	}
}

func TestService_Search_FiltersInactiveAndSorts(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for _, name := range []string{"Cable HDMI", "Cable UTP", "Cable VGA"} {
		if err := svc.CreateProduct(ctx, testProduct("c-"+name, name)); err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
	}

	results, err := svc.Search(ctx, "cable")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	if err := svc.Deactivate(ctx, results[1].ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	results, err = svc.Search(ctx, "cable")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected inactive product filtered out, got %d results", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Name > results[i].Name {
			t.Errorf("Results not sorted by name: %s before %s", results[i-1].Name, results[i].Name)
		}
	}
}

func TestProduct_PriceWithTax(t *testing.T) {
	p := &Product{SalePrice: 100, TaxRate: 7}
	if got := p.PriceWithTax(); got != 107 {
		t.Errorf("PriceWithTax() = %v, want 107", got)
	}
}

func TestProduct_HasStock(t *testing.T) {
	p := &Product{Stock: 5}
	if !p.HasStock(5) {
		t.Errorf("Expected stock of 5 to cover 5")
	}
	if p.HasStock(6) {
		t.Errorf("Expected stock of 5 not to cover 6")
	}
}
