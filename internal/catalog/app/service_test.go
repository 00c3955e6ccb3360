package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Koushik0914/ecospha-organics/internal/catalog/domain"
)

type fakeRepo struct {
	products []domain.Product
}

func (f *fakeRepo) List(ctx context.Context) ([]domain.Product, error) { return f.products, nil }
func (f *fakeRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrNotFound
}
func (f *fakeRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	f.products = append(f.products, p)
	return p, nil
}
func (f *fakeRepo) Update(ctx context.Context, p domain.Product) error { return nil }
func (f *fakeRepo) Delete(ctx context.Context, id string) error        { return nil }
func (f *fakeRepo) Watch(ctx context.Context) (<-chan []domain.Product, <-chan error) {
	return nil, nil
}

func seededRepo() *fakeRepo {
	return &fakeRepo{products: []domain.Product{
		{ID: "p1", Name: "Organic Turmeric", Description: "Fresh ground turmeric", Category: "Spices", Price: decimal.NewFromInt(120)},
		{ID: "p2", Name: "Raw Honey", Description: "Wild forest honey", Category: "Pantry", Price: decimal.NewFromInt(450)},
		{ID: "p3", Name: "Turmeric Latte Mix", Description: "Golden milk blend", Category: "Pantry", Price: decimal.NewFromInt(300)},
	}}
}

func TestListProductsFiltering(t *testing.T) {
	svc := NewService(seededRepo())
	ctx := context.Background()

	t.Run("no filters -> everything", func(t *testing.T) {
		got, err := svc.ListProducts(ctx, "", "")
		if err != nil {
			t.Fatalf("ListProducts: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 products, got %d", len(got))
		}
	})

	t.Run("search is case-insensitive over name", func(t *testing.T) {
		got, err := svc.ListProducts(ctx, "TURMERIC", "")
		if err != nil {
			t.Fatalf("ListProducts: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(got))
		}
	})

	t.Run("category narrows search", func(t *testing.T) {
		got, err := svc.ListProducts(ctx, "turmeric", "Pantry")
		if err != nil {
			t.Fatalf("ListProducts: %v", err)
		}
		if len(got) != 1 || got[0].ID != "p3" {
			t.Fatalf("expected only p3, got %+v", got)
		}
	})

	t.Run("search matches category label too", func(t *testing.T) {
		got, err := svc.ListProducts(ctx, "spices", "")
		if err != nil {
			t.Fatalf("ListProducts: %v", err)
		}
		if len(got) != 1 || got[0].ID != "p1" {
			t.Fatalf("expected only p1, got %+v", got)
		}
	})
}

func TestCategoriesDerived(t *testing.T) {
	svc := NewService(seededRepo())

	got, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(got) != 2 || got[0] != "Pantry" || got[1] != "Spices" {
		t.Fatalf("expected sorted unique categories, got %v", got)
	}
}

func TestValidateProductForm(t *testing.T) {
	valid := ProductForm{
		Name:        "Raw Honey",
		Description: "Wild forest honey",
		ImageURL:    "https://cdn.example.com/honey.jpg",
		Price:       "450.00",
		Unit:        "jar",
		Category:    "Pantry",
	}

	t.Run("valid form -> no errors", func(t *testing.T) {
		if errs := ValidateProductForm(valid); !errs.OK() {
			t.Fatalf("expected no errors, got %v", errs)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		f := valid
		f.Name = "   "
		errs := ValidateProductForm(f)
		if errs["name"] == "" {
			t.Fatal("expected name error")
		}
	})

	t.Run("zero price", func(t *testing.T) {
		f := valid
		f.Price = "0"
		errs := ValidateProductForm(f)
		if errs["price"] == "" {
			t.Fatal("expected price error")
		}
	})

	t.Run("unparseable price", func(t *testing.T) {
		f := valid
		f.Price = "twelve"
		errs := ValidateProductForm(f)
		if errs["price"] == "" {
			t.Fatal("expected price error")
		}
	})
}

func TestCreateProductRejectsInvalid(t *testing.T) {
	svc := NewService(seededRepo())

	_, errs, err := svc.CreateProduct(context.Background(), ProductForm{Name: "x"})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if errs.OK() {
		t.Fatal("expected field errors")
	}
}
