package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Koushik0914/ecospha-organics/internal/catalog/domain"
	"github.com/Koushik0914/ecospha-organics/pkg/forms"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{repo: repo}
}

// ListProducts returns the catalog filtered by an exact category and a
// case-insensitive search term over name, description and category. Empty
// filters match everything.
func (s *Service) ListProducts(ctx context.Context, search, category string) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	category = strings.TrimSpace(category)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if search != "" && !matches(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func matches(p domain.Product, lowered string) bool {
	return strings.Contains(strings.ToLower(p.Name), lowered) ||
		strings.Contains(strings.ToLower(p.Description), lowered) ||
		strings.Contains(strings.ToLower(p.Category), lowered)
}

// Categories derives the distinct category set from the current catalog,
// sorted for stable rendering.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var categories []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

// ProductForm is the admin add/edit payload. Price arrives as the raw string
// the operator typed.
type ProductForm struct {
	Name         string
	Description  string
	ImageURL     string
	Price        string
	Unit         string
	Availability string
	Category     string
	Tags         []string
}

// ValidateProductForm applies the admin-form rules. Every rule is evaluated;
// the result is field-keyed so the caller can render inline feedback.
func ValidateProductForm(f ProductForm) forms.FieldErrors {
	errs := forms.FieldErrors{}
	errs.Require("name", f.Name, "Product Name is required")
	errs.Require("description", f.Description, "Description is required")
	errs.Require("imageUrl", f.ImageURL, "Image URL is required")
	errs.Require("unit", f.Unit, "Unit is required")
	errs.Require("category", f.Category, "Category is required")

	if price, err := decimal.NewFromString(strings.TrimSpace(f.Price)); err != nil || !price.IsPositive() {
		errs["price"] = "Valid Price is required"
	}
	return errs
}

func (s *Service) CreateProduct(ctx context.Context, f ProductForm) (domain.Product, forms.FieldErrors, error) {
	if errs := ValidateProductForm(f); !errs.OK() {
		return domain.Product{}, errs, ErrInvalidInput
	}

	p, err := s.repo.Create(ctx, productFromForm(f))
	if err != nil {
		return domain.Product{}, nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, f ProductForm) (forms.FieldErrors, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	if errs := ValidateProductForm(f); !errs.OK() {
		return errs, ErrInvalidInput
	}

	p := productFromForm(f)
	p.ID = id
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return nil, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) WatchProducts(ctx context.Context) (<-chan []domain.Product, <-chan error) {
	return s.repo.Watch(ctx)
}

func productFromForm(f ProductForm) domain.Product {
	price, _ := decimal.NewFromString(strings.TrimSpace(f.Price))

	availability := domain.Availability(strings.TrimSpace(f.Availability))
	if !availability.Valid() {
		availability = domain.InStock
	}

	return domain.Product{
		Name:         strings.TrimSpace(f.Name),
		Description:  strings.TrimSpace(f.Description),
		ImageURL:     strings.TrimSpace(f.ImageURL),
		Price:        price,
		Unit:         strings.TrimSpace(f.Unit),
		Availability: availability,
		Category:     strings.TrimSpace(f.Category),
		Tags:         f.Tags,
	}
}
