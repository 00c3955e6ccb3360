package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Koushik0914/ecospha-organics/internal/testimonial/domain"
	"github.com/Koushik0914/ecospha-organics/pkg/forms"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo TestimonialRepo
}

func NewService(repo TestimonialRepo) *Service {
	return &Service{repo: repo}
}

type Form struct {
	Author string
	Quote  string
}

func ValidateForm(f Form) forms.FieldErrors {
	errs := forms.FieldErrors{}
	errs.Require("author", f.Author, "Author is required")
	errs.Require("quote", f.Quote, "Quote is required")
	return errs
}

func (s *Service) List(ctx context.Context) ([]domain.Testimonial, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, f Form) (domain.Testimonial, forms.FieldErrors, error) {
	if errs := ValidateForm(f); !errs.OK() {
		return domain.Testimonial{}, errs, ErrInvalidInput
	}

	t, err := s.repo.Create(ctx, domain.Testimonial{
		Author: strings.TrimSpace(f.Author),
		Quote:  strings.TrimSpace(f.Quote),
	})
	if err != nil {
		return domain.Testimonial{}, nil, fmt.Errorf("create testimonial: %w", err)
	}
	return t, nil, nil
}

func (s *Service) Update(ctx context.Context, id string, f Form) (forms.FieldErrors, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	if errs := ValidateForm(f); !errs.OK() {
		return errs, ErrInvalidInput
	}

	err := s.repo.Update(ctx, domain.Testimonial{
		ID:     id,
		Author: strings.TrimSpace(f.Author),
		Quote:  strings.TrimSpace(f.Quote),
	})
	if err != nil {
		return nil, fmt.Errorf("update testimonial %s: %w", id, err)
	}
	return nil, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Watch(ctx context.Context) (<-chan []domain.Testimonial, <-chan error) {
	return s.repo.Watch(ctx)
}
