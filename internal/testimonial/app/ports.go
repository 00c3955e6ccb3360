package app

import (
	"context"

	"github.com/Koushik0914/ecospha-organics/internal/testimonial/domain"
)

type TestimonialRepo interface {
	List(ctx context.Context) ([]domain.Testimonial, error)
	Create(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error)
	Update(ctx context.Context, t domain.Testimonial) error
	Delete(ctx context.Context, id string) error
	Watch(ctx context.Context) (<-chan []domain.Testimonial, <-chan error)
}
