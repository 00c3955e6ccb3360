package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Koushik0914/ecospha-organics/internal/testimonial/app"
	"github.com/Koushik0914/ecospha-organics/internal/testimonial/domain"
)

const collection = "testimonials"

type TestimonialRepo struct {
	col *firestore.CollectionRef
}

func NewTestimonialRepo(client *firestore.Client) *TestimonialRepo {
	return &TestimonialRepo{col: client.Collection(collection)}
}

type testimonialDoc struct {
	Author string `firestore:"author"`
	Quote  string `firestore:"quote"`
}

func (r *TestimonialRepo) List(ctx context.Context) ([]domain.Testimonial, error) {
	docs, err := r.col.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return fromDocs(docs)
}

func (r *TestimonialRepo) Create(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	ref, _, err := r.col.Add(ctx, testimonialDoc{Author: t.Author, Quote: t.Quote})
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("create testimonial: %w", err)
	}
	t.ID = ref.ID
	return t, nil
}

func (r *TestimonialRepo) Update(ctx context.Context, t domain.Testimonial) error {
	_, err := r.col.Doc(t.ID).Set(ctx, testimonialDoc{Author: t.Author, Quote: t.Quote})
	if status.Code(err) == codes.NotFound {
		return app.ErrNotFound
	}
	return err
}

func (r *TestimonialRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col.Doc(id).Delete(ctx)
	return err
}

func (r *TestimonialRepo) Watch(ctx context.Context) (<-chan []domain.Testimonial, <-chan error) {
	updates := make(chan []domain.Testimonial)
	errc := make(chan error, 1)

	go func() {
		defer close(updates)
		defer close(errc)

		snaps := r.col.Query.Snapshots(ctx)
		defer snaps.Stop()

		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					errc <- fmt.Errorf("testimonials snapshot: %w", err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				errc <- fmt.Errorf("testimonials snapshot read: %w", err)
				return
			}

			testimonials, err := fromDocs(docs)
			if err != nil {
				errc <- err
				return
			}

			select {
			case updates <- testimonials:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates, errc
}

func fromDocs(docs []*firestore.DocumentSnapshot) ([]domain.Testimonial, error) {
	out := make([]domain.Testimonial, 0, len(docs))
	for _, doc := range docs {
		var d testimonialDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode testimonial %s: %w", doc.Ref.ID, err)
		}
		out = append(out, domain.Testimonial{ID: doc.Ref.ID, Author: d.Author, Quote: d.Quote})
	}
	return out, nil
}
