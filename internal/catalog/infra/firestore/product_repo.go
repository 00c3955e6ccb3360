// Package firestore adapts the public products collection of the managed
// backend to the catalog ports.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Koushik0914/ecospha-organics/internal/catalog/app"
	"github.com/Koushik0914/ecospha-organics/internal/catalog/domain"
)

const collection = "products"

type ProductRepo struct {
	col *firestore.CollectionRef
}

func NewProductRepo(client *firestore.Client) *ProductRepo {
	return &ProductRepo{col: client.Collection(collection)}
}

type productDoc struct {
	Name         string    `firestore:"name"`
	Description  string    `firestore:"description"`
	ImageURL     string    `firestore:"imageUrl"`
	Price        float64   `firestore:"price"`
	Unit         string    `firestore:"unit"`
	Availability string    `firestore:"availability"`
	Category     string    `firestore:"category"`
	Tags         []string  `firestore:"tags,omitempty"`
	CreatedAt    time.Time `firestore:"createdAt,serverTimestamp"`
	UpdatedAt    time.Time `firestore:"updatedAt,serverTimestamp"`
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	docs, err := r.col.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := toDomain(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	doc, err := r.col.Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return toDomain(doc)
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	ref, _, err := r.col.Add(ctx, toDoc(p))
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	p.ID = ref.ID
	return p, nil
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) error {
	_, err := r.col.Doc(p.ID).Set(ctx, toDoc(p))
	if status.Code(err) == codes.NotFound {
		return app.ErrNotFound
	}
	return err
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col.Doc(id).Delete(ctx)
	return err
}

// Watch runs a snapshot listener over the whole collection and pushes the
// full result set on every change, matching the backend's live-query model.
// The listener stops when ctx is cancelled.
func (r *ProductRepo) Watch(ctx context.Context) (<-chan []domain.Product, <-chan error) {
	updates := make(chan []domain.Product)
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
					errc <- fmt.Errorf("products snapshot: %w", err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				errc <- fmt.Errorf("products snapshot read: %w", err)
				return
			}

			products := make([]domain.Product, 0, len(docs))
			for _, doc := range docs {
				p, err := toDomain(doc)
				if err != nil {
					errc <- err
					return
				}
				products = append(products, p)
			}

			select {
			case updates <- products:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates, errc
}

func toDomain(doc *firestore.DocumentSnapshot) (domain.Product, error) {
	var d productDoc
	if err := doc.DataTo(&d); err != nil {
		return domain.Product{}, fmt.Errorf("decode product %s: %w", doc.Ref.ID, err)
	}

	return domain.Product{
		ID:           doc.Ref.ID,
		Name:         d.Name,
		Description:  d.Description,
		ImageURL:     d.ImageURL,
		Price:        decimal.NewFromFloat(d.Price),
		Unit:         d.Unit,
		Availability: domain.Availability(d.Availability),
		Category:     d.Category,
		Tags:         d.Tags,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

func toDoc(p domain.Product) productDoc {
	price, _ := p.Price.Float64()
	return productDoc{
		Name:         p.Name,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		Price:        price,
		Unit:         p.Unit,
		Availability: string(p.Availability),
		Category:     p.Category,
		Tags:         p.Tags,
	}
}
