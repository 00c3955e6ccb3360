package memdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"github.com/Koushik0914/ecospha-organics/internal/testimonial/app"
	"github.com/Koushik0914/ecospha-organics/internal/testimonial/domain"
)

const table = "testimonials"

type TestimonialRepo struct {
	db *memdb.MemDB
}

func NewTestimonialRepo() (*TestimonialRepo, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			table: {
				Name: table,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("memdb schema: %w", err)
	}
	return &TestimonialRepo{db: db}, nil
}

func (r *TestimonialRepo) List(ctx context.Context) ([]domain.Testimonial, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()
	return collect(txn)
}

func (r *TestimonialRepo) Create(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	t.ID = uuid.NewString()

	txn := r.db.Txn(true)
	if err := txn.Insert(table, &t); err != nil {
		txn.Abort()
		return domain.Testimonial{}, err
	}
	txn.Commit()
	return t, nil
}

func (r *TestimonialRepo) Update(ctx context.Context, t domain.Testimonial) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(table, "id", t.ID)
	if err != nil {
		return err
	}
	if raw == nil {
		return app.ErrNotFound
	}
	if err := txn.Insert(table, &t); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (r *TestimonialRepo) Delete(ctx context.Context, id string) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(table, "id", id)
	if err != nil {
		return err
	}
	if raw == nil {
		return app.ErrNotFound
	}
	if err := txn.Delete(table, raw); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (r *TestimonialRepo) Watch(ctx context.Context) (<-chan []domain.Testimonial, <-chan error) {
	updates := make(chan []domain.Testimonial)
	errc := make(chan error, 1)

	go func() {
		defer close(updates)
		defer close(errc)

		for {
			txn := r.db.Txn(false)
			it, err := txn.Get(table, "id")
			if err != nil {
				txn.Abort()
				errc <- err
				return
			}

			ws := memdb.NewWatchSet()
			ws.Add(it.WatchCh())

			testimonials, err := collect(txn)
			txn.Abort()
			if err != nil {
				errc <- err
				return
			}

			select {
			case updates <- testimonials:
			case <-ctx.Done():
				return
			}

			if err := ws.WatchCtx(ctx); err != nil {
				return
			}
		}
	}()

	return updates, errc
}

func collect(txn *memdb.Txn) ([]domain.Testimonial, error) {
	it, err := txn.Get(table, "id")
	if err != nil {
		return nil, err
	}

	var out []domain.Testimonial
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, *raw.(*domain.Testimonial))
	}
	return out, nil
}
