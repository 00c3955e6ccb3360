// Package memdb is the in-process catalog backend. Live queries are built on
// go-memdb watch channels, which makes it a drop-in stand-in for the managed
// backend in local dev and tests.
package memdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"github.com/Koushik0914/ecospha-organics/internal/catalog/app"
	"github.com/Koushik0914/ecospha-organics/internal/catalog/domain"
)

const table = "products"

type ProductRepo struct {
	db *memdb.MemDB
}

func NewProductRepo() (*ProductRepo, error) {
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
	return &ProductRepo{db: db}, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()
	return collect(txn)
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(table, "id", id)
	if err != nil {
		return domain.Product{}, err
	}
	if raw == nil {
		return domain.Product{}, app.ErrNotFound
	}
	return *raw.(*domain.Product), nil
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt

	txn := r.db.Txn(true)
	if err := txn.Insert(table, &p); err != nil {
		txn.Abort()
		return domain.Product{}, err
	}
	txn.Commit()
	return p, nil
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(table, "id", p.ID)
	if err != nil {
		return err
	}
	if raw == nil {
		return app.ErrNotFound
	}

	prev := raw.(*domain.Product)
	p.CreatedAt = prev.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	if err := txn.Insert(table, &p); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
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

func (r *ProductRepo) Watch(ctx context.Context) (<-chan []domain.Product, <-chan error) {
	updates := make(chan []domain.Product)
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

			products, err := collect(txn)
			txn.Abort()
			if err != nil {
				errc <- err
				return
			}

			select {
			case updates <- products:
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

func collect(txn *memdb.Txn) ([]domain.Product, error) {
	it, err := txn.Get(table, "id")
	if err != nil {
		return nil, err
	}

	var out []domain.Product
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, *raw.(*domain.Product))
	}
	return out, nil
}
