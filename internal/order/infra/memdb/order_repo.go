// Package memdb is the in-process order backend with watch-channel live
// queries, used by local dev and the tests.
package memdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"

	"github.com/Koushik0914/ecospha-organics/internal/order/domain"
)

func newOrderDB(table string, withUserIndex bool) (*memdb.MemDB, error) {
	indexes := map[string]*memdb.IndexSchema{
		"id": {
			Name:    "id",
			Unique:  true,
			Indexer: &memdb.StringFieldIndex{Field: "ID"},
		},
	}
	if withUserIndex {
		indexes["user"] = &memdb.IndexSchema{
			Name:    "user",
			Indexer: &memdb.StringFieldIndex{Field: "UserID"},
		}
	}

	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			table: {Name: table, Indexes: indexes},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("memdb schema: %w", err)
	}
	return db, nil
}

type UserOrderRepo struct {
	db *memdb.MemDB
}

func NewUserOrderRepo() (*UserOrderRepo, error) {
	db, err := newOrderDB("user_orders", true)
	if err != nil {
		return nil, err
	}
	return &UserOrderRepo{db: db}, nil
}

func (r *UserOrderRepo) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC()

	txn := r.db.Txn(true)
	if err := txn.Insert("user_orders", &o); err != nil {
		txn.Abort()
		return domain.Order{}, err
	}
	txn.Commit()
	return o, nil
}

func (r *UserOrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get("user_orders", "user", userID)
	if err != nil {
		return nil, err
	}

	var out []domain.Order
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, *raw.(*domain.Order))
	}
	return out, nil
}

func (r *UserOrderRepo) Watch(ctx context.Context, userID string) (<-chan []domain.Order, <-chan error) {
	updates := make(chan []domain.Order)
	errc := make(chan error, 1)

	go func() {
		defer close(updates)
		defer close(errc)

		for {
			txn := r.db.Txn(false)
			it, err := txn.Get("user_orders", "user", userID)
			if err != nil {
				txn.Abort()
				errc <- err
				return
			}

			ws := memdb.NewWatchSet()
			ws.Add(it.WatchCh())

			var orders []domain.Order
			for raw := it.Next(); raw != nil; raw = it.Next() {
				orders = append(orders, *raw.(*domain.Order))
			}
			txn.Abort()

			select {
			case updates <- orders:
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

type AdminOrderRepo struct {
	db *memdb.MemDB
}

func NewAdminOrderRepo() (*AdminOrderRepo, error) {
	db, err := newOrderDB("admin_orders", false)
	if err != nil {
		return nil, err
	}
	return &AdminOrderRepo{db: db}, nil
}

func (r *AdminOrderRepo) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC()

	txn := r.db.Txn(true)
	if err := txn.Insert("admin_orders", &o); err != nil {
		txn.Abort()
		return domain.Order{}, err
	}
	txn.Commit()
	return o, nil
}

func (r *AdminOrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()
	return collect(txn)
}

func (r *AdminOrderRepo) UpdateStatus(ctx context.Context, orderID string, status domain.Status) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First("admin_orders", "id", orderID)
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("order %s not found", orderID)
	}

	updated := *raw.(*domain.Order)
	updated.OrderStatus = status
	if err := txn.Insert("admin_orders", &updated); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (r *AdminOrderRepo) Watch(ctx context.Context) (<-chan []domain.Order, <-chan error) {
	updates := make(chan []domain.Order)
	errc := make(chan error, 1)

	go func() {
		defer close(updates)
		defer close(errc)

		for {
			txn := r.db.Txn(false)
			it, err := txn.Get("admin_orders", "id")
			if err != nil {
				txn.Abort()
				errc <- err
				return
			}

			ws := memdb.NewWatchSet()
			ws.Add(it.WatchCh())

			orders, err := collect(txn)
			txn.Abort()
			if err != nil {
				errc <- err
				return
			}

			select {
			case updates <- orders:
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

func collect(txn *memdb.Txn) ([]domain.Order, error) {
	it, err := txn.Get("admin_orders", "id")
	if err != nil {
		return nil, err
	}

	var out []domain.Order
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, *raw.(*domain.Order))
	}
	return out, nil
}
