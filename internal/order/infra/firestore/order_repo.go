// Package firestore holds the two order collections: each user's private
// history under users/<uid>/orders and the shared admin_orders list. The two
// are independent documents for the same logical order; nothing links them.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	checkout "github.com/Koushik0914/ecospha-organics/internal/checkout/domain"
	"github.com/Koushik0914/ecospha-organics/internal/order/domain"
)

const (
	usersCollection       = "users"
	userOrdersCollection  = "orders"
	adminOrdersCollection = "admin_orders"
)

type orderDoc struct {
	UserID        string      `firestore:"userId"`
	CustomerInfo  shippingDoc `firestore:"customerInfo"`
	Items         []itemDoc   `firestore:"items"`
	CartTotal     float64     `firestore:"cartTotal"`
	PaymentMethod string      `firestore:"paymentMethod"`
	OrderStatus   string      `firestore:"orderStatus"`
	CreatedAt     time.Time   `firestore:"createdAt,serverTimestamp"`
}

type shippingDoc struct {
	FullName     string `firestore:"fullName"`
	AddressLine1 string `firestore:"addressLine1"`
	AddressLine2 string `firestore:"addressLine2,omitempty"`
	City         string `firestore:"city"`
	State        string `firestore:"state"`
	ZipCode      string `firestore:"zipCode"`
	Phone        string `firestore:"phone"`
	Email        string `firestore:"email"`
}

type itemDoc struct {
	ProductID string  `firestore:"productId"`
	Name      string  `firestore:"name"`
	Quantity  int     `firestore:"quantity"`
	Price     float64 `firestore:"price"`
	Unit      string  `firestore:"unit"`
	ImageURL  string  `firestore:"imageUrl"`
}

// UserOrderRepo writes to and reads from the submitting user's private
// history. Documents here are never updated after creation.
type UserOrderRepo struct {
	client *firestore.Client
}

func NewUserOrderRepo(client *firestore.Client) *UserOrderRepo {
	return &UserOrderRepo{client: client}
}

func (r *UserOrderRepo) col(userID string) *firestore.CollectionRef {
	return r.client.Collection(usersCollection).Doc(userID).Collection(userOrdersCollection)
}

func (r *UserOrderRepo) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	ref, _, err := r.col(o.UserID).Add(ctx, toDoc(o))
	if err != nil {
		return domain.Order{}, fmt.Errorf("create user order: %w", err)
	}
	o.ID = ref.ID
	return o, nil
}

func (r *UserOrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	docs, err := r.col(userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return ordersFromDocs(docs)
}

func (r *UserOrderRepo) Watch(ctx context.Context, userID string) (<-chan []domain.Order, <-chan error) {
	return watchQuery(ctx, r.col(userID).Query)
}

// AdminOrderRepo is the shared admin-visible list with the mutable
// orderStatus field.
type AdminOrderRepo struct {
	col *firestore.CollectionRef
}

func NewAdminOrderRepo(client *firestore.Client) *AdminOrderRepo {
	return &AdminOrderRepo{col: client.Collection(adminOrdersCollection)}
}

func (r *AdminOrderRepo) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	ref, _, err := r.col.Add(ctx, toDoc(o))
	if err != nil {
		return domain.Order{}, fmt.Errorf("create admin order: %w", err)
	}
	o.ID = ref.ID
	return o, nil
}

func (r *AdminOrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	docs, err := r.col.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list admin orders: %w", err)
	}
	return ordersFromDocs(docs)
}

func (r *AdminOrderRepo) UpdateStatus(ctx context.Context, orderID string, s domain.Status) error {
	_, err := r.col.Doc(orderID).Update(ctx, []firestore.Update{
		{Path: "orderStatus", Value: string(s)},
	})
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("order %s not found", orderID)
	}
	return err
}

func (r *AdminOrderRepo) Watch(ctx context.Context) (<-chan []domain.Order, <-chan error) {
	return watchQuery(ctx, r.col.Query)
}

func watchQuery(ctx context.Context, q firestore.Query) (<-chan []domain.Order, <-chan error) {
	updates := make(chan []domain.Order)
	errc := make(chan error, 1)

	go func() {
		defer close(updates)
		defer close(errc)

		snaps := q.Snapshots(ctx)
		defer snaps.Stop()

		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					errc <- fmt.Errorf("orders snapshot: %w", err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				errc <- fmt.Errorf("orders snapshot read: %w", err)
				return
			}

			orders, err := ordersFromDocs(docs)
			if err != nil {
				errc <- err
				return
			}

			select {
			case updates <- orders:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates, errc
}

func ordersFromDocs(docs []*firestore.DocumentSnapshot) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		var d orderDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode order %s: %w", doc.Ref.ID, err)
		}
		out = append(out, fromDoc(doc.Ref.ID, d))
	}
	return out, nil
}

func toDoc(o domain.Order) orderDoc {
	total, _ := o.CartTotal.Float64()

	items := make([]itemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		price, _ := it.Price.Float64()
		items = append(items, itemDoc{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     price,
			Unit:      it.Unit,
			ImageURL:  it.ImageURL,
		})
	}

	return orderDoc{
		UserID: o.UserID,
		CustomerInfo: shippingDoc{
			FullName:     o.CustomerInfo.FullName,
			AddressLine1: o.CustomerInfo.AddressLine1,
			AddressLine2: o.CustomerInfo.AddressLine2,
			City:         o.CustomerInfo.City,
			State:        o.CustomerInfo.State,
			ZipCode:      o.CustomerInfo.ZipCode,
			Phone:        o.CustomerInfo.Phone,
			Email:        o.CustomerInfo.Email,
		},
		Items:         items,
		CartTotal:     total,
		PaymentMethod: string(o.PaymentMethod),
		OrderStatus:   string(o.OrderStatus),
	}
}

func fromDoc(id string, d orderDoc) domain.Order {
	items := make([]domain.Line, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.Line{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     decimal.NewFromFloat(it.Price),
			Unit:      it.Unit,
			ImageURL:  it.ImageURL,
		})
	}

	return domain.Order{
		ID:     id,
		UserID: d.UserID,
		CustomerInfo: checkout.ShippingInfo{
			FullName:     d.CustomerInfo.FullName,
			AddressLine1: d.CustomerInfo.AddressLine1,
			AddressLine2: d.CustomerInfo.AddressLine2,
			City:         d.CustomerInfo.City,
			State:        d.CustomerInfo.State,
			ZipCode:      d.CustomerInfo.ZipCode,
			Phone:        d.CustomerInfo.Phone,
			Email:        d.CustomerInfo.Email,
		},
		Items:         items,
		CartTotal:     decimal.NewFromFloat(d.CartTotal),
		PaymentMethod: domain.PaymentMethod(d.PaymentMethod),
		OrderStatus:   domain.Status(d.OrderStatus),
		CreatedAt:     d.CreatedAt,
	}
}
