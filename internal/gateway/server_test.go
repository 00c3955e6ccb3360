package gateway

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	authapp "github.com/Koushik0914/ecospha-organics/internal/auth/app"
	authmemory "github.com/Koushik0914/ecospha-organics/internal/auth/infra/memory"
	cartapp "github.com/Koushik0914/ecospha-organics/internal/cart/app"
	cartmemory "github.com/Koushik0914/ecospha-organics/internal/cart/infra/memory"
	catalogapp "github.com/Koushik0914/ecospha-organics/internal/catalog/app"
	catalogmemdb "github.com/Koushik0914/ecospha-organics/internal/catalog/infra/memdb"
	checkoutapp "github.com/Koushik0914/ecospha-organics/internal/checkout/app"
	orderapp "github.com/Koushik0914/ecospha-organics/internal/order/app"
	ordermemdb "github.com/Koushik0914/ecospha-organics/internal/order/infra/memdb"
	testimonialapp "github.com/Koushik0914/ecospha-organics/internal/testimonial/app"
	testimonialmemdb "github.com/Koushik0914/ecospha-organics/internal/testimonial/infra/memdb"
)

// client is an HTTP client with a cookie jar, so every request in a test
// shares one browsing session.
type client struct {
	t    *testing.T
	http *http.Client
	base string
}

func newTestServer(t *testing.T) *client {
	t.Helper()

	products, err := catalogmemdb.NewProductRepo()
	if err != nil {
		t.Fatal(err)
	}
	testimonials, err := testimonialmemdb.NewTestimonialRepo()
	if err != nil {
		t.Fatal(err)
	}
	userOrders, err := ordermemdb.NewUserOrderRepo()
	if err != nil {
		t.Fatal(err)
	}
	adminOrders, err := ordermemdb.NewAdminOrderRepo()
	if err != nil {
		t.Fatal(err)
	}

	log := slog.Default()
	catalogSvc := catalogapp.NewService(products)
	cartSvc := cartapp.NewService(cartmemory.NewStorage(), log)
	flow := checkoutapp.NewFlow(cartSvc, time.Millisecond, log)
	orderSvc := orderapp.NewService(cartSvc, userOrders, adminOrders, flow, log)
	testimonialSvc := testimonialapp.NewService(testimonials)
	authSvc := authapp.NewService(authmemory.NewProvider(), authapp.NewStaticAuthorizer([]string{"token-admin"}), log)

	srv := NewServer(catalogSvc, cartSvc, flow, orderSvc, testimonialSvc, authSvc, log)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &client{t: t, http: &http.Client{Jar: jar}, base: ts.URL}
}

func (c *client) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		c.t.Fatal(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatal(err)
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		c.t.Fatal(err)
	}
	return resp, out.Bytes()
}

func (c *client) seedProduct(name, price string) string {
	c.t.Helper()

	c.bootstrapAs("admin")
	resp, raw := c.do(http.MethodPost, "/api/admin/products", map[string]any{
		"name":        name,
		"description": "Fresh from the farm",
		"imageUrl":    "https://img.example/" + name,
		"price":       price,
		"unit":        "kg",
		"category":    "Vegetables",
	})
	if resp.StatusCode != http.StatusCreated {
		c.t.Fatalf("seed product: status %d: %s", resp.StatusCode, raw)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &created); err != nil {
		c.t.Fatal(err)
	}
	return created.ID
}

func (c *client) bootstrapAs(token string) {
	c.t.Helper()
	resp, raw := c.do(http.MethodPost, "/api/auth/bootstrap", map[string]string{"customToken": token})
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("bootstrap: status %d: %s", resp.StatusCode, raw)
	}
}

func TestBrowseAndFilterProducts(t *testing.T) {
	c := newTestServer(t)
	c.seedProduct("Tomatoes", "3.50")
	c.seedProduct("Spinach", "2.00")

	resp, raw := c.do(http.MethodGet, "/api/products?search=tomato", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var products []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &products); err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 || products[0].Name != "Tomatoes" {
		t.Fatalf("got %+v", products)
	}
}

func TestAddToCartAndTotals(t *testing.T) {
	c := newTestServer(t)
	id := c.seedProduct("Tomatoes", "3.50")

	for i := 0; i < 2; i++ {
		resp, raw := c.do(http.MethodPost, "/api/cart/items", map[string]string{"productId": id})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add: status %d: %s", resp.StatusCode, raw)
		}
	}

	resp, raw := c.do(http.MethodGet, "/api/cart", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var cart struct {
		TotalItems int    `json:"totalItems"`
		CartTotal  string `json:"cartTotal"`
	}
	if err := json.Unmarshal(raw, &cart); err != nil {
		t.Fatal(err)
	}
	if cart.TotalItems != 2 || cart.CartTotal != "7.00" {
		t.Fatalf("got %+v", cart)
	}
}

func TestAddUnknownProductIs404(t *testing.T) {
	c := newTestServer(t)

	resp, _ := c.do(http.MethodPost, "/api/cart/items", map[string]string{"productId": "nope"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestCheckoutWalkthrough(t *testing.T) {
	c := newTestServer(t)
	id := c.seedProduct("Tomatoes", "3.50")
	c.bootstrapAs("shopper")

	if resp, raw := c.do(http.MethodPost, "/api/cart/items", map[string]string{"productId": id}); resp.StatusCode != http.StatusOK {
		t.Fatalf("add: status %d: %s", resp.StatusCode, raw)
	}
	if resp, raw := c.do(http.MethodPost, "/api/checkout/proceed", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("proceed: status %d: %s", resp.StatusCode, raw)
	}

	// Incomplete form is rejected with field-level feedback.
	resp, raw := c.do(http.MethodPost, "/api/checkout/shipping", map[string]string{"fullName": "Asha"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("bad shipping: status %d: %s", resp.StatusCode, raw)
	}
	var invalid struct {
		FieldErrors map[string]string `json:"fieldErrors"`
	}
	if err := json.Unmarshal(raw, &invalid); err != nil {
		t.Fatal(err)
	}
	if invalid.FieldErrors["phone"] != "Valid 10-digit Phone is required" {
		t.Fatalf("got %+v", invalid.FieldErrors)
	}

	resp, raw = c.do(http.MethodPost, "/api/checkout/shipping", map[string]string{
		"fullName":     "Asha Rao",
		"addressLine1": "14 Green Lane",
		"city":         "Pune",
		"state":        "MH",
		"zipCode":      "411001",
		"phone":        "9876543210",
		"email":        "asha@example.com",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("shipping: status %d: %s", resp.StatusCode, raw)
	}

	resp, raw = c.do(http.MethodPost, "/api/orders", map[string]string{"paymentMethod": "cod"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("place order: status %d: %s", resp.StatusCode, raw)
	}
	var order struct {
		ID        string `json:"id"`
		CartTotal string `json:"cartTotal"`
	}
	if err := json.Unmarshal(raw, &order); err != nil {
		t.Fatal(err)
	}
	if order.ID == "" || order.CartTotal != "3.5" {
		t.Fatalf("got %+v", order)
	}

	// Submission empties the cart.
	_, raw = c.do(http.MethodGet, "/api/cart", nil)
	var cart struct {
		TotalItems int `json:"totalItems"`
	}
	if err := json.Unmarshal(raw, &cart); err != nil {
		t.Fatal(err)
	}
	if cart.TotalItems != 0 {
		t.Fatalf("cart not emptied: %+v", cart)
	}

	resp, raw = c.do(http.MethodGet, "/api/orders", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("my orders: status %d: %s", resp.StatusCode, raw)
	}
	var orders []json.RawMessage
	if err := json.Unmarshal(raw, &orders); err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Fatalf("want 1 order, got %d", len(orders))
	}
}

func TestProceedWithEmptyCartIs409(t *testing.T) {
	c := newTestServer(t)

	resp, _ := c.do(http.MethodPost, "/api/checkout/proceed", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestAdminGate(t *testing.T) {
	c := newTestServer(t)

	t.Run("anonymous visitor is rejected", func(t *testing.T) {
		resp, _ := c.do(http.MethodGet, "/api/admin/orders", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status %d", resp.StatusCode)
		}
	})

	t.Run("signed-in non-admin is rejected", func(t *testing.T) {
		c.bootstrapAs("shopper")
		resp, _ := c.do(http.MethodGet, "/api/admin/orders", nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("status %d", resp.StatusCode)
		}
	})

	t.Run("admin is allowed", func(t *testing.T) {
		c.bootstrapAs("admin")
		resp, _ := c.do(http.MethodGet, "/api/admin/orders", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
	})
}

func TestLoginErrorsUseFriendlyMessages(t *testing.T) {
	c := newTestServer(t)

	resp, raw := c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "Invalid email or password." {
		t.Fatalf("got %q", body.Error)
	}
}
