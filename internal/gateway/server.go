package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	authapp "github.com/Koushik0914/ecospha-organics/internal/auth/app"
	cartapp "github.com/Koushik0914/ecospha-organics/internal/cart/app"
	catalogapp "github.com/Koushik0914/ecospha-organics/internal/catalog/app"
	checkoutapp "github.com/Koushik0914/ecospha-organics/internal/checkout/app"
	orderapp "github.com/Koushik0914/ecospha-organics/internal/order/app"
	testimonialapp "github.com/Koushik0914/ecospha-organics/internal/testimonial/app"
	"github.com/Koushik0914/ecospha-organics/pkg/forms"
)

const sessionCookie = "ecospha_session"

// Server is the storefront's HTTP surface: the customer-facing browse,
// cart and checkout API, and the admin panel behind a role check.
type Server struct {
	catalog      *catalogapp.Service
	cart         *cartapp.Service
	flow         *checkoutapp.Flow
	orders       *orderapp.Service
	testimonials *testimonialapp.Service
	auth         *authapp.Service
	log          *slog.Logger
}

func NewServer(
	catalog *catalogapp.Service,
	cart *cartapp.Service,
	flow *checkoutapp.Flow,
	orders *orderapp.Service,
	testimonials *testimonialapp.Service,
	auth *authapp.Service,
	log *slog.Logger,
) *Server {
	return &Server{
		catalog:      catalog,
		cart:         cart,
		flow:         flow,
		orders:       orders,
		testimonials: testimonials,
		auth:         auth,
		log:          log.With("component", "gateway"),
	}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	// Storefront.
	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("GET /api/products/stream", s.handleStreamProducts)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/testimonials", s.handleListTestimonials)
	mux.HandleFunc("GET /api/testimonials/stream", s.handleStreamTestimonials)

	// Cart.
	mux.HandleFunc("GET /api/cart", s.handleGetCart)
	mux.HandleFunc("POST /api/cart/items", s.handleAddToCart)
	mux.HandleFunc("DELETE /api/cart/items/{id}", s.handleRemoveFromCart)

	// Checkout flow.
	mux.HandleFunc("GET /api/checkout", s.handleCheckoutState)
	mux.HandleFunc("POST /api/checkout/proceed", s.handleProceedToCheckout)
	mux.HandleFunc("POST /api/checkout/shipping", s.handleSubmitShipping)
	mux.HandleFunc("POST /api/checkout/edit-shipping", s.handleEditShipping)
	mux.HandleFunc("POST /api/checkout/back-to-cart", s.handleBackToCart)
	mux.HandleFunc("POST /api/checkout/continue-shopping", s.handleContinueShopping)
	mux.HandleFunc("POST /api/checkout/view", s.handleViewPage)

	// Orders.
	mux.HandleFunc("POST /api/orders", s.handlePlaceOrder)
	mux.HandleFunc("GET /api/orders", s.handleMyOrders)
	mux.HandleFunc("GET /api/orders/stream", s.handleStreamMyOrders)

	// Auth.
	mux.HandleFunc("POST /api/auth/bootstrap", s.handleBootstrap)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/google", s.handleGoogleSignIn)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/me", s.handleMe)
	mux.HandleFunc("GET /api/auth/stream", s.handleAuthStream)

	// Admin panel.
	mux.HandleFunc("POST /api/admin/enter", s.requireAdmin(s.handleEnterAdmin))
	mux.HandleFunc("GET /api/admin/orders", s.requireAdmin(s.handleAdminOrders))
	mux.HandleFunc("GET /api/admin/orders/stream", s.requireAdmin(s.handleStreamAdminOrders))
	mux.HandleFunc("PUT /api/admin/orders/{id}/status", s.requireAdmin(s.handleUpdateOrderStatus))
	mux.HandleFunc("POST /api/admin/products", s.requireAdmin(s.handleCreateProduct))
	mux.HandleFunc("PUT /api/admin/products/{id}", s.requireAdmin(s.handleUpdateProduct))
	mux.HandleFunc("DELETE /api/admin/products/{id}", s.requireAdmin(s.handleDeleteProduct))
	mux.HandleFunc("POST /api/admin/testimonials", s.requireAdmin(s.handleCreateTestimonial))
	mux.HandleFunc("PUT /api/admin/testimonials/{id}", s.requireAdmin(s.handleUpdateTestimonial))
	mux.HandleFunc("DELETE /api/admin/testimonials/{id}", s.requireAdmin(s.handleDeleteTestimonial))

	return mux
}

// sessionID returns the browsing session, minting a cookie on first contact.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) userID(w http.ResponseWriter, r *http.Request) string {
	id, ok := s.auth.Current(s.sessionID(w, r))
	if !ok {
		return ""
	}
	return id.UID
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	httpStatus, code, msg := httpStatusFromGRPC(statusFromError(err))
	s.writeJSON(w, httpStatus, map[string]string{"code": code, "error": msg})
}

// writeFieldErrors renders inline validation feedback keyed by field name.
func (s *Server) writeFieldErrors(w http.ResponseWriter, errs forms.FieldErrors) {
	s.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"fieldErrors": errs})
}

func decode[T any](r *http.Request) (T, error) {
	var v T
	err := json.NewDecoder(r.Body).Decode(&v)
	return v, err
}

// requireAdmin gates the admin surface behind the role lookup.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := s.userID(w, r)
		if uid == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in required"})
			return
		}

		ok, err := s.auth.IsAdmin(r.Context(), uid)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if !ok {
			s.writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin access required"})
			return
		}
		next(w, r)
	}
}

// streamSSE forwards live-query pushes as server-sent events until the view
// disconnects; the request context tears the subscription down with it.
func streamSSE[T any](w http.ResponseWriter, r *http.Request, updates <-chan []T, errc <-chan error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-r.Context().Done():
			return
		case err, ok := <-errc:
			if !ok {
				return
			}
			if err != nil {
				// Backend read failure: surface it and stop; the client
				// re-subscribes by navigating back to the view.
				_, _ = w.Write([]byte("event: error\ndata: "))
				_ = enc.Encode(map[string]string{"error": err.Error()})
				_, _ = w.Write([]byte("\n"))
				flusher.Flush()
				return
			}
		case items, ok := <-updates:
			if !ok {
				return
			}
			_, _ = w.Write([]byte("data: "))
			_ = enc.Encode(items)
			_, _ = w.Write([]byte("\n"))
			flusher.Flush()
		}
	}
}
