package gateway

import (
	"encoding/json"
	"net/http"

	authapp "github.com/Koushik0914/ecospha-organics/internal/auth/app"
	catalogapp "github.com/Koushik0914/ecospha-organics/internal/catalog/app"
	catalogdomain "github.com/Koushik0914/ecospha-organics/internal/catalog/domain"
	checkoutdomain "github.com/Koushik0914/ecospha-organics/internal/checkout/domain"
	orderdomain "github.com/Koushik0914/ecospha-organics/internal/order/domain"
	testimonialapp "github.com/Koushik0914/ecospha-organics/internal/testimonial/app"
)

// --- storefront ---

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ListProducts(r.Context(), r.URL.Query().Get("search"), r.URL.Query().Get("category"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleStreamProducts(w http.ResponseWriter, r *http.Request) {
	updates, errc := s.catalog.WatchProducts(r.Context())
	streamSSE(w, r, updates, errc)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleListTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := s.testimonials.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, testimonials)
}

func (s *Server) handleStreamTestimonials(w http.ResponseWriter, r *http.Request) {
	updates, errc := s.testimonials.Watch(r.Context())
	streamSSE(w, r, updates, errc)
}

// --- cart ---

type cartView struct {
	Items      any    `json:"items"`
	TotalItems int    `json:"totalItems"`
	CartTotal  string `json:"cartTotal"`
}

func (s *Server) cartState(w http.ResponseWriter, r *http.Request) cartView {
	session := s.sessionID(w, r)
	return cartView{
		Items:      s.cart.Lines(r.Context(), session),
		TotalItems: s.cart.TotalItems(r.Context(), session),
		CartTotal:  s.cart.CartTotal(r.Context(), session).StringFixed(2),
	}
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cartState(w, r))
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	body, err := decode[struct {
		ProductID string `json:"productId"`
	}](r)
	if err != nil || body.ProductID == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "productId is required"})
		return
	}

	product, err := s.catalog.GetProduct(r.Context(), body.ProductID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	// Out-of-stock products render without an add button; refuse the direct
	// call too.
	if product.Availability != catalogdomain.InStock {
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": "product is out of stock"})
		return
	}

	s.cart.AddToCart(r.Context(), s.sessionID(w, r), product)
	s.writeJSON(w, http.StatusOK, s.cartState(w, r))
}

func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	session := s.sessionID(w, r)
	if r.URL.Query().Get("all") == "true" {
		s.cart.RemoveItemCompletely(r.Context(), session, r.PathValue("id"))
	} else {
		s.cart.RemoveFromCart(r.Context(), session, r.PathValue("id"))
	}
	s.writeJSON(w, http.StatusOK, s.cartState(w, r))
}

// --- checkout flow ---

func (s *Server) checkoutState(w http.ResponseWriter, r *http.Request) map[string]any {
	session := s.sessionID(w, r)
	state := map[string]any{"step": s.flow.Step(session)}
	if shipping, ok := s.flow.Shipping(session); ok {
		state["shipping"] = shipping
	}
	return state
}

func (s *Server) handleCheckoutState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.checkoutState(w, r))
}

func (s *Server) handleProceedToCheckout(w http.ResponseWriter, r *http.Request) {
	if err := s.flow.ProceedToCheckout(r.Context(), s.sessionID(w, r)); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.checkoutState(w, r))
}

func (s *Server) handleSubmitShipping(w http.ResponseWriter, r *http.Request) {
	info, err := decode[checkoutdomain.ShippingInfo](r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	fieldErrs, err := s.flow.SubmitShipping(s.sessionID(w, r), info)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !fieldErrs.OK() {
		s.writeFieldErrors(w, fieldErrs)
		return
	}
	s.writeJSON(w, http.StatusOK, s.checkoutState(w, r))
}

func (s *Server) handleEditShipping(w http.ResponseWriter, r *http.Request) {
	if err := s.flow.EditShipping(s.sessionID(w, r)); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.checkoutState(w, r))
}

func (s *Server) handleBackToCart(w http.ResponseWriter, r *http.Request) {
	if err := s.flow.BackToCart(s.sessionID(w, r)); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.checkoutState(w, r))
}

func (s *Server) handleContinueShopping(w http.ResponseWriter, r *http.Request) {
	s.flow.ContinueShopping(s.sessionID(w, r))
	s.writeJSON(w, http.StatusOK, s.checkoutState(w, r))
}

func (s *Server) handleViewPage(w http.ResponseWriter, r *http.Request) {
	body, err := decode[struct {
		Page string `json:"page"`
	}](r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	session := s.sessionID(w, r)
	page := checkoutdomain.Step(body.Page)
	if page == checkoutdomain.StepMyOrders {
		err = s.flow.ViewMyOrders(session, s.userID(w, r))
	} else {
		err = s.flow.ViewPage(session, page)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.checkoutState(w, r))
}

// --- orders ---

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	body, err := decode[struct {
		PaymentMethod string `json:"paymentMethod"`
	}](r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	method := orderdomain.PaymentMethod(body.PaymentMethod)
	if method == "" {
		method = orderdomain.PaymentCOD
	}

	session := s.sessionID(w, r)
	if s.flow.Step(session) != checkoutdomain.StepPayment {
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": "checkout is not at the payment step"})
		return
	}
	shipping, ok := s.flow.Shipping(session)
	if !ok {
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": "shipping details are missing"})
		return
	}

	order, err := s.orders.PlaceOrder(r.Context(), session, s.userID(w, r), shipping, method)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	uid := s.userID(w, r)
	if uid == "" {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in required"})
		return
	}

	orders, err := s.orders.MyOrders(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleStreamMyOrders(w http.ResponseWriter, r *http.Request) {
	uid := s.userID(w, r)
	if uid == "" {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in required"})
		return
	}

	updates, errc, err := s.orders.WatchMyOrders(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	streamSSE(w, r, updates, errc)
}

// --- auth ---

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) identityResponse(w http.ResponseWriter, r *http.Request) {
	id, ok := s.auth.Current(s.sessionID(w, r))
	s.writeJSON(w, http.StatusOK, map[string]any{"signedIn": ok, "identity": id})
}

func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	body, _ := decode[struct {
		CustomToken string `json:"customToken"`
	}](r)

	if _, err := s.auth.Bootstrap(r.Context(), s.sessionID(w, r), body.CustomToken); err != nil {
		s.writeError(w, err)
		return
	}
	s.identityResponse(w, r)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	creds, err := decode[credentials](r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if _, err := s.auth.SignIn(r.Context(), s.sessionID(w, r), creds.Email, creds.Password); err != nil {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": authapp.MessageForError(err)})
		return
	}
	s.identityResponse(w, r)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	creds, err := decode[credentials](r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if _, err := s.auth.Register(r.Context(), s.sessionID(w, r), creds.Email, creds.Password); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": authapp.MessageForError(err)})
		return
	}
	s.identityResponse(w, r)
}

func (s *Server) handleGoogleSignIn(w http.ResponseWriter, r *http.Request) {
	body, err := decode[struct {
		IDToken string `json:"idToken"`
	}](r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if _, err := s.auth.SignInWithGoogle(r.Context(), s.sessionID(w, r), body.IDToken); err != nil {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": authapp.MessageForError(err)})
		return
	}
	s.identityResponse(w, r)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session := s.sessionID(w, r)
	s.auth.SignOut(session)
	// Signing out lands back on the storefront with a clean flow.
	s.flow.Reset(session)
	s.writeJSON(w, http.StatusOK, map[string]bool{"signedIn": false})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.identityResponse(w, r)
}

// handleAuthStream pushes identity changes for the session as server-sent
// events, the subscription the client view holds for its whole lifetime.
func (s *Server) handleAuthStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	changes := s.auth.StateChanges(r.Context(), s.sessionID(w, r))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-r.Context().Done():
			return
		case id, ok := <-changes:
			if !ok {
				return
			}
			_, _ = w.Write([]byte("data: "))
			_ = enc.Encode(id)
			_, _ = w.Write([]byte("\n"))
			flusher.Flush()
		}
	}
}

// --- admin ---

func (s *Server) handleEnterAdmin(w http.ResponseWriter, r *http.Request) {
	// Entering the panel abandons any in-progress checkout.
	s.flow.Reset(s.sessionID(w, r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.AdminOrders(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleStreamAdminOrders(w http.ResponseWriter, r *http.Request) {
	updates, errc := s.orders.WatchAdminOrders(r.Context())
	streamSSE(w, r, updates, errc)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	body, err := decode[struct {
		Status string `json:"orderStatus"`
	}](r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := s.orders.UpdateStatus(r.Context(), r.PathValue("id"), body.Status); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type productPayload struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"imageUrl"`
	Price        string   `json:"price"`
	Unit         string   `json:"unit"`
	Availability string   `json:"availability"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
}

func (p productPayload) form() catalogapp.ProductForm {
	return catalogapp.ProductForm{
		Name:         p.Name,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		Price:        p.Price,
		Unit:         p.Unit,
		Availability: p.Availability,
		Category:     p.Category,
		Tags:         p.Tags,
	}
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	payload, err := decode[productPayload](r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	product, fieldErrs, err := s.catalog.CreateProduct(r.Context(), payload.form())
	if !fieldErrs.OK() {
		s.writeFieldErrors(w, fieldErrs)
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	payload, err := decode[productPayload](r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	fieldErrs, err := s.catalog.UpdateProduct(r.Context(), r.PathValue("id"), payload.form())
	if !fieldErrs.OK() {
		s.writeFieldErrors(w, fieldErrs)
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type testimonialPayload struct {
	Author string `json:"author"`
	Quote  string `json:"quote"`
}

func (s *Server) handleCreateTestimonial(w http.ResponseWriter, r *http.Request) {
	payload, err := decode[testimonialPayload](r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	testimonial, fieldErrs, err := s.testimonials.Create(r.Context(), testimonialapp.Form{Author: payload.Author, Quote: payload.Quote})
	if !fieldErrs.OK() {
		s.writeFieldErrors(w, fieldErrs)
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, testimonial)
}

func (s *Server) handleUpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	payload, err := decode[testimonialPayload](r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	fieldErrs, err := s.testimonials.Update(r.Context(), r.PathValue("id"), testimonialapp.Form{Author: payload.Author, Quote: payload.Quote})
	if !fieldErrs.OK() {
		s.writeFieldErrors(w, fieldErrs)
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	if err := s.testimonials.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
