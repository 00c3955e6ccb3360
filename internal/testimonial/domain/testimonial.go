package domain

// Testimonial is admin-owned content, listed read-only on the storefront.
type Testimonial struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Quote  string `json:"quote"`
}
