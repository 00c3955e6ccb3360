package domain

// Step is the customer-facing view the storefront is currently in. The
// checkout sequence proper is Cart -> Shipping -> Payment -> Confirmation;
// the remaining steps are side views reachable from Cart.
type Step string

const (
	StepCart         Step = "cart"
	StepShipping     Step = "shipping"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
	StepMyOrders     Step = "my-orders"
	StepAboutUs      Step = "about-us"
	StepOurFarms     Step = "our-farms"
	StepBlog         Step = "blog"
)

// Informational reports whether the step is one of the content pages outside
// the checkout sequence.
func (s Step) Informational() bool {
	return s == StepAboutUs || s == StepOurFarms || s == StepBlog
}
