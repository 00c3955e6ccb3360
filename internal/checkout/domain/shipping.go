package domain

import (
	"regexp"

	"github.com/Koushik0914/ecospha-organics/pkg/forms"
)

// ShippingInfo is the transient checkout address form. It lives only for the
// duration of one checkout session and is discarded when the user abandons
// the flow.
type ShippingInfo struct {
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

var (
	phoneRe = regexp.MustCompile(`^\d{10}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateShipping checks every field independently and returns the errors
// keyed by field name. AddressLine2 is optional and never fails.
func ValidateShipping(info ShippingInfo) forms.FieldErrors {
	errs := forms.FieldErrors{}
	errs.Require("fullName", info.FullName, "Full Name is required")
	errs.Require("addressLine1", info.AddressLine1, "Address Line 1 is required")
	errs.Require("city", info.City, "City is required")
	errs.Require("state", info.State, "State is required")
	errs.Require("zipCode", info.ZipCode, "Zip Code is required")

	if !phoneRe.MatchString(info.Phone) {
		errs["phone"] = "Valid 10-digit Phone is required"
	}
	if !emailRe.MatchString(info.Email) {
		errs["email"] = "Valid Email is required"
	}
	return errs
}
