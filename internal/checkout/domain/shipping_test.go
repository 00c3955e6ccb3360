package domain

import "testing"

func validInfo() ShippingInfo {
	return ShippingInfo{
		FullName:     "Asha Rao",
		AddressLine1: "12 Green Lane",
		City:         "Mumbai",
		State:        "Maharashtra",
		ZipCode:      "400001",
		Phone:        "9876543210",
		Email:        "asha@example.com",
	}
}

func TestValidateShippingAccepted(t *testing.T) {
	if errs := ValidateShipping(validInfo()); !errs.OK() {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateShippingPhone(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		info := validInfo()
		info.Phone = "12345"
		errs := ValidateShipping(info)
		if errs["phone"] == "" {
			t.Fatal("expected phone error")
		}
	})

	t.Run("ten digits passes", func(t *testing.T) {
		info := validInfo()
		info.Phone = "9876543210"
		errs := ValidateShipping(info)
		if errs["phone"] != "" {
			t.Fatalf("unexpected phone error: %s", errs["phone"])
		}
	})

	t.Run("non-digits rejected", func(t *testing.T) {
		info := validInfo()
		info.Phone = "98765abcde"
		errs := ValidateShipping(info)
		if errs["phone"] == "" {
			t.Fatal("expected phone error")
		}
	})
}

func TestValidateShippingEmail(t *testing.T) {
	t.Run("bad email", func(t *testing.T) {
		info := validInfo()
		info.Email = "bad-email"
		errs := ValidateShipping(info)
		if errs["email"] == "" {
			t.Fatal("expected email error")
		}
	})

	t.Run("minimal valid email", func(t *testing.T) {
		info := validInfo()
		info.Email = "a@b.co"
		errs := ValidateShipping(info)
		if errs["email"] != "" {
			t.Fatalf("unexpected email error: %s", errs["email"])
		}
	})
}

func TestValidateShippingRequiredFields(t *testing.T) {
	t.Run("whitespace-only full name", func(t *testing.T) {
		info := validInfo()
		info.FullName = "   "
		errs := ValidateShipping(info)
		if errs["fullName"] == "" {
			t.Fatal("expected fullName error")
		}
	})

	t.Run("addressLine2 is optional", func(t *testing.T) {
		info := validInfo()
		info.AddressLine2 = ""
		errs := ValidateShipping(info)
		if errs["addressLine2"] != "" {
			t.Fatal("addressLine2 must never fail")
		}
	})

	t.Run("all rules evaluated together", func(t *testing.T) {
		errs := ValidateShipping(ShippingInfo{})
		for _, field := range []string{"fullName", "addressLine1", "city", "state", "zipCode", "phone", "email"} {
			if errs[field] == "" {
				t.Fatalf("expected error for %s", field)
			}
		}
	})
}

func TestFieldErrorsClear(t *testing.T) {
	errs := ValidateShipping(ShippingInfo{})
	errs.Clear("phone")
	if errs["phone"] != "" {
		t.Fatal("expected phone error cleared")
	}
	if errs.OK() {
		t.Fatal("other errors must survive the clear")
	}
}
