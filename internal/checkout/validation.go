package checkout

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/example/sassynary-shop/internal/domain/order"
)

const minPhoneDigits = 7

// ValidationError carries one message per invalid form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	return fmt.Sprintf("invalid fields: %s", strings.Join(keys, ", "))
}

type fieldErrors map[string]string

func (f fieldErrors) required(name, value string) {
	if strings.TrimSpace(value) == "" {
		f[name] = "required"
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidateShipping checks the shipping form. State is optional.
func ValidateShipping(info order.ShippingInfo) error {
	f := fieldErrors{}
	f.required("first_name", info.FirstName)
	f.required("last_name", info.LastName)
	f.required("email", info.Email)
	f.required("phone", info.Phone)
	f.required("address", info.Address)
	f.required("city", info.City)
	f.required("postal_code", info.PostalCode)

	if _, missing := f["email"]; !missing && !looksLikeEmail(info.Email) {
		f["email"] = "invalid email address"
	}
	if _, missing := f["phone"]; !missing && countDigits(info.Phone) < minPhoneDigits {
		f["phone"] = "enter a valid phone number"
	}
	return f.err()
}

// PaymentDetails are the method-specific form fields, keyed by field name.
type PaymentDetails map[string]string

// ValidatePayment checks only the sub-fields of the chosen method.
func ValidatePayment(method order.PaymentMethod, details PaymentDetails) error {
	if !method.Valid() {
		return &ValidationError{Fields: map[string]string{"method": "choose card, upi or cod"}}
	}

	f := fieldErrors{}
	switch method {
	case order.PaymentCard:
		f.required("card_number", details["card_number"])
		f.required("expiry", details["expiry"])
		f.required("cvv", details["cvv"])
		if _, missing := f["card_number"]; !missing {
			if n := countDigits(details["card_number"]); n < 12 || n > 19 {
				f["card_number"] = "enter a valid card number"
			}
		}
		if _, missing := f["expiry"]; !missing && !validExpiry(details["expiry"]) {
			f["expiry"] = "use MM/YY"
		}
		if _, missing := f["cvv"]; !missing {
			if cvv := strings.TrimSpace(details["cvv"]); countDigits(cvv) != len(cvv) || len(cvv) < 3 || len(cvv) > 4 {
				f["cvv"] = "enter a valid CVV"
			}
		}
	case order.PaymentUPI:
		f.required("upi_id", details["upi_id"])
		if _, missing := f["upi_id"]; !missing && !strings.Contains(details["upi_id"], "@") {
			f["upi_id"] = "enter a valid UPI ID"
		}
	}
	return f.err()
}

func looksLikeEmail(s string) bool {
	s = strings.TrimSpace(s)
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || strings.ContainsAny(s, " \t") || strings.Contains(domain, "@") {
		return false
	}
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func validExpiry(s string) bool {
	mm, yy, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || len(mm) != 2 || len(yy) != 2 || countDigits(mm) != 2 || countDigits(yy) != 2 {
		return false
	}
	return mm >= "01" && mm <= "12"
}
