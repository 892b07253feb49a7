// internal/domain/checkout/validation.go
package checkout

import (
	"regexp"
	"strings"

	"github.com/your-org/foodie-backend/internal/domain/address"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	bareMobile   = regexp.MustCompile(`^[0-9]{10}$`)
	indianMobile = regexp.MustCompile(`^\+91\s?[0-9]{10}$`)
)

// DeliveryForm is the delivery section of the checkout page
type DeliveryForm struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	ZipCode  string `json:"zipCode"`
	Notes    string `json:"notes"`
}

// Normalize trims every field, prefixes a bare ten-digit phone with +91
// and reduces the pincode to its digits
func (f DeliveryForm) Normalize() DeliveryForm {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.ZipCode = address.SanitizePincode(f.ZipCode)
	f.Notes = strings.TrimSpace(f.Notes)

	if bareMobile.MatchString(f.Phone) {
		f.Phone = "+91 " + f.Phone
	}
	return f
}

// Validate normalizes the form and checks every rule. It returns the
// normalized form and nil, or the form and an *apperror.FormError.
func Validate(form DeliveryForm) (DeliveryForm, error) {
	f := form.Normalize()
	errs := apperror.FieldErrors{}
	errs.Require(map[string]string{
		"fullName": f.FullName,
		"email":    f.Email,
		"phone":    f.Phone,
		"address":  f.Address,
		"city":     f.City,
		"zipCode":  f.ZipCode,
	})

	if f.Email != "" && !emailPattern.MatchString(f.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	if f.Phone != "" && !indianMobile.MatchString(f.Phone) {
		errs["phone"] = "Enter valid Indian number"
	}
	if f.ZipCode != "" && len(f.ZipCode) != 6 {
		errs["zipCode"] = "Pincode must be 6 digits"
	}

	return f, errs.Err("validate delivery form")
}
