package validation

import (
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a validator with the storefront's custom rules registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// region: must be one of the delivery regions.
	_ = v.RegisterValidation("region", func(fl validatorv10.FieldLevel) bool {
		val := fl.Field().String()
		for _, r := range DeliveryRegions {
			if r == val {
				return true
			}
		}
		return false
	})

	// momo: Ghana mobile money number, local 0XXXXXXXXX or +233XXXXXXXXX.
	_ = v.RegisterValidation("momo", func(fl validatorv10.FieldLevel) bool {
		return validMomoNumber(fl.Field().String())
	})

	return v
}

func validMomoNumber(raw string) bool {
	n := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if strings.HasPrefix(n, "+233") {
		n = "0" + n[len("+233"):]
	}
	if len(n) != 10 || n[0] != '0' {
		return false
	}
	for _, c := range n {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
