package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// addressPattern matches a 0x-prefixed, 40-hex-digit wallet address.
var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// RegisterValidators installs the eth_addr binding rule. Must run before
// any handler binds a request carrying an address field.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("eth_addr", func(fl validator.FieldLevel) bool {
			return addressPattern.MatchString(fl.Field().String())
		})
	}
}

// ValidAddress reports whether a path parameter is a well-formed address.
func ValidAddress(addr string) bool {
	return addressPattern.MatchString(addr)
}
