package handler

import (
	"github.com/printmanage/console/internal/core/form"
)

// echoValidator lets Echo call c.Validate(req) with the same rules and
// messages the forms use.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface. Failures are
// *domain.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	return form.Validate(i)
}
