package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterRequest carries the fields checked before an account is
// created. The wire format delimits sub-fields with spaces and caps
// every payload at the frame capacity, hence the exclusions and the
// 72-byte password bound.
type RegisterRequest struct {
	Email    string `validate:"required,email,excludesall= "`
	Name     string `validate:"required,max=64,excludesall= "`
	Password string `validate:"required,max=72,excludesall= "`
}

func ValidateRegister(req RegisterRequest) error {
	return validate.Struct(req)
}
