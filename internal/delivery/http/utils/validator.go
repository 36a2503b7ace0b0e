package utils

import (
	"github.com/go-playground/validator/v10"
)

// Validator подключается к echo.Echo.Validator, правила описаны тегами validate у запросов
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}
