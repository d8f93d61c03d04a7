package server

import (
	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	return &CustomValidator{v: validator.New()}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors to []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: e.Field(), Message: "is required"})
		case "gte":
			out = append(out, FieldError{Field: e.Field(), Message: "must be greater than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: e.Field(), Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
