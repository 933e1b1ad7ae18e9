package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/isdelr/task-manager-be/internal/apperr"
)

// RegisterInput is the registration payload.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var userMessages = map[string]map[string]string{
	"username": {
		"required": "Username is required",
		"min":      "Username must be between 3 and 30 characters",
		"max":      "Username must be between 3 and 30 characters",
	},
	"email": {
		"required": "Email is required",
		"email":    "Please provide a valid email",
		"max":      "Email is too long",
	},
	"password": {
		"required": "Password is required",
		"min":      "Password must be at least 6 characters",
		"max":      "Password cannot exceed 72 characters",
	},
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegister normalizes the payload in place and reports every
// violated field.
func ValidateRegister(in *RegisterInput) []apperr.FieldError {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = NormalizeEmail(in.Email)
	return structErrors(validate.Struct(in))
}

// ValidateLogin normalizes the payload in place and reports every violated
// field.
func ValidateLogin(in *LoginInput) []apperr.FieldError {
	in.Email = NormalizeEmail(in.Email)
	return structErrors(validate.Struct(in))
}

func structErrors(err error) []apperr.FieldError {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperr.FieldError{{Field: "body", Message: "Invalid request body"}}
	}
	out := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := userMessages[fe.Field()][fe.Tag()]
		if msg == "" {
			msg = fe.Field() + " is invalid"
		}
		out = append(out, apperr.FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
