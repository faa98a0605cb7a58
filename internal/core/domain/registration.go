package domain

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// RegistrationInput carries the plaintext registration fields. All fields are
// checked together so a single ValidationError reports every violation.
type RegistrationInput struct {
	Username  string `validate:"required,username"`
	Password  string `validate:"required,min=10,max=256"`
	FirstName string `validate:"required,min=1,max=256"`
	LastName  string `validate:"required,min=1,max=256"`
	Email     string `validate:"required,email"`
}

// Usernames start with a letter, then letters, digits, underscores or hyphens,
// 3 to 256 characters total.
var usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{2,255}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// validationMessages maps externally visible field names to the message
// surfaced when that field is rejected.
var validationMessages = map[string]string{
	"username":  "must start with a letter and contain 3 to 256 letters, digits, underscores or hyphens",
	"password":  "must be between 10 and 256 characters",
	"firstName": "is required and must be at most 256 characters",
	"lastName":  "is required and must be at most 256 characters",
	"email":     "must be a valid email address",
}

var fieldNames = map[string]string{
	"Username":  "username",
	"Password":  "password",
	"FirstName": "firstName",
	"LastName":  "lastName",
	"Email":     "email",
}

// Validate checks every field and aggregates all violations into one
// ValidationError.
func (in RegistrationInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return err
	}

	fields := make(map[string]string, len(violations))
	for _, v := range violations {
		name := fieldNames[v.StructField()]
		fields[name] = validationMessages[name]
	}
	return &ValidationError{Fields: fields}
}
