package contact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names a required submission field.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// Reason says why a field was rejected.
type Reason string

const (
	ReasonRequired     Reason = "required"
	ReasonInvalidEmail Reason = "invalid_email"
)

// ValidationError reports the first rule a submission broke.
type ValidationError struct {
	Field  Field
	Reason Reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("contact: %s: %s", e.Field, e.Reason)
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	for tag, fn := range map[string]validator.Func{
		"notblank":     notBlank,
		"contactemail": emailShape,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("contact: register %s: %v", tag, err))
		}
	}
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func emailShape(fl validator.FieldLevel) bool {
	return ValidEmail(fl.Field().String())
}

// ValidEmail reports whether s has the local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// Validate checks the required fields in the order name, email, subject,
// message and then the email shape. Only the first failure is reported.
func Validate(s Submission) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("contact: validate: %w", err)
	}

	// A blank field outranks a malformed email regardless of struct order.
	for _, fe := range fieldErrs {
		if fe.Tag() == "notblank" {
			return &ValidationError{Field: fieldFor(fe), Reason: ReasonRequired}
		}
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "contactemail" {
			return &ValidationError{Field: FieldEmail, Reason: ReasonInvalidEmail}
		}
	}

	return fmt.Errorf("contact: validate: %w", err)
}

func fieldFor(fe validator.FieldError) Field {
	switch fe.StructField() {
	case "Name":
		return FieldName
	case "Email":
		return FieldEmail
	case "Subject":
		return FieldSubject
	default:
		return FieldMessage
	}
}
