package validator

import (
	"errors"
	"fmt"
	"innkeep/pkg/logger"
	"innkeep/pkg/model"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// Validate checks a booking before any mutation. Struct tags cover the
// field-level rules; the cross-field rules the tags cannot express are
// checked explicitly below.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	// gtfield above already enforces this, but a booking can arrive with
	// equal timestamps through paths that skip tag validation on updates.
	if !booking.CheckOut.After(booking.CheckIn) {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckOut",
				Message: "check_out must be strictly after check_in",
			},
		}
	}

	return nil
}

// ValidateDesiredStatus rejects creation statuses outside inquiry/confirmed.
func (v *BookingValidator) ValidateDesiredStatus(status model.BookingStatus) error {
	if status != model.StatusInquiry && status != model.StatusConfirmed {
		return ValidationErrors{
			ValidationError{
				Field:   "Status",
				Message: fmt.Sprintf("a booking can only be created as %s or %s, got %s", model.StatusInquiry, model.StatusConfirmed, status),
			},
		}
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +14155550123)", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
