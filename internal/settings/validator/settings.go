package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"slotwise/pkg/logger"
	"slotwise/pkg/model"
	"slotwise/pkg/timefmt"
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

type SettingsValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSettingsValidator(log *logger.Logger) *SettingsValidator {
	v := validator.New()

	if err := v.RegisterValidation("time_of_day", ValidateTimeOfDay); err != nil {
		log.Fatal("Failed to register 'time_of_day' validator", "error", err)
	}
	if err := v.RegisterValidation("calendar_date", ValidateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendar_date' validator", "error", err)
	}

	log.Info("Settings validator initialized successfully")

	return &SettingsValidator{
		validate: v,
		logger:   log,
	}
}

// ValidateTimeOfDay accepts the HH:MM 24-hour wire encoding.
func ValidateTimeOfDay(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	_, err := timefmt.ParseTimeOfDay(s)
	return err == nil
}

// ValidateCalendarDate accepts the DD-MON-YYYY wire encoding.
func ValidateCalendarDate(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	_, err := timefmt.ParseDate(s)
	return err == nil
}

func (v *SettingsValidator) Validate(s *model.BookingSettings) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return v.validateSemantics(s)
}

func (v *SettingsValidator) ValidateUpdate(u *model.SettingsUpdate) error {
	if err := v.validate.Struct(u); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// validateSemantics covers the cross-field constraints struct tags cannot
// express: window ordering, rule/window consistency, lunch pairing.
func (v *SettingsValidator) validateSemantics(s *model.BookingSettings) error {
	var errs ValidationErrors

	for _, rule := range s.WeeklyRules {
		if rule.Available {
			if rule.StartTime == "" || rule.EndTime == "" {
				errs = append(errs, ValidationError{
					Field:   "weekly_rules",
					Message: fmt.Sprintf("%s is available but has no time window", rule.Day),
				})
				continue
			}
			if _, err := timefmt.NewWindow(rule.StartTime, rule.EndTime); err != nil {
				errs = append(errs, ValidationError{
					Field:   "weekly_rules",
					Message: fmt.Sprintf("%s: end_time must be after start_time", rule.Day),
				})
			}
		} else if rule.StartTime != "" || rule.EndTime != "" {
			errs = append(errs, ValidationError{
				Field:   "weekly_rules",
				Message: fmt.Sprintf("%s is unavailable and must not carry a time window", rule.Day),
			})
		}
	}

	switch {
	case s.LunchStart == "" && s.LunchEnd == "":
		// no lunch break configured
	case s.LunchStart == "" || s.LunchEnd == "":
		errs = append(errs, ValidationError{
			Field:   "lunch_start",
			Message: "lunch_start and lunch_end must be set together",
		})
	default:
		if _, err := timefmt.NewWindow(s.LunchStart, s.LunchEnd); err != nil {
			errs = append(errs, ValidationError{
				Field:   "lunch_end",
				Message: "lunch_end must be after lunch_start",
			})
		}
	}

	if s.BookingType == model.BookingTypeIndividual && s.BookingsPerSlot != 1 {
		errs = append(errs, ValidationError{
			Field:   "bookings_per_slot",
			Message: "individual booking type requires bookings_per_slot of 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *SettingsValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "len":
			message = fmt.Sprintf("%s must contain exactly %s entries", err.Field(), err.Param())
		case "unique":
			message = fmt.Sprintf("%s must not contain duplicate weekdays", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "time_of_day":
			message = fmt.Sprintf("%s must be in HH:MM 24-hour format", err.Field())
		case "calendar_date":
			message = fmt.Sprintf("%s must be in DD-MON-YYYY format", err.Field())
		case "timezone":
			message = fmt.Sprintf("%s must be a valid IANA timezone identifier", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
