package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	settingsvalidator "slotwise/internal/settings/validator"
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

type ExceptionValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewExceptionValidator(log *logger.Logger) *ExceptionValidator {
	v := validator.New()

	if err := v.RegisterValidation("time_of_day", settingsvalidator.ValidateTimeOfDay); err != nil {
		log.Fatal("Failed to register 'time_of_day' validator", "error", err)
	}
	if err := v.RegisterValidation("calendar_date", settingsvalidator.ValidateCalendarDate); err != nil {
		log.Fatal("Failed to register 'calendar_date' validator", "error", err)
	}

	log.Info("Exception validator initialized successfully")

	return &ExceptionValidator{
		validate: v,
		logger:   log,
	}
}

// ValidateUpserts checks a replace-for-given-dates batch: each entry must
// carry a parseable date, at most one entry per date, and a consistent
// all-day/window combination.
func (v *ExceptionValidator) ValidateUpserts(entries []model.ExceptionUpsert) error {
	var errs ValidationErrors

	seen := map[string]struct{}{}
	for i, entry := range entries {
		if err := v.validate.Struct(entry); err != nil {
			var validationErrs validator.ValidationErrors
			if errors.As(err, &validationErrs) {
				errs = append(errs, v.translate(i, validationErrs)...)
				continue
			}
			return err
		}

		d, err := timefmt.ParseDate(entry.Date)
		if err != nil {
			// unreachable: the calendar_date tag already rejected it
			continue
		}
		key := d.String()
		if _, dup := seen[key]; dup {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("exceptions[%d].date", i),
				Message: fmt.Sprintf("duplicate entry for date %s", key),
			})
		}
		seen[key] = struct{}{}

		errs = append(errs, v.validateEntry(i, entry)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *ExceptionValidator) validateEntry(i int, entry model.ExceptionUpsert) ValidationErrors {
	var errs ValidationErrors

	if entry.AllDay && (entry.StartTime != "" || entry.EndTime != "") {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("exceptions[%d]", i),
			Message: "an all-day exception must not carry a time window",
		})
		return errs
	}

	if (entry.StartTime == "") != (entry.EndTime == "") {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("exceptions[%d]", i),
			Message: "start_time and end_time must be set together",
		})
		return errs
	}

	if entry.StartTime != "" {
		if _, err := timefmt.NewWindow(entry.StartTime, entry.EndTime); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("exceptions[%d]", i),
				Message: "end_time must be after start_time",
			})
		}
	}
	return errs
}

func (v *ExceptionValidator) translate(i int, errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "time_of_day":
			message = fmt.Sprintf("%s must be in HH:MM 24-hour format", err.Field())
		case "calendar_date":
			message = fmt.Sprintf("%s must be in DD-MON-YYYY format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   fmt.Sprintf("exceptions[%d].%s", i, err.Field()),
			Message: message,
		})
	}

	return validationErrors
}
