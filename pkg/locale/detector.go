package locale

import "strings"

// InferTimezoneFromPhone guesses a customer's timezone from their phone
// number's country prefix. Used as a display fallback when the customer did
// not state a timezone; never used for capacity decisions.
func InferTimezoneFromPhone(phone string) string {
	normalized := strings.TrimSpace(phone)
	if normalized == "" {
		return DefaultTimezone
	}

	for _, country := range Countries {
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(normalized, prefix) {
				return country.DefaultTimezone
			}
		}
	}

	return DefaultTimezone
}

// InferCountryFromPhone returns the country matching the phone number's
// prefix, or nil when no prefix matches.
func InferCountryFromPhone(phone string) *Country {
	normalized := strings.TrimSpace(phone)

	for _, country := range Countries {
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(normalized, prefix) {
				return &country
			}
		}
	}

	return nil
}
