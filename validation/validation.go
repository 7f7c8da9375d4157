// Package validation checks named form fields against per-field rule sets
// and reports failures as a field name to error message mapping. A form
// submission proceeds only when the produced mapping is empty.
package validation

import (
	"regexp"
	"strconv"
	"strings"
)

// Rule checks a single field value and returns an error message, or ""
// when the value passes
type Rule func(value string) string

var digitsOnly = regexp.MustCompile(`[^0-9]`)

// Required fails on values that are empty after trimming whitespace
func Required(message string) Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return message
		}
		return ""
	}
}

// Digits fails on values that are not exactly n digit characters
func Digits(n int, message string) Rule {
	re := regexp.MustCompile(`^\d{` + strconv.Itoa(n) + `}$`)
	return func(value string) string {
		if !re.MatchString(value) {
			return message
		}
		return ""
	}
}

// Validate evaluates each field's rules in order and records the first
// failing message per field. Fields with no failing rule are absent from
// the result.
func Validate(values map[string]string, rules map[string][]Rule) map[string]string {
	errs := map[string]string{}
	for field, fieldRules := range rules {
		value := values[field]
		for _, rule := range fieldRules {
			if msg := rule(value); msg != "" {
				errs[field] = msg
				break
			}
		}
	}
	return errs
}

// DriverRegistrationRules is the rule set for the driver registration form.
// Phone must be exactly 10 digits and aadhaar exactly 12; everything else
// is required only.
func DriverRegistrationRules() map[string][]Rule {
	return map[string][]Rule{
		"name":    {Required("Name is required")},
		"address": {Required("Address is required")},
		"phone":   {Required("Phone number is required"), Digits(10, "Phone number must be 10 digits")},
		"aadhaar": {Required("Aadhaar number is required"), Digits(12, "Aadhaar must be 12 digits")},
		"license": {Required("License details are required")},
		"vehicle": {Required("Vehicle details are required")},
	}
}

// LoosePhone reports whether a phone number is usable for the OTP login
// flow: at least 10 digits remain after stripping non-digit characters.
// This is deliberately weaker than the registration form's exact 10-digit
// rule; the two screens validate independently.
func LoosePhone(phone string) bool {
	return len(digitsOnly.ReplaceAllString(phone, "")) >= 10
}
