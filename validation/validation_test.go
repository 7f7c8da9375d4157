package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roadwatch/accident-tracker-api/validation"
)

func TestValidateAllFieldsEmpty(t *testing.T) {
	values := map[string]string{
		"name": "", "address": "", "phone": "", "aadhaar": "", "license": "", "vehicle": "",
	}

	errs := validation.Validate(values, validation.DriverRegistrationRules())

	assert.Len(t, errs, 6)
	assert.Equal(t, "Name is required", errs["name"])
	assert.Equal(t, "Address is required", errs["address"])
	assert.Equal(t, "Phone number is required", errs["phone"])
	assert.Equal(t, "Aadhaar number is required", errs["aadhaar"])
	assert.Equal(t, "License details are required", errs["license"])
	assert.Equal(t, "Vehicle details are required", errs["vehicle"])
}

func TestValidateAllFieldsPresent(t *testing.T) {
	values := map[string]string{
		"name":    "Asha Rao",
		"address": "12 MG Road",
		"phone":   "9876543210",
		"aadhaar": "123456789012",
		"license": "KA01 20220001234",
		"vehicle": "KA-01-AB-1234",
	}

	errs := validation.Validate(values, validation.DriverRegistrationRules())

	assert.Empty(t, errs)
}

func TestValidateRegistrationPhone(t *testing.T) {
	rules := validation.DriverRegistrationRules()

	cases := []struct {
		phone string
		want  string
	}{
		{"9876543210", ""},
		{"987654321", "Phone number must be 10 digits"},
		{"98765432100", "Phone number must be 10 digits"},
		{"98765-4321", "Phone number must be 10 digits"},
		{"", "Phone number is required"},
		{"   ", "Phone number is required"},
	}

	for _, c := range cases {
		errs := validation.Validate(map[string]string{"phone": c.phone}, map[string][]validation.Rule{"phone": rules["phone"]})
		if c.want == "" {
			assert.NotContains(t, errs, "phone", "phone %q", c.phone)
		} else {
			assert.Equal(t, c.want, errs["phone"], "phone %q", c.phone)
		}
	}
}

func TestValidateAadhaar(t *testing.T) {
	rules := validation.DriverRegistrationRules()

	cases := []struct {
		aadhaar string
		valid   bool
	}{
		{"123456789012", true},
		{"12345678901", false},
		{"1234567890123", false},
		{"12345678901a", false},
		{"1234 5678 9012", false},
	}

	for _, c := range cases {
		errs := validation.Validate(map[string]string{"aadhaar": c.aadhaar}, map[string][]validation.Rule{"aadhaar": rules["aadhaar"]})
		if c.valid {
			assert.NotContains(t, errs, "aadhaar", "aadhaar %q", c.aadhaar)
		} else {
			assert.Contains(t, errs, "aadhaar", "aadhaar %q", c.aadhaar)
		}
	}
}

// The OTP login screen uses a weaker rule than the registration form: strip
// non-digits, then require at least 10 remaining.
func TestLoosePhone(t *testing.T) {
	assert.True(t, validation.LoosePhone("9876543210"))
	assert.True(t, validation.LoosePhone("(987) 654-3210"))
	assert.True(t, validation.LoosePhone("+91 98765 43210"))
	assert.True(t, validation.LoosePhone("98765432100"))

	assert.False(t, validation.LoosePhone("987654321"))
	assert.False(t, validation.LoosePhone("98-76-54"))
	assert.False(t, validation.LoosePhone(""))
}
