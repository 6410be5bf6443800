package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMemberID(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trims whitespace", "  M001 ", "M001"},
		{"plain integer passes through", "1234", "1234"},
		{"decimal artifact coerced", "1234.0", "1234"},
		{"scientific notation coerced", "1.2345E+7", "12345000"},
		{"long scientific notation", "1.2345678901E10", "12345678901"},
		{"opaque token untouched", "AB-12/x", "AB-12/x"},
		{"case preserved", "m001", "m001"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeMemberID(tc.in))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"canonical ten digits", "9876543210", "9876543210", true},
		{"punctuation stripped", "(987) 654-3210", "9876543210", true},
		{"trunk prefix stripped", "09876543210", "9876543210", true},
		{"country code stripped", "919876543210", "9876543210", true},
		{"country code with plus", "+91 98765 43210", "9876543210", true},
		{"too short", "123", "", false},
		{"too long", "12345678901234", "", false},
		{"eleven digits without trunk prefix", "19876543210", "", false},
		{"twelve digits with unknown prefix", "449876543210", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizePhone(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{"9876543210", "09876543210", "919876543210", "(987) 654-3210"}
	for _, in := range inputs {
		once, ok := NormalizePhone(in)
		if !ok {
			continue
		}
		twice, ok := NormalizePhone(once)
		assert.True(t, ok, "canonical form must stay valid: %q", once)
		assert.Equal(t, once, twice)
	}
}

func TestNormalizePhoneLenient(t *testing.T) {
	assert.Equal(t, "9876543210", NormalizePhoneLenient("+91-98765-43210"))
	assert.Equal(t, "9876543210", NormalizePhoneLenient("009876543210"))
	assert.Equal(t, "987", NormalizePhoneLenient("987"))
	assert.Equal(t, "", NormalizePhoneLenient("n/a"))
}

func TestStrictAndLenientAgreeOnCanonicalInput(t *testing.T) {
	d := "9876543210"
	strict, ok := NormalizePhone(d)
	assert.True(t, ok)
	assert.Equal(t, d, strict)
	assert.Equal(t, d, NormalizePhoneLenient(d))
}

func TestIsPlausibleNumber(t *testing.T) {
	assert.True(t, IsPlausibleNumber("1234"))
	assert.False(t, IsPlausibleNumber(""))
	assert.False(t, IsPlausibleNumber("12a4"))
	assert.False(t, IsPlausibleNumber("12.4"))
}
