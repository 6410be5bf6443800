package verify

import (
	"strconv"
	"strings"
)

const (
	phoneLength = 10
	trunkPrefix = '0'
)

// Country dialing prefixes seen in the imported registry data.
var countryPrefixes = []string{"91"}

// NormalizeMemberID canonicalizes a member ID. Spreadsheet imports leave
// decimal and scientific-notation artifacts ("1234.0", "1.2345E+7") on
// numeric-looking IDs; those are coerced back to plain integer strings.
// Everything else passes through unchanged — member IDs are opaque tokens,
// case and punctuation included.
func NormalizeMemberID(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	if looksLikeSpreadsheetNumber(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return strconv.FormatFloat(f, 'f', 0, 64)
		}
	}
	return s
}

// looksLikeSpreadsheetNumber matches decimal-formatted or scientific
// notation numerics only. Plain integer strings are left alone so long IDs
// never round-trip through a float.
func looksLikeSpreadsheetNumber(s string) bool {
	hasDot, hasExp, hasDigit := false, false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c == '.' && !hasDot && !hasExp:
			hasDot = true
		case (c == 'e' || c == 'E') && !hasExp && hasDigit && i < len(s)-1:
			hasExp = true
			if s[i+1] == '+' || s[i+1] == '-' {
				i++
			}
		default:
			return false
		}
	}
	return hasDigit && (hasDot || hasExp)
}

// NormalizePhone canonicalizes a user-supplied phone number to 10 digits.
// Accepted shapes after stripping non-digits: exactly 10 digits, 11 digits
// with a leading national trunk prefix, or 12 digits with a known country
// code. Any other length is ambiguous and rejected rather than truncated.
func NormalizePhone(raw string) (string, bool) {
	d := digitsOnly(raw)
	switch {
	case len(d) == phoneLength:
		return d, true
	case len(d) == phoneLength+1 && d[0] == trunkPrefix:
		return d[1:], true
	case len(d) == phoneLength+2 && hasCountryPrefix(d):
		return d[2:], true
	default:
		return "", false
	}
}

// NormalizePhoneLenient tolerates country-code noise in imported registry
// data by keeping the last 10 digits. It must never be used to validate
// user-supplied input.
func NormalizePhoneLenient(raw string) string {
	d := digitsOnly(raw)
	if len(d) > phoneLength {
		return d[len(d)-phoneLength:]
	}
	return d
}

// IsPlausibleNumber reports whether s could have been stored as a numeric
// field by a registry import: all digits, nothing else.
func IsPlausibleNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func hasCountryPrefix(d string) bool {
	for _, p := range countryPrefixes {
		if strings.HasPrefix(d, p) {
			return true
		}
	}
	return false
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
