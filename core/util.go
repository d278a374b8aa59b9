package core

import (
	"strings"
	"time"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// NormalizePhone prefixes `phone` with "+" when it carries no country marker.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+" + phone
}

// NowUTC returns the current UTC time at the precision databases keep.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
