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

// CleanStringPtr is CleanString for optional fields; nil stays nil.
func CleanStringPtr(s *string, lower ...bool) *string {
	if s == nil {
		return nil
	}
	cleaned := CleanString(*s, lower...)
	return &cleaned
}

// NowFunc is mockable in tests.
var NowFunc = func() time.Time { return time.Now().UTC() }

// Today returns the current UTC date as YYYY-MM-DD.
func Today() string {
	return NowFunc().Format(DateLayout)
}
