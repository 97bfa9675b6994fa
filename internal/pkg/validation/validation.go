package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the accepted calendar date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// idListRe matches a comma separated list of positive integers, e.g. "1,2,3".
var idListRe = regexp.MustCompile(`^\s*\d+\s*(,\s*\d+\s*)*$`)

// Error is a field-level input error.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Required rejects empty or whitespace-only strings.
func Required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid(field, "is required")
	}
	return nil
}

// NonNegative rejects negative, NaN and infinite numbers.
func NonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return invalid(field, "must be a non-negative number")
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !dateRe.MatchString(s) {
		return time.Time{}, invalid(field, "invalid date format, expected YYYY-MM-DD")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, invalid(field, "invalid date format, expected YYYY-MM-DD")
	}
	return t, nil
}

// ParseIDs parses "1,2,3" into ids. An empty string yields no ids.
func ParseIDs(field, s string) ([]uint, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	if !idListRe.MatchString(s) {
		return nil, invalid(field, "must be a comma separated list of ids")
	}
	parts := strings.Split(s, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil || n == 0 {
			return nil, invalid(field, "must be a comma separated list of ids")
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}

// ParseID parses a single positive id, as found in a route parameter.
func ParseID(field, s string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, invalid(field, "must be a positive integer")
	}
	return uint(n), nil
}
