package utils

import (
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used across the API.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO-8601 calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders a time as an ISO-8601 calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddMonths returns the date the given number of whole months later.
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}

// IsDateOverdue checks if a due date has passed as of the given moment.
func IsDateOverdue(dueDate, asOf time.Time) bool {
	return asOf.After(dueDate)
}
