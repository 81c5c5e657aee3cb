package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("15/06/2025")
	assert.Error(t, err)
	_, err = ParseDate("2025-13-01")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, time.June, 15, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-15", FormatDate(d))
}

func TestAddMonths(t *testing.T) {
	start := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	// Go normalises Jan 31 + 1 month to Mar 3.
	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), AddMonths(start, 1))

	start = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC), AddMonths(start, 12))
}

func TestIsDateOverdue(t *testing.T) {
	due := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsDateOverdue(due, due))
	assert.False(t, IsDateOverdue(due, due.Add(-time.Hour)))
	assert.True(t, IsDateOverdue(due, due.Add(time.Hour)))
}
