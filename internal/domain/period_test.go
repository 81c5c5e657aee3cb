package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2025-03")
	require.NoError(t, err)
	assert.Equal(t, Period{Year: 2025, Month: time.March}, p)
	assert.Equal(t, "2025-03", p.String())

	_, err = ParsePeriod("2025-13")
	assert.Error(t, err)
	_, err = ParsePeriod("march 2025")
	assert.Error(t, err)
}

func TestPeriod_AddMonths(t *testing.T) {
	p := NewPeriod(2025, time.November)

	assert.Equal(t, NewPeriod(2026, time.January), p.AddMonths(2))
	assert.Equal(t, NewPeriod(2025, time.January), p.AddMonths(-10))
	assert.Equal(t, NewPeriod(2024, time.December), p.AddMonths(-11))
}

func TestPeriod_Before(t *testing.T) {
	assert.True(t, NewPeriod(2024, time.December).Before(NewPeriod(2025, time.January)))
	assert.True(t, NewPeriod(2025, time.January).Before(NewPeriod(2025, time.February)))
	assert.False(t, NewPeriod(2025, time.March).Before(NewPeriod(2025, time.March)))
	assert.False(t, NewPeriod(2025, time.March).Before(NewPeriod(2024, time.March)))
}

func TestPeriod_Start(t *testing.T) {
	start := NewPeriod(2025, time.July).Start()
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), start)
}
