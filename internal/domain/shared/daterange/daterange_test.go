package daterange_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodgebook/internal/domain/shared/daterange"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, arrival, departure time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(arrival, departure)
	require.NoError(t, err)
	return dr
}

func TestNewRejectsInvalidRanges(t *testing.T) {
	cases := []struct {
		name      string
		arrival   time.Time
		departure time.Time
	}{
		{"zero arrival", time.Time{}, day(2024, 6, 4)},
		{"zero departure", day(2024, 6, 1), time.Time{}},
		{"equal dates", day(2024, 6, 1), day(2024, 6, 1)},
		{"departure before arrival", day(2024, 6, 4), day(2024, 6, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := daterange.New(tc.arrival, tc.departure)
			assert.ErrorIs(t, err, daterange.ErrInvalidRange)
		})
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	base := mustRange(t, day(2024, 7, 1), day(2024, 7, 5))

	cases := []struct {
		name     string
		other    daterange.DateRange
		overlaps bool
	}{
		{"identical", mustRange(t, day(2024, 7, 1), day(2024, 7, 5)), true},
		{"partial tail", mustRange(t, day(2024, 7, 3), day(2024, 7, 6)), true},
		{"partial head", mustRange(t, day(2024, 6, 28), day(2024, 7, 2)), true},
		{"contained", mustRange(t, day(2024, 7, 2), day(2024, 7, 4)), true},
		{"containing", mustRange(t, day(2024, 6, 30), day(2024, 7, 6)), true},
		{"back-to-back after", mustRange(t, day(2024, 7, 5), day(2024, 7, 8)), false},
		{"back-to-back before", mustRange(t, day(2024, 6, 28), day(2024, 7, 1)), false},
		{"disjoint", mustRange(t, day(2024, 8, 1), day(2024, 8, 5)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, base.Overlaps(tc.other))
			assert.Equal(t, tc.overlaps, tc.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestNights(t *testing.T) {
	dr := mustRange(t, day(2024, 6, 1), day(2024, 6, 4))
	assert.Equal(t, 3, dr.Nights())

	one := mustRange(t, day(2024, 6, 1), day(2024, 6, 2))
	assert.Equal(t, 1, one.Nights())

	// Partial days round up.
	partial := mustRange(t, day(2024, 6, 1), day(2024, 6, 2).Add(6*time.Hour))
	assert.Equal(t, 2, partial.Nights())
}

func TestNewDaysTruncatesToMidnight(t *testing.T) {
	arrival := time.Date(2024, 6, 1, 22, 15, 0, 0, time.UTC)
	departure := time.Date(2024, 6, 4, 3, 30, 0, 0, time.UTC)
	dr, err := daterange.NewDays(arrival, departure)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 6, 1), dr.Arrival)
	assert.Equal(t, day(2024, 6, 4), dr.Departure)
	assert.Equal(t, 3, dr.Nights())
}

func TestContainsDate(t *testing.T) {
	dr := mustRange(t, day(2024, 7, 1), day(2024, 7, 5))
	assert.True(t, dr.ContainsDate(day(2024, 7, 1)))
	assert.True(t, dr.ContainsDate(day(2024, 7, 4)))
	assert.False(t, dr.ContainsDate(day(2024, 7, 5)), "departure day is excluded")
	assert.False(t, dr.ContainsDate(day(2024, 6, 30)))
}
