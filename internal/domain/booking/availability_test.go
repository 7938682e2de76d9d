package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodgebook/internal/domain/booking"
	"lodgebook/internal/domain/shared/daterange"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func confirmed(t *testing.T, arrival, departure time.Time) booking.Booking {
	t.Helper()
	dr, err := daterange.New(arrival, departure)
	require.NoError(t, err)
	return booking.Booking{ID: "b", Status: booking.StatusConfirmed, Range: dr}
}

func TestIsAvailableEmptyList(t *testing.T) {
	dr, err := daterange.New(day(2024, 7, 1), day(2024, 7, 5))
	require.NoError(t, err)
	assert.True(t, booking.IsAvailable(nil, dr))
}

func TestIsAvailableOverlapCases(t *testing.T) {
	existing := []booking.Booking{confirmed(t, day(2024, 7, 1), day(2024, 7, 5))}

	cases := []struct {
		name      string
		arrival   time.Time
		departure time.Time
		available bool
	}{
		{"overlapping tail", day(2024, 7, 3), day(2024, 7, 6), false},
		{"identical range", day(2024, 7, 1), day(2024, 7, 5), false},
		{"contained", day(2024, 7, 2), day(2024, 7, 3), false},
		{"back-to-back turnover", day(2024, 7, 5), day(2024, 7, 8), true},
		{"arriving before turnover", day(2024, 6, 28), day(2024, 7, 1), true},
		{"disjoint", day(2024, 8, 1), day(2024, 8, 4), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dr, err := daterange.New(tc.arrival, tc.departure)
			require.NoError(t, err)
			assert.Equal(t, tc.available, booking.IsAvailable(existing, dr))
		})
	}
}

func TestIsAvailableIgnoresCancelled(t *testing.T) {
	cancelled := confirmed(t, day(2024, 7, 1), day(2024, 7, 5))
	cancelled.Status = booking.StatusCancelled

	dr, err := daterange.New(day(2024, 7, 2), day(2024, 7, 4))
	require.NoError(t, err)
	assert.True(t, booking.IsAvailable([]booking.Booking{cancelled}, dr))
}

func TestIsAvailableIsDeterministic(t *testing.T) {
	existing := []booking.Booking{
		confirmed(t, day(2024, 7, 1), day(2024, 7, 5)),
		confirmed(t, day(2024, 7, 10), day(2024, 7, 12)),
	}
	dr, err := daterange.New(day(2024, 7, 5), day(2024, 7, 10))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		assert.True(t, booking.IsAvailable(existing, dr))
	}
}
