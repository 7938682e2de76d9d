package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodgebook/internal/domain/booking"
	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/money"
)

func TestQuoteDefaultPolicy(t *testing.T) {
	// 100.00/night for [2024-06-01, 2024-06-04): 3 nights, 20% deposit,
	// balance due a week before arrival.
	dr, err := daterange.New(day(2024, 6, 1), day(2024, 6, 4))
	require.NoError(t, err)

	terms, err := booking.DefaultQuotePolicy().Quote(money.Must(10000, "USD"), dr)
	require.NoError(t, err)

	assert.Equal(t, 3, terms.Nights)
	assert.Equal(t, int64(30000), terms.Total.Amount)
	assert.Equal(t, int64(6000), terms.Deposit.Amount)
	assert.Equal(t, int64(24000), terms.Balance.Amount)
	assert.Equal(t, day(2024, 5, 25), terms.BalanceDueDate)
	assert.Equal(t, "USD", terms.Total.Currency)
}

func TestQuoteSplitAlwaysSumsToTotal(t *testing.T) {
	dr, err := daterange.New(day(2024, 6, 1), day(2024, 6, 2))
	require.NoError(t, err)

	// 3.33/night: 20% of 333 truncates to 66, so balance must absorb the
	// remainder.
	terms, err := booking.DefaultQuotePolicy().Quote(money.Must(333, "USD"), dr)
	require.NoError(t, err)
	assert.Equal(t, int64(66), terms.Deposit.Amount)
	assert.Equal(t, int64(267), terms.Balance.Amount)
	assert.Equal(t, terms.Total.Amount, terms.Deposit.Amount+terms.Balance.Amount)
}

func TestQuoteZeroRate(t *testing.T) {
	dr, err := daterange.New(day(2024, 6, 1), day(2024, 6, 4))
	require.NoError(t, err)

	terms, err := booking.DefaultQuotePolicy().Quote(money.Must(0, "USD"), dr)
	require.NoError(t, err)
	assert.True(t, terms.Total.IsZero())
	assert.True(t, terms.Deposit.IsZero())
	assert.True(t, terms.Balance.IsZero())
}

func TestQuoteRejectsInvalidRange(t *testing.T) {
	_, err := booking.DefaultQuotePolicy().Quote(money.Must(10000, "USD"), daterange.DateRange{
		Arrival:   day(2024, 6, 4),
		Departure: day(2024, 6, 1),
	})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestQuoteCustomPolicy(t *testing.T) {
	dr, err := daterange.New(day(2024, 6, 10), day(2024, 6, 12))
	require.NoError(t, err)

	policy := booking.QuotePolicy{DepositPercent: 50, BalanceDueOffsetDays: 14}
	terms, err := policy.Quote(money.Must(5000, "USD"), dr)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), terms.Deposit.Amount)
	assert.Equal(t, int64(5000), terms.Balance.Amount)
	assert.Equal(t, day(2024, 5, 27), terms.BalanceDueDate)
}

func TestNewConfirmed(t *testing.T) {
	dr, err := daterange.New(day(2024, 6, 1), day(2024, 6, 4))
	require.NoError(t, err)
	terms, err := booking.DefaultQuotePolicy().Quote(money.Must(10000, "USD"), dr)
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b, err := booking.NewConfirmed(booking.CreateParams{
		ID:        "bk-1",
		ListingID: "lst-1",
		ClientID:  "cl-1",
		Range:     dr,
		Guests:    2,
		Terms:     terms,
		Now:       now,
	})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, b.Status)
	assert.Equal(t, now, b.CreatedAt)

	evs := b.PendingEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, "booking.confirmed", evs[0].EventName())
	assert.Equal(t, "lst-1", evs[0].AggregateID())
}

func TestNewConfirmedValidation(t *testing.T) {
	dr, err := daterange.New(day(2024, 6, 1), day(2024, 6, 4))
	require.NoError(t, err)

	_, err = booking.NewConfirmed(booking.CreateParams{ID: "b", ListingID: "l", ClientID: "c", Range: dr, Guests: 0})
	assert.ErrorIs(t, err, booking.ErrCapacityExceeded)

	_, err = booking.NewConfirmed(booking.CreateParams{ID: "b", ListingID: "l", ClientID: "  ", Range: dr, Guests: 1})
	assert.Error(t, err)
}
