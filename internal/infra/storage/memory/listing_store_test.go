package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodgebook/internal/domain/booking"
	"lodgebook/internal/domain/listing"
	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/money"
	"lodgebook/internal/infra/storage/memory"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T, store *memory.ListingStore, id, market, propertyType string, bedrooms, accommodates int, rateCents int64) {
	t.Helper()
	l, err := listing.New(listing.CreateParams{
		ID:           listing.ListingID(id),
		Title:        "Listing " + id,
		Market:       market,
		Country:      "Portugal",
		PropertyType: propertyType,
		Bedrooms:     bedrooms,
		Accommodates: accommodates,
		NightlyRate:  money.Must(rateCents, "USD"),
		CleaningFee:  money.Must(1000, "USD"),
		Now:          time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), l))
}

func confirmedBooking(t *testing.T, id string, arrival, departure time.Time) *booking.Booking {
	t.Helper()
	dr, err := daterange.New(arrival, departure)
	require.NoError(t, err)
	return &booking.Booking{
		ID:       booking.BookingID(id),
		ClientID: "cl-1",
		Range:    dr,
		Guests:   2,
		Status:   booking.StatusConfirmed,
	}
}

func TestAppendBookingIfAvailable(t *testing.T) {
	store := memory.NewListingStore()
	seed(t, store, "lst-1", "Lisbon", "Apartment", 2, 4, 10000)
	ctx := context.Background()

	err := store.AppendBookingIfAvailable(ctx, "lst-1", 0, confirmedBooking(t, "b1", day(2024, 7, 1), day(2024, 7, 5)))
	require.NoError(t, err)

	t.Run("missing listing", func(t *testing.T) {
		err := store.AppendBookingIfAvailable(ctx, "missing", 0, confirmedBooking(t, "b2", day(2024, 7, 5), day(2024, 7, 8)))
		assert.ErrorIs(t, err, listing.ErrNotFound)
	})

	t.Run("overlap beats stale version", func(t *testing.T) {
		// Overlapping range on a stale version must be a date conflict,
		// not a retryable race: retrying would never help.
		err := store.AppendBookingIfAvailable(ctx, "lst-1", 0, confirmedBooking(t, "b3", day(2024, 7, 2), day(2024, 7, 6)))
		assert.ErrorIs(t, err, booking.ErrDateConflict)
	})

	t.Run("stale version", func(t *testing.T) {
		err := store.AppendBookingIfAvailable(ctx, "lst-1", 0, confirmedBooking(t, "b4", day(2024, 8, 1), day(2024, 8, 5)))
		assert.ErrorIs(t, err, booking.ErrWriteConflict)
	})

	t.Run("fresh version free range", func(t *testing.T) {
		err := store.AppendBookingIfAvailable(ctx, "lst-1", 1, confirmedBooking(t, "b5", day(2024, 7, 5), day(2024, 7, 8)))
		require.NoError(t, err)
		l, err := store.ByID(ctx, "lst-1")
		require.NoError(t, err)
		assert.Len(t, l.Bookings, 2)
		assert.Equal(t, int64(2), l.Version)
	})
}

func TestByIDReturnsIsolatedCopy(t *testing.T) {
	store := memory.NewListingStore()
	seed(t, store, "lst-1", "Lisbon", "Apartment", 2, 4, 10000)
	ctx := context.Background()

	before, err := store.ByID(ctx, "lst-1")
	require.NoError(t, err)

	require.NoError(t, store.AppendBookingIfAvailable(ctx, "lst-1", 0, confirmedBooking(t, "b1", day(2024, 7, 1), day(2024, 7, 5))))

	assert.Empty(t, before.Bookings, "earlier snapshot must not see later appends")
}

func TestSearchFiltersAndPaging(t *testing.T) {
	store := memory.NewListingStore()
	seed(t, store, "a", "Lisbon", "Apartment", 1, 2, 8000)
	seed(t, store, "b", "Lisbon", "House", 3, 6, 20000)
	seed(t, store, "c", "Porto", "Apartment", 2, 4, 12000)
	ctx := context.Background()

	t.Run("by market", func(t *testing.T) {
		res, err := store.Search(ctx, listing.SearchParams{Market: "lisbon"})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
	})

	t.Run("by property type and capacity", func(t *testing.T) {
		res, err := store.Search(ctx, listing.SearchParams{PropertyType: "Apartment", MinAccommodates: 3})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, listing.ListingID("c"), res.Items[0].ID)
	})

	t.Run("price ceiling", func(t *testing.T) {
		res, err := store.Search(ctx, listing.SearchParams{MaxNightlyCents: 10000})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, listing.ListingID("a"), res.Items[0].ID)
	})

	t.Run("paging keeps total", func(t *testing.T) {
		res, err := store.Search(ctx, listing.SearchParams{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 3, res.Total)

		rest, err := store.Search(ctx, listing.SearchParams{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, rest.Items, 1)
	})

	t.Run("sorted by price", func(t *testing.T) {
		res, err := store.Search(ctx, listing.SearchParams{})
		require.NoError(t, err)
		require.Len(t, res.Items, 3)
		assert.Equal(t, listing.ListingID("a"), res.Items[0].ID)
		assert.Equal(t, listing.ListingID("b"), res.Items[2].ID)
	})
}

func TestFacets(t *testing.T) {
	store := memory.NewListingStore()
	seed(t, store, "a", "Lisbon", "Apartment", 1, 2, 8000)
	seed(t, store, "b", "Lisbon", "House", 3, 6, 20000)
	seed(t, store, "c", "Porto", "Apartment", 2, 4, 12000)

	facets, err := store.Facets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Lisbon", "Porto"}, facets.Markets)
	assert.Equal(t, []string{"Apartment", "House"}, facets.PropertyTypes)
}
