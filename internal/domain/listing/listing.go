package listing

import (
	"context"
	"errors"
	"strings"
	"time"

	"lodgebook/internal/domain/booking"
	"lodgebook/internal/domain/shared/money"
)

var (
	ErrNotFound      = errors.New("listing: not found")
	ErrTitleRequired = errors.New("listing: title is required")
	ErrNightlyRate   = errors.New("listing: nightly rate must be non-negative")
	ErrAccommodates  = errors.New("listing: accommodates must be at least 1")
)

type ListingID string

// Listing is a bookable property. Bookings are embedded in arrival order;
// the service only ever reads the document and appends to Bookings, guarded
// by Version for optimistic concurrency.
type Listing struct {
	ID           ListingID
	Title        string
	Description  string
	Market       string
	Country      string
	PropertyType string
	Bedrooms     int
	Accommodates int
	NightlyRate  money.Money
	CleaningFee  money.Money
	Bookings     []booking.Booking
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store is the listing persistence contract consumed by the ledger.
// AppendBookingIfAvailable is the single conditional write that enforces
// the no-overlap invariant: the booking lands only if the listing still has
// the expected version and no confirmed booking overlapping the new range.
type Store interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
	Facets(ctx context.Context) (Facets, error)
	AppendBookingIfAvailable(ctx context.Context, id ListingID, version int64, b *booking.Booking) error
}

type CreateParams struct {
	ID           ListingID
	Title        string
	Description  string
	Market       string
	Country      string
	PropertyType string
	Bedrooms     int
	Accommodates int
	NightlyRate  money.Money
	CleaningFee  money.Money
	Now          time.Time
}

func New(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("listing: id is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if params.Accommodates < 1 {
		return nil, ErrAccommodates
	}
	if params.NightlyRate.Amount < 0 {
		return nil, ErrNightlyRate
	}
	now := params.Now.UTC()
	return &Listing{
		ID:           params.ID,
		Title:        strings.TrimSpace(params.Title),
		Description:  strings.TrimSpace(params.Description),
		Market:       strings.TrimSpace(params.Market),
		Country:      strings.TrimSpace(params.Country),
		PropertyType: strings.TrimSpace(params.PropertyType),
		Bedrooms:     params.Bedrooms,
		Accommodates: params.Accommodates,
		NightlyRate:  params.NightlyRate,
		CleaningFee:  params.CleaningFee,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Fits reports whether a party of the given size can stay. Accommodates 0
// means the listing never declared a limit, so only the lower bound applies.
func (l *Listing) Fits(guests int) bool {
	if guests < 1 {
		return false
	}
	if l.Accommodates > 0 && guests > l.Accommodates {
		return false
	}
	return true
}
