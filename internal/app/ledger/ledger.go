// Package ledger implements the booking ledger: the check-then-append flow
// that turns a booking request into a confirmed booking without ever letting
// two confirmed bookings overlap on one listing.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lodgebook/internal/app/outbox"
	"lodgebook/internal/domain/booking"
	"lodgebook/internal/domain/client"
	"lodgebook/internal/domain/listing"
	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/money"
)

const defaultAppendRetries = 3

// Service coordinates the listing store, client store and outbox. All
// validation happens before any write; the conditional append is the
// linearization point for the no-overlap invariant.
type Service struct {
	Listings listing.Store
	Clients  client.Store
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Policy   booking.QuotePolicy
	// AppendRetries bounds how often a lost optimistic-concurrency race is
	// retried before the request is rejected.
	AppendRetries int
	Logger        *slog.Logger
	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
	// NewID is overridable in tests; defaults to uuid.NewString.
	NewID func() string
}

type CreateBookingRequest struct {
	ListingID           string
	Client              client.Info
	Arrival             time.Time
	Departure           time.Time
	Guests              int
	SpecialRequirements string
}

// Confirmation echoes the created booking and its financial terms.
type Confirmation struct {
	BookingID      string
	ListingID      string
	ClientID       string
	Arrival        time.Time
	Departure      time.Time
	Nights         int
	Total          money.Money
	Deposit        money.Money
	Balance        money.Money
	BalanceDueDate time.Time
}

// CreateBooking validates the request, quotes the stay and appends the
// booking with a conditional write. Races detected by the store are retried
// a bounded number of times; exhaustion is reported as a date conflict since
// an unresolved race means the dates cannot be promised.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Confirmation, error) {
	dr, err := daterange.NewDays(req.Arrival, req.Departure)
	if err != nil {
		return nil, err
	}
	if err := req.Client.Validate(); err != nil {
		return nil, err
	}

	l, err := s.Listings.ByID(ctx, listing.ListingID(req.ListingID))
	if err != nil {
		return nil, storeErr(err)
	}
	if !l.Fits(req.Guests) {
		return nil, booking.ErrCapacityExceeded
	}
	if !booking.IsAvailable(l.Bookings, dr) {
		return nil, booking.ErrDateConflict
	}

	terms, err := s.policy().Quote(l.NightlyRate, dr)
	if err != nil {
		return nil, err
	}

	cl, err := s.Clients.Ensure(ctx, req.Client)
	if err != nil {
		return nil, storeErr(err)
	}

	b, err := booking.NewConfirmed(booking.CreateParams{
		ID:                  booking.BookingID(s.newID()),
		ListingID:           string(l.ID),
		ClientID:            string(cl.ID),
		Range:               dr,
		Guests:              req.Guests,
		Terms:               terms,
		SpecialRequirements: req.SpecialRequirements,
		Now:                 s.now(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.appendWithRetry(ctx, l, dr, b); err != nil {
		return nil, err
	}

	ref := client.BookingRef{
		BookingID: string(b.ID),
		ListingID: string(l.ID),
		Arrival:   dr.Arrival,
		Departure: dr.Departure,
		Total:     terms.Total,
	}
	if err := s.Clients.AppendHistory(ctx, cl.ID, ref); err != nil {
		// The booking append already succeeded and is authoritative; the
		// history entry can be rebuilt from listing data.
		s.logger().Error("client history append failed", "client_id", cl.ID, "booking_id", b.ID, "error", err)
	}

	evs := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, s.Outbox, s.Encoder, evs); err != nil {
		s.logger().Error("outbox record failed", "booking_id", b.ID, "error", err)
	}

	return &Confirmation{
		BookingID:      string(b.ID),
		ListingID:      string(l.ID),
		ClientID:       string(cl.ID),
		Arrival:        dr.Arrival,
		Departure:      dr.Departure,
		Nights:         terms.Nights,
		Total:          terms.Total,
		Deposit:        terms.Deposit,
		Balance:        terms.Balance,
		BalanceDueDate: terms.BalanceDueDate,
	}, nil
}

// appendWithRetry performs the conditional append, refreshing the listing
// and re-checking availability after every lost version race.
func (s *Service) appendWithRetry(ctx context.Context, l *listing.Listing, dr daterange.DateRange, b *booking.Booking) error {
	for attempt := 0; attempt < s.retries(); attempt++ {
		err := s.Listings.AppendBookingIfAvailable(ctx, l.ID, l.Version, b)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, booking.ErrDateConflict), errors.Is(err, listing.ErrNotFound):
			return err
		case errors.Is(err, booking.ErrWriteConflict):
			s.logger().Warn("booking append lost a version race, retrying", "listing_id", l.ID, "attempt", attempt+1)
			fresh, ferr := s.Listings.ByID(ctx, l.ID)
			if ferr != nil {
				return storeErr(ferr)
			}
			if !booking.IsAvailable(fresh.Bookings, dr) {
				return booking.ErrDateConflict
			}
			l = fresh
		default:
			return storeErr(err)
		}
	}
	// Conservative: a range we could not append race-free is treated as
	// unavailable rather than surfacing a transient failure.
	return booking.ErrDateConflict
}

// CheckAvailability reports whether the range is currently free on the
// listing. A positive answer is only a snapshot; CreateBooking re-verifies
// under the conditional write.
func (s *Service) CheckAvailability(ctx context.Context, listingID string, arrival, departure time.Time) (bool, error) {
	dr, err := daterange.NewDays(arrival, departure)
	if err != nil {
		return false, err
	}
	l, err := s.Listings.ByID(ctx, listing.ListingID(listingID))
	if err != nil {
		return false, storeErr(err)
	}
	return booking.IsAvailable(l.Bookings, dr), nil
}

func (s *Service) policy() booking.QuotePolicy {
	if s.Policy == (booking.QuotePolicy{}) {
		return booking.DefaultQuotePolicy()
	}
	return s.Policy
}

func (s *Service) retries() int {
	if s.AppendRetries <= 0 {
		return defaultAppendRetries
	}
	return s.AppendRetries
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// storeErr passes through the domain taxonomy and tags everything else as a
// persistence failure.
func storeErr(err error) error {
	switch {
	case errors.Is(err, listing.ErrNotFound),
		errors.Is(err, client.ErrNotFound),
		errors.Is(err, booking.ErrDateConflict),
		errors.Is(err, booking.ErrWriteConflict):
		return err
	default:
		return fmt.Errorf("%w: %w", booking.ErrPersistence, err)
	}
}
