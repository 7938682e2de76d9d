package booking

import (
	"errors"
	"strings"
	"time"

	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/events"
	"lodgebook/internal/domain/shared/money"
)

var (
	ErrCapacityExceeded = errors.New("booking: guest count outside listing capacity")
	ErrDateConflict     = errors.New("booking: dates conflict with an existing booking")
	ErrWriteConflict    = errors.New("booking: listing changed concurrently")
	ErrPersistence      = errors.New("booking: persistence failure")
)

type BookingID string

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking is a confirmed reservation embedded in a listing document.
// Immutable once created; only a future status transition to cancelled
// would touch it, and nothing in this service cancels.
type Booking struct {
	ID                  BookingID
	ListingID           string
	ClientID            string
	Range               daterange.DateRange
	Guests              int
	Total               money.Money
	Deposit             money.Money
	Balance             money.Money
	BalanceDueDate      time.Time
	Status              Status
	SpecialRequirements string
	CreatedAt           time.Time
	events.EventRecorder
}

type CreateParams struct {
	ID                  BookingID
	ListingID           string
	ClientID            string
	Range               daterange.DateRange
	Guests              int
	Terms               Terms
	SpecialRequirements string
	Now                 time.Time
}

// NewConfirmed builds a confirmed booking and records its confirmation
// event. Range and capacity must already be validated by the ledger.
func NewConfirmed(params CreateParams) (*Booking, error) {
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Guests < 1 {
		return nil, ErrCapacityExceeded
	}
	if strings.TrimSpace(params.ClientID) == "" {
		return nil, errors.New("booking: client id required")
	}
	now := params.Now.UTC()
	b := &Booking{
		ID:                  params.ID,
		ListingID:           params.ListingID,
		ClientID:            params.ClientID,
		Range:               params.Range,
		Guests:              params.Guests,
		Total:               params.Terms.Total,
		Deposit:             params.Terms.Deposit,
		Balance:             params.Terms.Balance,
		BalanceDueDate:      params.Terms.BalanceDueDate,
		Status:              StatusConfirmed,
		SpecialRequirements: strings.TrimSpace(params.SpecialRequirements),
		CreatedAt:           now,
	}
	b.Record(BookingConfirmed{
		BookingID: b.ID,
		ListingID: b.ListingID,
		ClientID:  b.ClientID,
		Arrival:   b.Range.Arrival,
		Departure: b.Range.Departure,
		Guests:    b.Guests,
		Total:     b.Total,
		At:        now,
	})
	return b, nil
}
