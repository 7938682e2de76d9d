package booking

import (
	"time"

	"lodgebook/internal/domain/shared/money"
)

type BookingConfirmed struct {
	BookingID BookingID   `json:"booking_id"`
	ListingID string      `json:"listing_id"`
	ClientID  string      `json:"client_id"`
	Arrival   time.Time   `json:"arrival"`
	Departure time.Time   `json:"departure"`
	Guests    int         `json:"guests"`
	Total     money.Money `json:"total"`
	At        time.Time   `json:"at"`
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return e.ListingID }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }
