package client

import (
	"context"
	"errors"
	"strings"
	"time"

	"lodgebook/internal/domain/shared/money"
)

var (
	ErrNotFound      = errors.New("client: not found")
	ErrEmailRequired = errors.New("client: email is required")
)

type ClientID string

// Info is the contact data a caller supplies with a booking request.
// Clients are keyed by email: booking twice with the same address extends
// the same history.
type Info struct {
	Name  string
	Email string
	Phone string
}

func (i Info) Validate() error {
	if strings.TrimSpace(i.Email) == "" {
		return ErrEmailRequired
	}
	return nil
}

// BookingRef is the denormalized history entry appended alongside each
// confirmed booking.
type BookingRef struct {
	BookingID string
	ListingID string
	Arrival   time.Time
	Departure time.Time
	Total     money.Money
}

type Client struct {
	ID        ClientID
	Name      string
	Email     string
	Phone     string
	History   []BookingRef
	CreatedAt time.Time
}

// Store persists clients and their booking history. Ensure is an upsert by
// email; AppendHistory adds a reference to an already-written booking.
type Store interface {
	ByID(ctx context.Context, id ClientID) (*Client, error)
	Ensure(ctx context.Context, info Info) (*Client, error)
	AppendHistory(ctx context.Context, id ClientID, ref BookingRef) error
}
