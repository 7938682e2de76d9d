package daterange

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("daterange: departure must be after arrival")

// DateRange represents a half-open stay interval [arrival, departure).
// A departure on the same day as another range's arrival is not an overlap,
// which allows back-to-back turnovers.
type DateRange struct {
	Arrival   time.Time
	Departure time.Time
}

func New(arrival, departure time.Time) (DateRange, error) {
	dr := DateRange{Arrival: arrival.UTC(), Departure: departure.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// NewDays builds a range truncated to UTC midnight boundaries. Booking dates
// are day-granular; truncating here keeps timezone drift from producing
// off-by-one conflicts at range edges.
func NewDays(arrival, departure time.Time) (DateRange, error) {
	return New(Day(arrival), Day(departure))
}

func (dr DateRange) Validate() error {
	if dr.Arrival.IsZero() || dr.Departure.IsZero() {
		return ErrInvalidRange
	}
	if !dr.Departure.After(dr.Arrival) {
		return ErrInvalidRange
	}
	return nil
}

// Nights counts whole nights, rounding partial days up.
func (dr DateRange) Nights() int {
	d := dr.Departure.Sub(dr.Arrival)
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}

// Overlaps reports whether two half-open ranges intersect:
// [a1,d1) and [a2,d2) overlap iff a1 < d2 && a2 < d1.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.Arrival.Before(other.Departure) && other.Arrival.Before(dr.Departure)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = t.UTC()
	return (t.Equal(dr.Arrival) || t.After(dr.Arrival)) && t.Before(dr.Departure)
}

// Day truncates a time to UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
