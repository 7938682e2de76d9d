package booking

import "lodgebook/internal/domain/shared/daterange"

// IsAvailable reports whether the proposed range can be reserved given the
// listing's existing bookings. Only confirmed bookings block; cancelled
// entries are ignored. Pure over its inputs: callers must validate the
// proposed range first.
func IsAvailable(existing []Booking, proposed daterange.DateRange) bool {
	for _, b := range existing {
		if b.Status != StatusConfirmed {
			continue
		}
		if b.Range.Overlaps(proposed) {
			return false
		}
	}
	return true
}
