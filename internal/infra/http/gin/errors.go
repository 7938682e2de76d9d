package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"lodgebook/internal/domain/booking"
	"lodgebook/internal/domain/client"
	"lodgebook/internal/domain/listing"
	"lodgebook/internal/domain/shared/daterange"
)

const dateLayout = "2006-01-02"

// rejectWith maps the ledger error taxonomy onto HTTP responses, one
// distinct message per kind.
func rejectWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, daterange.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_date_range", "message": "departure must be after arrival"})
	case errors.Is(err, client.ErrEmailRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "email_required", "message": "client email is required"})
	case errors.Is(err, listing.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "listing_not_found", "message": "listing does not exist"})
	case errors.Is(err, client.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "client_not_found", "message": "client does not exist"})
	case errors.Is(err, booking.ErrCapacityExceeded):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "capacity_exceeded", "message": "guest count exceeds what the listing accommodates"})
	case errors.Is(err, booking.ErrDateConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "date_conflict", "message": "listing is not available for the selected dates"})
	case errors.Is(err, booking.ErrWriteConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "write_conflict", "message": "booking lost a concurrent update, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "unexpected failure"})
	}
}

func parseDay(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
