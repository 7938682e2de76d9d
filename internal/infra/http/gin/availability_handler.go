package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"lodgebook/internal/app/ledger"
)

type AvailabilityHandler struct {
	Ledger *ledger.Service
}

// Check answers the pre-submission availability probe. The answer is a
// snapshot; the booking endpoint revalidates under the conditional write.
func (h AvailabilityHandler) Check(c *gin.Context) {
	arrival, err := parseDay(c.Query("arrival"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "arrival must be formatted YYYY-MM-DD"})
		return
	}
	departure, err := parseDay(c.Query("departure"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "departure must be formatted YYYY-MM-DD"})
		return
	}

	available, err := h.Ledger.CheckAvailability(c.Request.Context(), c.Param("id"), arrival, departure)
	if err != nil {
		rejectWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"listing_id": c.Param("id"),
		"arrival":    arrival.Format(dateLayout),
		"departure":  departure.Format(dateLayout),
		"available":  available,
	})
}

var _ AvailabilityHTTP = AvailabilityHandler{}
