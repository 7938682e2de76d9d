package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"lodgebook/internal/domain/client"
)

type ClientHandler struct {
	Clients client.Store
}

type bookingRefResponse struct {
	BookingID  string `json:"booking_id"`
	ListingID  string `json:"listing_id"`
	Arrival    string `json:"arrival"`
	Departure  string `json:"departure"`
	TotalCents int64  `json:"total_cents"`
	Currency   string `json:"currency"`
}

func (h ClientHandler) History(c *gin.Context) {
	cl, err := h.Clients.ByID(c.Request.Context(), client.ClientID(c.Param("id")))
	if err != nil {
		rejectWith(c, err)
		return
	}
	refs := make([]bookingRefResponse, 0, len(cl.History))
	for _, ref := range cl.History {
		refs = append(refs, bookingRefResponse{
			BookingID:  ref.BookingID,
			ListingID:  ref.ListingID,
			Arrival:    ref.Arrival.Format(dateLayout),
			Departure:  ref.Departure.Format(dateLayout),
			TotalCents: ref.Total.Amount,
			Currency:   ref.Total.Currency,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"client_id": string(cl.ID),
		"email":     cl.Email,
		"bookings":  refs,
	})
}

var _ ClientHTTP = ClientHandler{}
