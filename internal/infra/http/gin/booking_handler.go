package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"lodgebook/internal/app/ledger"
	"lodgebook/internal/domain/client"
)

type BookingHandler struct {
	Ledger *ledger.Service
}

type clientInfoRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone"`
}

type createBookingRequest struct {
	ListingID           string            `json:"listing_id" binding:"required"`
	Client              clientInfoRequest `json:"client" binding:"required"`
	Arrival             string            `json:"arrival" binding:"required"`
	Departure           string            `json:"departure" binding:"required"`
	Guests              int               `json:"guests"`
	SpecialRequirements string            `json:"special_requirements"`
}

type bookingConfirmationResponse struct {
	BookingID      string `json:"booking_id"`
	ListingID      string `json:"listing_id"`
	ClientID       string `json:"client_id"`
	Arrival        string `json:"arrival"`
	Departure      string `json:"departure"`
	Nights         int    `json:"nights"`
	TotalCents     int64  `json:"total_cents"`
	DepositCents   int64  `json:"deposit_cents"`
	BalanceCents   int64  `json:"balance_cents"`
	Currency       string `json:"currency"`
	BalanceDueDate string `json:"balance_due_date"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
		return
	}
	arrival, err := parseDay(req.Arrival)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "arrival must be formatted YYYY-MM-DD"})
		return
	}
	departure, err := parseDay(req.Departure)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "departure must be formatted YYYY-MM-DD"})
		return
	}

	conf, err := h.Ledger.CreateBooking(c.Request.Context(), ledger.CreateBookingRequest{
		ListingID: req.ListingID,
		Client: client.Info{
			Name:  req.Client.Name,
			Email: req.Client.Email,
			Phone: req.Client.Phone,
		},
		Arrival:             arrival,
		Departure:           departure,
		Guests:              req.Guests,
		SpecialRequirements: req.SpecialRequirements,
	})
	if err != nil {
		rejectWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, newConfirmationResponse(conf))
}

func newConfirmationResponse(conf *ledger.Confirmation) bookingConfirmationResponse {
	return bookingConfirmationResponse{
		BookingID:      conf.BookingID,
		ListingID:      conf.ListingID,
		ClientID:       conf.ClientID,
		Arrival:        conf.Arrival.Format(dateLayout),
		Departure:      conf.Departure.Format(dateLayout),
		Nights:         conf.Nights,
		TotalCents:     conf.Total.Amount,
		DepositCents:   conf.Deposit.Amount,
		BalanceCents:   conf.Balance.Amount,
		Currency:       conf.Total.Currency,
		BalanceDueDate: conf.BalanceDueDate.Format(dateLayout),
	}
}

var _ BookingHTTP = BookingHandler{}
