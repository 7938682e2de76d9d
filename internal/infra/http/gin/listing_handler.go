package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"lodgebook/internal/domain/listing"
)

type ListingHandler struct {
	Listings listing.Store
}

type listingResponse struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	Market           string `json:"market"`
	Country          string `json:"country"`
	PropertyType     string `json:"property_type"`
	Bedrooms         int    `json:"bedrooms"`
	Accommodates     int    `json:"accommodates"`
	NightlyRateCents int64  `json:"nightly_rate_cents"`
	CleaningFeeCents int64  `json:"cleaning_fee_cents"`
	Currency         string `json:"currency"`
	BookingCount     int    `json:"booking_count"`
}

func (h ListingHandler) Catalog(c *gin.Context) {
	params := listing.SearchParams{
		Market:          c.Query("market"),
		Country:         c.Query("country"),
		PropertyType:    c.Query("property_type"),
		MinBedrooms:     queryInt(c, "min_bedrooms"),
		MinAccommodates: queryInt(c, "guests"),
		MaxNightlyCents: int64(queryInt(c, "max_nightly_cents")),
		Limit:           queryInt(c, "limit"),
		Offset:          queryInt(c, "offset"),
	}
	result, err := h.Listings.Search(c.Request.Context(), params)
	if err != nil {
		rejectWith(c, err)
		return
	}
	items := make([]listingResponse, 0, len(result.Items))
	for _, l := range result.Items {
		items = append(items, newListingResponse(l))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": result.Total})
}

func (h ListingHandler) Facets(c *gin.Context) {
	facets, err := h.Listings.Facets(c.Request.Context())
	if err != nil {
		rejectWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"markets":        facets.Markets,
		"property_types": facets.PropertyTypes,
	})
}

func (h ListingHandler) Detail(c *gin.Context) {
	l, err := h.Listings.ByID(c.Request.Context(), listing.ListingID(c.Param("id")))
	if err != nil {
		rejectWith(c, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponse(l))
}

func newListingResponse(l *listing.Listing) listingResponse {
	return listingResponse{
		ID:               string(l.ID),
		Title:            l.Title,
		Description:      l.Description,
		Market:           l.Market,
		Country:          l.Country,
		PropertyType:     l.PropertyType,
		Bedrooms:         l.Bedrooms,
		Accommodates:     l.Accommodates,
		NightlyRateCents: l.NightlyRate.Amount,
		CleaningFeeCents: l.CleaningFee.Amount,
		Currency:         l.NightlyRate.Currency,
		BookingCount:     len(l.Bookings),
	}
}

func queryInt(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

var _ ListingHTTP = ListingHandler{}
