package listing

import "strings"

const (
	defaultSearchLimit = 24
	maxSearchLimit     = 60
)

// SearchParams describe the catalog filters offered by the search form:
// market, property type, sleeping capacity, bedrooms and a price ceiling.
type SearchParams struct {
	Market          string
	Country         string
	PropertyType    string
	MinBedrooms     int
	MinAccommodates int
	MaxNightlyCents int64
	Limit           int
	Offset          int
}

// Normalized returns a sanitized copy of params.
func (p SearchParams) Normalized() SearchParams {
	normalized := p
	normalized.Market = strings.TrimSpace(strings.ToLower(normalized.Market))
	normalized.Country = strings.TrimSpace(strings.ToLower(normalized.Country))
	normalized.PropertyType = strings.TrimSpace(strings.ToLower(normalized.PropertyType))
	if normalized.MinBedrooms < 0 {
		normalized.MinBedrooms = 0
	}
	if normalized.MinAccommodates < 0 {
		normalized.MinAccommodates = 0
	}
	if normalized.MaxNightlyCents < 0 {
		normalized.MaxNightlyCents = 0
	}
	if normalized.Limit <= 0 {
		normalized.Limit = defaultSearchLimit
	}
	if normalized.Limit > maxSearchLimit {
		normalized.Limit = maxSearchLimit
	}
	if normalized.Offset < 0 {
		normalized.Offset = 0
	}
	return normalized
}

// SearchResult wraps search hits with the unpaged total.
type SearchResult struct {
	Items []*Listing
	Total int
}

// Facets hold the distinct values used to populate search dropdowns.
type Facets struct {
	Markets       []string
	PropertyTypes []string
}
