package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"lodgebook/internal/domain/booking"
	"lodgebook/internal/domain/listing"
)

// ListingStore is an in-memory listing.Store used in tests and local runs.
// The store mutex is held across the availability check and the append, so
// the conditional write is mutually exclusive per process.
type ListingStore struct {
	mu    sync.RWMutex
	items map[listing.ListingID]*listing.Listing
}

func NewListingStore() *ListingStore {
	return &ListingStore{items: make(map[listing.ListingID]*listing.Listing)}
}

// Put stores or replaces a listing. Test and fixture seeding only.
func (s *ListingStore) Put(ctx context.Context, l *listing.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[l.ID] = cloneListing(l)
	return nil
}

// ByID returns a deep copy so callers never observe concurrent appends.
func (s *ListingStore) ByID(ctx context.Context, id listing.ListingID) (*listing.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.items[id]
	if !ok {
		return nil, listing.ErrNotFound
	}
	return cloneListing(l), nil
}

// AppendBookingIfAvailable re-checks the overlap invariant and the expected
// version under the lock before appending.
func (s *ListingStore) AppendBookingIfAvailable(ctx context.Context, id listing.ListingID, version int64, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.items[id]
	if !ok {
		return listing.ErrNotFound
	}
	if !booking.IsAvailable(l.Bookings, b.Range) {
		return booking.ErrDateConflict
	}
	if l.Version != version {
		return booking.ErrWriteConflict
	}
	l.Bookings = append(l.Bookings, *b)
	l.Version++
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *ListingStore) Search(ctx context.Context, params listing.SearchParams) (listing.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*listing.Listing, 0, len(s.items))
	for _, l := range s.items {
		select {
		case <-ctx.Done():
			return listing.SearchResult{}, ctx.Err()
		default:
		}
		if opts.Market != "" && !strings.EqualFold(l.Market, opts.Market) {
			continue
		}
		if opts.Country != "" && !strings.EqualFold(l.Country, opts.Country) {
			continue
		}
		if opts.PropertyType != "" && !strings.EqualFold(l.PropertyType, opts.PropertyType) {
			continue
		}
		if opts.MinBedrooms > 0 && l.Bedrooms < opts.MinBedrooms {
			continue
		}
		if opts.MinAccommodates > 0 && l.Accommodates < opts.MinAccommodates {
			continue
		}
		if opts.MaxNightlyCents > 0 && l.NightlyRate.Amount > opts.MaxNightlyCents {
			continue
		}
		matches = append(matches, cloneListing(l))
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].NightlyRate.Amount == matches[j].NightlyRate.Amount {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].NightlyRate.Amount < matches[j].NightlyRate.Amount
	})

	total := len(matches)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return listing.SearchResult{Items: matches[start:end], Total: total}, nil
}

func (s *ListingStore) Facets(ctx context.Context) (listing.Facets, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	markets := make(map[string]struct{})
	types := make(map[string]struct{})
	for _, l := range s.items {
		if l.Market != "" {
			markets[l.Market] = struct{}{}
		}
		if l.PropertyType != "" {
			types[l.PropertyType] = struct{}{}
		}
	}
	return listing.Facets{
		Markets:       sortedKeys(markets),
		PropertyTypes: sortedKeys(types),
	}, nil
}

func cloneListing(l *listing.Listing) *listing.Listing {
	clone := *l
	clone.Bookings = append([]booking.Booking(nil), l.Bookings...)
	return &clone
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var _ listing.Store = (*ListingStore)(nil)
