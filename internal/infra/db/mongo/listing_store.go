package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lodgebook/internal/domain/booking"
	"lodgebook/internal/domain/listing"
	"lodgebook/internal/domain/shared/daterange"
	"lodgebook/internal/domain/shared/money"
)

// ListingStore persists listings with their embedded bookings in a single
// document each. The append is a single conditional UpdateOne so the
// overlap check and the push cannot interleave with another writer.
type ListingStore struct {
	col *mongo.Collection
}

func NewListingStore(db *mongo.Database) *ListingStore {
	col := db.Collection("listings")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "market", Value: 1}, {Key: "property_type", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &ListingStore{col: col}
}

func (s *ListingStore) ByID(ctx context.Context, id listing.ListingID) (*listing.Listing, error) {
	var doc listingDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, listing.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// AppendBookingIfAvailable pushes the booking only if the document still has
// the expected version and no confirmed booking overlaps the new range.
// MatchedCount == 0 is disambiguated with a follow-up read: missing listing,
// overlap, or a plain version race.
func (s *ListingStore) AppendBookingIfAvailable(ctx context.Context, id listing.ListingID, version int64, b *booking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{
		"_id":     string(id),
		"version": version,
		"bookings": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"status":    string(booking.StatusConfirmed),
			"arrival":   bson.M{"$lt": doc.Departure},
			"departure": bson.M{"$gt": doc.Arrival},
		}}},
	}
	update := bson.M{
		"$push": bson.M{"bookings": doc},
		"$inc":  bson.M{"version": 1},
		"$set":  bson.M{"updated_at": time.Now().UTC().UnixMilli()},
	}
	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("append booking: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	var current listingDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&current); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return listing.ErrNotFound
		}
		return fmt.Errorf("append booking recheck: %w", err)
	}
	if !booking.IsAvailable(current.toDomain().Bookings, b.Range) {
		return booking.ErrDateConflict
	}
	return booking.ErrWriteConflict
}

func (s *ListingStore) Search(ctx context.Context, params listing.SearchParams) (listing.SearchResult, error) {
	opts := params.Normalized()
	filter := bson.M{}
	if opts.Market != "" {
		filter["market"] = exactFold(opts.Market)
	}
	if opts.Country != "" {
		filter["country"] = exactFold(opts.Country)
	}
	if opts.PropertyType != "" {
		filter["property_type"] = exactFold(opts.PropertyType)
	}
	if opts.MinBedrooms > 0 {
		filter["bedrooms"] = bson.M{"$gte": opts.MinBedrooms}
	}
	if opts.MinAccommodates > 0 {
		filter["accommodates"] = bson.M{"$gte": opts.MinAccommodates}
	}
	if opts.MaxNightlyCents > 0 {
		filter["nightly_rate_cents"] = bson.M{"$lte": opts.MaxNightlyCents}
	}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return listing.SearchResult{}, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "nightly_rate_cents", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit))
	cur, err := s.col.Find(ctx, filter, findOpts)
	if err != nil {
		return listing.SearchResult{}, err
	}
	defer cur.Close(ctx)

	items := make([]*listing.Listing, 0, opts.Limit)
	for cur.Next(ctx) {
		var doc listingDocument
		if err := cur.Decode(&doc); err != nil {
			return listing.SearchResult{}, err
		}
		items = append(items, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return listing.SearchResult{}, err
	}
	return listing.SearchResult{Items: items, Total: int(total)}, nil
}

func (s *ListingStore) Facets(ctx context.Context) (listing.Facets, error) {
	markets, err := s.distinctStrings(ctx, "market")
	if err != nil {
		return listing.Facets{}, err
	}
	types, err := s.distinctStrings(ctx, "property_type")
	if err != nil {
		return listing.Facets{}, err
	}
	return listing.Facets{Markets: markets, PropertyTypes: types}, nil
}

// Put inserts or replaces a listing document. Used by fixture loading.
func (s *ListingStore) Put(ctx context.Context, l *listing.Listing) error {
	doc := newListingDocument(l)
	opts := options.Replace().SetUpsert(true)
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (s *ListingStore) distinctStrings(ctx context.Context, field string) ([]string, error) {
	values, err := s.col.Distinct(ctx, field, bson.M{field: bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

func exactFold(value string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value) + "$", Options: "i"}
}

type listingDocument struct {
	ID               string            `bson:"_id"`
	Title            string            `bson:"title"`
	Description      string            `bson:"description"`
	Market           string            `bson:"market"`
	Country          string            `bson:"country"`
	PropertyType     string            `bson:"property_type"`
	Bedrooms         int               `bson:"bedrooms"`
	Accommodates     int               `bson:"accommodates"`
	NightlyRateCents int64             `bson:"nightly_rate_cents"`
	CleaningFeeCents int64             `bson:"cleaning_fee_cents"`
	Currency         string            `bson:"currency"`
	Bookings         []bookingDocument `bson:"bookings"`
	Version          int64             `bson:"version"`
	CreatedAt        int64             `bson:"created_at"`
	UpdatedAt        int64             `bson:"updated_at"`
}

type bookingDocument struct {
	BookingID           string `bson:"booking_id"`
	ClientID            string `bson:"client_id"`
	Arrival             int64  `bson:"arrival"`
	Departure           int64  `bson:"departure"`
	Guests              int    `bson:"guests"`
	TotalCents          int64  `bson:"total_cents"`
	DepositCents        int64  `bson:"deposit_cents"`
	BalanceCents        int64  `bson:"balance_cents"`
	BalanceDueDate      int64  `bson:"balance_due_date"`
	Currency            string `bson:"currency"`
	Status              string `bson:"status"`
	SpecialRequirements string `bson:"special_requirements"`
	CreatedAt           int64  `bson:"created_at"`
}

func newListingDocument(l *listing.Listing) listingDocument {
	bookings := make([]bookingDocument, 0, len(l.Bookings))
	for i := range l.Bookings {
		bookings = append(bookings, newBookingDocument(&l.Bookings[i]))
	}
	return listingDocument{
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
		Bookings:         bookings,
		Version:          l.Version,
		CreatedAt:        l.CreatedAt.UnixMilli(),
		UpdatedAt:        l.UpdatedAt.UnixMilli(),
	}
}

func newBookingDocument(b *booking.Booking) bookingDocument {
	return bookingDocument{
		BookingID:           string(b.ID),
		ClientID:            b.ClientID,
		Arrival:             b.Range.Arrival.UnixMilli(),
		Departure:           b.Range.Departure.UnixMilli(),
		Guests:              b.Guests,
		TotalCents:          b.Total.Amount,
		DepositCents:        b.Deposit.Amount,
		BalanceCents:        b.Balance.Amount,
		BalanceDueDate:      b.BalanceDueDate.UnixMilli(),
		Currency:            b.Total.Currency,
		Status:              string(b.Status),
		SpecialRequirements: b.SpecialRequirements,
		CreatedAt:           b.CreatedAt.UnixMilli(),
	}
}

func (d listingDocument) toDomain() *listing.Listing {
	bookings := make([]booking.Booking, 0, len(d.Bookings))
	for _, bd := range d.Bookings {
		bookings = append(bookings, bd.toDomain(d.ID))
	}
	return &listing.Listing{
		ID:           listing.ListingID(d.ID),
		Title:        d.Title,
		Description:  d.Description,
		Market:       d.Market,
		Country:      d.Country,
		PropertyType: d.PropertyType,
		Bedrooms:     d.Bedrooms,
		Accommodates: d.Accommodates,
		NightlyRate:  money.Money{Amount: d.NightlyRateCents, Currency: d.Currency},
		CleaningFee:  money.Money{Amount: d.CleaningFeeCents, Currency: d.Currency},
		Bookings:     bookings,
		Version:      d.Version,
		CreatedAt:    millisToTime(d.CreatedAt),
		UpdatedAt:    millisToTime(d.UpdatedAt),
	}
}

func (d bookingDocument) toDomain(listingID string) booking.Booking {
	return booking.Booking{
		ID:        booking.BookingID(d.BookingID),
		ListingID: listingID,
		ClientID:  d.ClientID,
		Range: daterange.DateRange{
			Arrival:   millisToTime(d.Arrival),
			Departure: millisToTime(d.Departure),
		},
		Guests:              d.Guests,
		Total:               money.Money{Amount: d.TotalCents, Currency: d.Currency},
		Deposit:             money.Money{Amount: d.DepositCents, Currency: d.Currency},
		Balance:             money.Money{Amount: d.BalanceCents, Currency: d.Currency},
		BalanceDueDate:      millisToTime(d.BalanceDueDate),
		Status:              booking.Status(d.Status),
		SpecialRequirements: d.SpecialRequirements,
		CreatedAt:           millisToTime(d.CreatedAt),
	}
}

func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ listing.Store = (*ListingStore)(nil)
