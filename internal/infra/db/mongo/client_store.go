package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lodgebook/internal/domain/client"
	"lodgebook/internal/domain/shared/money"
)

// ClientStore upserts clients by email and appends booking references to
// their history array.
type ClientStore struct {
	col *mongo.Collection
}

func NewClientStore(db *mongo.Database) *ClientStore {
	col := db.Collection("clients")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &ClientStore{col: col}
}

func (s *ClientStore) ByID(ctx context.Context, id client.ClientID) (*client.Client, error) {
	var doc clientDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, client.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (s *ClientStore) Ensure(ctx context.Context, info client.Info) (*client.Client, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(info.Email))

	set := bson.M{}
	if name := strings.TrimSpace(info.Name); name != "" {
		set["name"] = name
	}
	if phone := strings.TrimSpace(info.Phone); phone != "" {
		set["phone"] = phone
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":        uuid.NewString(),
			"email":      email,
			"created_at": time.Now().UTC().UnixMilli(),
		},
	}
	if len(set) > 0 {
		update["$set"] = set
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc clientDocument
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (s *ClientStore) AppendHistory(ctx context.Context, id client.ClientID, ref client.BookingRef) error {
	push := bson.M{"$push": bson.M{"history": newBookingRefDocument(ref)}}
	res, err := s.col.UpdateByID(ctx, string(id), push)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return client.ErrNotFound
	}
	return nil
}

type clientDocument struct {
	ID        string               `bson:"_id"`
	Name      string               `bson:"name"`
	Email     string               `bson:"email"`
	Phone     string               `bson:"phone"`
	History   []bookingRefDocument `bson:"history"`
	CreatedAt int64                `bson:"created_at"`
}

type bookingRefDocument struct {
	BookingID  string `bson:"booking_id"`
	ListingID  string `bson:"listing_id"`
	Arrival    int64  `bson:"arrival"`
	Departure  int64  `bson:"departure"`
	TotalCents int64  `bson:"total_cents"`
	Currency   string `bson:"currency"`
}

func newBookingRefDocument(ref client.BookingRef) bookingRefDocument {
	return bookingRefDocument{
		BookingID:  ref.BookingID,
		ListingID:  ref.ListingID,
		Arrival:    ref.Arrival.UnixMilli(),
		Departure:  ref.Departure.UnixMilli(),
		TotalCents: ref.Total.Amount,
		Currency:   ref.Total.Currency,
	}
}

func (d clientDocument) toDomain() *client.Client {
	history := make([]client.BookingRef, 0, len(d.History))
	for _, ref := range d.History {
		history = append(history, client.BookingRef{
			BookingID: ref.BookingID,
			ListingID: ref.ListingID,
			Arrival:   millisToTime(ref.Arrival),
			Departure: millisToTime(ref.Departure),
			Total:     money.Money{Amount: ref.TotalCents, Currency: ref.Currency},
		})
	}
	return &client.Client{
		ID:        client.ClientID(d.ID),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		History:   history,
		CreatedAt: millisToTime(d.CreatedAt),
	}
}

var _ client.Store = (*ClientStore)(nil)
