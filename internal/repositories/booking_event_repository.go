package repositories

import (
	"context"
	"time"

	"github.com/anonto42/neighborly/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookingEventRepository stores the lifecycle history of bookings
type BookingEventRepository interface {
	RecordEvent(ctx context.Context, event *models.BookingEvent) error
	GetEventsByBookingID(ctx context.Context, bookingID string) ([]models.BookingEvent, error)
}

// MongoBookingEventRepository implements BookingEventRepository for MongoDB
type MongoBookingEventRepository struct {
	collection *mongo.Collection
}

// NewMongoBookingEventRepository creates a new MongoBookingEventRepository
func NewMongoBookingEventRepository(db *mongo.Database) *MongoBookingEventRepository {
	return &MongoBookingEventRepository{collection: db.Collection("booking_events")}
}

// EnsureIndexes creates the lookup index used by GetEventsByBookingID
func (r *MongoBookingEventRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "occurred_at", Value: 1}},
	})
	return err
}

func (r *MongoBookingEventRepository) RecordEvent(ctx context.Context, event *models.BookingEvent) error {
	event.ID = primitive.NewObjectID()
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// GetEventsByBookingID returns a booking's history, oldest first
func (r *MongoBookingEventRepository) GetEventsByBookingID(ctx context.Context, bookingID string) ([]models.BookingEvent, error) {
	events := []models.BookingEvent{}
	findOptions := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"booking_id": bookingID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
