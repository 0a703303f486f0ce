package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContactRepository is the MongoDB implementation of
// ContactRepository.
type MongoContactRepository struct {
	collection *mongo.Collection
}

// NewMongoContactRepository creates a repository backed by the
// "contact_messages" collection.
func NewMongoContactRepository(db *mongo.Database) *MongoContactRepository {
	return &MongoContactRepository{
		collection: db.Collection("contact_messages"),
	}
}

// Create inserts a new contact message.
func (r *MongoContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Status == "" {
		msg.Status = models.ContactStatusNew
	}
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

// List returns messages newest first with pagination and an optional
// status filter.
func (r *MongoContactRepository) List(ctx context.Context, status string, page, pageSize int) ([]models.ContactMessage, int64, error) {
	if page < 1 {
		page = 1
	}
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count contact messages: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.ContactMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, 0, fmt.Errorf("failed to decode contact messages: %w", err)
	}
	return messages, total, nil
}

// UpdateStatus sets the status and lifecycle timestamps, returning the
// updated message.
func (r *MongoContactRepository) UpdateStatus(ctx context.Context, id, status string, readAt, respondedAt *time.Time) (*models.ContactMessage, error) {
	set := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	if readAt != nil {
		set["read_at"] = readAt
	}
	if respondedAt != nil {
		set["responded_at"] = respondedAt
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var msg models.ContactMessage
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to update contact message: %w", err)
	}
	return &msg, nil
}

// GetByID returns a contact message by its ID.
func (r *MongoContactRepository) GetByID(ctx context.Context, id string) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get contact message: %w", err)
	}
	return &msg, nil
}
