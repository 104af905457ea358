package slotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roamly/config"
	"roamly/database"
	"roamly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSlotRepo implements SlotRepository using MongoDB.
type MongoSlotRepo struct {
	slotColl *mongo.Collection
}

// NewMongoSlotRepo constructs a new instance of MongoSlotRepo.
func NewMongoSlotRepo() SlotRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoSlotRepo{
		slotColl: db.Collection("slots"),
	}
}

// GetByID retrieves a slot document by ID.
func (repo *MongoSlotRepo) GetByID(slotID string) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var slot models.Slot
	filter := bson.M{"id": slotID}
	if err := repo.slotColl.FindOne(ctx, filter).Decode(&slot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching slot with id %s: %w", slotID, err)
	}
	return &slot, nil
}

// GetByIDs retrieves all slots matching the given IDs in one query. Missing
// IDs are simply absent from the result.
func (repo *MongoSlotRepo) GetByIDs(slotIDs []string) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bson.M{"$in": slotIDs}}
	cursor, err := repo.slotColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	for cursor.Next(ctx) {
		var s models.Slot
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("error decoding slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return slots, nil
}

// Insert stores a new slot document. Used by the product-management
// collaborator when publishing a product's schedule.
func (repo *MongoSlotRepo) Insert(slot *models.Slot) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := repo.slotColl.InsertOne(ctx, slot); err != nil {
		return fmt.Errorf("failed to insert slot: %w", err)
	}
	return nil
}

// RemoveReservationRef drops a reservation id from the slot's denormalized
// reference list. Removing an id that is not present is a no-op.
func (repo *MongoSlotRepo) RemoveReservationRef(slotID, reservationID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID}
	update := bson.M{"$pull": bson.M{"reservationIds": reservationID}}
	if _, err := repo.slotColl.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to remove reservation reference: %w", err)
	}
	return nil
}
