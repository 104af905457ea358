package refundRepo

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

// MongoRefundRepo implements RefundRepository using MongoDB.
type MongoRefundRepo struct {
	refundColl *mongo.Collection
}

// NewMongoRefundRepo constructs a new instance of MongoRefundRepo.
func NewMongoRefundRepo() RefundRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoRefundRepo{
		refundColl: db.Collection("refund_requests"),
	}
}

// Create stores a new refund request ledger entry.
func (repo *MongoRefundRepo) Create(req *models.RefundRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := repo.refundColl.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to insert refund request: %w", err)
	}
	return nil
}

// GetByReservation fetches the refund request created for a reservation.
func (repo *MongoRefundRepo) GetByReservation(reservationID string) (*models.RefundRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var req models.RefundRequest
	filter := bson.M{"reservationId": reservationID}
	if err := repo.refundColl.FindOne(ctx, filter).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching refund request for reservation %s: %w", reservationID, err)
	}
	return &req, nil
}

// MarkProcessed records a successful gateway call.
func (repo *MongoRefundRepo) MarkProcessed(requestID, gatewayRef string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"id": requestID}
	update := bson.M{"$set": bson.M{
		"status":      models.RefundProcessed,
		"gatewayRef":  gatewayRef,
		"processedAt": now,
	}}
	out, err := repo.refundColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark refund request processed: %w", err)
	}
	if out.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkFailed records a gateway failure; the queue owns the retry.
func (repo *MongoRefundRepo) MarkFailed(requestID, reason string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": requestID}
	update := bson.M{"$set": bson.M{
		"status":        models.RefundFailed,
		"failureReason": reason,
	}}
	out, err := repo.refundColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark refund request failed: %w", err)
	}
	if out.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
