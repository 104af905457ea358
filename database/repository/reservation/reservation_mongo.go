package reservationRepo

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

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	reservationColl *mongo.Collection
	slotColl        *mongo.Collection
}

// NewMongoReservationRepo constructs a new instance of MongoReservationRepo.
func NewMongoReservationRepo() ReservationRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoReservationRepo{
		reservationColl: db.Collection("reservations"),
		slotColl:        db.Collection("slots"),
	}
}

var activeStatuses = bson.A{models.ReservationPending, models.ReservationConfirmed}

// GetByID retrieves a reservation document by ID.
func (repo *MongoReservationRepo) GetByID(reservationID string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var res models.Reservation
	filter := bson.M{"id": reservationID}
	if err := repo.reservationColl.FindOne(ctx, filter).Decode(&res); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching reservation with id %s: %w", reservationID, err)
	}
	return &res, nil
}

// ActiveBySlot returns all reservations currently holding capacity on the slot.
func (repo *MongoReservationRepo) ActiveBySlot(slotID string) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"slotId": slotID,
		"status": bson.M{"$in": activeStatuses},
	}
	cursor, err := repo.reservationColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding active reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	for cursor.Next(ctx) {
		var r models.Reservation
		if err := cursor.Decode(&r); err != nil {
			return nil, fmt.Errorf("error decoding reservation: %w", err)
		}
		reservations = append(reservations, r)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return reservations, nil
}

// SumActiveTickets aggregates the total ticket count of active reservations
// on a slot.
func (repo *MongoReservationRepo) SumActiveTickets(slotID string) (int, error) {
	sums, err := repo.SumActiveTicketsBySlots([]string{slotID})
	if err != nil {
		return 0, err
	}
	return sums[slotID], nil
}

// SumActiveTicketsBySlots aggregates active ticket counts for many slots in
// one pass. Slots without active reservations map to zero.
func (repo *MongoReservationRepo) SumActiveTicketsBySlots(slotIDs []string) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"slotId": bson.M{"$in": slotIDs},
			"status": bson.M{"$in": activeStatuses},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$slotId",
			"total": bson.M{"$sum": "$ticketCount"},
		}}},
	}

	cursor, err := repo.reservationColl.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating active tickets: %w", err)
	}
	defer cursor.Close(ctx)

	sums := make(map[string]int, len(slotIDs))
	for _, id := range slotIDs {
		sums[id] = 0
	}
	for cursor.Next(ctx) {
		var row struct {
			SlotID string `bson:"_id"`
			Total  int    `bson:"total"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("error decoding aggregate row: %w", err)
		}
		sums[row.SlotID] = row.Total
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return sums, nil
}

// CreateWithSlotHold inserts the reservation and appends its id to the slot's
// denormalized reference list in one multi-document transaction, so a crash
// cannot leave one without the other.
func (repo *MongoReservationRepo) CreateWithSlotHold(ctx context.Context, res *models.Reservation) error {
	client := repo.reservationColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := repo.reservationColl.InsertOne(sc, res); err != nil {
			return fmt.Errorf("insert reservation failed: %w", err)
		}

		filter := bson.M{"id": res.SlotID}
		update := bson.M{"$addToSet": bson.M{"reservationIds": res.ID}}
		out, err := repo.slotColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("embed reservation reference failed: %w", err)
		}
		if out.MatchedCount == 0 {
			return fmt.Errorf("slot %s not found while embedding reservation reference", res.SlotID)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("reservation transaction failed: %w", err)
	}

	return nil
}

// MarkCancelled stamps the cancellation sub-record and flips the status to
// Cancelled. Fails with ErrNotFound when the reservation does not exist.
func (repo *MongoReservationRepo) MarkCancelled(reservationID string, c models.Cancellation) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": reservationID}
	update := bson.M{"$set": bson.M{
		"status":       models.ReservationCancelled,
		"cancellation": c,
	}}
	out, err := repo.reservationColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark reservation cancelled: %w", err)
	}
	if out.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
