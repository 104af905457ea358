package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	reservationRepo "roamly/database/repository/reservation"
	slotRepo "roamly/database/repository/slot"
	"roamly/models"
	"roamly/services/notification"
	"roamly/utils"
)

// ReservationService is the sole insertion point for new reservations. The
// whole check-then-commit sequence runs under the slot's accounting lock, so
// two concurrent attempts can never both observe the same free capacity.
type ReservationService struct {
	Slots        slotRepo.SlotRepository
	Reservations reservationRepo.ReservationRepository
	Locker       SlotLocker
	Clock        Clock
	Events       notification.EventEmitter
	// LockWait bounds how long Reserve waits for the slot lock; zero means
	// the caller's context is the only bound.
	LockWait time.Duration
}

// Reserve validates and commits a hold of tickets against the slot.
// Fails with a typed BookingError: notFound, slotExpired,
// insufficientCapacity (carrying the exact remaining count), or
// contentionTimeout. On failure no partial state is visible.
func (s *ReservationService) Reserve(ctx context.Context, slotID string, tickets int, holderID string) (*models.Reservation, error) {
	if tickets < 1 {
		return nil, errInvalidRequest("ticket count must be at least 1")
	}
	if holderID == "" {
		return nil, errInvalidRequest("holder id is required")
	}

	lockCtx := ctx
	if s.LockWait > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.LockWait)
		defer cancel()
	}
	release, err := s.Locker.Acquire(lockCtx, slotID)
	if err != nil {
		return nil, err
	}

	res, err := s.reserveLocked(ctx, slotID, tickets, holderID)
	release()
	if err != nil {
		return nil, err
	}

	// Downstream notification is best-effort; the reservation is already
	// committed.
	go s.emitCreated(res)

	return res, nil
}

func (s *ReservationService) reserveLocked(ctx context.Context, slotID string, tickets int, holderID string) (*models.Reservation, error) {
	slot, err := s.Slots.GetByID(slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrNotFound) {
			return nil, errSlotNotFound(slotID)
		}
		return nil, fmt.Errorf("slot lookup failed: %w", err)
	}

	now := s.Clock.Now()
	if !slot.StartDateTime.After(now) {
		return nil, errSlotExpired()
	}

	active, err := s.Reservations.SumActiveTickets(slotID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum active tickets: %w", err)
	}
	if active+tickets > slot.Capacity {
		return nil, errInsufficientCapacity(slot.Capacity - active)
	}

	res := &models.Reservation{
		ID:            uuid.New().String(),
		SlotID:        slotID,
		HolderID:      holderID,
		TicketCount:   tickets,
		AmountCharged: slot.Price * float64(tickets),
		Status:        models.ReservationConfirmed,
		CreatedAt:     now,
	}
	if err := s.Reservations.CreateWithSlotHold(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}
	return res, nil
}

func (s *ReservationService) emitCreated(res *models.Reservation) {
	logger := utils.GetLogger()
	payload := models.BookingEventPayload{
		ReservationID: res.ID,
		SlotID:        res.SlotID,
		HolderID:      res.HolderID,
		TicketCount:   res.TicketCount,
		Amount:        res.AmountCharged,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Events.Emit(ctx, models.EventBookingCreated, payload); err != nil {
		logger.Warn("failed to emit booking created event",
			zap.String("reservationID", res.ID), zap.Error(err))
	}
}
