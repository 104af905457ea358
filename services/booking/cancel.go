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

// RefundDispatcher hands a refund request to the downstream payments
// collaborator. Best-effort: a dispatch failure never rolls back the
// cancellation that produced it.
type RefundDispatcher interface {
	Dispatch(ctx context.Context, req models.RefundRequest) error
}

// CancelResult is returned to the caller after a successful cancellation.
type CancelResult struct {
	Reservation models.Reservation       `json:"reservation"`
	Refund      models.RefundComputation `json:"refund"`
}

// CancellationOrchestrator drives the Pending|Confirmed -> Cancelled
// transition: refund computation, status stamp, capacity release, then
// fire-and-forget refund request creation and event emission. The stamp and
// the release run under the slot's accounting lock; the side effects run
// outside it.
type CancellationOrchestrator struct {
	Reservations reservationRepo.ReservationRepository
	Slots        slotRepo.SlotRepository
	Release      *ReleaseService
	Locker       SlotLocker
	Clock        Clock
	Events       notification.EventEmitter
	Refunds      RefundDispatcher
	LockWait     time.Duration
}

// Cancel transitions the reservation to Cancelled and frees its capacity.
// Fails with notFound if the reservation does not exist and alreadyCancelled
// if the transition already happened; the latter leaves all state untouched.
func (o *CancellationOrchestrator) Cancel(ctx context.Context, reservationID, reason string, by models.CancelledBy) (*CancelResult, error) {
	res, err := o.loadReservation(reservationID)
	if err != nil {
		return nil, err
	}

	lockCtx := ctx
	if o.LockWait > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, o.LockWait)
		defer cancel()
	}
	release, err := o.Locker.Acquire(lockCtx, res.SlotID)
	if err != nil {
		return nil, err
	}

	result, err := o.cancelLocked(res.SlotID, reservationID, reason, by)
	release()
	if err != nil {
		return nil, err
	}

	go o.dispatchSideEffects(result)

	return result, nil
}

func (o *CancellationOrchestrator) cancelLocked(slotID, reservationID, reason string, by models.CancelledBy) (*CancelResult, error) {
	// Re-read under the lock so two concurrent cancels cannot both pass the
	// status guard.
	res, err := o.loadReservation(reservationID)
	if err != nil {
		return nil, err
	}
	if res.Status == models.ReservationCancelled {
		return nil, errAlreadyCancelled(reservationID)
	}

	slot, err := o.loadSlot(slotID)
	if err != nil {
		return nil, err
	}

	now := o.Clock.Now()
	comp := ComputeRefund(slot.Policy, res.AmountCharged, slot.StartDateTime, now)

	refundStatus := models.RefundNotApplicable
	if comp.RefundAmount > 0 {
		refundStatus = models.RefundPending
	}
	cancellation := models.Cancellation{
		CancelledAt:  now,
		CancelledBy:  by,
		Reason:       reason,
		RefundAmount: comp.RefundAmount,
		RefundStatus: refundStatus,
	}

	if err := o.Reservations.MarkCancelled(reservationID, cancellation); err != nil {
		if errors.Is(err, reservationRepo.ErrNotFound) {
			return nil, errReservationNotFound(reservationID)
		}
		return nil, fmt.Errorf("failed to cancel reservation: %w", err)
	}
	if err := o.Release.releaseLocked(slotID, reservationID); err != nil {
		return nil, err
	}

	res.Status = models.ReservationCancelled
	res.Cancellation = &cancellation
	return &CancelResult{Reservation: *res, Refund: comp}, nil
}

// dispatchSideEffects creates the refund request and emits the cancellation
// event. Both are best-effort: failures are logged and retried by the queue,
// never surfaced to the caller.
func (o *CancellationOrchestrator) dispatchSideEffects(result *CancelResult) {
	logger := utils.GetLogger()
	res := result.Reservation

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if result.Refund.RefundAmount > 0 {
		req := models.RefundRequest{
			ID:            uuid.New().String(),
			ReservationID: res.ID,
			HolderID:      res.HolderID,
			Amount:        result.Refund.RefundAmount,
			Reason:        res.Cancellation.Reason,
			PaymentRef:    res.PaymentRef,
			Status:        models.RefundPending,
			CreatedAt:     res.Cancellation.CancelledAt,
		}
		if err := o.Refunds.Dispatch(ctx, req); err != nil {
			logger.Warn("failed to dispatch refund request",
				zap.String("reservationID", res.ID), zap.Error(err))
		}
	}

	payload := models.BookingEventPayload{
		ReservationID: res.ID,
		SlotID:        res.SlotID,
		HolderID:      res.HolderID,
		TicketCount:   res.TicketCount,
		Amount:        res.AmountCharged,
		RefundAmount:  result.Refund.RefundAmount,
	}
	if err := o.Events.Emit(ctx, models.EventBookingCancelled, payload); err != nil {
		logger.Warn("failed to emit booking cancelled event",
			zap.String("reservationID", res.ID), zap.Error(err))
	}
}

// ComputeRefundPreview reports what a cancellation at asOf would refund,
// without mutating anything. A zero asOf means "now".
func (o *CancellationOrchestrator) ComputeRefundPreview(reservationID string, asOf time.Time) (models.RefundComputation, error) {
	res, err := o.loadReservation(reservationID)
	if err != nil {
		return models.RefundComputation{}, err
	}
	if res.Status == models.ReservationCancelled {
		return models.RefundComputation{}, errAlreadyCancelled(reservationID)
	}
	slot, err := o.loadSlot(res.SlotID)
	if err != nil {
		return models.RefundComputation{}, err
	}
	if asOf.IsZero() {
		asOf = o.Clock.Now()
	}
	return ComputeRefund(slot.Policy, res.AmountCharged, slot.StartDateTime, asOf), nil
}

func (o *CancellationOrchestrator) loadReservation(reservationID string) (*models.Reservation, error) {
	res, err := o.Reservations.GetByID(reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrNotFound) {
			return nil, errReservationNotFound(reservationID)
		}
		return nil, fmt.Errorf("reservation lookup failed: %w", err)
	}
	return res, nil
}

func (o *CancellationOrchestrator) loadSlot(slotID string) (*models.Slot, error) {
	slot, err := o.Slots.GetByID(slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrNotFound) {
			return nil, errSlotNotFound(slotID)
		}
		return nil, fmt.Errorf("slot lookup failed: %w", err)
	}
	return slot, nil
}
