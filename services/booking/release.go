package booking

import (
	"context"
	"fmt"

	slotRepo "roamly/database/repository/slot"
)

// ReleaseService removes a reservation's hold on a slot. It never mutates the
// reservation's status; that transition belongs to the cancellation
// orchestrator.
type ReleaseService struct {
	Slots  slotRepo.SlotRepository
	Locker SlotLocker
}

// Release frees the reservation's hold on the slot. Idempotent: releasing a
// hold that was already released, or never existed, is a no-op.
func (s *ReleaseService) Release(ctx context.Context, slotID, reservationID string) error {
	release, err := s.Locker.Acquire(ctx, slotID)
	if err != nil {
		return err
	}
	defer release()
	return s.releaseLocked(slotID, reservationID)
}

// releaseLocked assumes the caller already holds the slot's accounting lock.
func (s *ReleaseService) releaseLocked(slotID, reservationID string) error {
	if err := s.Slots.RemoveReservationRef(slotID, reservationID); err != nil {
		return fmt.Errorf("failed to release slot hold: %w", err)
	}
	return nil
}
