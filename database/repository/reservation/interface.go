package reservationRepo

import (
	"context"
	"errors"

	"roamly/models"
)

// ErrNotFound is returned when the requested reservation does not exist.
var ErrNotFound = errors.New("reservation not found")

// ReservationRepository owns the reservations collection. CreateWithSlotHold
// is the sole insertion point for new reservations; MarkCancelled is the sole
// path to the Cancelled status.
type ReservationRepository interface {
	GetByID(reservationID string) (*models.Reservation, error)
	ActiveBySlot(slotID string) ([]models.Reservation, error)
	SumActiveTickets(slotID string) (int, error)
	SumActiveTicketsBySlots(slotIDs []string) (map[string]int, error)
	CreateWithSlotHold(ctx context.Context, res *models.Reservation) error
	MarkCancelled(reservationID string, c models.Cancellation) error
}
