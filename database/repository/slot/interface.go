package slotRepo

import (
	"errors"

	"roamly/models"
)

// ErrNotFound is returned when the requested slot does not exist.
var ErrNotFound = errors.New("slot not found")

// SlotRepository provides read access to slots plus maintenance of the
// denormalized reservation reference list. Capacity counters are never stored
// on the slot; the reservations collection is authoritative.
type SlotRepository interface {
	GetByID(slotID string) (*models.Slot, error)
	GetByIDs(slotIDs []string) ([]models.Slot, error)
	Insert(slot *models.Slot) error
	RemoveReservationRef(slotID, reservationID string) error
}
