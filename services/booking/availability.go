package booking

import (
	"errors"
	"fmt"

	reservationRepo "roamly/database/repository/reservation"
	slotRepo "roamly/database/repository/slot"
	"roamly/models"
)

// AvailabilityCalculator derives free capacity for slots from the capacity on
// the slot and the active reservations against it. Snapshots carry no
// reservation guarantee; the reservation service recomputes the count inside
// the slot's accounting unit before committing.
type AvailabilityCalculator struct {
	Slots        slotRepo.SlotRepository
	Reservations reservationRepo.ReservationRepository
}

// Snapshot computes the availability of a single slot.
func (c *AvailabilityCalculator) Snapshot(slotID string) (models.Availability, error) {
	slot, err := c.Slots.GetByID(slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrNotFound) {
			return models.Availability{}, errSlotNotFound(slotID)
		}
		return models.Availability{}, fmt.Errorf("availability lookup failed: %w", err)
	}

	active, err := c.Reservations.SumActiveTickets(slotID)
	if err != nil {
		return models.Availability{}, fmt.Errorf("failed to sum active tickets: %w", err)
	}

	return snapshot(slot, active), nil
}

// SnapshotAll computes availability for many slots in one pass, for listing
// and search callers. Unknown slot ids are skipped rather than failing the
// whole batch.
func (c *AvailabilityCalculator) SnapshotAll(slotIDs []string) ([]models.Availability, error) {
	slots, err := c.Slots.GetByIDs(slotIDs)
	if err != nil {
		return nil, fmt.Errorf("batch slot lookup failed: %w", err)
	}
	sums, err := c.Reservations.SumActiveTicketsBySlots(slotIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to sum active tickets: %w", err)
	}

	out := make([]models.Availability, 0, len(slots))
	for i := range slots {
		out = append(out, snapshot(&slots[i], sums[slots[i].ID]))
	}
	return out, nil
}

func snapshot(slot *models.Slot, activeTickets int) models.Availability {
	free := slot.Capacity - activeTickets
	if free < 0 {
		free = 0
	}
	return models.Availability{
		SlotID:            slot.ID,
		Capacity:          slot.Capacity,
		ActiveTicketCount: activeTickets,
		FreeCapacity:      free,
	}
}
