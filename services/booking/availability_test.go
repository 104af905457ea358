package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamly/models"
)

func TestAvailabilityCalculator_Snapshot(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	slots := newFakeSlotRepo(models.Slot{ID: "slot-1", Capacity: 20, StartDateTime: start})
	reservations := newFakeReservationRepo(slots,
		models.Reservation{ID: "r1", SlotID: "slot-1", TicketCount: 4, Status: models.ReservationConfirmed},
		models.Reservation{ID: "r2", SlotID: "slot-1", TicketCount: 3, Status: models.ReservationPending},
		models.Reservation{ID: "r3", SlotID: "slot-1", TicketCount: 5, Status: models.ReservationCancelled},
	)
	calc := &AvailabilityCalculator{Slots: slots, Reservations: reservations}

	avail, err := calc.Snapshot("slot-1")
	require.NoError(t, err)

	// Pending and Confirmed hold capacity; Cancelled does not.
	assert.Equal(t, 20, avail.Capacity)
	assert.Equal(t, 7, avail.ActiveTicketCount)
	assert.Equal(t, 13, avail.FreeCapacity)
}

func TestAvailabilityCalculator_SnapshotUnknownSlot(t *testing.T) {
	t.Parallel()

	calc := &AvailabilityCalculator{
		Slots:        newFakeSlotRepo(),
		Reservations: newFakeReservationRepo(nil),
	}

	_, err := calc.Snapshot("missing")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestAvailabilityCalculator_FreeCapacityNeverNegative(t *testing.T) {
	t.Parallel()

	slots := newFakeSlotRepo(models.Slot{ID: "slot-1", Capacity: 2})
	reservations := newFakeReservationRepo(slots,
		models.Reservation{ID: "r1", SlotID: "slot-1", TicketCount: 5, Status: models.ReservationConfirmed},
	)
	calc := &AvailabilityCalculator{Slots: slots, Reservations: reservations}

	avail, err := calc.Snapshot("slot-1")
	require.NoError(t, err)
	assert.Equal(t, 0, avail.FreeCapacity)
}

func TestAvailabilityCalculator_SnapshotAll(t *testing.T) {
	t.Parallel()

	slots := newFakeSlotRepo(
		models.Slot{ID: "slot-1", Capacity: 10},
		models.Slot{ID: "slot-2", Capacity: 5},
	)
	reservations := newFakeReservationRepo(slots,
		models.Reservation{ID: "r1", SlotID: "slot-1", TicketCount: 6, Status: models.ReservationConfirmed},
	)
	calc := &AvailabilityCalculator{Slots: slots, Reservations: reservations}

	// Unknown ids are skipped, not fatal.
	out, err := calc.SnapshotAll([]string{"slot-1", "slot-2", "missing"})
	require.NoError(t, err)
	require.Len(t, out, 2)

	byID := make(map[string]models.Availability, len(out))
	for _, a := range out {
		byID[a.SlotID] = a
	}
	assert.Equal(t, 4, byID["slot-1"].FreeCapacity)
	assert.Equal(t, 5, byID["slot-2"].FreeCapacity)
}
