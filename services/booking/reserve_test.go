package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamly/models"
)

var reserveNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newReserveFixture(t *testing.T, slot models.Slot, reservations ...models.Reservation) (*ReservationService, *fakeSlotRepo, *fakeReservationRepo, *fakeEmitter) {
	t.Helper()
	slots := newFakeSlotRepo(slot)
	resRepo := newFakeReservationRepo(slots, reservations...)
	emitter := &fakeEmitter{}
	svc := &ReservationService{
		Slots:        slots,
		Reservations: resRepo,
		Locker:       NewKeyedSlotLocker(),
		Clock:        fixedClock{now: reserveNow},
		Events:       emitter,
	}
	return svc, slots, resRepo, emitter
}

func futureSlot(id string, capacity int, price float64) models.Slot {
	return models.Slot{
		ID:            id,
		Capacity:      capacity,
		Price:         price,
		StartDateTime: reserveNow.Add(72 * time.Hour),
		Policy:        models.CancellationPolicy{Type: models.PolicyModerate},
	}
}

func TestReservationService_Reserve(t *testing.T) {
	t.Parallel()

	t.Run("commits a confirmed reservation", func(t *testing.T) {
		svc, _, resRepo, emitter := newReserveFixture(t, futureSlot("slot-1", 10, 25))

		res, err := svc.Reserve(context.Background(), "slot-1", 3, "holder-1")
		require.NoError(t, err)

		assert.NotEmpty(t, res.ID)
		assert.Equal(t, models.ReservationConfirmed, res.Status)
		assert.Equal(t, 3, res.TicketCount)
		assert.Equal(t, 75.0, res.AmountCharged)

		stored, err := resRepo.GetByID(res.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReservationConfirmed, stored.Status)

		require.Eventually(t, func() bool { return emitter.eventCount() == 1 },
			time.Second, 10*time.Millisecond)
	})

	t.Run("rejects unknown slot", func(t *testing.T) {
		svc, _, _, _ := newReserveFixture(t, futureSlot("slot-1", 10, 25))

		_, err := svc.Reserve(context.Background(), "missing", 1, "holder-1")
		assert.Equal(t, CodeNotFound, CodeOf(err))
	})

	t.Run("rejects non-positive ticket count", func(t *testing.T) {
		svc, _, _, _ := newReserveFixture(t, futureSlot("slot-1", 10, 25))

		_, err := svc.Reserve(context.Background(), "slot-1", 0, "holder-1")
		assert.Equal(t, CodeInvalidRequest, CodeOf(err))
	})

	t.Run("rejects an expired slot regardless of capacity", func(t *testing.T) {
		slot := futureSlot("slot-1", 10, 25)
		slot.StartDateTime = reserveNow.Add(-time.Minute)
		svc, _, resRepo, _ := newReserveFixture(t, slot)

		_, err := svc.Reserve(context.Background(), "slot-1", 1, "holder-1")
		require.Error(t, err)
		assert.Equal(t, CodeSlotExpired, CodeOf(err))
		assert.Contains(t, err.Error(), "this slot has already passed")

		sum, err := resRepo.SumActiveTickets("slot-1")
		require.NoError(t, err)
		assert.Zero(t, sum)
	})

	t.Run("reports exact remaining capacity on overflow", func(t *testing.T) {
		svc, _, _, _ := newReserveFixture(t, futureSlot("slot-1", 5, 25),
			models.Reservation{ID: "r1", SlotID: "slot-1", TicketCount: 3, Status: models.ReservationConfirmed},
		)

		_, err := svc.Reserve(context.Background(), "slot-1", 3, "holder-2")
		require.Error(t, err)

		var be *BookingError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, CodeInsufficientCapacity, be.Code)
		assert.Equal(t, 2, be.Remaining)
		assert.Contains(t, be.Message, "only 2 seats left")
	})

	t.Run("pluralizes a single remaining seat", func(t *testing.T) {
		svc, _, _, _ := newReserveFixture(t, futureSlot("slot-1", 5, 25),
			models.Reservation{ID: "r1", SlotID: "slot-1", TicketCount: 4, Status: models.ReservationConfirmed},
		)

		_, err := svc.Reserve(context.Background(), "slot-1", 2, "holder-2")
		var be *BookingError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, 1, be.Remaining)
		assert.Contains(t, be.Message, "only 1 seat left")
	})

	t.Run("no phantom reservation when the commit fails", func(t *testing.T) {
		svc, _, resRepo, _ := newReserveFixture(t, futureSlot("slot-1", 10, 25))
		resRepo.createErr = assert.AnError

		_, err := svc.Reserve(context.Background(), "slot-1", 2, "holder-1")
		require.Error(t, err)

		sum, err := resRepo.SumActiveTickets("slot-1")
		require.NoError(t, err)
		assert.Zero(t, sum)
	})
}

// Concurrent attempts must never overshoot capacity: with capacity 10 and
// eight attempts of 2 tickets each, exactly five can land.
func TestReservationService_ConcurrentReserveNeverOverbooks(t *testing.T) {
	t.Parallel()

	const (
		capacity   = 10
		attempts   = 8
		perAttempt = 2
	)
	svc, _, resRepo, _ := newReserveFixture(t, futureSlot("slot-1", capacity, 10))

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(context.Background(), "slot-1", perAttempt, "holder")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.Equal(t, CodeInsufficientCapacity, CodeOf(err))
	}
	assert.Equal(t, capacity/perAttempt, successes)

	sum, err := resRepo.SumActiveTickets("slot-1")
	require.NoError(t, err)
	assert.Equal(t, capacity, sum)
}

// Two concurrent 3-ticket attempts against capacity 5: exactly one wins and
// the loser's reported remaining count matches the true free capacity at
// evaluation time.
func TestReservationService_ConcurrentPairCapacityFive(t *testing.T) {
	t.Parallel()

	svc, _, resRepo, _ := newReserveFixture(t, futureSlot("slot-1", 5, 10))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(context.Background(), "slot-1", 3, "holder")
		}(i)
	}
	wg.Wait()

	var failed *BookingError
	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			require.ErrorAs(t, err, &failed)
		}
	}
	require.Equal(t, 1, successes)
	require.NotNil(t, failed)
	assert.Equal(t, CodeInsufficientCapacity, failed.Code)
	assert.Equal(t, 2, failed.Remaining)

	sum, err := resRepo.SumActiveTickets("slot-1")
	require.NoError(t, err)
	assert.Equal(t, 3, sum)
}
