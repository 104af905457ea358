package booking

import (
	"context"
	"sync"
	"time"

	reservationRepo "roamly/database/repository/reservation"
	slotRepo "roamly/database/repository/slot"
	"roamly/models"
)

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time { return f.now }

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.Slot
}

func newFakeSlotRepo(slots ...models.Slot) *fakeSlotRepo {
	repo := &fakeSlotRepo{slots: make(map[string]*models.Slot)}
	for i := range slots {
		s := slots[i]
		repo.slots[s.ID] = &s
	}
	return repo
}

func (r *fakeSlotRepo) GetByID(slotID string) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return nil, slotRepo.ErrNotFound
	}
	cp := *s
	cp.ReservationIDs = append([]string(nil), s.ReservationIDs...)
	return &cp, nil
}

func (r *fakeSlotRepo) GetByIDs(slotIDs []string) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Slot
	for _, id := range slotIDs {
		if s, ok := r.slots[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) Insert(slot *models.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *slot
	r.slots[slot.ID] = &cp
	return nil
}

func (r *fakeSlotRepo) RemoveReservationRef(slotID, reservationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return nil
	}
	refs := s.ReservationIDs[:0]
	for _, id := range s.ReservationIDs {
		if id != reservationID {
			refs = append(refs, id)
		}
	}
	s.ReservationIDs = refs
	return nil
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]*models.Reservation
	slots        *fakeSlotRepo
	createErr    error
}

func newFakeReservationRepo(slots *fakeSlotRepo, reservations ...models.Reservation) *fakeReservationRepo {
	repo := &fakeReservationRepo{
		reservations: make(map[string]*models.Reservation),
		slots:        slots,
	}
	for i := range reservations {
		res := reservations[i]
		repo.reservations[res.ID] = &res
	}
	return repo
}

func (r *fakeReservationRepo) GetByID(reservationID string) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[reservationID]
	if !ok {
		return nil, reservationRepo.ErrNotFound
	}
	cp := *res
	if res.Cancellation != nil {
		c := *res.Cancellation
		cp.Cancellation = &c
	}
	return &cp, nil
}

func (r *fakeReservationRepo) ActiveBySlot(slotID string) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Reservation
	for _, res := range r.reservations {
		if res.SlotID == slotID && res.Status.Active() {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) SumActiveTickets(slotID string) (int, error) {
	sums, err := r.SumActiveTicketsBySlots([]string{slotID})
	if err != nil {
		return 0, err
	}
	return sums[slotID], nil
}

func (r *fakeReservationRepo) SumActiveTicketsBySlots(slotIDs []string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sums := make(map[string]int, len(slotIDs))
	for _, id := range slotIDs {
		sums[id] = 0
	}
	for _, res := range r.reservations {
		if _, ok := sums[res.SlotID]; ok && res.Status.Active() {
			sums[res.SlotID] += res.TicketCount
		}
	}
	return sums, nil
}

func (r *fakeReservationRepo) CreateWithSlotHold(ctx context.Context, res *models.Reservation) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	cp := *res
	r.reservations[res.ID] = &cp
	r.mu.Unlock()
	if r.slots != nil {
		r.slots.mu.Lock()
		if s, ok := r.slots.slots[res.SlotID]; ok {
			s.ReservationIDs = append(s.ReservationIDs, res.ID)
		}
		r.slots.mu.Unlock()
	}
	return nil
}

func (r *fakeReservationRepo) MarkCancelled(reservationID string, c models.Cancellation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[reservationID]
	if !ok {
		return reservationRepo.ErrNotFound
	}
	res.Status = models.ReservationCancelled
	res.Cancellation = &c
	return nil
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []models.BookingEventPayload
	err    error
}

func (e *fakeEmitter) Emit(ctx context.Context, event string, payload models.BookingEventPayload) error {
	if e.err != nil {
		return e.err
	}
	payload.Event = event
	e.mu.Lock()
	e.events = append(e.events, payload)
	e.mu.Unlock()
	return nil
}

func (e *fakeEmitter) eventCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

type fakeRefundDispatcher struct {
	mu       sync.Mutex
	requests []models.RefundRequest
	err      error
}

func (d *fakeRefundDispatcher) Dispatch(ctx context.Context, req models.RefundRequest) error {
	if d.err != nil {
		return d.err
	}
	d.mu.Lock()
	d.requests = append(d.requests, req)
	d.mu.Unlock()
	return nil
}

func (d *fakeRefundDispatcher) requestCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}
