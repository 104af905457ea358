package models

// Booking lifecycle event names consumed by downstream notification and
// email collaborators.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventRefundRequested  = "refund.requested"
)

// BookingEventPayload is the wire payload for booking lifecycle events.
type BookingEventPayload struct {
	Event         string  `json:"event"`
	ReservationID string  `json:"reservationId"`
	SlotID        string  `json:"slotId"`
	HolderID      string  `json:"holderId"`
	TicketCount   int     `json:"ticketCount,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	RefundAmount  float64 `json:"refundAmount,omitempty"`
}
