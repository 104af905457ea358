package models

import "time"

// ReservationStatus is the closed set of reservation states.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "Pending"
	ReservationConfirmed ReservationStatus = "Confirmed"
	ReservationCancelled ReservationStatus = "Cancelled"
)

// Active reports whether the reservation still holds capacity against its
// slot. Pending and Confirmed both count; Cancelled is terminal.
func (s ReservationStatus) Active() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

// CancelledBy identifies which party requested a cancellation.
type CancelledBy string

const (
	CancelledByHolder   CancelledBy = "holder"
	CancelledByOperator CancelledBy = "operator"
	CancelledByAdmin    CancelledBy = "admin"
)

// RefundStatus tracks the downstream refund lifecycle for a cancellation.
type RefundStatus string

const (
	RefundPending       RefundStatus = "Pending"
	RefundProcessed     RefundStatus = "Processed"
	RefundFailed        RefundStatus = "Failed"
	RefundNotApplicable RefundStatus = "NotApplicable"
)

// Cancellation is the sub-record stamped onto a reservation when it is
// cancelled.
type Cancellation struct {
	CancelledAt  time.Time    `bson:"cancelledAt" json:"cancelledAt"`
	CancelledBy  CancelledBy  `bson:"cancelledBy" json:"cancelledBy"`
	Reason       string       `bson:"reason,omitempty" json:"reason,omitempty"`
	RefundAmount float64      `bson:"refundAmount" json:"refundAmount"`
	RefundStatus RefundStatus `bson:"refundStatus" json:"refundStatus"`
}

// Reservation is a hold of TicketCount tickets against a slot by a holder.
// AmountCharged is fixed at creation (slot price x ticket count) and never
// changes afterwards.
type Reservation struct {
	ID            string            `bson:"id" json:"id"`
	SlotID        string            `bson:"slotId" json:"slotId"`
	HolderID      string            `bson:"holderId" json:"holderId"`
	TicketCount   int               `bson:"ticketCount" json:"ticketCount"`
	AmountCharged float64           `bson:"amountCharged" json:"amountCharged"`
	Status        ReservationStatus `bson:"status" json:"status"`
	PaymentRef    string            `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"` // opaque gateway reference from the charge
	CreatedAt     time.Time         `bson:"createdAt" json:"createdAt"`
	Cancellation  *Cancellation     `bson:"cancellation,omitempty" json:"cancellation,omitempty"`
}
