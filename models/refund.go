package models

import "time"

// RefundRequest is a ledger entry asking the payments collaborator to move
// money back to a holder. Created after a cancellation has already committed;
// its failure never rolls the cancellation back.
type RefundRequest struct {
	ID            string       `bson:"id" json:"id"`
	ReservationID string       `bson:"reservationId" json:"reservationId"`
	HolderID      string       `bson:"holderId" json:"holderId"`
	Amount        float64      `bson:"amount" json:"amount"`
	Reason        string       `bson:"reason,omitempty" json:"reason,omitempty"`
	PaymentRef    string       `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"`
	Status        RefundStatus `bson:"status" json:"status"`
	GatewayRef    string       `bson:"gatewayRef,omitempty" json:"gatewayRef,omitempty"`
	FailureReason string       `bson:"failureReason,omitempty" json:"failureReason,omitempty"`
	CreatedAt     time.Time    `bson:"createdAt" json:"createdAt"`
	ProcessedAt   *time.Time   `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
}
