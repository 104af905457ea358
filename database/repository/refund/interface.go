package refundRepo

import (
	"errors"

	"roamly/models"
)

// ErrNotFound is returned when the requested refund request does not exist.
var ErrNotFound = errors.New("refund request not found")

// RefundRepository is the ledger of refund/withdrawal requests produced by
// cancellations. Written by the side-effect worker, never by the booking core.
type RefundRepository interface {
	Create(req *models.RefundRequest) error
	GetByReservation(reservationID string) (*models.RefundRequest, error)
	MarkProcessed(requestID, gatewayRef string) error
	MarkFailed(requestID, reason string) error
}
