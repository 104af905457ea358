package payment

import (
	"context"

	"roamly/models"
)

// RefundGateway moves money back to a holder through the external payment
// provider. The booking core never calls this directly; only the side-effect
// worker does, after the cancellation has committed.
type RefundGateway interface {
	// IssueRefund executes the refund and returns the provider's reference.
	IssueRefund(ctx context.Context, req models.RefundRequest) (string, error)
}
