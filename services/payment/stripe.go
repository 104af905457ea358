package payment

import (
	"context"
	"fmt"
	"math"

	"roamly/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/refund"
)

// StripeRefundGateway issues refunds against the payment intent captured at
// charge time.
type StripeRefundGateway struct{}

func NewStripeRefundGateway() *StripeRefundGateway {
	return &StripeRefundGateway{}
}

func (g *StripeRefundGateway) IssueRefund(ctx context.Context, req models.RefundRequest) (string, error) {
	if req.PaymentRef == "" {
		return "", fmt.Errorf("refund request %s has no payment reference", req.ID)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentRef),
		Amount:        stripe.Int64(int64(math.Round(req.Amount * 100))),
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe refund failed: %w", err)
	}
	return r.ID, nil
}
