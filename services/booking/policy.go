package booking

import (
	"math"
	"time"

	"roamly/models"
)

// Moderate and strict tier thresholds.
const (
	moderateFullRefundHours = 48
	moderateHalfRefundHours = 24
	strictFullRefundDays    = 7
	strictHalfRefundDays    = 3
)

// ComputeRefund maps (policy, time-to-start, amount charged) to a refund.
// Pure: the same inputs always produce the same output. Rounding happens
// exactly once, at the end, half-up to two decimals.
func ComputeRefund(policy models.CancellationPolicy, amountCharged float64, startDateTime, now time.Time) models.RefundComputation {
	hoursUntilStart := startDateTime.Sub(now).Hours()
	if hoursUntilStart < 0 {
		// Already started: no remaining window.
		hoursUntilStart = 0
	}

	var percent float64
	switch policy.Type {
	case models.PolicyFree:
		percent = freeTierPercent(policy, hoursUntilStart)
	case models.PolicyModerate:
		switch {
		case hoursUntilStart >= moderateFullRefundHours:
			percent = 100
		case hoursUntilStart >= moderateHalfRefundHours:
			percent = 50
		default:
			percent = 0
		}
	case models.PolicyStrict:
		days := hoursUntilStart / 24
		switch {
		case days >= strictFullRefundDays:
			percent = 100
		case days >= strictHalfRefundDays:
			percent = 50
		default:
			percent = 0
		}
	case models.PolicyNonRefundable:
		percent = 0
	default:
		// Unknown types are filtered at the parse boundary; treat any
		// stragglers as non-refundable.
		percent = 0
	}

	return models.RefundComputation{
		RefundAmount:    round2(amountCharged * percent / 100),
		RefundPercent:   percent,
		HoursUntilStart: hoursUntilStart,
		PolicyApplied:   policy.Type,
	}
}

func freeTierPercent(policy models.CancellationPolicy, hoursUntilStart float64) float64 {
	if hoursUntilStart < policy.FreeWindowHours {
		return 0
	}
	if policy.RefundPercent > 0 {
		return policy.RefundPercent
	}
	return 100
}

// round2 rounds half-up to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
