package models

// PolicyType is the closed set of cancellation policy variants.
type PolicyType string

const (
	PolicyFree          PolicyType = "free"
	PolicyModerate      PolicyType = "moderate"
	PolicyStrict        PolicyType = "strict"
	PolicyNonRefundable PolicyType = "nonRefundable"
)

// CancellationPolicy maps time-to-event to a refund percentage. Attached to
// the product that owns a slot; read-only at cancellation time.
// FreeWindowHours and RefundPercent are only meaningful for PolicyFree.
type CancellationPolicy struct {
	Type            PolicyType `bson:"type" json:"type"`
	FreeWindowHours float64    `bson:"freeWindowHours,omitempty" json:"freeWindowHours,omitempty"`
	RefundPercent   float64    `bson:"refundPercent,omitempty" json:"refundPercent,omitempty"` // defaults to 100 when zero
}

// ParsePolicyType maps external data onto the closed enum. Unknown values
// fall back to the strict policy; the second return reports whether the
// input was recognized.
func ParsePolicyType(s string) (PolicyType, bool) {
	switch PolicyType(s) {
	case PolicyFree, PolicyModerate, PolicyStrict, PolicyNonRefundable:
		return PolicyType(s), true
	default:
		return PolicyStrict, false
	}
}

// RefundComputation is the output contract of the cancellation policy engine.
type RefundComputation struct {
	RefundAmount    float64    `json:"refundAmount"`
	RefundPercent   float64    `json:"refundPercent"`
	HoursUntilStart float64    `json:"hoursUntilStart"`
	PolicyApplied   PolicyType `json:"policyApplied"`
}
