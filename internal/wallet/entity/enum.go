package entity

// PayoutMethod identifies how a payout is delivered to the user.
type PayoutMethod int16

const (
	// PayoutMethodUnknown is mean method is not known / not set.
	PayoutMethodUnknown PayoutMethod = 0

	// PayoutMethodUPI pays out in INR to a UPI handle.
	PayoutMethodUPI PayoutMethod = 1

	// PayoutMethodPayPal pays out in USD to a PayPal account.
	PayoutMethodPayPal PayoutMethod = 2
)

func (m PayoutMethod) String() string {
	switch m {
	case PayoutMethodUPI:
		return "UPI"
	case PayoutMethodPayPal:
		return "PayPal"
	default:
		return "Unknown"
	}
}

func PayoutMethodFromString(s string) PayoutMethod {
	switch s {
	case "UPI", "upi":
		return PayoutMethodUPI
	case "PayPal", "paypal":
		return PayoutMethodPayPal
	default:
		return PayoutMethodUnknown
	}
}

// PayoutStatus tracks the lifecycle of a payout request.
type PayoutStatus int16

const (
	PayoutStatusUnknown PayoutStatus = 0

	// PayoutStatusPending mean the request awaits an admin decision.
	PayoutStatusPending PayoutStatus = 1

	// PayoutStatusApproved mean an admin approved the request.
	PayoutStatusApproved PayoutStatus = 2

	// PayoutStatusRejected mean an admin rejected the request and the
	// debited amount was refunded.
	PayoutStatusRejected PayoutStatus = 3
)

func (s PayoutStatus) String() string {
	switch s {
	case PayoutStatusPending:
		return "Pending"
	case PayoutStatusApproved:
		return "Approved"
	case PayoutStatusRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

func PayoutStatusFromString(v string) PayoutStatus {
	switch v {
	case "Pending", "pending":
		return PayoutStatusPending
	case "Approved", "approved":
		return PayoutStatusApproved
	case "Rejected", "rejected":
		return PayoutStatusRejected
	default:
		return PayoutStatusUnknown
	}
}

// AuditAction is a recorded admin action.
type AuditAction string

const (
	AuditActionApprovePayout AuditAction = "approve_payout"
	AuditActionRejectPayout  AuditAction = "reject_payout"
	AuditActionResetData     AuditAction = "reset_data"
)
