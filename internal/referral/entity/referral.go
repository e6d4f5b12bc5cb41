package entity

import "time"

// Referral links a user to their referral code and, when they signed up with
// someone else's code, to the referrer.
type Referral struct {
	UserID     int64
	Code       string
	ReferrerID *int64
	CreatedAt  time.Time
}

// Commission is a referral bonus credited to a referrer from one earnings
// accrual of a referred user.
type Commission struct {
	ID              int64
	ReferrerID      int64
	ReferredUserID  int64
	AmountINR       float64
	SourceAmountINR float64
	CreatedAt       time.Time
}

// Summary aggregates a user's referral performance.
type Summary struct {
	Code               string
	ReferredUsers      int64
	CommissionTotalINR float64
}
