package entity

import "time"

// Wallet is a user's earnings account. Balance and TotalEarned are INR.
type Wallet struct {
	UserID      int64
	Balance     float64
	TotalEarned float64
	GBShared    float64
	UpdatedAt   time.Time
}

// Payout is a withdrawal request. Amount is in the method's native currency
// (INR for UPI, USD for PayPal); AmountINR is the normalized value debited
// from the wallet when the request was created.
type Payout struct {
	ID           int64
	UserID       int64
	Method       PayoutMethod
	Amount       float64
	AmountINR    float64
	ExchangeRate float64
	Destination  string
	Status       PayoutStatus
	Reason       string
	RequestedAt  time.Time
	DecidedAt    *time.Time
	DecidedBy    *int64
}

// PayoutDecision is an admin decision applied to a pending payout.
type PayoutDecision struct {
	PayoutID  int64
	AdminID   int64
	Reason    string
	DecidedAt time.Time
}

// AuditLog records one admin action for later review.
type AuditLog struct {
	ID           int64
	ActorID      int64
	Action       AuditAction
	TargetUserID int64
	Detail       string
	CreatedAt    time.Time
}

// AuditLogFilter narrows audit log listing.
type AuditLogFilter struct {
	Action string
	Limit  int32
	Offset int32
}

// EarningsCredit is one accrual tick applied to a wallet.
type EarningsCredit struct {
	UserID    int64
	AmountINR float64
	GB        float64
}

// PayoutListFilter narrows payout listing.
type PayoutListFilter struct {
	UserID int64
	Status PayoutStatus
	Limit  int32
	Offset int32
}
