package inbound

import "time"

type BalanceResponse struct {
	Balance     float64   `json:"balance"`
	TotalEarned float64   `json:"total_earned"`
	GBShared    float64   `json:"gb_shared"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type EarningsTickResponse struct {
	CreditedINR float64 `json:"credited_inr"`
	GB          float64 `json:"gb"`
	Balance     float64 `json:"balance"`
}

type PayoutValidateRequest struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

type PayoutValidateResponse struct {
	IsValid     bool    `json:"is_valid"`
	Explanation string  `json:"explanation"`
	AmountINR   float64 `json:"amount_inr"`
}

type PayoutRequestRequest struct {
	Method      string  `json:"method"`
	Amount      float64 `json:"amount"`
	Destination string  `json:"destination"`
}

type PayoutRequestResponse struct {
	PayoutID    int64   `json:"payout_id,string"`
	AmountINR   float64 `json:"amount_inr"`
	Explanation string  `json:"explanation"`
}

func (PayoutRequestResponse) Message() string {
	return "Payout request submitted and pending review."
}

type PayoutItemResponse struct {
	ID          int64      `json:"id,string"`
	UserID      int64      `json:"user_id,string,omitempty"`
	Method      string     `json:"method"`
	Amount      float64    `json:"amount"`
	AmountINR   float64    `json:"amount_inr"`
	Destination string     `json:"destination,omitempty"`
	Status      string     `json:"status"`
	Reason      string     `json:"reason,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

type PayoutListResponse struct {
	Payouts []PayoutItemResponse `json:"payouts"`
	Total   int64                `json:"total"`
}

type ReportMonthlyResponse struct {
	URL       string    `json:"url"`
	Payouts   int       `json:"payouts"`
	TotalINR  float64   `json:"total_inr"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PayoutRejectRequest struct {
	Reason string `json:"reason"`
}

type PayoutDecisionResponse struct {
	Decision string `json:"decision"`
}

func (r PayoutDecisionResponse) Message() string {
	if r.Decision == "approved" {
		return "Payout approved."
	}

	return "Payout rejected and amount refunded."
}

type ResetDataResponse struct {
	WalletsReset int64 `json:"wallets_reset"`
}

func (ResetDataResponse) Message() string {
	return "All wallet balances have been reset."
}

type AuditLogItemResponse struct {
	ID           int64     `json:"id,string"`
	ActorID      int64     `json:"actor_id,string"`
	Action       string    `json:"action"`
	TargetUserID int64     `json:"target_user_id,string,omitempty"`
	Detail       string    `json:"detail"`
	CreatedAt    time.Time `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogItemResponse `json:"logs"`
	Total int64                  `json:"total"`
}
