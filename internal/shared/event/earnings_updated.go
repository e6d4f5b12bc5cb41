package event

const EarningsUpdatedDestination string = "earnings_updated"
const EarningsUpdatedConsumerReferral string = "earnings_updated_referral"

type EarningsUpdatedMessage struct {
	UserID    int64   `json:"user_id"`
	AmountINR float64 `json:"amount_inr"`
	GB        float64 `json:"gb"`
}
