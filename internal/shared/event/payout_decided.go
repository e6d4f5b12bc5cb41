package event

const PayoutDecidedDestination string = "payout_decided"
const PayoutDecidedConsumerNotification string = "payout_decided_notification"

type PayoutDecidedMessage struct {
	PayoutID  int64   `json:"payout_id"`
	UserID    int64   `json:"user_id"`
	Email     string  `json:"email,omitempty"`
	Method    string  `json:"method"`
	Amount    float64 `json:"amount"`
	AmountINR float64 `json:"amount_inr"`
	Approved  bool    `json:"approved"`
	Reason    string  `json:"reason,omitempty"`
}
