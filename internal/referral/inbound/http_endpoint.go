package inbound

import (
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the referral program.
type HTTPEndpoint struct {
	uc uc
}

type SummaryResponse struct {
	Code               string  `json:"code"`
	Link               string  `json:"link"`
	ReferredUsers      int64   `json:"referred_users"`
	CommissionTotalINR float64 `json:"commission_total_inr"`
}

// Summary returns the caller's referral code and performance.
// @Summary Get referral summary
// @Description Returns the caller's referral code (created on first access), referred user count, and total commissions.
// @Tags Referral
// @Produce json
// @Success 200 {object} router.successResponse{data=SummaryResponse} "Referral summary"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/referrals/summary [get]
func (h *HTTPEndpoint) Summary(r *router.Request) (any, error) {
	resp, err := h.uc.Summary(r.Context())
	if err != nil {
		return nil, err
	}

	return SummaryResponse{
		Code:               resp.Code,
		Link:               resp.Link,
		ReferredUsers:      resp.ReferredUsers,
		CommissionTotalINR: resp.CommissionTotalINR,
	}, nil
}
