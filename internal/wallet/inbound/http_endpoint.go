package inbound

import (
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/router"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/usecase"
)

// HTTPEndpoint exposes HTTP handlers for earnings, payouts, and admin review.
type HTTPEndpoint struct {
	uc uc
}

// Balance returns the caller's wallet summary.
// @Summary Get wallet balance
// @Description Returns the current balance, lifetime earnings, and shared bandwidth for the authenticated user.
// @Tags Wallet
// @Produce json
// @Success 200 {object} router.successResponse{data=BalanceResponse} "Wallet summary"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wallet/balance [get]
func (h *HTTPEndpoint) Balance(r *router.Request) (any, error) {
	resp, err := h.uc.Balance(r.Context())
	if err != nil {
		return nil, err
	}

	return BalanceResponse{
		Balance:     resp.Balance,
		TotalEarned: resp.TotalEarned,
		GBShared:    resp.GBShared,
		UpdatedAt:   resp.UpdatedAt,
	}, nil
}

// EarningsTick credits one simulated accrual interval.
// @Summary Apply an earnings tick
// @Description Credits one accrual interval to the caller's wallet and returns the new balance.
// @Tags Wallet
// @Produce json
// @Success 200 {object} router.successResponse{data=EarningsTickResponse} "Credit applied"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wallet/earnings/tick [post]
func (h *HTTPEndpoint) EarningsTick(r *router.Request) (any, error) {
	resp, err := h.uc.EarningsTick(r.Context())
	if err != nil {
		return nil, err
	}

	return EarningsTickResponse{
		CreditedINR: resp.CreditedINR,
		GB:          resp.GB,
		Balance:     resp.Balance,
	}, nil
}

// PayoutValidate dry-runs the payout rules without creating a request.
// @Summary Validate a payout request
// @Description Runs the payout rules against the caller's balance and returns the decision with an explanation.
// @Tags Wallet, Payouts
// @Accept json
// @Produce json
// @Param request body PayoutValidateRequest true "Validation payload"
// @Success 200 {object} router.successResponse{data=PayoutValidateResponse} "Validation decision"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wallet/payouts/validate [post]
func (h *HTTPEndpoint) PayoutValidate(r *router.Request) (any, error) {
	var req PayoutValidateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.PayoutValidate(r.Context(), usecase.PayoutValidateInput{
		Method: req.Method,
		Amount: req.Amount,
	})
	if err != nil {
		return nil, err
	}

	return PayoutValidateResponse{
		IsValid:     resp.IsValid,
		Explanation: resp.Explanation,
		AmountINR:   resp.AmountINR,
	}, nil
}

// PayoutRequest submits a payout for admin review.
// @Summary Request a payout
// @Description Validates the request, debits the wallet, and records a pending payout. Supports an Idempotency-Key header.
// @Tags Wallet, Payouts
// @Accept json
// @Produce json
// @Param request body PayoutRequestRequest true "Payout payload"
// @Success 200 {object} router.successResponse{data=PayoutRequestResponse} "Pending payout"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 409 {object} router.errorResponse "Duplicate or conflicting request"
// @Failure 422 {object} router.errorResponse "Rule violation"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wallet/payouts [post]
func (h *HTTPEndpoint) PayoutRequest(r *router.Request) (any, error) {
	var req PayoutRequestRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.PayoutRequest(r.Context(), usecase.PayoutRequestInput{
		Method:         req.Method,
		Amount:         req.Amount,
		Destination:    req.Destination,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return nil, err
	}

	return PayoutRequestResponse{
		PayoutID:    resp.PayoutID,
		AmountINR:   resp.AmountINR,
		Explanation: resp.Explanation,
	}, nil
}

// PayoutHistory lists the caller's payout requests.
// @Summary List own payouts
// @Description Returns the caller's payout requests, newest first.
// @Tags Wallet, Payouts
// @Produce json
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} router.successResponse{data=PayoutListResponse} "Payout list"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wallet/payouts [get]
func (h *HTTPEndpoint) PayoutHistory(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.PayoutHistory(r.Context(), usecase.PayoutHistoryInput{
		Status: r.GetQuery("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	items := make([]PayoutItemResponse, 0, len(resp.Payouts))
	for _, p := range resp.Payouts {
		items = append(items, toPayoutItemResponse(p, 0))
	}

	return PayoutListResponse{Payouts: items, Total: resp.Total}, nil
}

// ReportMonthly exports one month of payouts as CSV.
// @Summary Export monthly payout report
// @Description Builds a CSV of the caller's payouts for the given month and returns a signed download URL.
// @Tags Wallet, Reports
// @Produce json
// @Param year query int true "Report year"
// @Param month query int true "Report month (1-12)"
// @Success 200 {object} router.successResponse{data=ReportMonthlyResponse} "Report download"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wallet/reports/monthly [get]
func (h *HTTPEndpoint) ReportMonthly(r *router.Request) (any, error) {
	year, err := r.GetQueryInt32("year")
	if err != nil {
		return nil, err
	}
	month, err := r.GetQueryInt32("month")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ReportMonthly(r.Context(), usecase.ReportMonthlyInput{
		Year:  int(year),
		Month: int(month),
	})
	if err != nil {
		return nil, err
	}

	return ReportMonthlyResponse{
		URL:       resp.URL,
		Payouts:   resp.Payouts,
		TotalINR:  resp.TotalINR,
		ExpiresAt: resp.ExpiresAt,
	}, nil
}

// PayoutQueue lists payouts across users for admin review.
// @Summary List payout queue
// @Description Returns payout requests for admin review; defaults to the pending queue.
// @Tags Wallet, Admin
// @Produce json
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} router.successResponse{data=PayoutListResponse} "Payout queue"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 403 {object} router.errorResponse "Not allowed"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wallet/admin/payouts [get]
func (h *HTTPEndpoint) PayoutQueue(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.PayoutQueue(r.Context(), usecase.PayoutQueueInput{
		Status: r.GetQuery("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	items := make([]PayoutItemResponse, 0, len(resp.Payouts))
	for _, p := range resp.Payouts {
		items = append(items, toPayoutItemResponse(p.PayoutItem, p.UserID))
	}

	return PayoutListResponse{Payouts: items, Total: resp.Total}, nil
}

// PayoutApprove approves a pending payout.
// @Summary Approve payout
// @Description Marks a pending payout approved and notifies the user.
// @Tags Wallet, Admin
// @Produce json
// @Param id path int true "Payout ID"
// @Success 200 {object} router.successResponse{data=PayoutDecisionResponse} "Decision recorded"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 403 {object} router.errorResponse "Not allowed"
// @Failure 404 {object} router.errorResponse "Payout not found"
// @Failure 409 {object} router.errorResponse "Payout already decided"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wallet/admin/payouts/{id}/approve [post]
func (h *HTTPEndpoint) PayoutApprove(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.PayoutApprove(r.Context(), usecase.PayoutApproveInput{PayoutID: id}); err != nil {
		return nil, err
	}

	return PayoutDecisionResponse{Decision: "approved"}, nil
}

// PayoutReject rejects a pending payout with a reason and refunds the debit.
// @Summary Reject payout
// @Description Marks a pending payout rejected, refunds the debited amount, and notifies the user. A reason is required.
// @Tags Wallet, Admin
// @Accept json
// @Produce json
// @Param id path int true "Payout ID"
// @Param request body PayoutRejectRequest true "Rejection payload"
// @Success 200 {object} router.successResponse{data=PayoutDecisionResponse} "Decision recorded"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 403 {object} router.errorResponse "Not allowed"
// @Failure 404 {object} router.errorResponse "Payout not found"
// @Failure 409 {object} router.errorResponse "Payout already decided"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wallet/admin/payouts/{id}/reject [post]
func (h *HTTPEndpoint) PayoutReject(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req PayoutRejectRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PayoutReject(r.Context(), usecase.PayoutRejectInput{
		PayoutID: id,
		Reason:   req.Reason,
	}); err != nil {
		return nil, err
	}

	return PayoutDecisionResponse{Decision: "rejected"}, nil
}

// ResetData zeroes all wallets for a fresh cycle.
// @Summary Reset all wallets
// @Description Zeroes every wallet balance and records an audit entry.
// @Tags Wallet, Admin
// @Produce json
// @Success 200 {object} router.successResponse{data=ResetDataResponse} "Reset applied"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 403 {object} router.errorResponse "Not allowed"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wallet/admin/reset [post]
func (h *HTTPEndpoint) ResetData(r *router.Request) (any, error) {
	resp, err := h.uc.ResetData(r.Context())
	if err != nil {
		return nil, err
	}

	return ResetDataResponse{WalletsReset: resp.WalletsReset}, nil
}

// AuditLogList lists recorded admin actions.
// @Summary List audit logs
// @Description Returns admin actions (payout decisions, resets), newest first.
// @Tags Wallet, Admin
// @Produce json
// @Param action query string false "Filter by action"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} router.successResponse{data=AuditLogListResponse} "Audit log list"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 403 {object} router.errorResponse "Not allowed"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wallet/admin/audit-logs [get]
func (h *HTTPEndpoint) AuditLogList(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.AuditLogList(r.Context(), usecase.AuditLogListInput{
		Action: r.GetQuery("action"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	items := make([]AuditLogItemResponse, 0, len(resp.Logs))
	for _, l := range resp.Logs {
		items = append(items, AuditLogItemResponse{
			ID:           l.ID,
			ActorID:      l.ActorID,
			Action:       l.Action,
			TargetUserID: l.TargetUserID,
			Detail:       l.Detail,
			CreatedAt:    l.CreatedAt,
		})
	}

	return AuditLogListResponse{Logs: items, Total: resp.Total}, nil
}

func toPayoutItemResponse(p usecase.PayoutItem, userID int64) PayoutItemResponse {
	return PayoutItemResponse{
		ID:          p.ID,
		UserID:      userID,
		Method:      p.Method,
		Amount:      p.Amount,
		AmountINR:   p.AmountINR,
		Destination: p.Destination,
		Status:      p.Status,
		Reason:      p.Reason,
		RequestedAt: p.RequestedAt,
		DecidedAt:   p.DecidedAt,
	}
}
