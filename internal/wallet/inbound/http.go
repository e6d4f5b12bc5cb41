package inbound

import (
	"context"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/router"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/usecase"
)

type uc interface {
	Balance(ctx context.Context) (*usecase.BalanceOutput, error)
	EarningsTick(ctx context.Context) (*usecase.EarningsTickOutput, error)

	PayoutValidate(ctx context.Context, in usecase.PayoutValidateInput) (*usecase.PayoutValidateOutput, error)
	PayoutRequest(ctx context.Context, in usecase.PayoutRequestInput) (*usecase.PayoutRequestOutput, error)
	PayoutHistory(ctx context.Context, in usecase.PayoutHistoryInput) (*usecase.PayoutHistoryOutput, error)
	ReportMonthly(ctx context.Context, in usecase.ReportMonthlyInput) (*usecase.ReportMonthlyOutput, error)

	PayoutQueue(ctx context.Context, in usecase.PayoutQueueInput) (*usecase.PayoutQueueOutput, error)
	PayoutApprove(ctx context.Context, in usecase.PayoutApproveInput) error
	PayoutReject(ctx context.Context, in usecase.PayoutRejectInput) error
	ResetData(ctx context.Context) (*usecase.ResetDataOutput, error)
	AuditLogList(ctx context.Context, in usecase.AuditLogListInput) (*usecase.AuditLogListOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Earnings (need authenticated)
	r.GET("/api/v1/wallet/balance", end.Balance)
	r.POST("/api/v1/wallet/earnings/tick", end.EarningsTick)

	// Payouts (need authenticated)
	r.POST("/api/v1/wallet/payouts/validate", end.PayoutValidate)
	r.POST("/api/v1/wallet/payouts", end.PayoutRequest)
	r.GET("/api/v1/wallet/payouts", end.PayoutHistory)
	r.GET("/api/v1/wallet/reports/monthly", end.ReportMonthly)

	// Admin (need authenticated & authorization)
	r.GET("/api/v1/wallet/admin/payouts", end.PayoutQueue)
	r.POST("/api/v1/wallet/admin/payouts/:id/approve", end.PayoutApprove)
	r.POST("/api/v1/wallet/admin/payouts/:id/reject", end.PayoutReject)
	r.POST("/api/v1/wallet/admin/reset", end.ResetData)
	r.GET("/api/v1/wallet/admin/audit-logs", end.AuditLogList)
}
