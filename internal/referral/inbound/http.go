package inbound

import (
	"context"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/router"
	"github.com/bandwidthbucks/bandwidthbucks/internal/referral/usecase"
)

type uc interface {
	Summary(ctx context.Context) (*usecase.SummaryOutput, error)

	ConsumeUserRegistration(ctx context.Context, in usecase.ConsumeUserRegistrationInput) error
	ConsumeEarningsUpdated(ctx context.Context, in usecase.ConsumeEarningsUpdatedInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// need authenticated
	r.GET("/api/v1/referrals/summary", end.Summary)
}
