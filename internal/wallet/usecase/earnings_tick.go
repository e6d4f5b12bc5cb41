package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
)

var errAccrualMisconfigured = errors.New("earnings accrual rate is not configured")

type EarningsTickOutput struct {
	CreditedINR float64
	GB          float64
	Balance     float64
}

// EarningsTick credits one simulated accrual interval to the caller's wallet.
// The amount is rate_per_gb * gb_per_tick from configuration; the increment
// runs in the database so concurrent ticks cannot lose updates.
func (s *Usecase) EarningsTick(ctx context.Context) (*EarningsTickOutput, error) {
	ctx, span := s.startSpan(ctx, "EarningsTick")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	ratePerGB := s.cfg.GetFloat64("modules.wallet.earnings_rate_per_gb")
	gbPerTick := s.cfg.GetFloat64("modules.wallet.gb_per_tick")
	if ratePerGB <= 0 || gbPerTick <= 0 {
		slog.ErrorContext(ctx, "earnings accrual is misconfigured", "rate_per_gb", ratePerGB, "gb_per_tick", gbPerTick)
		return nil, goerror.NewServer(errAccrualMisconfigured)
	}

	credit := entity.EarningsCredit{
		UserID:    clm.UserID,
		AmountINR: ratePerGB * gbPerTick,
		GB:        gbPerTick,
	}

	balance, err := s.repoDB.CreditEarnings(ctx, credit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo credit earnings", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishEarningsUpdated(ctx, EarningsUpdatedEvent{
		UserID:    clm.UserID,
		AmountINR: credit.AmountINR,
		GB:        credit.GB,
	}); err != nil {
		// Referral commissions catch up on the next tick; the credit itself landed.
		slog.WarnContext(ctx, "failed to publish earnings updated event", "user_id", clm.UserID, "error", err)
	}

	return &EarningsTickOutput{
		CreditedINR: credit.AmountINR,
		GB:          credit.GB,
		Balance:     balance,
	}, nil
}
