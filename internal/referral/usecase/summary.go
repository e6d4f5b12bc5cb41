package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/referral/entity"
)

type SummaryOutput struct {
	Code               string
	Link               string
	ReferredUsers      int64
	CommissionTotalINR float64
}

// Summary returns the caller's referral code and performance. The code is
// created on first access.
func (s *Usecase) Summary(ctx context.Context) (*SummaryOutput, error) {
	ctx, span := s.startSpan(ctx, "Summary")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	ref, err := s.loadOrCreateReferral(ctx, clm.UserID, nil)
	if err != nil {
		return nil, err
	}

	referred, err := s.repoDB.CountReferredUsers(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count referred users", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	total, err := s.repoDB.SumCommissions(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo sum commissions", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &SummaryOutput{
		Code:               ref.Code,
		Link:               s.cfg.GetString("app.web") + "/register?ref=" + ref.Code,
		ReferredUsers:      referred,
		CommissionTotalINR: total,
	}, nil
}

func (s *Usecase) loadOrCreateReferral(ctx context.Context, userID int64, referrerID *int64) (*entity.Referral, error) {
	ref, err := s.repoDB.GetReferralByUserID(ctx, userID)
	if err == nil {
		return ref, nil
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get referral by user_id", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	// Retry on code collision; 4 random bytes collide rarely.
	for range 3 {
		code, err := newCode()
		if err != nil {
			slog.ErrorContext(ctx, "failed to generate referral code", "user_id", userID, "error", err)
			return nil, goerror.NewServer(err)
		}

		r := entity.Referral{
			UserID:     userID,
			Code:       code,
			ReferrerID: referrerID,
			CreatedAt:  s.clock.Now(),
		}

		err = s.repoDB.CreateReferral(ctx, r)
		if errors.Is(err, goerror.ErrConflict) {
			continue
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo create referral", "user_id", userID, "error", err)
			return nil, goerror.NewServer(err)
		}

		return &r, nil
	}

	return nil, goerror.NewServer(errors.New("referral code generation kept colliding"))
}
