package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/referral/entity"
)

type ConsumeUserRegistrationInput struct {
	UserID       int64 `validate:"required"`
	ReferralCode string
}

// ConsumeUserRegistration creates the new user's referral link and, when they
// signed up with a valid code, attributes them to the referrer. An unknown
// code is ignored rather than failing the registration flow.
func (s *Usecase) ConsumeUserRegistration(ctx context.Context, in ConsumeUserRegistrationInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserRegistration")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	var referrerID *int64
	if code := strings.TrimSpace(strings.ToUpper(in.ReferralCode)); code != "" {
		ref, err := s.repoDB.GetReferralByCode(ctx, code)
		switch {
		case errors.Is(err, goerror.ErrNotFound):
			slog.WarnContext(ctx, "unknown referral code at registration", "user_id", in.UserID, "code", code)
		case err != nil:
			slog.ErrorContext(ctx, "failed to repo get referral by code", "code", code, "error", err)
			return goerror.NewServer(err)
		case ref.UserID == in.UserID:
			slog.WarnContext(ctx, "user tried to refer themselves", "user_id", in.UserID)
		default:
			referrerID = &ref.UserID
		}
	}

	if _, err := s.loadOrCreateReferral(ctx, in.UserID, referrerID); err != nil {
		return err
	}

	return nil
}

type ConsumeEarningsUpdatedInput struct {
	UserID    int64   `validate:"required"`
	AmountINR float64 `validate:"required"`
}

// ConsumeEarningsUpdated credits the referrer's commission for one earnings
// accrual of a referred user. Users without a referrer produce no commission.
func (s *Usecase) ConsumeEarningsUpdated(ctx context.Context, in ConsumeEarningsUpdatedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeEarningsUpdated")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	ref, err := s.repoDB.GetReferralByUserID(ctx, in.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get referral by user_id", "user_id", in.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if ref.ReferrerID == nil {
		return nil
	}

	rate := s.commissionRate()
	if rate <= 0 {
		slog.WarnContext(ctx, "referral commission rate is not configured, skipping", "user_id", in.UserID)
		return nil
	}

	c := entity.Commission{
		ID:              s.uid.Generate(),
		ReferrerID:      *ref.ReferrerID,
		ReferredUserID:  in.UserID,
		AmountINR:       in.AmountINR * rate,
		SourceAmountINR: in.AmountINR,
		CreatedAt:       s.clock.Now(),
	}

	if err := s.repoDB.CreditCommission(ctx, c); err != nil {
		slog.ErrorContext(ctx, "failed to repo credit commission", "referrer_id", c.ReferrerID, "referred_user_id", in.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
