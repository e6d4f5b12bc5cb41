package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/entity"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/jwt"
)

type TOTPDisableInput struct {
	CurrentPassword string `validate:"required"`
}

func (s *Usecase) TOTPDisable(ctx context.Context, in TOTPDisableInput) error {
	ctx, span := s.startSpan(ctx, "TOTPDisable")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	user, err := s.repoDB.GetUserCredentialInfo(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", clm.UserID)
		return goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if !s.bcrypt.Verify(user.Password, in.CurrentPassword) {
		slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
		return goerror.NewBusiness("invalid password", goerror.CodeUnauthorized)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return err
	}

	hasFactor, err := s.hasVerifiedTOTPFactor(ctx, user.ID)
	if err != nil {
		return err
	}
	if !hasFactor {
		return goerror.NewBusiness("two-factor authentication is not enabled", goerror.CodeNotFound)
	}

	// Drops the encrypted seed and every remaining backup code in one
	// transaction so a half-disabled account cannot exist.
	if err := s.repoDB.RemoveMFAFactors(ctx, user.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo remove mfa factors", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

func (s *Usecase) hasVerifiedTOTPFactor(ctx context.Context, userID int64) (bool, error) {
	factors, err := s.repoDB.GetMFAFactorByUserID(ctx, userID, true)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get verified mfa factor", "user_id", userID, "error", err)
		return false, goerror.NewServer(err)
	}

	for i := range factors {
		if factors[i].Type == entity.MFATypeTOTP {
			return true, nil
		}
	}

	return false, nil
}
