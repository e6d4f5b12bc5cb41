package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/entity"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/jwt"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/mfa"
)

// backupCodeCount is how many single-use codes each rotation issues.
const backupCodeCount = 10

type BackupCodeInput struct {
	CurrentPassword string `validate:"required"`
}

type BackupCodeOutput struct {
	RecoveryCodes []string
}

func (s *Usecase) BackupCode(ctx context.Context, in BackupCodeInput) (*BackupCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "BackupCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	user, err := s.repoDB.GetUserCredentialInfo(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", clm.UserID)
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.bcrypt.Verify(user.Password, in.CurrentPassword) {
		slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
		return nil, goerror.NewBusiness("invalid password", goerror.CodeUnauthorized)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, err
	}

	recoveryCodes, err := s.issueBackupCodes(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &BackupCodeOutput{RecoveryCodes: recoveryCodes}, nil
}

// issueBackupCodes replaces the user's backup codes and returns the new
// plaintext batch. The plaintext is never stored; only SHA-256 digests of
// the normalized codes are persisted.
func (s *Usecase) issueBackupCodes(ctx context.Context, userID int64) ([]string, error) {
	factor, err := s.ensureBackupCodeFactor(ctx, userID)
	if err != nil {
		return nil, err
	}

	recoveryCodes, err := s.mfaBackupCode.Generate(backupCodeCount)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate backup codes", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	codes := make([]entity.MFABackupCode, 0, len(recoveryCodes))
	for _, code := range recoveryCodes {
		hashed, err := s.sha256.Hash(mfa.NormalizeBackupCode(code))
		if err != nil {
			slog.ErrorContext(ctx, "failed to hash backup code", "user_id", userID, "error", err)
			return nil, goerror.NewServer(err)
		}

		codes = append(codes, entity.MFABackupCode{
			ID:     s.uid.Generate(),
			UserID: userID,
			Code:   string(hashed),
		})
	}

	if err := s.repoDB.NewBackupCodes(ctx, userID, codes, factor); err != nil {
		slog.ErrorContext(ctx, "failed to rotate backup codes", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return recoveryCodes, nil
}

func (s *Usecase) ensureBackupCodeFactor(ctx context.Context, userID int64) (*entity.MFAFactor, error) {
	hasFactor, err := s.hasBackupCodeFactor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if hasFactor {
		return nil, nil
	}

	factor := &entity.MFAFactor{
		ID:           s.uid.Generate(),
		UserID:       userID,
		Type:         entity.MFATypeBackupCode,
		FriendlyName: "Backup Codes",
		Secret:       []byte(""),
		KeyVersion:   1,
		IsVerified:   true,
	}

	return factor, nil
}

func (s *Usecase) hasBackupCodeFactor(ctx context.Context, userID int64) (bool, error) {
	factors, err := s.repoDB.GetMFAFactorByUserID(ctx, userID, true)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get verified mfa factor", "user_id", userID, "error", err)
		return false, goerror.NewServer(err)
	}
	for i := range factors {
		if factors[i].Type == entity.MFATypeBackupCode {
			return true, nil
		}
	}

	return false, nil
}
