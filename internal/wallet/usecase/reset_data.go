package usecase

import (
	"context"
	"log/slog"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/shared/constant"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
)

type ResetDataOutput struct {
	WalletsReset int64
}

// ResetData zeroes every wallet, starting a fresh earnings cycle. The reset
// and its audit entry commit together.
func (s *Usecase) ResetData(ctx context.Context) (*ResetDataOutput, error) {
	ctx, span := s.startSpan(ctx, "ResetData")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermWalletReset, constant.PermActUpdate)
	if err != nil {
		return nil, err
	}

	audit := entity.AuditLog{
		ID:        s.uid.Generate(),
		ActorID:   clm.UserID,
		Action:    entity.AuditActionResetData,
		Detail:    "reset all wallet balances to zero",
		CreatedAt: s.clock.Now(),
	}

	affected, err := s.repoDB.ResetAllWallets(ctx, audit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo reset all wallets", "admin_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "all wallets reset", "admin_id", clm.UserID, "wallets", affected)

	return &ResetDataOutput{WalletsReset: affected}, nil
}
