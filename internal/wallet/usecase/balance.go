package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
)

type BalanceOutput struct {
	Balance     float64
	TotalEarned float64
	GBShared    float64
	UpdatedAt   time.Time
}

func (s *Usecase) Balance(ctx context.Context) (*BalanceOutput, error) {
	ctx, span := s.startSpan(ctx, "Balance")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	w, err := s.repoDB.GetWalletByUserID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		// A user with no accruals yet has an empty wallet, not an error.
		return &BalanceOutput{}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get wallet by user_id", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &BalanceOutput{
		Balance:     w.Balance,
		TotalEarned: w.TotalEarned,
		GBShared:    w.GBShared,
		UpdatedAt:   w.UpdatedAt,
	}, nil
}
