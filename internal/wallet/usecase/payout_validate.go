package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/policy"
)

type PayoutValidateInput struct {
	Method string  `validate:"required"`
	Amount float64 `validate:"required"`
}

type PayoutValidateOutput struct {
	IsValid     bool
	Explanation string
	AmountINR   float64
}

// PayoutValidate runs the payout rules against the caller's wallet without
// creating a request. It always returns a decision for well-formed input.
func (s *Usecase) PayoutValidate(ctx context.Context, in PayoutValidateInput) (*PayoutValidateOutput, error) {
	ctx, span := s.startSpan(ctx, "PayoutValidate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	method := entity.PayoutMethodFromString(in.Method)
	if method == entity.PayoutMethodUnknown {
		return nil, goerror.NewInvalidInput(nil, "method", "payout method must be UPI or PayPal")
	}

	balance, err := s.currentBalance(ctx, clm.UserID)
	if err != nil {
		return nil, err
	}

	res, err := policy.Validate(policy.Request{
		Method:       method,
		Amount:       in.Amount,
		Balance:      balance,
		ExchangeRate: s.exchangeRate(),
	})
	if errors.Is(err, policy.ErrBadAmount) {
		return nil, goerror.NewInvalidInput(err, "amount", "payout amount must be a positive number")
	}
	if err != nil {
		slog.ErrorContext(ctx, "payout validation failed", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &PayoutValidateOutput{
		IsValid:     res.IsValid,
		Explanation: res.Explanation,
		AmountINR:   res.AmountINR,
	}, nil
}

func (s *Usecase) currentBalance(ctx context.Context, userID int64) (float64, error) {
	w, err := s.repoDB.GetWalletByUserID(ctx, userID)
	if errors.Is(err, goerror.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get wallet by user_id", "user_id", userID, "error", err)
		return 0, goerror.NewServer(err)
	}

	return w.Balance, nil
}
