package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/idempotency"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/policy"
)

type PayoutRequestInput struct {
	Method         string  `validate:"required"`
	Amount         float64 `validate:"required"`
	Destination    string  `validate:"required"`
	IdempotencyKey string
}

type PayoutRequestOutput struct {
	PayoutID    int64
	AmountINR   float64
	Explanation string
}

// PayoutRequest validates the request against the payout rules and, when
// valid, debits the normalized INR amount and records a pending payout in one
// transaction. An idempotency key guards against double submission.
func (s *Usecase) PayoutRequest(ctx context.Context, in PayoutRequestInput) (*PayoutRequestOutput, error) {
	ctx, span := s.startSpan(ctx, "PayoutRequest")
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

	var out *PayoutRequestOutput
	create := func(ctx context.Context) error {
		out, err = s.createPayout(ctx, clm.UserID, method, in)
		return err
	}

	if key := strings.TrimSpace(in.IdempotencyKey); key != "" {
		err = s.idemp.Exec(ctx, fmt.Sprintf("wallet:payout:%d:%s", clm.UserID, key), create)
		if errors.Is(err, idempotency.ErrAlreadyInProgress) || errors.Is(err, idempotency.ErrAlreadyCompleted) {
			return nil, goerror.NewBusiness("payout request already submitted", goerror.CodeConflict)
		}
	} else {
		err = create(ctx)
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Usecase) createPayout(ctx context.Context, userID int64, method entity.PayoutMethod, in PayoutRequestInput) (*PayoutRequestOutput, error) {
	balance, err := s.currentBalance(ctx, userID)
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
		slog.ErrorContext(ctx, "payout validation failed", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !res.IsValid {
		return nil, goerror.NewBusiness(res.Explanation, goerror.CodeInvalidInput)
	}

	// A PayPal request can pass the native-amount rule while its INR value
	// still exceeds the balance; that debit can never succeed.
	if res.AmountINR > balance {
		return nil, goerror.NewBusiness(fmt.Sprintf(
			"Payout value %.2f INR exceeds your available earnings of %.2f.",
			res.AmountINR, balance,
		), goerror.CodeInvalidInput)
	}

	p := entity.Payout{
		ID:           s.uid.Generate(),
		UserID:       userID,
		Method:       method,
		Amount:       in.Amount,
		AmountINR:    res.AmountINR,
		ExchangeRate: s.exchangeRate(),
		Destination:  strings.TrimSpace(in.Destination),
		Status:       entity.PayoutStatusPending,
		RequestedAt:  s.clock.Now(),
	}

	err = s.repoDB.NewPayoutRequest(ctx, p)
	if errors.Is(err, goerror.ErrConflict) {
		// The conditional debit found the balance changed under us.
		slog.WarnContext(ctx, "payout debit lost a concurrent balance update", "user_id", userID, "payout_id", p.ID)
		return nil, goerror.NewBusiness("balance changed, please retry the payout request", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo new payout request", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &PayoutRequestOutput{
		PayoutID:    p.ID,
		AmountINR:   p.AmountINR,
		Explanation: res.Explanation,
	}, nil
}
