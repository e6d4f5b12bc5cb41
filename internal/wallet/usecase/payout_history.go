package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
)

type PayoutHistoryInput struct {
	Status string
	Limit  int32
	Offset int32
}

type PayoutItem struct {
	ID          int64
	Method      string
	Amount      float64
	AmountINR   float64
	Destination string
	Status      string
	Reason      string
	RequestedAt time.Time
	DecidedAt   *time.Time
}

type PayoutHistoryOutput struct {
	Payouts []PayoutItem
	Total   int64
}

func (s *Usecase) PayoutHistory(ctx context.Context, in PayoutHistoryInput) (*PayoutHistoryOutput, error) {
	ctx, span := s.startSpan(ctx, "PayoutHistory")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	filter := entity.PayoutListFilter{
		UserID: clm.UserID,
		Status: entity.PayoutStatusFromString(in.Status),
		Limit:  normalizeLimit(in.Limit),
		Offset: max(in.Offset, 0),
	}

	payouts, total, err := s.repoDB.GetPayoutList(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get payout list", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &PayoutHistoryOutput{Payouts: toPayoutItems(payouts), Total: total}, nil
}

func toPayoutItem(p entity.Payout) PayoutItem {
	return PayoutItem{
		ID:          p.ID,
		Method:      p.Method.String(),
		Amount:      p.Amount,
		AmountINR:   p.AmountINR,
		Destination: p.Destination,
		Status:      p.Status.String(),
		Reason:      p.Reason,
		RequestedAt: p.RequestedAt,
		DecidedAt:   p.DecidedAt,
	}
}

func toPayoutItems(payouts []entity.Payout) []PayoutItem {
	items := make([]PayoutItem, 0, len(payouts))
	for _, p := range payouts {
		items = append(items, toPayoutItem(p))
	}

	return items
}

func normalizeLimit(limit int32) int32 {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}

	return limit
}
