package usecase

import (
	"context"
	"log/slog"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/shared/constant"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
)

type PayoutQueueInput struct {
	Status string
	Limit  int32
	Offset int32
}

type PayoutQueueItem struct {
	PayoutItem
	UserID int64
}

type PayoutQueueOutput struct {
	Payouts []PayoutQueueItem
	Total   int64
}

// PayoutQueue lists payout requests across all users for admin review. The
// default view is the pending queue.
func (s *Usecase) PayoutQueue(ctx context.Context, in PayoutQueueInput) (*PayoutQueueOutput, error) {
	ctx, span := s.startSpan(ctx, "PayoutQueue")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermWalletPayouts, constant.PermActRead)
	if err != nil {
		return nil, err
	}

	status := entity.PayoutStatusFromString(in.Status)
	if in.Status == "" {
		status = entity.PayoutStatusPending
	}

	filter := entity.PayoutListFilter{
		Status: status,
		Limit:  normalizeLimit(in.Limit),
		Offset: max(in.Offset, 0),
	}

	payouts, total, err := s.repoDB.GetPayoutList(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get payout list", "admin_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	items := make([]PayoutQueueItem, 0, len(payouts))
	for _, p := range payouts {
		items = append(items, PayoutQueueItem{
			PayoutItem: toPayoutItem(p),
			UserID:     p.UserID,
		})
	}

	return &PayoutQueueOutput{Payouts: items, Total: total}, nil
}
