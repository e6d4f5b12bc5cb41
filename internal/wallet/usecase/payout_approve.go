package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/shared/constant"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
)

type PayoutApproveInput struct {
	PayoutID int64 `validate:"required"`
}

// PayoutApprove marks a pending payout approved and records the audit entry
// in the same transaction. The wallet was already debited at request time, so
// approval moves no money.
func (s *Usecase) PayoutApprove(ctx context.Context, in PayoutApproveInput) error {
	ctx, span := s.startSpan(ctx, "PayoutApprove")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermWalletPayouts, constant.PermActUpdate)
	if err != nil {
		return err
	}

	p, err := s.loadPendingPayout(ctx, in.PayoutID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	decision := entity.PayoutDecision{
		PayoutID:  p.ID,
		AdminID:   clm.UserID,
		DecidedAt: now,
	}
	audit := entity.AuditLog{
		ID:           s.uid.Generate(),
		ActorID:      clm.UserID,
		Action:       entity.AuditActionApprovePayout,
		TargetUserID: p.UserID,
		Detail:       fmt.Sprintf("approved payout %d for %.2f INR via %s", p.ID, p.AmountINR, p.Method),
		CreatedAt:    now,
	}

	err = s.repoDB.ApprovePayout(ctx, decision, audit)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "payout no longer pending", "payout_id", p.ID, "admin_id", clm.UserID)
		return goerror.NewBusiness("payout has already been decided", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo approve payout", "payout_id", p.ID, "admin_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	s.publishDecision(ctx, p, true, "")

	return nil
}

func (s *Usecase) loadPendingPayout(ctx context.Context, id int64) (*entity.Payout, error) {
	p, err := s.repoDB.GetPayoutByID(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("payout not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get payout by id", "payout_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	if p.Status != entity.PayoutStatusPending {
		return nil, goerror.NewBusiness("payout has already been decided", goerror.CodeConflict)
	}

	return p, nil
}

func (s *Usecase) publishDecision(ctx context.Context, p *entity.Payout, approved bool, reason string) {
	email, err := s.repoDB.GetUserEmailByID(ctx, p.UserID)
	if err != nil {
		slog.WarnContext(ctx, "failed to repo get user email by id", "user_id", p.UserID, "error", err)
	}

	if err := s.repoMessaging.PublishPayoutDecided(ctx, PayoutDecidedEvent{
		PayoutID:  p.ID,
		UserID:    p.UserID,
		Email:     email,
		Method:    p.Method.String(),
		Amount:    p.Amount,
		AmountINR: p.AmountINR,
		Approved:  approved,
		Reason:    reason,
	}); err != nil {
		// The decision is durable; the user just misses the notification.
		slog.WarnContext(ctx, "failed to publish payout decided event", "payout_id", p.ID, "error", err)
	}
}
