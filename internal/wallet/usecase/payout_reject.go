package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/shared/constant"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
)

type PayoutRejectInput struct {
	PayoutID int64  `validate:"required"`
	Reason   string `validate:"required"`
}

// PayoutReject marks a pending payout rejected, refunds the debited INR
// amount, and records the audit entry. Refund and status change commit in the
// same transaction so the wallet can never lose the money to a partial
// failure. A rejection reason is mandatory.
func (s *Usecase) PayoutReject(ctx context.Context, in PayoutRejectInput) error {
	ctx, span := s.startSpan(ctx, "PayoutReject")
	defer span.End()

	in.Reason = strings.TrimSpace(in.Reason)

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
		Reason:    in.Reason,
		DecidedAt: now,
	}
	audit := entity.AuditLog{
		ID:           s.uid.Generate(),
		ActorID:      clm.UserID,
		Action:       entity.AuditActionRejectPayout,
		TargetUserID: p.UserID,
		Detail:       fmt.Sprintf("rejected payout %d, refunded %.2f INR: %s", p.ID, p.AmountINR, in.Reason),
		CreatedAt:    now,
	}

	err = s.repoDB.RejectPayout(ctx, decision, p.AmountINR, p.UserID, audit)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "payout no longer pending", "payout_id", p.ID, "admin_id", clm.UserID)
		return goerror.NewBusiness("payout has already been decided", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo reject payout", "payout_id", p.ID, "admin_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	s.publishDecision(ctx, p, false, in.Reason)

	return nil
}
