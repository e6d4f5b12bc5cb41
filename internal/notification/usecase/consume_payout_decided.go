package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bandwidthbucks/bandwidthbucks/internal/notification/entity"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/valueobject"
)

type (
	ConsumePayoutDecidedInput struct {
		PayoutID  int64   `validate:"required,gt=0"`
		UserID    int64   `validate:"required,gt=0"`
		Email     string  `validate:"required,email"`
		Method    string  `validate:"required"`
		Amount    float64 `validate:"required,gt=0"`
		AmountINR float64 `validate:"required,gt=0"`
		Approved  bool
		Reason    string
	}
)

func (s *Usecase) ConsumePayoutDecided(ctx context.Context, in ConsumePayoutDecidedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePayoutDecided")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	triggerKey := entity.TriggerKeyPayoutApproved
	if !in.Approved {
		triggerKey = entity.TriggerKeyPayoutRejected
	}

	data := s.baseEmailTemplateData()
	data["payout_id"] = fmt.Sprintf("%d", in.PayoutID)
	data["method"] = in.Method
	data["amount"] = fmt.Sprintf("%.2f", in.Amount)
	data["amount_inr"] = fmt.Sprintf("%.2f", in.AmountINR)
	data["reason"] = in.Reason
	data["history_url"] = s.cfg.GetString("app.web") + "/wallet/payouts"

	s.sendEmailNotification(ctx, emailNotificationInput{
		UserID:       in.UserID,
		Email:        in.Email,
		TriggerKey:   triggerKey,
		TemplateData: data,
		NotificationData: valueobject.JSONMap{
			"payout_id":  in.PayoutID,
			"method":     in.Method,
			"amount_inr": in.AmountINR,
		},
	})
	s.createPayoutNotification(ctx, triggerKey, in)

	return nil
}

func (s *Usecase) createPayoutNotification(ctx context.Context, tk entity.TriggerKey, in ConsumePayoutDecidedInput) {
	tpl := s.getTemplate(ctx, tk, entity.ChannelInApp)
	if tpl == nil {
		return
	}

	n := entity.CreateNotification{
		ID:         s.uid.Generate(),
		UserID:     in.UserID,
		CategoryID: tpl.CategoryID,
		TriggerKey: tpl.TriggerKey,
		Data: valueobject.JSONMap{
			"payout_id":  in.PayoutID,
			"method":     in.Method,
			"amount_inr": in.AmountINR,
			"reason":     in.Reason,
		},
		Metadata: valueobject.JSONMap{},
	}
	if err := s.repoDB.CreateNotification(ctx, n); err != nil {
		slog.ErrorContext(ctx, "failed to repo create notification", "user_id", in.UserID, "error", err)
		return
	}

	s.publishNotification(s.buildStreamEvent(n))
}
