package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/shared/constant"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
)

type AuditLogListInput struct {
	Action string
	Limit  int32
	Offset int32
}

type AuditLogItem struct {
	ID           int64
	ActorID      int64
	Action       string
	TargetUserID int64
	Detail       string
	CreatedAt    time.Time
}

type AuditLogListOutput struct {
	Logs  []AuditLogItem
	Total int64
}

func (s *Usecase) AuditLogList(ctx context.Context, in AuditLogListInput) (*AuditLogListOutput, error) {
	ctx, span := s.startSpan(ctx, "AuditLogList")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermWalletAuditLogs, constant.PermActRead)
	if err != nil {
		return nil, err
	}

	filter := entity.AuditLogFilter{
		Action: in.Action,
		Limit:  normalizeLimit(in.Limit),
		Offset: max(in.Offset, 0),
	}

	logs, total, err := s.repoDB.GetAuditLogList(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get audit log list", "admin_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	items := make([]AuditLogItem, 0, len(logs))
	for _, l := range logs {
		items = append(items, AuditLogItem{
			ID:           l.ID,
			ActorID:      l.ActorID,
			Action:       string(l.Action),
			TargetUserID: l.TargetUserID,
			Detail:       l.Detail,
			CreatedAt:    l.CreatedAt,
		})
	}

	return &AuditLogListOutput{Logs: items, Total: total}, nil
}
