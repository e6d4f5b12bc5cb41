package db

import (
	"context"

	"github.com/bandwidthbucks/bandwidthbucks/internal/notification/entity"
)

func (s *DB) MarkNotificationRead(ctx context.Context, userID, notificationID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkNotificationRead")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE notifications
		SET read_at = now()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL AND deleted_at IS NULL`

	tag, err := s.conn.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) MarkNotificationsReadAll(ctx context.Context, userID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "MarkNotificationsReadAll")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE notifications
		SET read_at = now()
		WHERE user_id = $1 AND read_at IS NULL AND deleted_at IS NULL`

	tag, err := s.conn.Exec(ctx, query, userID)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}

func (s *DB) SoftDeleteNotification(ctx context.Context, userID, notificationID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "SoftDeleteNotification")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE notifications
		SET deleted_at = now()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	tag, err := s.conn.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) UpdateDeliveryLogStatus(ctx context.Context, u entity.UpdateDeliveryLog) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateDeliveryLogStatus")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE notification_delivery_logs
		SET status = $2, provider_response = $3, next_retry_at = $4, updated_at = now()
		WHERE id = $1`

	_, err = s.conn.Exec(ctx, query, u.ID, int16(u.Status), u.ProviderResponse, u.NextRetryAt)
	return s.mapError(err)
}
