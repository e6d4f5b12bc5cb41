package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/bandwidthbucks/bandwidthbucks/internal/notification/entity"
)

func (s *DB) RegisterUserDevice(ctx context.Context, userID int64, deviceToken, platform string) (err error) {
	ctx, span := s.startSpan(ctx, "RegisterUserDevice")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO notification_user_devices (user_id, device_token, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT (device_token) DO UPDATE
		SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform, updated_at = now()`

	_, err = s.conn.Exec(ctx, query, userID, deviceToken, platform)
	return s.mapError(err)
}

func insertNotification(ctx context.Context, tx pgx.Tx, data entity.CreateNotification) error {
	const query = `
		INSERT INTO notifications (id, user_id, category_id, trigger_key, data, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		data.ID, data.UserID, data.CategoryID, data.TriggerKey.String(), data.Data, data.Metadata,
	)
	return err
}

func (s *DB) CreateNotification(ctx context.Context, data entity.CreateNotification) (err error) {
	ctx, span := s.startSpan(ctx, "CreateNotification")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO notifications (id, user_id, category_id, trigger_key, data, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = s.conn.Exec(ctx, query,
		data.ID, data.UserID, data.CategoryID, data.TriggerKey.String(), data.Data, data.Metadata,
	)
	return s.mapError(err)
}

func (s *DB) CreateNotificationWithDeliveryLog(ctx context.Context, n entity.CreateNotification, dl entity.CreateDeliveryLog) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CreateNotificationWithDeliveryLog")
	defer func() { s.endSpan(span, err) }()

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer rollback()

	if err := insertNotification(ctx, tx, n); err != nil {
		return 0, s.mapError(err)
	}

	const logQuery = `
		INSERT INTO notification_delivery_logs (notification_id, channel, status)
		VALUES ($1, $2, $3)
		RETURNING id`

	var logID int64
	if err := tx.QueryRow(ctx, logQuery, dl.NotificationID, int16(dl.Channel), int16(dl.Status)).Scan(&logID); err != nil {
		return 0, s.mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return logID, nil
}
