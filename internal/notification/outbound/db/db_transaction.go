package db

import (
	"context"

	"github.com/bandwidthbucks/bandwidthbucks/internal/notification/entity"
)

func (s *DB) UpsertUserSettings(ctx context.Context, userID int64, settings []entity.UserSetting) (err error) {
	ctx, span := s.startSpan(ctx, "UpsertUserSettings")
	defer func() { s.endSpan(span, err) }()

	if len(settings) == 0 {
		return nil
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return s.mapError(err)
	}
	defer rollback()

	const query = `
		INSERT INTO notification_user_settings (user_id, category_id, channel, is_enabled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, category_id, channel) DO UPDATE
		SET is_enabled = EXCLUDED.is_enabled, updated_at = now()`

	for _, setting := range settings {
		if _, err = tx.Exec(ctx, query, userID, setting.CategoryID, int16(setting.Channel), setting.IsEnabled); err != nil {
			return s.mapError(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
