package db

import (
	"context"
	"time"

	"github.com/bandwidthbucks/bandwidthbucks/internal/notification/entity"
)

func (s *DB) GetTemplateByTriggerChannel(ctx context.Context, tk entity.TriggerKey, ch entity.Channel) (_ *entity.Template, err error) {
	ctx, span := s.startSpan(ctx, "GetTemplateByTriggerChannel")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, trigger_key, category_id, channel, subject, body
		FROM notification_templates
		WHERE trigger_key = $1 AND channel = $2 AND is_active`

	var out entity.Template
	var triggerKey string
	var channel int16
	err = s.conn.QueryRow(ctx, query, tk.String(), int16(ch)).Scan(
		&out.ID, &triggerKey, &out.CategoryID, &channel, &out.Subject, &out.Body,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	out.TriggerKey = entity.TriggerKey(triggerKey)
	out.Channel = entity.Channel(channel)

	return &out, nil
}

func (s *DB) ListCategories(ctx context.Context) (_ []entity.Category, err error) {
	ctx, span := s.startSpan(ctx, "ListCategories")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, name, description, is_mandatory
		FROM notification_categories
		ORDER BY id`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]entity.Category, 0)
	for rows.Next() {
		var c entity.Category
		if err = rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsMandatory); err != nil {
			return nil, s.mapError(err)
		}

		items = append(items, c)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

func (s *DB) ListUserSettings(ctx context.Context, userID int64) (_ []entity.UserSetting, err error) {
	ctx, span := s.startSpan(ctx, "ListUserSettings")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT category_id, channel, is_enabled
		FROM notification_user_settings
		WHERE user_id = $1`

	rows, err := s.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]entity.UserSetting, 0)
	for rows.Next() {
		var us entity.UserSetting
		var channel int16
		if err = rows.Scan(&us.CategoryID, &channel, &us.IsEnabled); err != nil {
			return nil, s.mapError(err)
		}
		us.Channel = entity.Channel(channel)

		items = append(items, us)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

func (s *DB) ListNotifications(ctx context.Context, userID int64, status entity.NotificationStatus, limit, offset int32) (_ []entity.NotificationItem, err error) {
	ctx, span := s.startSpan(ctx, "ListNotifications")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, category_id, trigger_key, data, metadata, read_at, created_at
		FROM notifications
		WHERE user_id = $1 AND deleted_at IS NULL`
	switch status {
	case entity.NotificationStatusUnread:
		query += ` AND read_at IS NULL`
	case entity.NotificationStatusRead:
		query += ` AND read_at IS NOT NULL`
	}
	query += `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.conn.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]entity.NotificationItem, 0)
	for rows.Next() {
		var n entity.NotificationItem
		var triggerKey string
		var createdAt *time.Time
		if err = rows.Scan(&n.ID, &n.CategoryID, &triggerKey, &n.Data, &n.Metadata, &n.ReadAt, &createdAt); err != nil {
			return nil, s.mapError(err)
		}
		n.TriggerKey = entity.TriggerKey(triggerKey)
		if createdAt != nil {
			n.CreatedAt = *createdAt
		}

		items = append(items, n)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

func (s *DB) CountUnreadNotifications(ctx context.Context, userID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountUnreadNotifications")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT COUNT(*)
		FROM notifications
		WHERE user_id = $1 AND read_at IS NULL AND deleted_at IS NULL`

	var count int64
	err = s.conn.QueryRow(ctx, query, userID).Scan(&count)
	return count, s.mapError(err)
}
