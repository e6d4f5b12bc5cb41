package db

import "context"

func (s *DB) RemoveUserDevice(ctx context.Context, deviceToken string) (err error) {
	ctx, span := s.startSpan(ctx, "RemoveUserDevice")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `DELETE FROM notification_user_devices WHERE device_token = $1`, deviceToken)
	return s.mapError(err)
}
