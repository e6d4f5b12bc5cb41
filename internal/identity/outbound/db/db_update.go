package db

import (
	"context"

	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/entity"
)

func (s *DB) RevokeRefreshToken(ctx context.Context, token string) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE refresh_tokens
		SET revoked = true, updated_at = now()
		WHERE token = $1 AND NOT revoked`

	_, err = s.conn.Exec(ctx, query, token)
	return s.mapError(err)
}

func (s *DB) RevokeAllRefreshToken(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeAllRefreshToken")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE refresh_tokens
		SET revoked = true, updated_at = now()
		WHERE user_id = $1 AND NOT revoked`

	_, err = s.conn.Exec(ctx, query, userID)
	return s.mapError(err)
}

// MarkMFABackupCodeUsed consumes a backup code. The used_at guard makes the
// update succeed for exactly one caller, so a code can never be redeemed
// twice even under concurrent attempts.
func (s *DB) MarkMFABackupCodeUsed(ctx context.Context, bcID, userID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkMFABackupCodeUsed")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE mfa_backup_codes
		SET used_at = now()
		WHERE id = $1 AND user_id = $2 AND used_at IS NULL`

	tag, err := s.conn.Exec(ctx, query, bcID, userID)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

func (s *DB) UpdateMFALastUsedAt(ctx context.Context, factorID, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateMFALastUsedAt")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE mfa_factors
		SET last_used_at = now()
		WHERE id = $1 AND user_id = $2`

	_, err = s.conn.Exec(ctx, query, factorID, userID)
	return s.mapError(err)
}

func (s *DB) UpdateUserProfile(ctx context.Context, id int64, fullName string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserProfile")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE users
		SET full_name = $2, updated_by = $1, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	_, err = s.conn.Exec(ctx, query, id, fullName)
	return s.mapError(err)
}

func (s *DB) UpdateUserAvatar(ctx context.Context, id int64, avatarURL string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserAvatar")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE users
		SET avatar_url = $2, updated_by = $1, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	_, err = s.conn.Exec(ctx, query, id, avatarURL)
	return s.mapError(err)
}

func (s *DB) UpdateUserStatus(ctx context.Context, id int64, oldStatus, newStatus entity.UserStatus) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserStatus")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE users
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3 AND deleted_at IS NULL`

	_, err = s.conn.Exec(ctx, query, id, int16(newStatus), int16(oldStatus))
	return s.mapError(err)
}

func (s *DB) UpdateUserCredential(ctx context.Context, userID int64, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserCredential")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE user_credentials
		SET password = $2, updated_at = now()
		WHERE user_id = $1`

	_, err = s.conn.Exec(ctx, query, userID, hash)
	return s.mapError(err)
}

func (s *DB) MarkUserDeleted(ctx context.Context, id, byID int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkUserDeleted")
	defer func() { s.endSpan(span, err) }()

	const query = `
		UPDATE users
		SET deleted_at = now(), deleted_by = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	_, err = s.conn.Exec(ctx, query, id, byID)
	return s.mapError(err)
}
