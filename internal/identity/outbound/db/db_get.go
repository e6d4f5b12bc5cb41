package db

import (
	"context"
	"fmt"
	"time"

	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/entity"
)

func (s *DB) GetUserLoginInfo(ctx context.Context, email string) (_ *entity.UserLoginInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserLoginInfo")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT u.id, u.email, u.status, c.password,
		       EXISTS (
		           SELECT 1 FROM mfa_factors f
		           WHERE f.user_id = u.id AND f.is_verified
		       ) AS has_mfa
		FROM users u
		JOIN user_credentials c ON c.user_id = u.id
		WHERE u.email = $1 AND u.deleted_at IS NULL`

	var out entity.UserLoginInfo
	var status int16
	err = s.conn.QueryRow(ctx, query, email).Scan(&out.ID, &out.Email, &status, &out.Password, &out.HasMFA)
	if err != nil {
		return nil, s.mapError(err)
	}
	out.Status = entity.UserStatus(status)

	return &out, nil
}

func (s *DB) GetUserCredentialInfo(ctx context.Context, id int64) (_ *entity.UserCredentialInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserCredentialInfo")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT u.id, u.email, u.status, c.password
		FROM users u
		JOIN user_credentials c ON c.user_id = u.id
		WHERE u.id = $1 AND u.deleted_at IS NULL`

	var out entity.UserCredentialInfo
	var status int16
	err = s.conn.QueryRow(ctx, query, id).Scan(&out.ID, &out.Email, &status, &out.Password)
	if err != nil {
		return nil, s.mapError(err)
	}
	out.Status = entity.UserStatus(status)

	return &out, nil
}

func (s *DB) GetChallengeUserByTokenPurpose(ctx context.Context, token string, p entity.ChallengePurpose) (_ *entity.ChallengeUser, err error) {
	ctx, span := s.startSpan(ctx, "GetChallengeUserByTokenPurpose")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT ch.id, ch.purpose, ch.token, ch.metadata, u.id, u.email, u.status
		FROM challenges ch
		JOIN users u ON u.id = ch.user_id
		WHERE ch.token = $1 AND ch.purpose = $2 AND ch.expires_at > now()
		  AND u.deleted_at IS NULL`

	var out entity.ChallengeUser
	var purpose, status int16
	err = s.conn.QueryRow(ctx, query, token, int16(p)).Scan(
		&out.ChallengeID, &purpose, &out.ChallengeToken, &out.ChallengeMetadata,
		&out.UserID, &out.UserEmail, &status,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	out.ChallengePurpose = entity.ChallengePurpose(purpose)
	out.UserStatus = entity.UserStatus(status)

	return &out, nil
}

func (s *DB) GetUserRefreshToken(ctx context.Context, token string) (_ *entity.UserRefreshToken, err error) {
	ctx, span := s.startSpan(ctx, "GetUserRefreshToken")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT u.id, u.email, u.status,
		       rt.id, rt.token, rt.revoked, rt.replaced_by_token_id, rt.expires_at
		FROM refresh_tokens rt
		JOIN users u ON u.id = rt.user_id
		WHERE rt.token = $1 AND u.deleted_at IS NULL`

	var out entity.UserRefreshToken
	var status int16
	err = s.conn.QueryRow(ctx, query, token).Scan(
		&out.UserID, &out.UserEmail, &status,
		&out.RefreshID, &out.RefreshToken, &out.RefreshRevoked,
		&out.RefreshReplacedByTokenID, &out.RefreshExpiresAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	out.UserStatus = entity.UserStatus(status)

	return &out, nil
}

func (s *DB) GetUserByEmail(ctx context.Context, email string, includeDeleted bool) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, email, full_name, avatar_url, status
		FROM users
		WHERE email = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	var out entity.User
	var status int16
	err = s.conn.QueryRow(ctx, query, email).Scan(&out.ID, &out.Email, &out.FullName, &out.AvatarURL, &status)
	if err != nil {
		return nil, s.mapError(err)
	}
	out.Status = entity.UserStatus(status)

	return &out, nil
}

func (s *DB) GetUserByID(ctx context.Context, id int64, includeDeleted bool) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, email, full_name, avatar_url, status, updated_at, deleted_at
		FROM users
		WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	var out entity.User
	var status int16
	var updatedAt *time.Time
	err = s.conn.QueryRow(ctx, query, id).Scan(
		&out.ID, &out.Email, &out.FullName, &out.AvatarURL, &status, &updatedAt, &out.DeletedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	out.Status = entity.UserStatus(status)
	if updatedAt != nil {
		out.UpdatedAt = *updatedAt
	}

	return &out, nil
}

func (s *DB) GetMFAFactorByUserID(ctx context.Context, userID int64, isVerified bool) (_ []entity.MFAFactor, err error) {
	ctx, span := s.startSpan(ctx, "GetMFAFactorByUserID")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, user_id, type, friendly_name, secret, key_version, is_verified
		FROM mfa_factors
		WHERE user_id = $1 AND is_verified = $2`

	rows, err := s.conn.Query(ctx, query, userID, isVerified)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	result := make([]entity.MFAFactor, 0)
	for rows.Next() {
		var m entity.MFAFactor
		var mType int16
		if err = rows.Scan(&m.ID, &m.UserID, &mType, &m.FriendlyName, &m.Secret, &m.KeyVersion, &m.IsVerified); err != nil {
			return nil, s.mapError(err)
		}
		m.Type = entity.MFAType(mType)

		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return result, nil
}

func (s *DB) GetMFAFactorByID(ctx context.Context, id int64, userID int64) (_ *entity.MFAFactor, err error) {
	ctx, span := s.startSpan(ctx, "GetMFAFactorByID")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, user_id, type, friendly_name, secret, key_version, is_verified
		FROM mfa_factors
		WHERE id = $1 AND user_id = $2`

	var out entity.MFAFactor
	var mType int16
	err = s.conn.QueryRow(ctx, query, id, userID).Scan(
		&out.ID, &out.UserID, &mType, &out.FriendlyName, &out.Secret, &out.KeyVersion, &out.IsVerified,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	out.Type = entity.MFAType(mType)

	return &out, nil
}

func (s *DB) GetMFABackupCodeByUserID(ctx context.Context, userID int64) (_ []entity.MFABackupCode, err error) {
	ctx, span := s.startSpan(ctx, "GetMFABackupCodeByUserID")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, user_id, code
		FROM mfa_backup_codes
		WHERE user_id = $1 AND used_at IS NULL`

	rows, err := s.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]entity.MFABackupCode, 0)
	for rows.Next() {
		var bc entity.MFABackupCode
		if err = rows.Scan(&bc.ID, &bc.UserID, &bc.Code); err != nil {
			return nil, s.mapError(err)
		}

		items = append(items, bc)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}

// orderableUserColumns keeps ORDER BY out of reach of user input.
var orderableUserColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"email":      "email",
	"full_name":  "full_name",
}

func (s *DB) GetUserList(ctx context.Context, filter entity.UserListFilterData) (_ []entity.User, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetUserList")
	defer func() { s.endSpan(span, err) }()

	orderBy, ok := orderableUserColumns[filter.OrderBy]
	if !ok {
		orderBy = "created_at"
	}
	direction := "DESC"
	if filter.OrderDirection == "asc" {
		direction = "ASC"
	}

	var dateFrom, dateTo *time.Time
	if !filter.DateFrom.IsZero() {
		dateFrom = &filter.DateFrom
	}
	if !filter.DateTo.IsZero() {
		dateTo = &filter.DateTo
	}

	query := fmt.Sprintf(`
		SELECT id, email, full_name, avatar_url, status, updated_at,
		       COUNT(*) OVER() AS total
		FROM users
		WHERE deleted_at IS NULL
		  AND ($1::boolean = false OR status = ANY($2::smallint[]))
		  AND ($3::boolean = false OR email ILIKE '%%' || $4 || '%%' OR full_name ILIKE '%%' || $4 || '%%')
		  AND ($5::timestamptz IS NULL OR created_at >= $5)
		  AND ($6::timestamptz IS NULL OR created_at <= $6)
		ORDER BY %s %s
		LIMIT $7 OFFSET $8`, orderBy, direction)

	rows, err := s.conn.Query(ctx, query,
		filter.IsFilterByStatus, filter.Statuses,
		filter.IsFilterBySearch, filter.Search,
		dateFrom, dateTo,
		filter.Size, filter.Page,
	)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	var total int64
	users := make([]entity.User, 0)
	for rows.Next() {
		var user entity.User
		var status int16
		var updatedAt *time.Time
		if err = rows.Scan(&user.ID, &user.Email, &user.FullName, &user.AvatarURL, &status, &updatedAt, &total); err != nil {
			return nil, 0, s.mapError(err)
		}
		user.Status = entity.UserStatus(status)
		if updatedAt != nil {
			user.UpdatedAt = *updatedAt
		}

		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return users, total, nil
}
