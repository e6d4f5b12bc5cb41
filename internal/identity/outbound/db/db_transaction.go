package db

import (
	"context"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/entity"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
)

func insertUser(ctx context.Context, tx pgx.Tx, user entity.NewUser) error {
	const query = `
		INSERT INTO users (id, email, full_name, avatar_url, status, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		user.ID, user.Email, user.FullName, user.AvatarURL, int16(user.Status), user.CreatedBy, user.UpdatedBy,
	)
	return err
}

func insertCredential(ctx context.Context, tx pgx.Tx, userID int64, hash string) error {
	const query = `INSERT INTO user_credentials (user_id, password) VALUES ($1, $2)`

	_, err := tx.Exec(ctx, query, userID, hash)
	return err
}

func insertChallenge(ctx context.Context, tx pgx.Tx, chal entity.Challenge) error {
	const query = `
		INSERT INTO challenges (id, user_id, token, purpose, expires_at, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		chal.ID, chal.UserID, chal.Token, int16(chal.Purpose), chal.ExpiresAt, chal.Metadata,
	)
	return err
}

func deleteChallenge(ctx context.Context, tx pgx.Tx, id int64) error {
	_, err := tx.Exec(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	return err
}

func insertMFAFactor(ctx context.Context, tx pgx.Tx, f entity.MFAFactor) error {
	const query = `
		INSERT INTO mfa_factors (id, user_id, type, friendly_name, secret, key_version, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		f.ID, f.UserID, int16(f.Type), f.FriendlyName, f.Secret, f.KeyVersion, f.IsVerified,
	)
	return err
}

func insertRefreshToken(ctx context.Context, tx pgx.Tx, ref entity.RefreshToken) error {
	const query = `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, metadata)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query, ref.ID, ref.UserID, ref.Token, ref.ExpiresAt, ref.Metadata)
	return err
}

func (s *DB) NewRegistration(ctx context.Context, user entity.NewUser, chal entity.Challenge, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "NewRegistration")
	defer func() { s.endSpan(span, err) }()

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	if err := insertUser(ctx, tx, user); err != nil {
		return s.mapError(err)
	}

	if err := insertCredential(ctx, tx, user.ID, hash); err != nil {
		return s.mapError(err)
	}

	if err := insertChallenge(ctx, tx, chal); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) NewUser(ctx context.Context, user entity.NewUser, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "NewUser")
	defer func() { s.endSpan(span, err) }()

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	if err := insertUser(ctx, tx, user); err != nil {
		return s.mapError(err)
	}

	if err := insertCredential(ctx, tx, user.ID, hash); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) UpsertUsers(ctx context.Context, users []entity.UpsertUser, hashes map[string]string) (created, updated int, err error) {
	ctx, span := s.startSpan(ctx, "UpsertUsers")
	defer func() { s.endSpan(span, err) }()

	if len(users) == 0 {
		return 0, 0, nil
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer rollback()

	emails := make([]string, 0, len(users))
	for _, user := range users {
		emails = append(emails, user.Email)
	}

	const existingQuery = `SELECT id, email FROM users WHERE lower(email) = ANY($1::text[])`

	rows, err := tx.Query(ctx, existingQuery, emails)
	if err != nil {
		return 0, 0, s.mapError(err)
	}

	existingByEmail := make(map[string]int64, len(users))
	for rows.Next() {
		var id int64
		var email string
		if err = rows.Scan(&id, &email); err != nil {
			rows.Close()
			return 0, 0, s.mapError(err)
		}
		existingByEmail[strings.ToLower(email)] = id
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return 0, 0, s.mapError(err)
	}

	for _, user := range users {
		normalizedEmail := strings.ToLower(user.Email)
		if existingID, ok := existingByEmail[normalizedEmail]; ok {
			updated++
			if err := patchUserTx(ctx, tx, entity.PatchUser{
				ID:        existingID,
				FullName:  user.FullName,
				Status:    user.Status,
				UpdatedBy: user.UpdatedBy,
			}); err != nil {
				return 0, 0, s.mapError(err)
			}
			if hash, ok := hashes[normalizedEmail]; ok && hash != "" {
				if _, err := tx.Exec(ctx,
					`UPDATE user_credentials SET password = $2, updated_at = now() WHERE user_id = $1`,
					existingID, hash,
				); err != nil {
					return 0, 0, s.mapError(err)
				}
			}
			continue
		}

		created++
		if err := insertUser(ctx, tx, entity.NewUser{
			ID:        user.ID,
			Email:     user.Email,
			FullName:  user.FullName,
			AvatarURL: user.AvatarURL,
			Status:    user.Status,
			CreatedBy: user.CreatedBy,
			UpdatedBy: user.UpdatedBy,
		}); err != nil {
			return 0, 0, s.mapError(err)
		}

		if hash, ok := hashes[normalizedEmail]; ok && hash != "" {
			if err := insertCredential(ctx, tx, user.ID, hash); err != nil {
				return 0, 0, s.mapError(err)
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, 0, s.mapError(err)
	}

	return created, updated, nil
}

func patchUserTx(ctx context.Context, tx pgx.Tx, user entity.PatchUser) error {
	const query = `
		UPDATE users
		SET email      = COALESCE(NULLIF($2, ''), email),
		    full_name  = COALESCE(NULLIF($3, ''), full_name),
		    avatar_url = COALESCE(NULLIF($4, ''), avatar_url),
		    status     = CASE WHEN $5::smallint = 0 THEN status ELSE $5::smallint END,
		    updated_by = $6,
		    updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	avatarURL := ""
	if user.FullName != "" {
		avatarURL = user.AvatarURL
		if avatarURL == "" {
			avatarURL = "https://ui-avatars.com/api/?name=" + url.QueryEscape(user.FullName)
		}
	}

	_, err := tx.Exec(ctx, query,
		user.ID, user.Email, user.FullName, avatarURL, int16(user.Status.Ensure()), user.UpdatedBy,
	)
	return err
}

func (s *DB) PatchUser(ctx context.Context, user entity.PatchUser, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "PatchUser")
	defer func() { s.endSpan(span, err) }()

	if hash == "" && user.Email == "" && user.FullName == "" && user.Status.IsUnknown() {
		// nothing to patch
		return nil
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	if hash != "" {
		if _, err := tx.Exec(ctx,
			`UPDATE user_credentials SET password = $2, updated_at = now() WHERE user_id = $1`,
			user.ID, hash,
		); err != nil {
			return s.mapError(err)
		}
	}

	if err := patchUserTx(ctx, tx, user); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) NewMFAFactorTOTP(ctx context.Context, fTOTP entity.MFAFactor, challengeID int64) (err error) {
	ctx, span := s.startSpan(ctx, "NewMFAFactorTOTP")
	defer func() { s.endSpan(span, err) }()

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	if err := insertMFAFactor(ctx, tx, fTOTP); err != nil {
		return s.mapError(err)
	}

	if err := deleteChallenge(ctx, tx, challengeID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// RemoveMFAFactors drops every factor and backup code for the user. Used to
// turn two-factor authentication off entirely.
func (s *DB) RemoveMFAFactors(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "RemoveMFAFactors")
	defer func() { s.endSpan(span, err) }()

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	if _, err := tx.Exec(ctx, `DELETE FROM mfa_backup_codes WHERE user_id = $1`, userID); err != nil {
		return s.mapError(err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM mfa_factors WHERE user_id = $1`, userID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) NewRefreshToken(ctx context.Context, ref entity.RefreshToken, challengeID int64) (err error) {
	ctx, span := s.startSpan(ctx, "NewRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	if err := insertRefreshToken(ctx, tx, ref); err != nil {
		return s.mapError(err)
	}

	if err := deleteChallenge(ctx, tx, challengeID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) NewBackupCodes(ctx context.Context, userID int64, codes []entity.MFABackupCode, factor *entity.MFAFactor) (err error) {
	ctx, span := s.startSpan(ctx, "NewBackupCodes")
	defer func() { s.endSpan(span, err) }()

	if len(codes) == 0 {
		return nil
	}

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	if factor != nil {
		if err := insertMFAFactor(ctx, tx, *factor); err != nil {
			return s.mapError(err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM mfa_backup_codes WHERE user_id = $1`, userID); err != nil {
		return s.mapError(err)
	}

	batch := &pgx.Batch{}
	for i := range codes {
		batch.Queue(
			`INSERT INTO mfa_backup_codes (id, user_id, code) VALUES ($1, $2, $3)`,
			codes[i].ID, codes[i].UserID, codes[i].Code,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) VerifyUserRegistration(ctx context.Context, data entity.VerifyUserRegistration) (err error) {
	ctx, span := s.startSpan(ctx, "VerifyUserRegistration")
	defer func() { s.endSpan(span, err) }()

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	const query = `
		UPDATE users
		SET status = $2, updated_by = $4, updated_at = now()
		WHERE id = $1 AND status = $3 AND deleted_at IS NULL`

	if _, err := tx.Exec(ctx, query,
		data.UserID, int16(data.NewUserStatus), int16(data.OldUserStatus), data.UpdatedBy,
	); err != nil {
		return s.mapError(err)
	}

	if err := deleteChallenge(ctx, tx, data.ChallengeID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) ResetUserPassword(ctx context.Context, userID, challengeID int64, newHash string) (err error) {
	ctx, span := s.startSpan(ctx, "ResetUserPassword")
	defer func() { s.endSpan(span, err) }()

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	if _, err := tx.Exec(ctx,
		`UPDATE user_credentials SET password = $2, updated_at = now() WHERE user_id = $1`,
		userID, newHash,
	); err != nil {
		return s.mapError(err)
	}

	if err := deleteChallenge(ctx, tx, challengeID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) VerifyUserMFAFactor(ctx context.Context, userID, challengeID, factorID int64) (err error) {
	ctx, span := s.startSpan(ctx, "VerifyUserMFAFactor")
	defer func() { s.endSpan(span, err) }()

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	if _, err := tx.Exec(ctx,
		`UPDATE mfa_factors SET is_verified = true WHERE id = $1 AND user_id = $2`,
		factorID, userID,
	); err != nil {
		return s.mapError(err)
	}

	if err := deleteChallenge(ctx, tx, challengeID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "RotateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	// Revoking succeeds only while the old token is live. Zero rows means
	// the token was already rotated or revoked, which callers treat as a
	// reuse signal.
	const replaceQuery = `
		UPDATE refresh_tokens
		SET revoked = true, replaced_by_token_id = $1, updated_at = now()
		WHERE id = $2 AND NOT revoked AND expires_at > now()`

	tag, err := tx.Exec(ctx, replaceQuery, ro.NewID, ro.OldID)
	if err != nil {
		return s.mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	if err := insertRefreshToken(ctx, tx, entity.RefreshToken{
		ID:        ro.NewID,
		UserID:    ro.UserID,
		Token:     ro.NewToken,
		ExpiresAt: ro.NewExpiresAt,
	}); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
