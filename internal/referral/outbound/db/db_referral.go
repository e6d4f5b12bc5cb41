package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/bandwidthbucks/bandwidthbucks/internal/referral/entity"
)

func (s *DB) GetReferralByUserID(ctx context.Context, userID int64) (r *entity.Referral, err error) {
	ctx, span := s.startSpan(ctx, "GetReferralByUserID")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT user_id, code, referrer_id, created_at
		FROM referral_links
		WHERE user_id = $1`

	var out entity.Referral
	err = s.conn.QueryRow(ctx, query, userID).Scan(&out.UserID, &out.Code, &out.ReferrerID, &out.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &out, nil
}

func (s *DB) GetReferralByCode(ctx context.Context, code string) (r *entity.Referral, err error) {
	ctx, span := s.startSpan(ctx, "GetReferralByCode")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT user_id, code, referrer_id, created_at
		FROM referral_links
		WHERE code = $1`

	var out entity.Referral
	err = s.conn.QueryRow(ctx, query, code).Scan(&out.UserID, &out.Code, &out.ReferrerID, &out.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &out, nil
}

// CreateReferral records a user's referral code and optional referrer link.
// A unique violation on the code surfaces as goerror.ErrConflict so the
// caller can regenerate and retry.
func (s *DB) CreateReferral(ctx context.Context, r entity.Referral) (err error) {
	ctx, span := s.startSpan(ctx, "CreateReferral")
	defer func() { s.endSpan(span, err) }()

	const insert = `
		INSERT INTO referral_links (user_id, code, referrer_id, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err = s.conn.Exec(ctx, insert, r.UserID, r.Code, r.ReferrerID, r.CreatedAt)
	return s.mapError(err)
}

func (s *DB) CountReferredUsers(ctx context.Context, referrerID int64) (count int64, err error) {
	ctx, span := s.startSpan(ctx, "CountReferredUsers")
	defer func() { s.endSpan(span, err) }()

	const query = `SELECT COUNT(*) FROM referral_links WHERE referrer_id = $1`

	err = s.conn.QueryRow(ctx, query, referrerID).Scan(&count)
	if err != nil {
		return 0, s.mapError(err)
	}

	return count, nil
}

func (s *DB) SumCommissions(ctx context.Context, referrerID int64) (total float64, err error) {
	ctx, span := s.startSpan(ctx, "SumCommissions")
	defer func() { s.endSpan(span, err) }()

	const query = `SELECT COALESCE(SUM(amount_inr), 0) FROM referral_commissions WHERE referrer_id = $1`

	err = s.conn.QueryRow(ctx, query, referrerID).Scan(&total)
	if err != nil {
		return 0, s.mapError(err)
	}

	return total, nil
}

// CreditCommission records the commission row and credits the referrer's
// wallet balance in one transaction.
func (s *DB) CreditCommission(ctx context.Context, c entity.Commission) (err error) {
	ctx, span := s.startSpan(ctx, "CreditCommission")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	const insert = `
		INSERT INTO referral_commissions (id, referrer_id, referred_user_id, amount_inr, source_amount_inr, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err = tx.Exec(ctx, insert,
		c.ID, c.ReferrerID, c.ReferredUserID, c.AmountINR, c.SourceAmountINR, c.CreatedAt,
	); err != nil {
		return s.mapError(err)
	}

	const credit = `
		INSERT INTO wallet_accounts (user_id, balance, total_earned, gb_shared, updated_at)
		VALUES ($1, $2, $2, 0, now())
		ON CONFLICT (user_id) DO UPDATE SET
			balance      = wallet_accounts.balance + EXCLUDED.balance,
			total_earned = wallet_accounts.total_earned + EXCLUDED.total_earned,
			updated_at   = now()`

	if _, err = tx.Exec(ctx, credit, c.ReferrerID, c.AmountINR); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
