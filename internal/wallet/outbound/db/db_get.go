package db

import (
	"context"
	"time"

	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
)

func (s *DB) GetWalletByUserID(ctx context.Context, userID int64) (w *entity.Wallet, err error) {
	ctx, span := s.startSpan(ctx, "GetWalletByUserID")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT user_id, balance, total_earned, gb_shared, updated_at
		FROM wallet_accounts
		WHERE user_id = $1`

	var out entity.Wallet
	err = s.conn.QueryRow(ctx, query, userID).Scan(
		&out.UserID, &out.Balance, &out.TotalEarned, &out.GBShared, &out.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &out, nil
}

func (s *DB) GetUserEmailByID(ctx context.Context, userID int64) (email string, err error) {
	ctx, span := s.startSpan(ctx, "GetUserEmailByID")
	defer func() { s.endSpan(span, err) }()

	const query = `SELECT email FROM users WHERE id = $1 AND deleted_at IS NULL`

	if err = s.conn.QueryRow(ctx, query, userID).Scan(&email); err != nil {
		return "", s.mapError(err)
	}

	return email, nil
}

func (s *DB) GetPayoutByID(ctx context.Context, id int64) (p *entity.Payout, err error) {
	ctx, span := s.startSpan(ctx, "GetPayoutByID")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, user_id, method, amount, amount_inr, exchange_rate, destination,
		       status, reason, requested_at, decided_at, decided_by
		FROM wallet_payouts
		WHERE id = $1`

	var out entity.Payout
	var method, status int16
	err = s.conn.QueryRow(ctx, query, id).Scan(
		&out.ID, &out.UserID, &method, &out.Amount, &out.AmountINR, &out.ExchangeRate,
		&out.Destination, &status, &out.Reason, &out.RequestedAt, &out.DecidedAt, &out.DecidedBy,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	out.Method = entity.PayoutMethod(method)
	out.Status = entity.PayoutStatus(status)

	return &out, nil
}

func (s *DB) GetPayoutList(ctx context.Context, filter entity.PayoutListFilter) (ps []entity.Payout, total int64, err error) {
	ctx, span := s.startSpan(ctx, "GetPayoutList")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, user_id, method, amount, amount_inr, exchange_rate, destination,
		       status, reason, requested_at, decided_at, decided_by,
		       COUNT(*) OVER() AS total
		FROM wallet_payouts
		WHERE ($1::bigint = 0 OR user_id = $1)
		  AND ($2::smallint = 0 OR status = $2)
		ORDER BY requested_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := s.conn.Query(ctx, query, filter.UserID, int16(filter.Status), filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	out := make([]entity.Payout, 0, filter.Limit)
	for rows.Next() {
		var p entity.Payout
		var method, status int16
		if err = rows.Scan(
			&p.ID, &p.UserID, &method, &p.Amount, &p.AmountINR, &p.ExchangeRate,
			&p.Destination, &status, &p.Reason, &p.RequestedAt, &p.DecidedAt, &p.DecidedBy,
			&total,
		); err != nil {
			return nil, 0, s.mapError(err)
		}
		p.Method = entity.PayoutMethod(method)
		p.Status = entity.PayoutStatus(status)
		out = append(out, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return out, total, nil
}

func (s *DB) GetPayoutsInRange(ctx context.Context, userID int64, from, to time.Time) (ps []entity.Payout, err error) {
	ctx, span := s.startSpan(ctx, "GetPayoutsInRange")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, user_id, method, amount, amount_inr, exchange_rate, destination,
		       status, reason, requested_at, decided_at, decided_by
		FROM wallet_payouts
		WHERE user_id = $1 AND requested_at >= $2 AND requested_at < $3
		ORDER BY requested_at ASC`

	rows, err := s.conn.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var out []entity.Payout
	for rows.Next() {
		var p entity.Payout
		var method, status int16
		if err = rows.Scan(
			&p.ID, &p.UserID, &method, &p.Amount, &p.AmountINR, &p.ExchangeRate,
			&p.Destination, &status, &p.Reason, &p.RequestedAt, &p.DecidedAt, &p.DecidedBy,
		); err != nil {
			return nil, s.mapError(err)
		}
		p.Method = entity.PayoutMethod(method)
		p.Status = entity.PayoutStatus(status)
		out = append(out, p)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return out, nil
}

func (s *DB) GetAuditLogList(ctx context.Context, filter entity.AuditLogFilter) (ls []entity.AuditLog, total int64, err error) {
	ctx, span := s.startSpan(ctx, "GetAuditLogList")
	defer func() { s.endSpan(span, err) }()

	const query = `
		SELECT id, actor_id, action, target_user_id, detail, created_at,
		       COUNT(*) OVER() AS total
		FROM wallet_audit_logs
		WHERE ($1 = '' OR action = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.conn.Query(ctx, query, filter.Action, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	out := make([]entity.AuditLog, 0, filter.Limit)
	for rows.Next() {
		var l entity.AuditLog
		var action string
		if err = rows.Scan(&l.ID, &l.ActorID, &action, &l.TargetUserID, &l.Detail, &l.CreatedAt, &total); err != nil {
			return nil, 0, s.mapError(err)
		}
		l.Action = entity.AuditAction(action)
		out = append(out, l)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return out, total, nil
}
