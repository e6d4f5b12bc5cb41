package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
)

func (s *DB) begin(ctx context.Context) (pgx.Tx, func(), error) {
	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}

	rollback := func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}

	return tx, rollback, nil
}

// NewPayoutRequest debits the normalized INR amount from the wallet and
// records the pending payout in one transaction. The debit is conditional on
// sufficient balance so concurrent requests cannot overdraw.
func (s *DB) NewPayoutRequest(ctx context.Context, p entity.Payout) (err error) {
	ctx, span := s.startSpan(ctx, "NewPayoutRequest")
	defer func() { s.endSpan(span, err) }()

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	const debit = `
		UPDATE wallet_accounts
		SET balance = balance - $2, updated_at = now()
		WHERE user_id = $1 AND balance >= $2`

	tag, err := tx.Exec(ctx, debit, p.UserID, p.AmountINR)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrConflict
	}

	const insert = `
		INSERT INTO wallet_payouts
			(id, user_id, method, amount, amount_inr, exchange_rate, destination, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err = tx.Exec(ctx, insert,
		p.ID, p.UserID, int16(p.Method), p.Amount, p.AmountINR, p.ExchangeRate,
		p.Destination, int16(p.Status), p.RequestedAt,
	); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// ApprovePayout marks a pending payout approved and writes the audit entry.
// Returns goerror.ErrNotFound when the payout does not exist or is no longer
// pending.
func (s *DB) ApprovePayout(ctx context.Context, d entity.PayoutDecision, audit entity.AuditLog) (err error) {
	ctx, span := s.startSpan(ctx, "ApprovePayout")
	defer func() { s.endSpan(span, err) }()

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	const update = `
		UPDATE wallet_payouts
		SET status = $3, decided_at = $4, decided_by = $5
		WHERE id = $1 AND status = $2`

	tag, err := tx.Exec(ctx, update,
		d.PayoutID, int16(entity.PayoutStatusPending), int16(entity.PayoutStatusApproved),
		d.DecidedAt, d.AdminID,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	if err = s.insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// RejectPayout marks a pending payout rejected, refunds the debited INR
// amount to the wallet, and writes the audit entry, all in one transaction.
func (s *DB) RejectPayout(ctx context.Context, d entity.PayoutDecision, refundINR float64, userID int64, audit entity.AuditLog) (err error) {
	ctx, span := s.startSpan(ctx, "RejectPayout")
	defer func() { s.endSpan(span, err) }()

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer rollback()

	const update = `
		UPDATE wallet_payouts
		SET status = $3, reason = $4, decided_at = $5, decided_by = $6
		WHERE id = $1 AND status = $2`

	tag, err := tx.Exec(ctx, update,
		d.PayoutID, int16(entity.PayoutStatusPending), int16(entity.PayoutStatusRejected),
		d.Reason, d.DecidedAt, d.AdminID,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	const refund = `
		UPDATE wallet_accounts
		SET balance = balance + $2, updated_at = now()
		WHERE user_id = $1`

	if _, err = tx.Exec(ctx, refund, userID, refundINR); err != nil {
		return s.mapError(err)
	}

	if err = s.insertAuditLog(ctx, tx, audit); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// ResetAllWallets zeroes every wallet and records who initiated the reset.
func (s *DB) ResetAllWallets(ctx context.Context, audit entity.AuditLog) (affected int64, err error) {
	ctx, span := s.startSpan(ctx, "ResetAllWallets")
	defer func() { s.endSpan(span, err) }()

	tx, rollback, err := s.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer rollback()

	const reset = `
		UPDATE wallet_accounts
		SET balance = 0, total_earned = 0, gb_shared = 0, updated_at = now()`

	tag, err := tx.Exec(ctx, reset)
	if err != nil {
		return 0, s.mapError(err)
	}
	affected = tag.RowsAffected()

	if err = s.insertAuditLog(ctx, tx, audit); err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, s.mapError(err)
	}

	return affected, nil
}

func (s *DB) insertAuditLog(ctx context.Context, tx pgx.Tx, l entity.AuditLog) error {
	const insert = `
		INSERT INTO wallet_audit_logs (id, actor_id, action, target_user_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := tx.Exec(ctx, insert,
		l.ID, l.ActorID, string(l.Action), l.TargetUserID, l.Detail, l.CreatedAt,
	); err != nil {
		return s.mapError(err)
	}

	return nil
}
