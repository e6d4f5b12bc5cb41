package db

import (
	"context"

	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
)

// CreditEarnings applies one accrual tick. The increment happens in SQL so
// concurrent ticks never lose updates. A missing wallet row is created on
// first credit.
func (s *DB) CreditEarnings(ctx context.Context, credit entity.EarningsCredit) (balance float64, err error) {
	ctx, span := s.startSpan(ctx, "CreditEarnings")
	defer func() { s.endSpan(span, err) }()

	const query = `
		INSERT INTO wallet_accounts (user_id, balance, total_earned, gb_shared, updated_at)
		VALUES ($1, $2, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			balance      = wallet_accounts.balance + EXCLUDED.balance,
			total_earned = wallet_accounts.total_earned + EXCLUDED.total_earned,
			gb_shared    = wallet_accounts.gb_shared + EXCLUDED.gb_shared,
			updated_at   = now()
		RETURNING balance`

	err = s.conn.QueryRow(ctx, query, credit.UserID, credit.AmountINR, credit.GB).Scan(&balance)
	if err != nil {
		return 0, s.mapError(err)
	}

	return balance, nil
}
