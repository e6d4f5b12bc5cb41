package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/storage"
)

type ReportMonthlyInput struct {
	Year  int `validate:"required,min=2020"`
	Month int `validate:"required,min=1,max=12"`
}

type ReportMonthlyOutput struct {
	URL       string
	Payouts   int
	TotalINR  float64
	ExpiresAt time.Time
}

// ReportMonthly exports the caller's payouts for one calendar month as CSV,
// uploads it to object storage, and returns a signed download URL.
func (s *Usecase) ReportMonthly(ctx context.Context, in ReportMonthlyInput) (*ReportMonthlyOutput, error) {
	ctx, span := s.startSpan(ctx, "ReportMonthly")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	from := time.Date(in.Year, time.Month(in.Month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	payouts, err := s.repoDB.GetPayoutsInRange(ctx, clm.UserID, from, to)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get payouts in range", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "method", "amount", "amount_inr", "status", "reason", "requested_at", "decided_at"})

	var totalINR float64
	for _, p := range payouts {
		decidedAt := ""
		if p.DecidedAt != nil {
			decidedAt = p.DecidedAt.Format(time.RFC3339)
		}
		_ = w.Write([]string{
			strconv.FormatInt(p.ID, 10),
			p.Method.String(),
			strconv.FormatFloat(p.Amount, 'f', 2, 64),
			strconv.FormatFloat(p.AmountINR, 'f', 2, 64),
			p.Status.String(),
			p.Reason,
			p.RequestedAt.Format(time.RFC3339),
			decidedAt,
		})
		totalINR += p.AmountINR
	}
	w.Flush()
	if err := w.Error(); err != nil {
		slog.ErrorContext(ctx, "failed to encode payout report", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	bucket := s.cfg.GetString("modules.wallet.report_bucket")
	key := fmt.Sprintf("%d/payouts-%04d-%02d-%s.csv", clm.UserID, in.Year, in.Month, s.uuid.Generate())

	if _, err := s.storage.PutObject(ctx, bucket, key, &buf, storage.PutOptions{
		Size:        int64(buf.Len()),
		ContentType: "text/csv",
		Metadata:    map[string]string{"user_id": strconv.FormatInt(clm.UserID, 10)},
	}); err != nil {
		slog.ErrorContext(ctx, "failed to upload payout report", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	expiry := s.cfg.GetHour("modules.wallet.report_url_ttl_hours")
	url, err := s.storage.PresignGet(ctx, bucket, key, expiry)
	if err != nil {
		slog.ErrorContext(ctx, "failed to presign payout report", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ReportMonthlyOutput{
		URL:       url,
		Payouts:   len(payouts),
		TotalINR:  totalINR,
		ExpiresAt: s.clock.Now().Add(expiry),
	}, nil
}
