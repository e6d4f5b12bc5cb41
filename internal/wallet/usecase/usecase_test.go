package usecase

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/config"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/instrument"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/jwt"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/validator"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
)

const testConfig = `
modules:
  wallet:
    usd_inr_rate: 83.5
    earnings_rate_per_gb: 3.0
    gb_per_tick: 0.01
    report_bucket: reports
    report_url_ttl_hours: 24
`

type fakeRepoDB struct {
	wallet  *entity.Wallet
	payouts map[int64]*entity.Payout

	newPayoutErr  error
	creditBalance float64

	approved []entity.PayoutDecision
	rejected []entity.PayoutDecision
	refunds  []float64
	audits   []entity.AuditLog
}

func newFakeRepoDB() *fakeRepoDB {
	return &fakeRepoDB{payouts: map[int64]*entity.Payout{}}
}

func (f *fakeRepoDB) GetWalletByUserID(_ context.Context, userID int64) (*entity.Wallet, error) {
	if f.wallet == nil || f.wallet.UserID != userID {
		return nil, errNotFoundForTest()
	}
	return f.wallet, nil
}

func (f *fakeRepoDB) GetPayoutByID(_ context.Context, id int64) (*entity.Payout, error) {
	p, ok := f.payouts[id]
	if !ok {
		return nil, errNotFoundForTest()
	}
	return p, nil
}

func (f *fakeRepoDB) GetPayoutList(_ context.Context, filter entity.PayoutListFilter) ([]entity.Payout, int64, error) {
	var out []entity.Payout
	for _, p := range f.payouts {
		if filter.UserID != 0 && p.UserID != filter.UserID {
			continue
		}
		if filter.Status != entity.PayoutStatusUnknown && p.Status != filter.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepoDB) GetPayoutsInRange(_ context.Context, userID int64, from, to time.Time) ([]entity.Payout, error) {
	var out []entity.Payout
	for _, p := range f.payouts {
		if p.UserID == userID && !p.RequestedAt.Before(from) && p.RequestedAt.Before(to) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepoDB) GetUserEmailByID(_ context.Context, _ int64) (string, error) {
	return "user@example.com", nil
}

func (f *fakeRepoDB) GetAuditLogList(_ context.Context, _ entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	return f.audits, int64(len(f.audits)), nil
}

func (f *fakeRepoDB) CreditEarnings(_ context.Context, credit entity.EarningsCredit) (float64, error) {
	f.creditBalance += credit.AmountINR
	return f.creditBalance, nil
}

func (f *fakeRepoDB) NewPayoutRequest(_ context.Context, p entity.Payout) error {
	if f.newPayoutErr != nil {
		return f.newPayoutErr
	}
	f.payouts[p.ID] = &p
	f.wallet.Balance -= p.AmountINR
	return nil
}

func (f *fakeRepoDB) ApprovePayout(_ context.Context, d entity.PayoutDecision, audit entity.AuditLog) error {
	f.approved = append(f.approved, d)
	f.audits = append(f.audits, audit)
	f.payouts[d.PayoutID].Status = entity.PayoutStatusApproved
	return nil
}

func (f *fakeRepoDB) RejectPayout(_ context.Context, d entity.PayoutDecision, refundINR float64, userID int64, audit entity.AuditLog) error {
	f.rejected = append(f.rejected, d)
	f.refunds = append(f.refunds, refundINR)
	f.audits = append(f.audits, audit)
	f.payouts[d.PayoutID].Status = entity.PayoutStatusRejected
	f.wallet.Balance += refundINR
	return nil
}

func (f *fakeRepoDB) ResetAllWallets(_ context.Context, audit entity.AuditLog) (int64, error) {
	f.audits = append(f.audits, audit)
	if f.wallet != nil {
		f.wallet.Balance = 0
		f.wallet.TotalEarned = 0
		f.wallet.GBShared = 0
	}
	return 1, nil
}

type fakeMessaging struct {
	earnings  []EarningsUpdatedEvent
	decisions []PayoutDecidedEvent
}

func (f *fakeMessaging) PublishEarningsUpdated(_ context.Context, msg EarningsUpdatedEvent) error {
	f.earnings = append(f.earnings, msg)
	return nil
}

func (f *fakeMessaging) PublishPayoutDecided(_ context.Context, msg PayoutDecidedEvent) error {
	f.decisions = append(f.decisions, msg)
	return nil
}

type seqNumberID struct{ n int64 }

func (s *seqNumberID) Generate() int64 { return atomic.AddInt64(&s.n, 1) }

type fixedStringID struct{ v string }

func (s fixedStringID) Generate() string { return s.v }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func errNotFoundForTest() error {
	return goerror.ErrNotFound
}

func newTestEnforcer(t *testing.T, adminID int64) *casbin.Enforcer {
	t.Helper()

	const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		t.Fatalf("model.NewModelFromString() error = %v", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		t.Fatalf("casbin.NewEnforcer() error = %v", err)
	}

	sub := strconv.FormatInt(adminID, 10)
	if _, err := e.AddPolicy(sub, "*", "*"); err != nil {
		t.Fatalf("enforcer.AddPolicy() error = %v", err)
	}

	return e
}

func newTestUsecase(t *testing.T, repo *fakeRepoDB, msg *fakeMessaging, adminID int64) *Usecase {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	if err != nil {
		t.Fatalf("config.NewViperFromBytes() error = %v", err)
	}
	t.Cleanup(func() { _ = cfg.Close() })

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator.NewV10Validator() error = %v", err)
	}

	return New(Dependency{
		RepoDB:        repo,
		RepoMessaging: msg,
		Validator:     v,
		Config:        cfg,
		UID:           &seqNumberID{},
		UUID:          fixedStringID{v: "test-uuid"},
		Clock:         fixedClock{t: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)},
		Instrument:    instrument.NewNoop(),
		Enforcer:      newTestEnforcer(t, adminID),
	})
}

func authCtx(userID int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{Subject: strconv.FormatInt(userID, 10)},
		UserID:           userID,
		UserEmail:        "user@example.com",
	})
}
