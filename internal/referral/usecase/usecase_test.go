package usecase

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/config"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/instrument"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/jwt"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/validator"
	"github.com/bandwidthbucks/bandwidthbucks/internal/referral/entity"
)

const testConfig = `
app:
  web: https://app.bandwidthbucks.com
modules:
  referral:
    commission_rate: 0.1
`

type fakeRepoDB struct {
	byUser map[int64]*entity.Referral
	byCode map[string]*entity.Referral

	referredCount  int64
	commissionsSum float64
	credited       []entity.Commission

	createErrs []error
}

func newFakeRepoDB() *fakeRepoDB {
	return &fakeRepoDB{
		byUser: map[int64]*entity.Referral{},
		byCode: map[string]*entity.Referral{},
	}
}

func (f *fakeRepoDB) add(r entity.Referral) {
	f.byUser[r.UserID] = &r
	f.byCode[r.Code] = &r
}

func (f *fakeRepoDB) GetReferralByUserID(_ context.Context, userID int64) (*entity.Referral, error) {
	r, ok := f.byUser[userID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return r, nil
}

func (f *fakeRepoDB) GetReferralByCode(_ context.Context, code string) (*entity.Referral, error) {
	r, ok := f.byCode[code]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return r, nil
}

func (f *fakeRepoDB) CreateReferral(_ context.Context, r entity.Referral) error {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	f.add(r)
	return nil
}

func (f *fakeRepoDB) CountReferredUsers(_ context.Context, _ int64) (int64, error) {
	return f.referredCount, nil
}

func (f *fakeRepoDB) SumCommissions(_ context.Context, _ int64) (float64, error) {
	return f.commissionsSum, nil
}

func (f *fakeRepoDB) CreditCommission(_ context.Context, c entity.Commission) error {
	f.credited = append(f.credited, c)
	return nil
}

type seqNumberID struct{ n int64 }

func (s *seqNumberID) Generate() int64 { return atomic.AddInt64(&s.n, 1) }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestUsecase(t *testing.T, repo *fakeRepoDB) *Usecase {
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
		RepoDB:     repo,
		Validator:  v,
		Config:     cfg,
		UID:        &seqNumberID{},
		Clock:      fixedClock{t: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)},
		Instrument: instrument.NewNoop(),
	})
}

func authCtx(userID int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{Subject: strconv.FormatInt(userID, 10)},
		UserID:           userID,
		UserEmail:        "user@example.com",
	})
}

func ptrInt64(v int64) *int64 { return &v }

func TestUsecase_Summary(t *testing.T) {
	t.Run("creates a referral code on first access", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.referredCount = 3
		repo.commissionsSum = 42.5
		uc := newTestUsecase(t, repo)

		// Act
		out, err := uc.Summary(authCtx(7))

		// Assert
		if err != nil {
			t.Fatalf("Summary() error = %v", err)
		}
		if !strings.HasPrefix(out.Code, "BW-") || len(out.Code) != len("BW-")+8 {
			t.Errorf("Summary() code = %q, want BW- plus 8 hex chars", out.Code)
		}
		if out.Code != strings.ToUpper(out.Code) {
			t.Errorf("Summary() code = %q, want uppercase", out.Code)
		}
		if want := "https://app.bandwidthbucks.com/register?ref=" + out.Code; out.Link != want {
			t.Errorf("Summary() link = %q, want %q", out.Link, want)
		}
		if out.ReferredUsers != 3 {
			t.Errorf("Summary() referred users = %d, want 3", out.ReferredUsers)
		}
		if out.CommissionTotalINR != 42.5 {
			t.Errorf("Summary() commission total = %v, want 42.5", out.CommissionTotalINR)
		}
		if repo.byUser[7] == nil {
			t.Error("Summary() did not persist the new referral")
		}
	})

	t.Run("returns the existing code on later access", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.add(entity.Referral{UserID: 7, Code: "BW-AB12CD34"})
		uc := newTestUsecase(t, repo)

		// Act
		out, err := uc.Summary(authCtx(7))

		// Assert
		if err != nil {
			t.Fatalf("Summary() error = %v", err)
		}
		if out.Code != "BW-AB12CD34" {
			t.Errorf("Summary() code = %q, want BW-AB12CD34", out.Code)
		}
	})

	t.Run("retries when the generated code collides", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.createErrs = []error{goerror.ErrConflict}
		uc := newTestUsecase(t, repo)

		// Act
		out, err := uc.Summary(authCtx(7))

		// Assert
		if err != nil {
			t.Fatalf("Summary() error = %v", err)
		}
		if repo.byUser[7] == nil || repo.byUser[7].Code != out.Code {
			t.Errorf("Summary() did not persist the retried code %q", out.Code)
		}
	})

	t.Run("fails without authentication", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, newFakeRepoDB())

		// Act
		_, err := uc.Summary(context.Background())

		// Assert
		if err == nil {
			t.Fatal("Summary() error = nil, want unauthorized")
		}
	})
}

func TestUsecase_ConsumeUserRegistration(t *testing.T) {
	t.Run("attributes the new user to the referrer", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.add(entity.Referral{UserID: 1, Code: "BW-AB12CD34"})
		uc := newTestUsecase(t, repo)

		// Act
		err := uc.ConsumeUserRegistration(context.Background(), ConsumeUserRegistrationInput{
			UserID:       2,
			ReferralCode: "bw-ab12cd34",
		})

		// Assert
		if err != nil {
			t.Fatalf("ConsumeUserRegistration() error = %v", err)
		}
		got := repo.byUser[2]
		if got == nil {
			t.Fatal("ConsumeUserRegistration() did not create the referral")
		}
		if got.ReferrerID == nil || *got.ReferrerID != 1 {
			t.Errorf("ConsumeUserRegistration() referrer = %v, want 1", got.ReferrerID)
		}
	})

	t.Run("ignores an unknown code", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		uc := newTestUsecase(t, repo)

		// Act
		err := uc.ConsumeUserRegistration(context.Background(), ConsumeUserRegistrationInput{
			UserID:       2,
			ReferralCode: "BW-NOPE0000",
		})

		// Assert
		if err != nil {
			t.Fatalf("ConsumeUserRegistration() error = %v", err)
		}
		got := repo.byUser[2]
		if got == nil {
			t.Fatal("ConsumeUserRegistration() did not create the referral")
		}
		if got.ReferrerID != nil {
			t.Errorf("ConsumeUserRegistration() referrer = %v, want nil", got.ReferrerID)
		}
	})

	t.Run("ignores a self-referral", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.add(entity.Referral{UserID: 2, Code: "BW-AB12CD34"})
		uc := newTestUsecase(t, repo)

		// Act
		err := uc.ConsumeUserRegistration(context.Background(), ConsumeUserRegistrationInput{
			UserID:       2,
			ReferralCode: "BW-AB12CD34",
		})

		// Assert
		if err != nil {
			t.Fatalf("ConsumeUserRegistration() error = %v", err)
		}
		if got := repo.byUser[2]; got.ReferrerID != nil {
			t.Errorf("ConsumeUserRegistration() referrer = %v, want nil", got.ReferrerID)
		}
	})

	t.Run("works without a referral code", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		uc := newTestUsecase(t, repo)

		// Act
		err := uc.ConsumeUserRegistration(context.Background(), ConsumeUserRegistrationInput{UserID: 2})

		// Assert
		if err != nil {
			t.Fatalf("ConsumeUserRegistration() error = %v", err)
		}
		if repo.byUser[2] == nil {
			t.Error("ConsumeUserRegistration() did not create the referral")
		}
	})
}

func TestUsecase_ConsumeEarningsUpdated(t *testing.T) {
	t.Run("credits the referrer at the configured rate", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.add(entity.Referral{UserID: 2, Code: "BW-AB12CD34", ReferrerID: ptrInt64(1)})
		uc := newTestUsecase(t, repo)

		// Act
		err := uc.ConsumeEarningsUpdated(context.Background(), ConsumeEarningsUpdatedInput{
			UserID:    2,
			AmountINR: 100,
		})

		// Assert
		if err != nil {
			t.Fatalf("ConsumeEarningsUpdated() error = %v", err)
		}
		if len(repo.credited) != 1 {
			t.Fatalf("credited commissions = %d, want 1", len(repo.credited))
		}
		c := repo.credited[0]
		if c.ReferrerID != 1 || c.ReferredUserID != 2 {
			t.Errorf("commission parties = (%d, %d), want (1, 2)", c.ReferrerID, c.ReferredUserID)
		}
		if c.AmountINR != 10 {
			t.Errorf("commission amount = %v, want 10", c.AmountINR)
		}
		if c.SourceAmountINR != 100 {
			t.Errorf("commission source amount = %v, want 100", c.SourceAmountINR)
		}
	})

	t.Run("skips users without a referrer", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.add(entity.Referral{UserID: 2, Code: "BW-AB12CD34"})
		uc := newTestUsecase(t, repo)

		// Act
		err := uc.ConsumeEarningsUpdated(context.Background(), ConsumeEarningsUpdatedInput{
			UserID:    2,
			AmountINR: 100,
		})

		// Assert
		if err != nil {
			t.Fatalf("ConsumeEarningsUpdated() error = %v", err)
		}
		if len(repo.credited) != 0 {
			t.Errorf("credited commissions = %d, want 0", len(repo.credited))
		}
	})

	t.Run("skips users with no referral row at all", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		uc := newTestUsecase(t, repo)

		// Act
		err := uc.ConsumeEarningsUpdated(context.Background(), ConsumeEarningsUpdatedInput{
			UserID:    2,
			AmountINR: 100,
		})

		// Assert
		if err != nil {
			t.Fatalf("ConsumeEarningsUpdated() error = %v", err)
		}
		if len(repo.credited) != 0 {
			t.Errorf("credited commissions = %d, want 0", len(repo.credited))
		}
	})

	t.Run("rejects a zero amount", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, newFakeRepoDB())

		// Act
		err := uc.ConsumeEarningsUpdated(context.Background(), ConsumeEarningsUpdatedInput{UserID: 2})

		// Assert
		if err == nil {
			t.Fatal("ConsumeEarningsUpdated() error = nil, want invalid input")
		}
	})
}
