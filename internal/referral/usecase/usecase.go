package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/clock"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/config"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/instrument"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/jwt"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/uid"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/validator"
	"github.com/bandwidthbucks/bandwidthbucks/internal/referral/entity"
	"go.opentelemetry.io/otel/trace"
)

// codePrefix starts every referral code; the rest is 8 uppercase hex chars.
const codePrefix = "BW-"

type repoDB interface {
	GetReferralByUserID(ctx context.Context, userID int64) (*entity.Referral, error)
	GetReferralByCode(ctx context.Context, code string) (*entity.Referral, error)
	CreateReferral(ctx context.Context, r entity.Referral) error
	CountReferredUsers(ctx context.Context, referrerID int64) (int64, error)
	SumCommissions(ctx context.Context, referrerID int64) (float64, error)
	CreditCommission(ctx context.Context, c entity.Commission) error
}

type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		cfg:       dep.Config,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("referral.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	return clm, nil
}

func (s *Usecase) commissionRate() float64 {
	return s.cfg.GetFloat64("modules.referral.commission_rate")
}

// newCode returns a fresh referral code in the BW-XXXXXXXX format.
func newCode() (string, error) {
	raw := make([]byte, 4)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	return codePrefix + strings.ToUpper(hex.EncodeToString(raw)), nil
}
