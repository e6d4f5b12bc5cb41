package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/clock"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/config"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/idempotency"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/instrument"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/jwt"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/storage"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/uid"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/validator"
	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
	"go.opentelemetry.io/otel/trace"
)

type EarningsUpdatedEvent struct {
	UserID    int64
	AmountINR float64
	GB        float64
}

type PayoutDecidedEvent struct {
	PayoutID  int64
	UserID    int64
	Email     string
	Method    string
	Amount    float64
	AmountINR float64
	Approved  bool
	Reason    string
}

type repoMessaging interface {
	PublishEarningsUpdated(ctx context.Context, msg EarningsUpdatedEvent) error
	PublishPayoutDecided(ctx context.Context, msg PayoutDecidedEvent) error
}

type repoDB interface {
	GetWalletByUserID(ctx context.Context, userID int64) (*entity.Wallet, error)
	GetPayoutByID(ctx context.Context, id int64) (*entity.Payout, error)
	GetPayoutList(ctx context.Context, filter entity.PayoutListFilter) ([]entity.Payout, int64, error)
	GetPayoutsInRange(ctx context.Context, userID int64, from, to time.Time) ([]entity.Payout, error)
	GetAuditLogList(ctx context.Context, filter entity.AuditLogFilter) ([]entity.AuditLog, int64, error)
	GetUserEmailByID(ctx context.Context, userID int64) (string, error)

	CreditEarnings(ctx context.Context, credit entity.EarningsCredit) (float64, error)
	NewPayoutRequest(ctx context.Context, p entity.Payout) error
	ApprovePayout(ctx context.Context, d entity.PayoutDecision, audit entity.AuditLog) error
	RejectPayout(ctx context.Context, d entity.PayoutDecision, refundINR float64, userID int64, audit entity.AuditLog) error
	ResetAllWallets(ctx context.Context, audit entity.AuditLog) (int64, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	storage       storage.Storage
	uid           uid.NumberID
	uuid          uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	enforcer      *casbin.Enforcer
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	Storage       storage.Storage
	UID           uid.NumberID
	UUID          uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Enforcer      *casbin.Enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		storage:       dep.Storage,
		uid:           dep.UID,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("wallet.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	return clm, nil
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.enforcer.Enforce(clm.Subject, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.Subject, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !ok {
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

// exchangeRate returns the configured USD to INR rate used for PayPal payouts.
func (s *Usecase) exchangeRate() float64 {
	return s.cfg.GetFloat64("modules.wallet.usd_inr_rate")
}
