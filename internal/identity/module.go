package identity

import (
	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/inbound"
	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/outbound/db"
	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/outbound/mq"
	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/usecase"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/clock"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/config"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goroutine"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/hash"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/idempotency"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/instrument"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/jwt"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/messaging"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/mfa"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/otp"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/router"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/storage"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/uid"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/validator"
)

type Dependency struct {
	DBConn        *pgxpool.Pool              `validate:"required"`
	CacheConn     *redis.Client              `validate:"required"`
	Goroutine     *goroutine.Manager         `validate:"required"`
	Enforcer      *casbin.Enforcer           `validate:"required"`
	Router        *router.Router             `validate:"required"`
	Idempotency   idempotency.Idempotency    `validate:"required"`
	Messaging     messaging.Messaging        `validate:"required"`
	Storage       storage.Storage            `validate:"required"`
	Config        config.Config              `validate:"required"`
	Instrument    instrument.Instrumentation `validate:"required"`
	UID           uid.NumberID               `validate:"required"`
	UUID          uid.StringID               `validate:"required"`
	OID           uid.StringID               `validate:"required"`
	HMAC          hash.Hash                  `validate:"required"`
	Bcrypt        hash.Hash                  `validate:"required"`
	SHA256        hash.Hash                  `validate:"required"`
	MFAEncryptor  mfa.Encryptor              `validate:"required"`
	MFABackupCode mfa.BackupCodeGenerator    `validate:"required"`
	Clock         clock.Clocker              `validate:"required"`
	Totp          otp.OTP                    `validate:"required"`
	Validator     validator.Validator        `validate:"required"`
	JWT           jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAuth,
		RepoMessaging: repoMsg,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Storage:       dep.Storage,
		HMAC:          dep.HMAC,
		Bcrypt:        dep.Bcrypt,
		SHA256:        dep.SHA256,
		MFAEncryptor:  dep.MFAEncryptor,
		MFABackupCode: dep.MFABackupCode,
		UID:           dep.UID,
		UUID:          dep.UUID,
		OID:           dep.OID,
		Totp:          dep.Totp,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
		Enforcer:      dep.Enforcer,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
