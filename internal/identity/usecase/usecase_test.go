package usecase

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/entity"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/config"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/goerror"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/hash"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/instrument"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/jwt"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/mfa"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/otp"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/validator"
)

const testConfig = `
modules:
  identity:
    refresh_token_ttl_days: 30
    challenge_ttl_minutes: 10
`

var testAESKey = []byte("0123456789abcdef0123456789abcdef")

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type fakeRepoDB struct {
	credInfo  *entity.UserCredentialInfo
	challenge *entity.ChallengeUser

	factors     []entity.MFAFactor
	backupCodes []entity.MFABackupCode
	usedCodes   map[int64]bool

	refreshTokens     []entity.RefreshToken
	newFactors        []entity.MFAFactor
	storedBackupCodes []entity.MFABackupCode
	backupFactor      *entity.MFAFactor
	lastUsedFactors   []int64
	mfaRemoved        bool
}

func newFakeRepoDB() *fakeRepoDB {
	return &fakeRepoDB{usedCodes: map[int64]bool{}}
}

func (f *fakeRepoDB) GetUserLoginInfo(_ context.Context, _ string) (*entity.UserLoginInfo, error) {
	return nil, goerror.ErrNotFound
}

func (f *fakeRepoDB) GetUserCredentialInfo(_ context.Context, id int64) (*entity.UserCredentialInfo, error) {
	if f.credInfo == nil || f.credInfo.ID != id {
		return nil, goerror.ErrNotFound
	}
	return f.credInfo, nil
}

func (f *fakeRepoDB) GetChallengeUserByTokenPurpose(_ context.Context, _ string, p entity.ChallengePurpose) (*entity.ChallengeUser, error) {
	if f.challenge == nil || f.challenge.ChallengePurpose != p {
		return nil, goerror.ErrNotFound
	}
	return f.challenge, nil
}

func (f *fakeRepoDB) GetUserRefreshToken(_ context.Context, _ string) (*entity.UserRefreshToken, error) {
	return nil, goerror.ErrNotFound
}

func (f *fakeRepoDB) GetUserByEmail(_ context.Context, _ string, _ bool) (*entity.User, error) {
	return nil, goerror.ErrNotFound
}

func (f *fakeRepoDB) GetUserList(_ context.Context, _ entity.UserListFilterData) ([]entity.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeRepoDB) GetUserByID(_ context.Context, _ int64, _ bool) (*entity.User, error) {
	return nil, goerror.ErrNotFound
}

func (f *fakeRepoDB) GetMFAFactorByUserID(_ context.Context, userID int64, _ bool) ([]entity.MFAFactor, error) {
	var out []entity.MFAFactor
	for _, fac := range f.factors {
		if fac.UserID == userID {
			out = append(out, fac)
		}
	}
	return out, nil
}

func (f *fakeRepoDB) GetMFAFactorByID(_ context.Context, _ int64, _ int64) (*entity.MFAFactor, error) {
	return nil, goerror.ErrNotFound
}

func (f *fakeRepoDB) GetMFABackupCodeByUserID(_ context.Context, userID int64) ([]entity.MFABackupCode, error) {
	var out []entity.MFABackupCode
	for _, bc := range f.backupCodes {
		if bc.UserID == userID {
			out = append(out, bc)
		}
	}
	return out, nil
}

func (f *fakeRepoDB) CreateRefreshToken(_ context.Context, _ entity.RefreshToken) error { return nil }
func (f *fakeRepoDB) CreateChallenge(_ context.Context, _ entity.Challenge) error      { return nil }
func (f *fakeRepoDB) CreateKYCDocument(_ context.Context, _ entity.KYCDocument) error  { return nil }
func (f *fakeRepoDB) RevokeRefreshToken(_ context.Context, _ string) error             { return nil }
func (f *fakeRepoDB) RevokeAllRefreshToken(_ context.Context, _ int64) error           { return nil }

func (f *fakeRepoDB) MarkMFABackupCodeUsed(_ context.Context, bcID, _ int64) (bool, error) {
	if f.usedCodes[bcID] {
		return false, nil
	}
	f.usedCodes[bcID] = true
	return true, nil
}

func (f *fakeRepoDB) UpdateMFALastUsedAt(_ context.Context, factorID, _ int64) error {
	f.lastUsedFactors = append(f.lastUsedFactors, factorID)
	return nil
}

func (f *fakeRepoDB) UpdateUserProfile(_ context.Context, _ int64, _ string) error { return nil }
func (f *fakeRepoDB) UpdateUserAvatar(_ context.Context, _ int64, _ string) error  { return nil }

func (f *fakeRepoDB) UpdateUserStatus(_ context.Context, _ int64, _, _ entity.UserStatus) error {
	return nil
}

func (f *fakeRepoDB) UpdateUserCredential(_ context.Context, _ int64, _ string) error { return nil }
func (f *fakeRepoDB) MarkUserDeleted(_ context.Context, _, _ int64) error             { return nil }

func (f *fakeRepoDB) NewMFAFactorTOTP(_ context.Context, fTOTP entity.MFAFactor, _ int64) error {
	f.newFactors = append(f.newFactors, fTOTP)
	f.factors = append(f.factors, fTOTP)
	return nil
}

func (f *fakeRepoDB) RemoveMFAFactors(_ context.Context, userID int64) error {
	f.mfaRemoved = true
	var kept []entity.MFAFactor
	for _, fac := range f.factors {
		if fac.UserID != userID {
			kept = append(kept, fac)
		}
	}
	f.factors = kept
	return nil
}

func (f *fakeRepoDB) NewRefreshToken(_ context.Context, ref entity.RefreshToken, _ int64) error {
	f.refreshTokens = append(f.refreshTokens, ref)
	return nil
}

func (f *fakeRepoDB) NewRegistration(_ context.Context, _ entity.NewUser, _ entity.Challenge, _ string) error {
	return nil
}

func (f *fakeRepoDB) NewBackupCodes(_ context.Context, _ int64, codes []entity.MFABackupCode, factor *entity.MFAFactor) error {
	f.storedBackupCodes = codes
	f.backupFactor = factor
	f.backupCodes = codes
	if factor != nil {
		f.factors = append(f.factors, *factor)
	}
	return nil
}

func (f *fakeRepoDB) NewUser(_ context.Context, _ entity.NewUser, _ string) error { return nil }

func (f *fakeRepoDB) UpsertUsers(_ context.Context, _ []entity.UpsertUser, _ map[string]string) (int, int, error) {
	return 0, 0, nil
}

func (f *fakeRepoDB) PatchUser(_ context.Context, _ entity.PatchUser, _ string) error { return nil }

func (f *fakeRepoDB) VerifyUserRegistration(_ context.Context, _ entity.VerifyUserRegistration) error {
	return nil
}

func (f *fakeRepoDB) ResetUserPassword(_ context.Context, _, _ int64, _ string) error { return nil }
func (f *fakeRepoDB) VerifyUserMFAFactor(_ context.Context, _, _, _ int64) error      { return nil }

func (f *fakeRepoDB) RotateRefreshToken(_ context.Context, _ entity.RotateRefreshToken) error {
	return nil
}

func (f *fakeRepoDB) DeleteChallenge(_ context.Context, _ int64) error { return nil }

type fakeMessaging struct{}

func (f *fakeMessaging) PublishUserRegistration(_ context.Context, _ UserRegistrationEvent) error {
	return nil
}

func (f *fakeMessaging) PublishUserForgotPassword(_ context.Context, _ UserForgotPasswordEvent) error {
	return nil
}

type fakeJWT struct{}

func (f fakeJWT) Generate(_ int64, _ string) (string, error) { return "access-token", nil }
func (f fakeJWT) Verify(_ string) (jwt.Claims, error)        { return jwt.Claims{}, nil }

type seqNumberID struct{ n int64 }

func (s *seqNumberID) Generate() int64 { return atomic.AddInt64(&s.n, 1) }

type fixedStringID struct{ v string }

func (s fixedStringID) Generate() string { return s.v }

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
		RepoDB:        repo,
		RepoMessaging: &fakeMessaging{},
		Validator:     v,
		Config:        cfg,
		HMAC:          hash.NewHMACSHA256("test-hmac-secret"),
		Bcrypt:        hash.NewBcrypt(4, ""),
		SHA256:        hash.NewSHA256(),
		MFAEncryptor:  mfa.NewAESGCMEncryptor(mfa.StaticKeyProvider{KeyBytes: testAESKey}),
		MFABackupCode: mfa.NewBackupCode(),
		UID:           &seqNumberID{n: 100},
		UUID:          fixedStringID{v: "test-uuid"},
		OID:           fixedStringID{v: "test-oid"},
		Totp:          otp.NewCompat(""),
		Clock:         fixedClock{t: testNow},
		JWT:           fakeJWT{},
		Instrument:    instrument.NewNoop(),
	})
}

func authCtx(userID int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{Subject: strconv.FormatInt(userID, 10)},
		UserID:           userID,
		UserEmail:        "user@example.com",
	})
}

// encryptSeed mirrors what TOTPSetup stores for a pending enrollment.
func encryptSeed(t *testing.T, userID int64, secret string) []byte {
	t.Helper()

	enc := mfa.NewAESGCMEncryptor(mfa.StaticKeyProvider{KeyBytes: testAESKey})
	ct, err := enc.Encrypt([]byte(secret), mfa.Scope{UserID: userID, Purpose: mfa.PurposeOTPSeed})
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	return ct
}

func hashBackupCode(t *testing.T, plain string) string {
	t.Helper()

	h, err := hash.NewSHA256().Hash(mfa.NormalizeBackupCode(plain))
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	return string(h)
}

func bcryptHash(t *testing.T, plain string) string {
	t.Helper()

	h, err := hash.NewBcrypt(4, "").Hash(plain)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	return string(h)
}

func mfaLoginChallenge(userID int64) *entity.ChallengeUser {
	return &entity.ChallengeUser{
		ChallengeID:      1,
		ChallengePurpose: entity.ChallengePurposeMFALogin,
		UserID:           userID,
		UserEmail:        "user@example.com",
		UserStatus:       entity.UserStatusActive,
	}
}
