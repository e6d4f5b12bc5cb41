package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/entity"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/otp"
)

func TestUsecase_Login2FA_TOTP(t *testing.T) {
	engine := otp.NewCompat("")

	secret, err := engine.GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret() error = %v", err)
	}

	step := testNow.Unix() / 30

	validCode := func(t *testing.T, atStep int64) string {
		t.Helper()
		code, err := engine.ComputeCode(secret, atStep)
		if err != nil {
			t.Fatalf("ComputeCode() error = %v", err)
		}
		return code
	}

	// A code outside the acceptance window, for the negative case.
	wrongCode := func(t *testing.T) string {
		t.Helper()
		window := map[string]bool{}
		for k := int64(-1); k <= 1; k++ {
			window[validCode(t, step+k)] = true
		}
		for i := 0; ; i++ {
			c := fmt.Sprintf("%06d", i)
			if !window[c] {
				return c
			}
		}
	}

	newRepo := func() *fakeRepoDB {
		repo := newFakeRepoDB()
		repo.challenge = mfaLoginChallenge(7)
		repo.factors = []entity.MFAFactor{{
			ID:         11,
			UserID:     7,
			Type:       entity.MFATypeTOTP,
			Secret:     encryptSeed(t, 7, secret),
			IsVerified: true,
		}}
		return repo
	}

	t.Run("logs in with a valid code", func(t *testing.T) {
		// Arrange
		repo := newRepo()
		uc := newTestUsecase(t, repo)

		// Act
		out, err := uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeTOTP,
			Code:           validCode(t, step),
		})

		// Assert
		if err != nil {
			t.Fatalf("Login2FA() error = %v", err)
		}
		if out.AccessToken == "" || out.RefreshToken == "" {
			t.Errorf("Login2FA() tokens = (%q, %q), want both non-empty", out.AccessToken, out.RefreshToken)
		}
		if len(repo.refreshTokens) != 1 {
			t.Errorf("stored refresh tokens = %d, want 1", len(repo.refreshTokens))
		}
		if len(repo.lastUsedFactors) != 1 || repo.lastUsedFactors[0] != 11 {
			t.Errorf("last used factors = %v, want [11]", repo.lastUsedFactors)
		}
	})

	t.Run("accepts a code from the previous step", func(t *testing.T) {
		// Arrange
		repo := newRepo()
		uc := newTestUsecase(t, repo)

		// Act
		_, err := uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeTOTP,
			Code:           validCode(t, step-1),
		})

		// Assert
		if err != nil {
			t.Fatalf("Login2FA() error = %v", err)
		}
	})

	t.Run("rejects a code outside the window", func(t *testing.T) {
		// Arrange
		repo := newRepo()
		uc := newTestUsecase(t, repo)

		// Act
		_, err := uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeTOTP,
			Code:           wrongCode(t),
		})

		// Assert
		if err == nil {
			t.Fatal("Login2FA() error = nil, want unauthorized")
		}
		if len(repo.refreshTokens) != 0 {
			t.Errorf("stored refresh tokens = %d, want 0", len(repo.refreshTokens))
		}
	})

	t.Run("rejects a non-numeric code early", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, newRepo())

		// Act
		_, err := uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeTOTP,
			Code:           "12345a",
		})

		// Assert
		if err == nil {
			t.Fatal("Login2FA() error = nil, want unauthorized")
		}
	})

	t.Run("rejects the sms method", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, newRepo())

		// Act
		_, err := uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeSMS,
			Code:           "123456",
		})

		// Assert
		if err == nil {
			t.Fatal("Login2FA() error = nil, want unsupported method")
		}
	})

	t.Run("rejects an unknown challenge session", func(t *testing.T) {
		// Arrange
		repo := newRepo()
		repo.challenge = nil
		uc := newTestUsecase(t, repo)

		// Act
		_, err := uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeTOTP,
			Code:           validCode(t, step),
		})

		// Assert
		if err == nil {
			t.Fatal("Login2FA() error = nil, want unauthorized")
		}
	})
}

func TestUsecase_Login2FA_BackupCode(t *testing.T) {
	newRepo := func(t *testing.T) *fakeRepoDB {
		t.Helper()

		repo := newFakeRepoDB()
		repo.challenge = mfaLoginChallenge(7)
		repo.factors = []entity.MFAFactor{{
			ID:         12,
			UserID:     7,
			Type:       entity.MFATypeBackupCode,
			IsVerified: true,
		}}
		repo.backupCodes = []entity.MFABackupCode{
			{ID: 21, UserID: 7, Code: hashBackupCode(t, "AB12-CD34")},
			{ID: 22, UserID: 7, Code: hashBackupCode(t, "EF56-0078")},
		}
		return repo
	}

	t.Run("logs in and burns the code", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		uc := newTestUsecase(t, repo)

		// Act
		out, err := uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeBackupCode,
			Code:           "AB12-CD34",
		})

		// Assert
		if err != nil {
			t.Fatalf("Login2FA() error = %v", err)
		}
		if out.AccessToken == "" || out.RefreshToken == "" {
			t.Errorf("Login2FA() tokens = (%q, %q), want both non-empty", out.AccessToken, out.RefreshToken)
		}
		if !repo.usedCodes[21] {
			t.Error("backup code 21 was not marked used")
		}
		if repo.usedCodes[22] {
			t.Error("backup code 22 was marked used")
		}
	})

	t.Run("accepts sloppy input formatting", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		uc := newTestUsecase(t, repo)

		// Act
		_, err := uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeBackupCode,
			Code:           "  ab12cd34 ",
		})

		// Assert
		if err != nil {
			t.Fatalf("Login2FA() error = %v", err)
		}
		if !repo.usedCodes[21] {
			t.Error("backup code 21 was not marked used")
		}
	})

	t.Run("rejects a reused code", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		uc := newTestUsecase(t, repo)

		if _, err := uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeBackupCode,
			Code:           "AB12-CD34",
		}); err != nil {
			t.Fatalf("first Login2FA() error = %v", err)
		}

		// Act
		_, err := uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeBackupCode,
			Code:           "AB12-CD34",
		})

		// Assert
		if err == nil {
			t.Fatal("second Login2FA() error = nil, want unauthorized")
		}
	})

	t.Run("rejects a code that matches nothing", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		uc := newTestUsecase(t, repo)

		// Act
		_, err := uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeBackupCode,
			Code:           "0000-0000",
		})

		// Assert
		if err == nil {
			t.Fatal("Login2FA() error = nil, want unauthorized")
		}
		if len(repo.usedCodes) != 0 {
			t.Errorf("used codes = %v, want none", repo.usedCodes)
		}
	})

	t.Run("rejects when no backup code factor exists", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		repo.factors = nil
		uc := newTestUsecase(t, repo)

		// Act
		_, err := uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeBackupCode,
			Code:           "AB12-CD34",
		})

		// Assert
		if err == nil {
			t.Fatal("Login2FA() error = nil, want unauthorized")
		}
	})
}

type capturedLogs struct {
	mu    sync.Mutex
	lines []string
}

func (c *capturedLogs) Enabled(context.Context, slog.Level) bool { return true }

func (c *capturedLogs) Handle(_ context.Context, r slog.Record) error {
	line := r.Message
	r.Attrs(func(a slog.Attr) bool {
		line += " " + a.Key + "=" + a.Value.String()
		return true
	})

	c.mu.Lock()
	c.lines = append(c.lines, line)
	c.mu.Unlock()
	return nil
}

func (c *capturedLogs) WithAttrs([]slog.Attr) slog.Handler { return c }
func (c *capturedLogs) WithGroup(string) slog.Handler      { return c }

func (c *capturedLogs) contains(substr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range c.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func captureLogs(t *testing.T) *capturedLogs {
	t.Helper()

	logs := &capturedLogs{}
	prev := slog.Default()
	slog.SetDefault(slog.New(logs))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return logs
}

func TestUsecase_Login2FA_Logging(t *testing.T) {
	engine := otp.NewCompat("")

	secret, err := engine.GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret() error = %v", err)
	}

	totpRepo := func(t *testing.T) *fakeRepoDB {
		t.Helper()

		repo := newFakeRepoDB()
		repo.challenge = mfaLoginChallenge(7)
		repo.factors = []entity.MFAFactor{{
			ID:         11,
			UserID:     7,
			Type:       entity.MFATypeTOTP,
			Secret:     encryptSeed(t, 7, secret),
			IsVerified: true,
		}}
		return repo
	}

	t.Run("records a successful totp attempt with method and outcome", func(t *testing.T) {
		// Arrange
		logs := captureLogs(t)
		uc := newTestUsecase(t, totpRepo(t))

		code, err := engine.ComputeCode(secret, testNow.Unix()/30)
		if err != nil {
			t.Fatalf("ComputeCode() error = %v", err)
		}

		// Act
		_, err = uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeTOTP,
			Code:           code,
		})

		// Assert
		if err != nil {
			t.Fatalf("Login2FA() error = %v", err)
		}
		if !logs.contains("2fa verification attempt") || !logs.contains("method=TOTP") || !logs.contains("outcome=success") {
			t.Errorf("success attempt not logged with method and outcome, got %v", logs.lines)
		}
	})

	t.Run("records a successful backup code attempt", func(t *testing.T) {
		// Arrange
		logs := captureLogs(t)
		repo := newFakeRepoDB()
		repo.challenge = mfaLoginChallenge(7)
		repo.factors = []entity.MFAFactor{{
			ID:         12,
			UserID:     7,
			Type:       entity.MFATypeBackupCode,
			IsVerified: true,
		}}
		repo.backupCodes = []entity.MFABackupCode{
			{ID: 21, UserID: 7, Code: hashBackupCode(t, "AB12-CD34")},
		}
		uc := newTestUsecase(t, repo)

		// Act
		_, err := uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeBackupCode,
			Code:           "AB12-CD34",
		})

		// Assert
		if err != nil {
			t.Fatalf("Login2FA() error = %v", err)
		}
		if !logs.contains("method=BackupCode") || !logs.contains("outcome=success") {
			t.Errorf("success attempt not logged with method and outcome, got %v", logs.lines)
		}
	})

	t.Run("never logs the submitted code", func(t *testing.T) {
		// Arrange
		logs := captureLogs(t)
		uc := newTestUsecase(t, totpRepo(t))

		// Act
		_, err := uc.Login2FA(context.Background(), Login2FAInput{
			ChallengeToken: "challenge-token",
			Method:         entity.MFATypeTOTP,
			Code:           "12345a",
		})

		// Assert
		if err == nil {
			t.Fatal("Login2FA() error = nil, want unauthorized")
		}
		if logs.contains("12345a") {
			t.Error("submitted code leaked into the logs")
		}
	})
}
