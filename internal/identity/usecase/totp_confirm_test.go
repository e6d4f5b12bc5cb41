package usecase

import (
	"context"
	"encoding/base64"
	"regexp"
	"testing"

	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/entity"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/otp"
	"github.com/bandwidthbucks/bandwidthbucks/internal/pkg/valueobject"
)

var backupCodeFormat = regexp.MustCompile(`^[0-9A-F]{4}-[0-9A-F]{4}$`)

func TestUsecase_TOTPConfirm(t *testing.T) {
	engine := otp.NewCompat("")

	secret, err := engine.GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret() error = %v", err)
	}

	code, err := engine.ComputeCode(secret, testNow.Unix()/30)
	if err != nil {
		t.Fatalf("ComputeCode() error = %v", err)
	}

	newRepo := func(t *testing.T) *fakeRepoDB {
		t.Helper()

		repo := newFakeRepoDB()
		repo.challenge = &entity.ChallengeUser{
			ChallengeID:      2,
			ChallengePurpose: entity.ChallengePurposeMFASetupConfirm,
			UserID:           7,
			UserEmail:        "user@example.com",
			UserStatus:       entity.UserStatusActive,
			ChallengeMetadata: valueobject.JSONMap{
				"secret":        base64.StdEncoding.EncodeToString(encryptSeed(t, 7, secret)),
				"friendly_name": "Pixel 9",
			},
		}
		return repo
	}

	t.Run("enrolls the factor and issues backup codes", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		uc := newTestUsecase(t, repo)

		// Act
		out, err := uc.TOTPConfirm(authCtx(7), TOTPConfirmInput{
			ChallengeToken: "challenge-token",
			Code:           code,
		})

		// Assert
		if err != nil {
			t.Fatalf("TOTPConfirm() error = %v", err)
		}
		if len(out.BackupCodes) != 10 {
			t.Fatalf("backup codes = %d, want 10", len(out.BackupCodes))
		}
		for _, c := range out.BackupCodes {
			if !backupCodeFormat.MatchString(c) {
				t.Errorf("backup code %q does not match XXXX-XXXX", c)
			}
		}
		if len(repo.newFactors) != 1 || repo.newFactors[0].Type != entity.MFATypeTOTP {
			t.Fatalf("enrolled factors = %v, want one totp factor", repo.newFactors)
		}
		if !repo.newFactors[0].IsVerified {
			t.Error("enrolled totp factor is not verified")
		}
		if repo.newFactors[0].FriendlyName != "Pixel 9" {
			t.Errorf("friendly name = %q, want Pixel 9", repo.newFactors[0].FriendlyName)
		}
		if repo.backupFactor == nil || repo.backupFactor.Type != entity.MFATypeBackupCode {
			t.Error("backup code factor was not created alongside the rotation")
		}
	})

	t.Run("stores only hashes of the backup codes", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		uc := newTestUsecase(t, repo)

		// Act
		out, err := uc.TOTPConfirm(authCtx(7), TOTPConfirmInput{
			ChallengeToken: "challenge-token",
			Code:           code,
		})

		// Assert
		if err != nil {
			t.Fatalf("TOTPConfirm() error = %v", err)
		}
		if len(repo.storedBackupCodes) != len(out.BackupCodes) {
			t.Fatalf("stored codes = %d, want %d", len(repo.storedBackupCodes), len(out.BackupCodes))
		}
		for i, plain := range out.BackupCodes {
			stored := repo.storedBackupCodes[i].Code
			if stored == plain {
				t.Errorf("code %d stored in plaintext", i)
			}
			if stored != hashBackupCode(t, plain) {
				t.Errorf("code %d stored hash does not match its plaintext", i)
			}
		}
	})

	t.Run("rejects a wrong code", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		uc := newTestUsecase(t, repo)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		// Act
		_, err := uc.TOTPConfirm(authCtx(7), TOTPConfirmInput{
			ChallengeToken: "challenge-token",
			Code:           wrong,
		})

		// Assert
		if err == nil {
			t.Fatal("TOTPConfirm() error = nil, want unauthorized")
		}
		if len(repo.newFactors) != 0 {
			t.Errorf("enrolled factors = %d, want 0", len(repo.newFactors))
		}
	})

	t.Run("conflicts when a verified totp factor exists", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		repo.factors = []entity.MFAFactor{{ID: 11, UserID: 7, Type: entity.MFATypeTOTP, IsVerified: true}}
		uc := newTestUsecase(t, repo)

		// Act
		_, err := uc.TOTPConfirm(authCtx(7), TOTPConfirmInput{
			ChallengeToken: "challenge-token",
			Code:           code,
		})

		// Assert
		if err == nil {
			t.Fatal("TOTPConfirm() error = nil, want conflict")
		}
	})

	t.Run("rejects a challenge for another user", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		uc := newTestUsecase(t, repo)

		// Act
		_, err := uc.TOTPConfirm(authCtx(8), TOTPConfirmInput{
			ChallengeToken: "challenge-token",
			Code:           code,
		})

		// Assert
		if err == nil {
			t.Fatal("TOTPConfirm() error = nil, want unauthorized")
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, newRepo(t))

		// Act
		_, err := uc.TOTPConfirm(context.Background(), TOTPConfirmInput{
			ChallengeToken: "challenge-token",
			Code:           code,
		})

		// Assert
		if err == nil {
			t.Fatal("TOTPConfirm() error = nil, want unauthorized")
		}
	})
}

func TestUsecase_TOTPDisable(t *testing.T) {
	newRepo := func(t *testing.T) *fakeRepoDB {
		t.Helper()

		repo := newFakeRepoDB()
		repo.credInfo = &entity.UserCredentialInfo{
			ID:       7,
			Email:    "user@example.com",
			Status:   entity.UserStatusActive,
			Password: bcryptHash(t, "Sup3rSecret!"),
		}
		repo.factors = []entity.MFAFactor{
			{ID: 11, UserID: 7, Type: entity.MFATypeTOTP, IsVerified: true},
			{ID: 12, UserID: 7, Type: entity.MFATypeBackupCode, IsVerified: true},
		}
		return repo
	}

	t.Run("removes every factor", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		uc := newTestUsecase(t, repo)

		// Act
		err := uc.TOTPDisable(authCtx(7), TOTPDisableInput{CurrentPassword: "Sup3rSecret!"})

		// Assert
		if err != nil {
			t.Fatalf("TOTPDisable() error = %v", err)
		}
		if !repo.mfaRemoved {
			t.Error("mfa factors were not removed")
		}
		if len(repo.factors) != 0 {
			t.Errorf("remaining factors = %d, want 0", len(repo.factors))
		}
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		uc := newTestUsecase(t, repo)

		// Act
		err := uc.TOTPDisable(authCtx(7), TOTPDisableInput{CurrentPassword: "nope"})

		// Assert
		if err == nil {
			t.Fatal("TOTPDisable() error = nil, want unauthorized")
		}
		if repo.mfaRemoved {
			t.Error("mfa factors were removed despite wrong password")
		}
	})

	t.Run("fails when totp is not enabled", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		repo.factors = nil
		uc := newTestUsecase(t, repo)

		// Act
		err := uc.TOTPDisable(authCtx(7), TOTPDisableInput{CurrentPassword: "Sup3rSecret!"})

		// Assert
		if err == nil {
			t.Fatal("TOTPDisable() error = nil, want not found")
		}
		if repo.mfaRemoved {
			t.Error("mfa factors were removed despite none enrolled")
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, newRepo(t))

		// Act
		err := uc.TOTPDisable(context.Background(), TOTPDisableInput{CurrentPassword: "Sup3rSecret!"})

		// Assert
		if err == nil {
			t.Fatal("TOTPDisable() error = nil, want unauthorized")
		}
	})
}
