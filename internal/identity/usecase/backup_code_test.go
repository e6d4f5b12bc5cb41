package usecase

import (
	"testing"

	"github.com/bandwidthbucks/bandwidthbucks/internal/identity/entity"
)

func TestUsecase_BackupCode(t *testing.T) {
	newRepo := func(t *testing.T) *fakeRepoDB {
		t.Helper()

		repo := newFakeRepoDB()
		repo.credInfo = &entity.UserCredentialInfo{
			ID:       7,
			Email:    "user@example.com",
			Status:   entity.UserStatusActive,
			Password: bcryptHash(t, "Sup3rSecret!"),
		}
		return repo
	}

	t.Run("rotates and returns a fresh batch", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		repo.factors = []entity.MFAFactor{{ID: 12, UserID: 7, Type: entity.MFATypeBackupCode, IsVerified: true}}
		repo.backupCodes = []entity.MFABackupCode{{ID: 21, UserID: 7, Code: hashBackupCode(t, "AB12-CD34")}}
		uc := newTestUsecase(t, repo)

		// Act
		out, err := uc.BackupCode(authCtx(7), BackupCodeInput{CurrentPassword: "Sup3rSecret!"})

		// Assert
		if err != nil {
			t.Fatalf("BackupCode() error = %v", err)
		}
		if len(out.RecoveryCodes) != 10 {
			t.Fatalf("recovery codes = %d, want 10", len(out.RecoveryCodes))
		}
		for _, c := range out.RecoveryCodes {
			if !backupCodeFormat.MatchString(c) {
				t.Errorf("recovery code %q does not match XXXX-XXXX", c)
			}
		}
		if repo.backupFactor != nil {
			t.Error("a second backup code factor was created")
		}
		if len(repo.storedBackupCodes) != 10 {
			t.Errorf("stored codes = %d, want 10", len(repo.storedBackupCodes))
		}
	})

	t.Run("creates the factor on first rotation", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		uc := newTestUsecase(t, repo)

		// Act
		_, err := uc.BackupCode(authCtx(7), BackupCodeInput{CurrentPassword: "Sup3rSecret!"})

		// Assert
		if err != nil {
			t.Fatalf("BackupCode() error = %v", err)
		}
		if repo.backupFactor == nil || repo.backupFactor.Type != entity.MFATypeBackupCode {
			t.Error("backup code factor was not created")
		}
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		uc := newTestUsecase(t, repo)

		// Act
		_, err := uc.BackupCode(authCtx(7), BackupCodeInput{CurrentPassword: "nope"})

		// Assert
		if err == nil {
			t.Fatal("BackupCode() error = nil, want unauthorized")
		}
		if repo.storedBackupCodes != nil {
			t.Error("codes were rotated despite wrong password")
		}
	})

	t.Run("rejects a banned account", func(t *testing.T) {
		// Arrange
		repo := newRepo(t)
		repo.credInfo.Status = entity.UserStatusBanned
		uc := newTestUsecase(t, repo)

		// Act
		_, err := uc.BackupCode(authCtx(7), BackupCodeInput{CurrentPassword: "Sup3rSecret!"})

		// Assert
		if err == nil {
			t.Fatal("BackupCode() error = nil, want forbidden")
		}
	})
}
