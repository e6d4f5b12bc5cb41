package mfa

import (
	"bytes"
	"crypto/rand"
	"regexp"
	"testing"
)

var reBackupCode = regexp.MustCompile(`^[0-9A-F]{4}-[0-9A-F]{4}$`)

func TestBackupCodeGenerate(t *testing.T) {
	gen := NewBackupCode()

	t.Run("BatchOfTen", func(t *testing.T) {
		codes, err := gen.Generate(10)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		if len(codes) != 10 {
			t.Fatalf("expected 10 codes, got %d", len(codes))
		}

		seen := make(map[string]struct{}, len(codes))
		for _, code := range codes {
			if !reBackupCode.MatchString(code) {
				t.Fatalf("code %q does not match XXXX-XXXX hex format", code)
			}
			if _, dup := seen[code]; dup {
				t.Fatalf("duplicate code %q in one batch", code)
			}
			seen[code] = struct{}{}
		}
	})

	t.Run("NonPositiveCountUsesDefault", func(t *testing.T) {
		codes, err := gen.Generate(0)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(codes) != DefaultBackupCodeCount {
			t.Fatalf("expected %d codes, got %d", DefaultBackupCodeCount, len(codes))
		}
	})
}

func TestNormalizeBackupCode(t *testing.T) {
	cases := map[string]string{
		"AB12-CD34":    "AB12CD34",
		" ab12-cd34 ":  "AB12CD34",
		"ab12cd34":     "AB12CD34",
		"AB12 CD34":    "AB12CD34",
		"\tAB12-CD34 ": "AB12CD34",
	}

	for in, want := range cases {
		if got := NormalizeBackupCode(in); got != want {
			t.Fatalf("normalize %q: got %q want %q", in, got, want)
		}
	}
}

func TestAESGCMEncryptor(t *testing.T) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("key material: %v", err)
	}

	enc := NewAESGCMEncryptor(StaticKeyProvider{KeyBytes: key})
	scope := Scope{UserID: 42, Purpose: PurposeOTPSeed}

	t.Run("RoundTrip", func(t *testing.T) {
		plaintext := []byte("dG90cC1zaGFyZWQtc2VjcmV0")

		sealed, err := enc.Encrypt(plaintext, scope)
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}
		if bytes.Contains(sealed, plaintext) {
			t.Fatalf("ciphertext contains the plaintext")
		}

		opened, err := enc.Decrypt(sealed, scope)
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if !bytes.Equal(opened, plaintext) {
			t.Fatalf("round trip mismatch: %q", opened)
		}
	})

	t.Run("WrongScopeFails", func(t *testing.T) {
		sealed, err := enc.Encrypt([]byte("secret"), scope)
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}

		if _, err := enc.Decrypt(sealed, Scope{UserID: 43, Purpose: PurposeOTPSeed}); err == nil {
			t.Fatalf("ciphertext opened under a different account scope")
		}
	})

	t.Run("TamperedCiphertextFails", func(t *testing.T) {
		sealed, err := enc.Encrypt([]byte("secret"), scope)
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}
		sealed[len(sealed)-1] ^= 0xff

		if _, err := enc.Decrypt(sealed, scope); err == nil {
			t.Fatalf("tampered ciphertext opened")
		}
	})

	t.Run("ShortKeyRejected", func(t *testing.T) {
		bad := NewAESGCMEncryptor(StaticKeyProvider{KeyBytes: []byte("short")})
		if _, err := bad.Encrypt([]byte("secret"), scope); err == nil {
			t.Fatalf("short key accepted for AES-256")
		}
	})
}
