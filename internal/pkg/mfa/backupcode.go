package mfa

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// DefaultBackupCodeCount is how many recovery codes one enrollment issues.
const DefaultBackupCodeCount = 10

// BackupCodeGenerator defines an interface for generating 2FA recovery codes.
type BackupCodeGenerator interface {
	// Generate returns count distinct codes, or an error if the random
	// source fails.
	Generate(count int) ([]string, error)
}

// BackupCode generates single-use recovery codes in the account format:
//
//	XXXX-XXXX
//
// Eight uppercase hex characters from 4 bytes of crypto/rand, hyphenated
// after the fourth. Codes are stored server-side only as hashes; the
// plaintext is shown to the user exactly once at enrollment.
type BackupCode struct{}

// NewBackupCode returns a new BackupCode generator.
func NewBackupCode() *BackupCode {
	return &BackupCode{}
}

// Generate produces count distinct codes.
//
// With 32 bits of entropy per code an intra-batch collision is vanishingly
// unlikely, but the batch is deduped anyway so a caller can rely on
// distinctness.
func (bc *BackupCode) Generate(count int) ([]string, error) {
	if count <= 0 {
		count = DefaultBackupCodeCount
	}

	out := make([]string, 0, count)
	seen := make(map[string]struct{}, count)

	for len(out) < count {
		code, err := bc.generate()
		if err != nil {
			return nil, err
		}

		if _, ok := seen[code]; ok {
			continue
		}

		seen[code] = struct{}{}
		out = append(out, code)
	}

	return out, nil
}

func (bc *BackupCode) generate() (string, error) {
	var raw [4]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("mfa: backup code generation failed: %w", err)
	}

	code := strings.ToUpper(hex.EncodeToString(raw[:]))
	return code[0:4] + "-" + code[4:8], nil
}

// NormalizeBackupCode canonicalizes user input before hashing or comparing.
//
// The same normalization runs at generation time and at redemption time, so
// "ab12-cd34 " and "AB12CD34" redeem the same stored hash.
func NormalizeBackupCode(code string) string {
	code = strings.TrimSpace(code)
	code = strings.ReplaceAll(code, "-", "")
	code = strings.ReplaceAll(code, " ", "")
	return strings.ToUpper(code)
}
