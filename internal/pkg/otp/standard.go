package otp

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"net/url"
	"time"

	libotp "github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// rfcSecretSize follows the RFC 4226/6238 recommendation of 160-bit secrets.
const rfcSecretSize = 20

var b32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Standard is an RFC 6238 TOTP engine backed by github.com/pquerna/otp.
//
// Codes it derives match Google Authenticator and Authy, at the cost of not
// matching secrets enrolled under the Compat engine.
type Standard struct {
	issuer string
}

// NewStandard returns a Standard engine stamping enrollment URIs with issuer.
func NewStandard(issuer string) *Standard {
	if issuer == "" {
		issuer = "BandwidthBucks"
	}
	return &Standard{issuer: issuer}
}

// GenerateSecret returns a new 20-byte secret from crypto/rand, base32-encoded.
func (s *Standard) GenerateSecret() (string, error) {
	raw := make([]byte, rfcSecretSize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("otp: secret generation failed: %w", err)
	}
	return b32NoPadding.EncodeToString(raw), nil
}

// EnrollmentURI renders the conventional "issuer:account" otpauth URI.
func (s *Standard) EnrollmentURI(email, secret string) string {
	label := url.PathEscape(s.issuer + ":" + email)
	return "otpauth://totp/" + label +
		"?secret=" + url.QueryEscape(secret) +
		"&issuer=" + url.QueryEscape(s.issuer)
}

// ComputeCode derives the 6-digit code for secret at the given time step.
func (s *Standard) ComputeCode(secret string, step int64) (string, error) {
	return totp.GenerateCodeCustom(secret, time.Unix(step*period, 0), s.opts())
}

// Verify reports whether code matches secret within the skew window at time at.
func (s *Standard) Verify(code, secret string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, s.opts())
	return ok && err == nil
}

func (s *Standard) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    period,
		Skew:      skew,
		Digits:    libotp.DigitsSix,
		Algorithm: libotp.AlgorithmSHA1,
	}
}
