package otp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // TOTP is specified over HMAC-SHA1
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const (
	// period is the time-step granularity in seconds. Fixed, not configurable.
	period = 30

	// skew is how many steps of clock drift are tolerated in each direction,
	// giving a 90-second acceptance window.
	skew = 1

	// secretSize is the raw secret length in bytes (256 bits minimum).
	secretSize = 32

	codeDigits = 6
	codeMod    = 1_000_000
)

// Compat is the TOTP engine the production secrets were enrolled against.
//
// It deviates from RFC 6238 in two ways that must be preserved for existing
// accounts: the secret travels base64-encoded (not base32), and the HMAC
// message is the decimal string of the time step rather than an 8-byte
// big-endian counter. Standard authenticator apps will not produce matching
// codes; see Standard for the interoperable engine.
type Compat struct {
	issuer string
}

// NewCompat returns a Compat engine stamping enrollment URIs with issuer.
func NewCompat(issuer string) *Compat {
	if issuer == "" {
		issuer = "BandwidthBucks"
	}
	return &Compat{issuer: issuer}
}

// GenerateSecret returns a new 32-byte secret from crypto/rand, base64-encoded.
func (c *Compat) GenerateSecret() (string, error) {
	raw := make([]byte, secretSize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("otp: secret generation failed: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// EnrollmentURI renders the otpauth URI scanned during 2FA setup.
//
// The label is "<issuer> (<email>)", matching what enrolled accounts already
// have on file.
func (c *Compat) EnrollmentURI(email, secret string) string {
	label := url.PathEscape(c.issuer + " (" + email + ")")
	return "otpauth://totp/" + label +
		"?secret=" + url.QueryEscape(secret) +
		"&issuer=" + url.QueryEscape(c.issuer)
}

// ComputeCode derives the 6-digit code for secret at the given time step.
func (c *Compat) ComputeCode(secret string, step int64) (string, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", fmt.Errorf("otp: secret is not valid base64: %w", err)
	}

	mac := hmac.New(sha1.New, key)
	mac.Write([]byte(strconv.FormatInt(step, 10)))
	digest := mac.Sum(nil)

	offset := digest[len(digest)-1] & 0xf
	value := (uint32(digest[offset]&0x7f) << 24) |
		(uint32(digest[offset+1]) << 16) |
		(uint32(digest[offset+2]) << 8) |
		uint32(digest[offset+3])

	return fmt.Sprintf("%0*d", codeDigits, value%codeMod), nil
}

// Verify reports whether code matches secret within the skew window at time at.
func (c *Compat) Verify(code, secret string, at time.Time) bool {
	if len(code) != codeDigits {
		return false
	}

	step := at.Unix() / period
	matched := false
	for k := int64(-skew); k <= skew; k++ {
		want, err := c.ComputeCode(secret, step+k)
		if err != nil {
			// Malformed secret: fail closed.
			return false
		}
		if subtle.ConstantTimeCompare([]byte(want), []byte(code)) == 1 {
			matched = true
		}
	}
	return matched
}
