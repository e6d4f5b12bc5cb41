package otp

import "time"

// Mode selects which code derivation a TOTP engine uses.
type Mode string

const (
	// ModeCompat derives codes the way the original BandwidthBucks service
	// did: the HMAC message is the decimal string of the time step, not the
	// RFC 6238 8-byte counter. Secrets already enrolled keep working.
	ModeCompat Mode = "compat"

	// ModeStandard derives codes per RFC 6238 and interoperates with
	// Google Authenticator, Authy and friends.
	ModeStandard Mode = "standard"
)

// OTP defines the contract for TOTP operations.
type OTP interface {
	// GenerateSecret returns a fresh shared secret in its transport encoding.
	GenerateSecret() (string, error)
	// EnrollmentURI renders an otpauth:// URI for authenticator apps.
	EnrollmentURI(email, secret string) string
	// ComputeCode derives the 6-digit code for a secret at a given time step.
	ComputeCode(secret string, step int64) (string, error)
	// Verify reports whether code is valid for secret at the given time,
	// allowing one step of clock skew in each direction. A malformed secret
	// fails closed: the result is false, never a panic or error.
	Verify(code, secret string, at time.Time) bool
}

// New constructs the TOTP engine for the configured mode.
//
// Unknown modes fall back to ModeCompat so that a typo in config can never
// silently invalidate every enrolled secret.
func New(mode Mode, issuer string) OTP {
	if mode == ModeStandard {
		return NewStandard(issuer)
	}
	return NewCompat(issuer)
}
