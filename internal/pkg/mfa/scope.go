package mfa

// Purpose identifies what a ciphertext protects.
type Purpose string

const (
	// PurposeOTPSeed scopes encryption to TOTP shared secrets.
	PurposeOTPSeed Purpose = "otp_seed"
)

// Scope binds a ciphertext to the account and purpose it was sealed for.
// It feeds the AES-GCM AAD, so a secret sealed for one admin account can
// never be decrypted in the context of another.
type Scope struct {
	// UserID is the owning account identifier.
	UserID int64
	// Purpose is the encryption purpose.
	Purpose Purpose
}
