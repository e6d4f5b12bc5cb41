// Package otp implements the two-factor authentication code engines.
//
// Two engines exist behind one interface: Compat reproduces the derivation
// the service launched with (decimal-string counter, base64 secrets), and
// Standard speaks RFC 6238 for real authenticator-app interoperability. The
// active engine is chosen once at startup from config.
package otp
