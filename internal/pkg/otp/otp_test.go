package otp

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

var reSixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestCompatGenerateSecret(t *testing.T) {
	// Arrange
	engine := NewCompat("BandwidthBucks")

	// Act
	first, err1 := engine.GenerateSecret()
	second, err2 := engine.GenerateSecret()

	// Assert
	if err1 != nil || err2 != nil {
		t.Fatalf("generate secret: %v %v", err1, err2)
	}
	if first == second {
		t.Fatalf("two generated secrets are identical")
	}
	if len(first) != 44 { // 32 raw bytes, base64 std encoding
		t.Fatalf("unexpected secret length %d", len(first))
	}
}

func TestCompatComputeCode(t *testing.T) {
	engine := NewCompat("BandwidthBucks")

	secret, err := engine.GenerateSecret()
	if err != nil {
		t.Fatalf("generate secret: %v", err)
	}

	t.Run("Deterministic", func(t *testing.T) {
		first, err := engine.ComputeCode(secret, 58189087)
		if err != nil {
			t.Fatalf("compute code: %v", err)
		}
		second, err := engine.ComputeCode(secret, 58189087)
		if err != nil {
			t.Fatalf("compute code: %v", err)
		}

		if first != second {
			t.Fatalf("same inputs produced %q and %q", first, second)
		}
		if !reSixDigits.MatchString(first) {
			t.Fatalf("code %q is not six decimal digits", first)
		}
	})

	t.Run("AdjacentStepsDiffer", func(t *testing.T) {
		a, _ := engine.ComputeCode(secret, 1000)
		b, _ := engine.ComputeCode(secret, 1001)
		c, _ := engine.ComputeCode(secret, 1002)

		if a == b && b == c {
			t.Fatalf("three consecutive steps all produced %q", a)
		}
	})

	t.Run("MalformedSecret", func(t *testing.T) {
		if _, err := engine.ComputeCode("not!!base64@@", 1000); err == nil {
			t.Fatalf("expected error for malformed secret")
		}
	})
}

func TestCompatVerify(t *testing.T) {
	engine := NewCompat("BandwidthBucks")

	secret, err := engine.GenerateSecret()
	if err != nil {
		t.Fatalf("generate secret: %v", err)
	}

	now := time.Unix(1766000010, 0)
	step := now.Unix() / period

	t.Run("CurrentStep", func(t *testing.T) {
		code, err := engine.ComputeCode(secret, step)
		if err != nil {
			t.Fatalf("compute code: %v", err)
		}

		if !engine.Verify(code, secret, now) {
			t.Fatalf("code for current step rejected")
		}
	})

	t.Run("SkewWindow", func(t *testing.T) {
		previous, _ := engine.ComputeCode(secret, step-1)
		next, _ := engine.ComputeCode(secret, step+1)

		if !engine.Verify(previous, secret, now) {
			t.Fatalf("code one step behind rejected inside skew window")
		}
		if !engine.Verify(next, secret, now) {
			t.Fatalf("code one step ahead rejected inside skew window")
		}
	})

	t.Run("OutsideSkewWindow", func(t *testing.T) {
		stale, _ := engine.ComputeCode(secret, step-2)
		future, _ := engine.ComputeCode(secret, step+2)

		if engine.Verify(stale, secret, now) {
			t.Fatalf("code two steps behind accepted")
		}
		if engine.Verify(future, secret, now) {
			t.Fatalf("code two steps ahead accepted")
		}
	})

	t.Run("MalformedSecretFailsClosed", func(t *testing.T) {
		if engine.Verify("123456", "%%%not-base64%%%", now) {
			t.Fatalf("malformed secret verified a code")
		}
	})

	t.Run("WrongLengthCode", func(t *testing.T) {
		if engine.Verify("12345", secret, now) {
			t.Fatalf("five digit code accepted")
		}
		if engine.Verify("1234567", secret, now) {
			t.Fatalf("seven digit code accepted")
		}
	})
}

func TestCompatEnrollmentURI(t *testing.T) {
	// Arrange
	engine := NewCompat("BandwidthBucks")

	// Act
	uri := engine.EnrollmentURI("admin@bandwidthbucks.com", "c2VjcmV0+value=")

	// Assert
	if !strings.HasPrefix(uri, "otpauth://totp/") {
		t.Fatalf("uri %q missing otpauth scheme", uri)
	}
	if !strings.Contains(uri, "issuer=BandwidthBucks") {
		t.Fatalf("uri %q missing issuer parameter", uri)
	}
	if !strings.Contains(uri, "secret=c2VjcmV0%2Bvalue%3D") {
		t.Fatalf("uri %q does not url-encode the secret", uri)
	}
	if strings.Contains(uri, " ") {
		t.Fatalf("uri %q contains unencoded spaces", uri)
	}
}

func TestStandardVerify(t *testing.T) {
	engine := NewStandard("BandwidthBucks")

	secret, err := engine.GenerateSecret()
	if err != nil {
		t.Fatalf("generate secret: %v", err)
	}

	now := time.Unix(1766000010, 0)
	step := now.Unix() / period

	code, err := engine.ComputeCode(secret, step)
	if err != nil {
		t.Fatalf("compute code: %v", err)
	}

	if !reSixDigits.MatchString(code) {
		t.Fatalf("code %q is not six decimal digits", code)
	}
	if !engine.Verify(code, secret, now) {
		t.Fatalf("code for current step rejected")
	}

	stale, _ := engine.ComputeCode(secret, step-2)
	if engine.Verify(stale, secret, now) {
		t.Fatalf("code two steps behind accepted")
	}
}

func TestModesDisagree(t *testing.T) {
	// The two engines must not be drop-in compatible with each other: a
	// compat code must not verify under the standard derivation.
	compat := NewCompat("BandwidthBucks")
	standard := NewStandard("BandwidthBucks")

	secret, err := standard.GenerateSecret()
	if err != nil {
		t.Fatalf("generate secret: %v", err)
	}

	now := time.Now()
	code, err := standard.ComputeCode(secret, now.Unix()/period)
	if err != nil {
		t.Fatalf("compute code: %v", err)
	}

	if compat.Verify(code, secret, now) {
		t.Fatalf("standard code verified under compat engine")
	}
}

func TestNewSelectsEngine(t *testing.T) {
	if _, ok := New(ModeStandard, "x").(*Standard); !ok {
		t.Fatalf("standard mode did not build a Standard engine")
	}
	if _, ok := New(ModeCompat, "x").(*Compat); !ok {
		t.Fatalf("compat mode did not build a Compat engine")
	}
	if _, ok := New(Mode("typo"), "x").(*Compat); !ok {
		t.Fatalf("unknown mode did not fall back to Compat")
	}
}
