package policy

import (
	"errors"
	"strings"
	"testing"

	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
)

func TestValidate(t *testing.T) {
	t.Run("UPIBelowMinimum", func(t *testing.T) {
		// Arrange
		req := Request{Method: entity.PayoutMethodUPI, Amount: 30, Balance: 100}

		// Act
		res, err := Validate(req)

		// Assert
		if err != nil {
			t.Fatalf("Validate() error = %v, want nil", err)
		}
		if res.IsValid {
			t.Error("Validate() IsValid = true, want false")
		}
		if !strings.Contains(res.Explanation, "50") || !strings.Contains(res.Explanation, "UPI") {
			t.Errorf("Validate() Explanation = %q, want to name the 50 INR UPI minimum", res.Explanation)
		}
	})

	t.Run("UPIValid", func(t *testing.T) {
		// Arrange
		req := Request{Method: entity.PayoutMethodUPI, Amount: 60, Balance: 100}

		// Act
		res, err := Validate(req)

		// Assert
		if err != nil {
			t.Fatalf("Validate() error = %v, want nil", err)
		}
		if !res.IsValid {
			t.Errorf("Validate() IsValid = false, explanation %q", res.Explanation)
		}
		if res.Explanation != ValidMessage {
			t.Errorf("Validate() Explanation = %q, want %q", res.Explanation, ValidMessage)
		}
		if res.AmountINR != 60 {
			t.Errorf("Validate() AmountINR = %v, want 60", res.AmountINR)
		}
	})

	t.Run("PayPalBelowMinimum", func(t *testing.T) {
		// Arrange
		req := Request{Method: entity.PayoutMethodPayPal, Amount: 0.5, Balance: 100, ExchangeRate: 83.5}

		// Act
		res, err := Validate(req)

		// Assert
		if err != nil {
			t.Fatalf("Validate() error = %v, want nil", err)
		}
		if res.IsValid {
			t.Error("Validate() IsValid = true, want false")
		}
		if !strings.Contains(res.Explanation, "1") || !strings.Contains(res.Explanation, "USD") {
			t.Errorf("Validate() Explanation = %q, want to name the 1 USD PayPal minimum", res.Explanation)
		}
	})

	t.Run("PayPalNormalizesToINR", func(t *testing.T) {
		// Arrange
		req := Request{Method: entity.PayoutMethodPayPal, Amount: 2, Balance: 300, ExchangeRate: 83.5}

		// Act
		res, err := Validate(req)

		// Assert
		if err != nil {
			t.Fatalf("Validate() error = %v, want nil", err)
		}
		if !res.IsValid {
			t.Errorf("Validate() IsValid = false, explanation %q", res.Explanation)
		}
		if res.AmountINR != 167 {
			t.Errorf("Validate() AmountINR = %v, want 167", res.AmountINR)
		}
	})

	t.Run("CapReachedRejectsRegardlessOfAmount", func(t *testing.T) {
		// Arrange: balance at the cap; even a tiny valid amount fails.
		req := Request{Method: entity.PayoutMethodPayPal, Amount: 2, Balance: 5000, ExchangeRate: 83.5}

		// Act
		res, err := Validate(req)

		// Assert
		if err != nil {
			t.Fatalf("Validate() error = %v, want nil", err)
		}
		if res.IsValid {
			t.Error("Validate() IsValid = true, want false (cap reached)")
		}
		if !strings.Contains(res.Explanation, "5000") {
			t.Errorf("Validate() Explanation = %q, want to name the 5000 INR cap", res.Explanation)
		}
	})

	t.Run("BalanceJustUnderCapAllowed", func(t *testing.T) {
		// Arrange
		req := Request{Method: entity.PayoutMethodUPI, Amount: 60, Balance: 4999.99}

		// Act
		res, err := Validate(req)

		// Assert
		if err != nil {
			t.Fatalf("Validate() error = %v, want nil", err)
		}
		if !res.IsValid {
			t.Errorf("Validate() IsValid = false just under the cap, explanation %q", res.Explanation)
		}
	})

	t.Run("AmountExceedsEarnings", func(t *testing.T) {
		// Arrange
		req := Request{Method: entity.PayoutMethodUPI, Amount: 200, Balance: 100}

		// Act
		res, err := Validate(req)

		// Assert
		if err != nil {
			t.Fatalf("Validate() error = %v, want nil", err)
		}
		if res.IsValid {
			t.Error("Validate() IsValid = true, want false")
		}
		if !strings.Contains(res.Explanation, "exceeds") {
			t.Errorf("Validate() Explanation = %q, want to mention exceeding earnings", res.Explanation)
		}
	})

	t.Run("MinimumRuleWinsOverBalanceRule", func(t *testing.T) {
		// Both the minimum and the balance rule fail; the minimum rule runs
		// first and must supply the explanation.
		// Arrange
		req := Request{Method: entity.PayoutMethodUPI, Amount: 30, Balance: 10}

		// Act
		res, err := Validate(req)

		// Assert
		if err != nil {
			t.Fatalf("Validate() error = %v, want nil", err)
		}
		if res.IsValid {
			t.Error("Validate() IsValid = true, want false")
		}
		if !strings.Contains(res.Explanation, "Minimum") {
			t.Errorf("Validate() Explanation = %q, want the minimum-amount explanation", res.Explanation)
		}
	})

	t.Run("PayPalMissingExchangeRate", func(t *testing.T) {
		// Arrange
		req := Request{Method: entity.PayoutMethodPayPal, Amount: 5, Balance: 1000}

		// Act
		_, err := Validate(req)

		// Assert
		if !errors.Is(err, ErrExchangeRateRequired) {
			t.Errorf("Validate() error = %v, want ErrExchangeRateRequired", err)
		}
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		for _, amount := range []float64{0, -10} {
			// Act
			_, err := Validate(Request{Method: entity.PayoutMethodUPI, Amount: amount, Balance: 100})

			// Assert
			if !errors.Is(err, ErrBadAmount) {
				t.Errorf("Validate(amount=%v) error = %v, want ErrBadAmount", amount, err)
			}
		}
	})

	t.Run("UnknownMethod", func(t *testing.T) {
		// Act
		_, err := Validate(Request{Method: entity.PayoutMethodUnknown, Amount: 100, Balance: 100})

		// Assert
		if !errors.Is(err, ErrBadMethod) {
			t.Errorf("Validate() error = %v, want ErrBadMethod", err)
		}
	})
}
