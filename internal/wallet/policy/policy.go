// Package policy implements the payout validation rules.
//
// Validation is a pure function over the request and the wallet balance. The
// rules run in a fixed order and the first failing rule determines the
// explanation returned to the user.
package policy

import (
	"errors"
	"fmt"
	"math"

	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
)

const (
	// MinUPIAmountINR is the minimum UPI payout, in INR.
	MinUPIAmountINR = 50.0

	// MinPayPalAmountUSD is the minimum PayPal payout, in USD.
	MinPayPalAmountUSD = 1.0

	// MonthlyCapINR is the earnings cap per cycle, in INR. A wallet whose
	// accumulated balance is already at or past the cap cannot request
	// payouts until the cycle resets. The cap is checked against the
	// pre-existing balance, not balance plus the requested amount.
	MonthlyCapINR = 5000.0
)

// ValidMessage is the explanation returned for a request that passes every rule.
const ValidMessage = "Payout request is valid"

var (
	// ErrExchangeRateRequired indicates the caller did not supply a USD to INR
	// rate for a PayPal payout. This is a caller configuration error, not a
	// validation outcome.
	ErrExchangeRateRequired = errors.New("policy: exchange rate is required for PayPal payouts")

	// ErrBadAmount indicates the amount is not a positive finite number.
	ErrBadAmount = errors.New("policy: payout amount must be a positive number")

	// ErrBadMethod indicates an unrecognized payout method.
	ErrBadMethod = errors.New("policy: unknown payout method")
)

// Result is the outcome of validating one payout request.
type Result struct {
	IsValid     bool
	Explanation string
	// AmountINR is the request amount normalized to INR. It is the value the
	// caller debits from the wallet when the request is accepted.
	AmountINR float64
}

// Request is the input to Validate. Amount is in the method's native currency
// (INR for UPI, USD for PayPal). Balance is the wallet's current INR balance.
// ExchangeRate is the USD to INR rate; required when Method is PayPal.
type Request struct {
	Method       entity.PayoutMethod
	Amount       float64
	Balance      float64
	ExchangeRate float64
}

// Validate applies the payout rules in order and returns a decision with a
// human-readable explanation. It returns an error only for malformed input;
// a well-formed request always yields a Result.
func Validate(req Request) (Result, error) {
	if req.Method != entity.PayoutMethodUPI && req.Method != entity.PayoutMethodPayPal {
		return Result{}, ErrBadMethod
	}

	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return Result{}, ErrBadAmount
	}

	if req.Method == entity.PayoutMethodPayPal && req.ExchangeRate <= 0 {
		return Result{}, ErrExchangeRateRequired
	}

	if req.Method == entity.PayoutMethodUPI && req.Amount < MinUPIAmountINR {
		return Result{
			IsValid:     false,
			Explanation: fmt.Sprintf("Minimum payout for UPI is %.0f INR.", MinUPIAmountINR),
		}, nil
	}

	if req.Method == entity.PayoutMethodPayPal && req.Amount < MinPayPalAmountUSD {
		return Result{
			IsValid:     false,
			Explanation: fmt.Sprintf("Minimum payout for PayPal is %.0f USD.", MinPayPalAmountUSD),
		}, nil
	}

	amountINR := req.Amount
	if req.Method == entity.PayoutMethodPayPal {
		amountINR = req.Amount * req.ExchangeRate
	}

	if req.Balance >= MonthlyCapINR {
		return Result{
			IsValid: false,
			Explanation: fmt.Sprintf(
				"Your earnings have reached the monthly cap of %.0f INR; payouts cannot be requested until the next cycle.",
				MonthlyCapINR,
			),
			AmountINR: amountINR,
		}, nil
	}

	if req.Amount > req.Balance {
		return Result{
			IsValid: false,
			Explanation: fmt.Sprintf(
				"Payout amount %.2f exceeds your available earnings of %.2f.",
				req.Amount, req.Balance,
			),
			AmountINR: amountINR,
		}, nil
	}

	return Result{IsValid: true, Explanation: ValidMessage, AmountINR: amountINR}, nil
}
