package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/bandwidthbucks/bandwidthbucks/internal/wallet/entity"
)

func TestPayoutValidate(t *testing.T) {
	t.Run("ValidUPIRequest", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.wallet = &entity.Wallet{UserID: 7, Balance: 100}
		uc := newTestUsecase(t, repo, &fakeMessaging{}, 7)

		// Act
		out, err := uc.PayoutValidate(authCtx(7), PayoutValidateInput{Method: "UPI", Amount: 60})

		// Assert
		if err != nil {
			t.Fatalf("PayoutValidate() error = %v, want nil", err)
		}
		if !out.IsValid {
			t.Errorf("PayoutValidate() IsValid = false, explanation %q", out.Explanation)
		}
	})

	t.Run("InvalidReturnsDecisionNotError", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.wallet = &entity.Wallet{UserID: 7, Balance: 100}
		uc := newTestUsecase(t, repo, &fakeMessaging{}, 7)

		// Act
		out, err := uc.PayoutValidate(authCtx(7), PayoutValidateInput{Method: "UPI", Amount: 30})

		// Assert
		if err != nil {
			t.Fatalf("PayoutValidate() error = %v, want nil", err)
		}
		if out.IsValid {
			t.Error("PayoutValidate() IsValid = true, want false")
		}
	})

	t.Run("MissingWalletMeansZeroBalance", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		uc := newTestUsecase(t, repo, &fakeMessaging{}, 7)

		// Act
		out, err := uc.PayoutValidate(authCtx(7), PayoutValidateInput{Method: "UPI", Amount: 60})

		// Assert
		if err != nil {
			t.Fatalf("PayoutValidate() error = %v, want nil", err)
		}
		if out.IsValid {
			t.Error("PayoutValidate() IsValid = true for empty wallet, want false")
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		// Arrange
		uc := newTestUsecase(t, newFakeRepoDB(), &fakeMessaging{}, 7)

		// Act
		_, err := uc.PayoutValidate(t.Context(), PayoutValidateInput{Method: "UPI", Amount: 60})

		// Assert
		if err == nil {
			t.Error("PayoutValidate() error = nil, want unauthorized")
		}
	})
}

func TestPayoutRequest(t *testing.T) {
	t.Run("DebitsNormalizedINR", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.wallet = &entity.Wallet{UserID: 7, Balance: 300}
		uc := newTestUsecase(t, repo, &fakeMessaging{}, 7)

		// Act: 2 USD at 83.5 debits 167 INR.
		out, err := uc.PayoutRequest(authCtx(7), PayoutRequestInput{
			Method:      "PayPal",
			Amount:      2,
			Destination: "user@paypal.example",
		})

		// Assert
		if err != nil {
			t.Fatalf("PayoutRequest() error = %v, want nil", err)
		}
		if out.AmountINR != 167 {
			t.Errorf("PayoutRequest() AmountINR = %v, want 167", out.AmountINR)
		}
		if repo.wallet.Balance != 133 {
			t.Errorf("wallet balance = %v, want 133 after debit", repo.wallet.Balance)
		}
		p, ok := repo.payouts[out.PayoutID]
		if !ok {
			t.Fatal("payout was not recorded")
		}
		if p.Status != entity.PayoutStatusPending {
			t.Errorf("payout status = %v, want pending", p.Status)
		}
	})

	t.Run("RuleFailureCreatesNothing", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.wallet = &entity.Wallet{UserID: 7, Balance: 100}
		uc := newTestUsecase(t, repo, &fakeMessaging{}, 7)

		// Act
		_, err := uc.PayoutRequest(authCtx(7), PayoutRequestInput{
			Method:      "UPI",
			Amount:      200,
			Destination: "user@upi",
		})

		// Assert
		if err == nil {
			t.Fatal("PayoutRequest() error = nil, want business error")
		}
		if len(repo.payouts) != 0 {
			t.Errorf("payouts recorded = %d, want 0", len(repo.payouts))
		}
		if repo.wallet.Balance != 100 {
			t.Errorf("wallet balance = %v, want unchanged 100", repo.wallet.Balance)
		}
	})

	t.Run("INRValueAboveBalanceRejected", func(t *testing.T) {
		// Arrange: 10 USD passes the native-amount rule against 500 INR,
		// but its INR value of 835 cannot be debited.
		repo := newFakeRepoDB()
		repo.wallet = &entity.Wallet{UserID: 7, Balance: 500}
		uc := newTestUsecase(t, repo, &fakeMessaging{}, 7)

		// Act
		_, err := uc.PayoutRequest(authCtx(7), PayoutRequestInput{
			Method:      "PayPal",
			Amount:      10,
			Destination: "user@paypal.example",
		})

		// Assert
		if err == nil {
			t.Fatal("PayoutRequest() error = nil, want business error")
		}
		if !strings.Contains(err.Error(), "exceeds your available earnings") {
			t.Errorf("PayoutRequest() error = %q, want an insufficient funds explanation", err)
		}
		if len(repo.payouts) != 0 {
			t.Errorf("payouts recorded = %d, want 0", len(repo.payouts))
		}
		if repo.wallet.Balance != 500 {
			t.Errorf("wallet balance = %v, want unchanged 500", repo.wallet.Balance)
		}
	})

	t.Run("MissingDestinationRejected", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.wallet = &entity.Wallet{UserID: 7, Balance: 100}
		uc := newTestUsecase(t, repo, &fakeMessaging{}, 7)

		// Act
		_, err := uc.PayoutRequest(authCtx(7), PayoutRequestInput{Method: "UPI", Amount: 60})

		// Assert
		if err == nil {
			t.Error("PayoutRequest() error = nil, want validation error")
		}
	})
}

func TestPayoutDecisions(t *testing.T) {
	newPending := func(repo *fakeRepoDB) *entity.Payout {
		p := &entity.Payout{
			ID:          42,
			UserID:      7,
			Method:      entity.PayoutMethodUPI,
			Amount:      60,
			AmountINR:   60,
			Status:      entity.PayoutStatusPending,
			RequestedAt: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		}
		repo.payouts[p.ID] = p
		return p
	}

	t.Run("ApproveWritesAuditAndPublishes", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.wallet = &entity.Wallet{UserID: 7, Balance: 40}
		newPending(repo)
		msg := &fakeMessaging{}
		uc := newTestUsecase(t, repo, msg, 1)

		// Act
		err := uc.PayoutApprove(authCtx(1), PayoutApproveInput{PayoutID: 42})

		// Assert
		if err != nil {
			t.Fatalf("PayoutApprove() error = %v, want nil", err)
		}
		if len(repo.audits) != 1 || repo.audits[0].Action != entity.AuditActionApprovePayout {
			t.Errorf("audit log = %+v, want one approve_payout entry", repo.audits)
		}
		if len(msg.decisions) != 1 || !msg.decisions[0].Approved {
			t.Errorf("decisions published = %+v, want one approved", msg.decisions)
		}
		// Approval moves no money; the debit happened at request time.
		if repo.wallet.Balance != 40 {
			t.Errorf("wallet balance = %v, want unchanged 40", repo.wallet.Balance)
		}
	})

	t.Run("RejectRefundsDebit", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		repo.wallet = &entity.Wallet{UserID: 7, Balance: 40}
		newPending(repo)
		msg := &fakeMessaging{}
		uc := newTestUsecase(t, repo, msg, 1)

		// Act
		err := uc.PayoutReject(authCtx(1), PayoutRejectInput{PayoutID: 42, Reason: "destination mismatch"})

		// Assert
		if err != nil {
			t.Fatalf("PayoutReject() error = %v, want nil", err)
		}
		if len(repo.refunds) != 1 || repo.refunds[0] != 60 {
			t.Errorf("refunds = %v, want [60]", repo.refunds)
		}
		if repo.wallet.Balance != 100 {
			t.Errorf("wallet balance = %v, want 100 after refund", repo.wallet.Balance)
		}
		if len(msg.decisions) != 1 || msg.decisions[0].Approved {
			t.Errorf("decisions published = %+v, want one rejected", msg.decisions)
		}
		if msg.decisions[0].Reason != "destination mismatch" {
			t.Errorf("decision reason = %q, want the rejection reason", msg.decisions[0].Reason)
		}
	})

	t.Run("RejectRequiresReason", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		newPending(repo)
		uc := newTestUsecase(t, repo, &fakeMessaging{}, 1)

		// Act
		err := uc.PayoutReject(authCtx(1), PayoutRejectInput{PayoutID: 42, Reason: "   "})

		// Assert
		if err == nil {
			t.Error("PayoutReject() error = nil, want validation error")
		}
	})

	t.Run("AlreadyDecidedConflicts", func(t *testing.T) {
		// Arrange
		repo := newFakeRepoDB()
		p := newPending(repo)
		p.Status = entity.PayoutStatusApproved
		uc := newTestUsecase(t, repo, &fakeMessaging{}, 1)

		// Act
		err := uc.PayoutApprove(authCtx(1), PayoutApproveInput{PayoutID: 42})

		// Assert
		if err == nil {
			t.Error("PayoutApprove() error = nil, want conflict")
		}
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		// Arrange: enforcer only grants user 1.
		repo := newFakeRepoDB()
		newPending(repo)
		uc := newTestUsecase(t, repo, &fakeMessaging{}, 1)

		// Act
		err := uc.PayoutApprove(authCtx(7), PayoutApproveInput{PayoutID: 42})

		// Assert
		if err == nil {
			t.Error("PayoutApprove() error = nil, want forbidden")
		}
	})
}

func TestEarningsTick(t *testing.T) {
	// Arrange
	repo := newFakeRepoDB()
	msg := &fakeMessaging{}
	uc := newTestUsecase(t, repo, msg, 7)

	// Act
	out, err := uc.EarningsTick(authCtx(7))

	// Assert
	if err != nil {
		t.Fatalf("EarningsTick() error = %v, want nil", err)
	}
	if diff := out.CreditedINR - 0.03; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("EarningsTick() CreditedINR = %v, want 0.03", out.CreditedINR)
	}
	if len(msg.earnings) != 1 || msg.earnings[0].UserID != 7 {
		t.Errorf("earnings events = %+v, want one for user 7", msg.earnings)
	}
}

func TestResetData(t *testing.T) {
	// Arrange
	repo := newFakeRepoDB()
	repo.wallet = &entity.Wallet{UserID: 7, Balance: 1234, TotalEarned: 5000, GBShared: 12}
	uc := newTestUsecase(t, repo, &fakeMessaging{}, 1)

	// Act
	out, err := uc.ResetData(authCtx(1))

	// Assert
	if err != nil {
		t.Fatalf("ResetData() error = %v, want nil", err)
	}
	if out.WalletsReset != 1 {
		t.Errorf("ResetData() WalletsReset = %d, want 1", out.WalletsReset)
	}
	if repo.wallet.Balance != 0 || repo.wallet.TotalEarned != 0 {
		t.Errorf("wallet after reset = %+v, want zeroed", repo.wallet)
	}
	if len(repo.audits) != 1 || repo.audits[0].Action != entity.AuditActionResetData {
		t.Errorf("audit log = %+v, want one reset_data entry", repo.audits)
	}
}
