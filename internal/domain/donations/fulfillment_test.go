package donations_test

import (
	"errors"
	"testing"

	"donation-app/internal/domain/donations"
)

func TestFulfill_CreatesVerifiedDonation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Maryam")
	campaign := seedCampaign(t, db, 20000)

	donation, err := donations.Fulfill(db, "pi_123", donations.FulfillmentMetadata{
		UserID:        user.ID,
		CampaignID:    &campaign.ID,
		Amount:        1000,
		Type:          "Zakat",
		Category:      "Food",
		PaymentMethod: "Online",
	})
	if err != nil {
		t.Fatalf("Fulfill failed: %v", err)
	}

	if donation.Status != donations.StatusVerified {
		t.Errorf("expected status Verified, got %q", donation.Status)
	}
	if donation.StripePaymentID == nil || *donation.StripePaymentID != "pi_123" {
		t.Errorf("expected stripe payment id pi_123, got %v", donation.StripePaymentID)
	}
	if donation.StripePaymentStatus == nil || *donation.StripePaymentStatus != donations.PaymentStatusSucceeded {
		t.Errorf("expected payment status succeeded, got %v", donation.StripePaymentStatus)
	}
	if donation.ReceiptID == nil {
		t.Error("expected a receipt to be issued")
	}
	if got := campaignAmount(t, db, campaign.ID); got != 1000 {
		t.Errorf("expected campaign amount 1000, got %v", got)
	}
}

func TestFulfill_DuplicateDeliveryIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Nadia")
	campaign := seedCampaign(t, db, 20000)

	meta := donations.FulfillmentMetadata{
		UserID:        user.ID,
		CampaignID:    &campaign.ID,
		Amount:        1000,
		Type:          "Zakat",
		Category:      "Food",
		PaymentMethod: "Online",
	}

	first, err := donations.Fulfill(db, "pi_123", meta)
	if err != nil {
		t.Fatalf("first Fulfill failed: %v", err)
	}
	second, err := donations.Fulfill(db, "pi_123", meta)
	if err != nil {
		t.Fatalf("second Fulfill failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected same donation, got %d and %d", first.ID, second.ID)
	}

	var donationCount, receiptCount int64
	db.Model(&donations.Donation{}).Where("stripe_payment_id = ?", "pi_123").Count(&donationCount)
	db.Model(&donations.Receipt{}).Count(&receiptCount)
	if donationCount != 1 {
		t.Errorf("expected exactly 1 donation for pi_123, got %d", donationCount)
	}
	if receiptCount != 1 {
		t.Errorf("expected exactly 1 receipt, got %d", receiptCount)
	}

	if got := campaignAmount(t, db, campaign.ID); got != 1000 {
		t.Errorf("expected campaign credited exactly once (1000), got %v", got)
	}
}

func TestFulfill_Validation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Omar")

	t.Run("missing external reference", func(t *testing.T) {
		_, err := donations.Fulfill(db, "", donations.FulfillmentMetadata{
			UserID: user.ID, Amount: 100, Type: "Zakat", Category: "Food", PaymentMethod: "Online",
		})
		if !donations.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("bad metadata", func(t *testing.T) {
		_, err := donations.Fulfill(db, "pi_999", donations.FulfillmentMetadata{
			UserID: user.ID, Amount: -5, Type: "Zakat", Category: "Food", PaymentMethod: "Online",
		})
		if !donations.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestFulfill_DeletedCampaignDropsCredit(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Qasim")
	missing := uint(7777)

	donation, err := donations.Fulfill(db, "pi_456", donations.FulfillmentMetadata{
		UserID:        user.ID,
		CampaignID:    &missing,
		Amount:        500,
		Type:          "General",
		Category:      "Medical",
		PaymentMethod: "Online",
	})
	if err != nil {
		t.Fatalf("Fulfill failed: %v", err)
	}

	if donation.CampaignID != nil {
		t.Errorf("expected campaign reference dropped, got %v", *donation.CampaignID)
	}
	if donation.Status != donations.StatusVerified {
		t.Errorf("expected status Verified, got %q", donation.Status)
	}
}

func TestConfirmPayment(t *testing.T) {
	t.Run("flips Pending to Verified and credits once", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "Rashid")
		campaign := seedCampaign(t, db, 10000)

		donation, _, err := donations.Create(db, donations.CreateInput{
			UserID:        user.ID,
			Amount:        600,
			Type:          "Zakat",
			Category:      "Food",
			PaymentMethod: "Cash",
			CampaignID:    &campaign.ID,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		confirmed, err := donations.ConfirmPayment(db, donation.ID, "pi_abc")
		if err != nil {
			t.Fatalf("ConfirmPayment failed: %v", err)
		}
		if confirmed.Status != donations.StatusVerified {
			t.Errorf("expected status Verified, got %q", confirmed.Status)
		}
		if confirmed.StripePaymentID == nil || *confirmed.StripePaymentID != "pi_abc" {
			t.Errorf("expected stripe payment id recorded, got %v", confirmed.StripePaymentID)
		}
		if got := campaignAmount(t, db, campaign.ID); got != 600 {
			t.Errorf("expected campaign amount 600, got %v", got)
		}

		// Webhook and client may both confirm the same intent.
		if _, err := donations.ConfirmPayment(db, donation.ID, "pi_abc"); err != nil {
			t.Fatalf("repeat ConfirmPayment failed: %v", err)
		}
		if got := campaignAmount(t, db, campaign.ID); got != 600 {
			t.Errorf("expected campaign amount still 600 after repeat, got %v", got)
		}
	})

	t.Run("unknown donation", func(t *testing.T) {
		db := newTestDB(t)

		_, err := donations.ConfirmPayment(db, 999, "pi_abc")
		if !errors.Is(err, donations.ErrDonationNotFound) {
			t.Fatalf("expected ErrDonationNotFound, got %v", err)
		}
	})
}

func TestMarkPaymentFailed(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Salma")
	campaign := seedCampaign(t, db, 10000)

	donation, _, err := donations.Create(db, donations.CreateInput{
		UserID:        user.ID,
		Amount:        350,
		Type:          "Sadqah",
		Category:      "Education",
		PaymentMethod: "Cash",
		CampaignID:    &campaign.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := donations.MarkPaymentFailed(db, donation.ID, "pi_fail"); err != nil {
		t.Fatalf("MarkPaymentFailed failed: %v", err)
	}

	var reloaded donations.Donation
	if err := db.First(&reloaded, donation.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if reloaded.StripePaymentStatus == nil || *reloaded.StripePaymentStatus != donations.PaymentStatusFailed {
		t.Errorf("expected payment status failed, got %v", reloaded.StripePaymentStatus)
	}
	// A failed gateway outcome does not touch the verification status.
	if reloaded.Status != donations.StatusPending {
		t.Errorf("expected status to remain Pending, got %q", reloaded.Status)
	}
	if got := campaignAmount(t, db, campaign.ID); got != 0 {
		t.Errorf("expected campaign amount unchanged (0), got %v", got)
	}

	if err := donations.MarkPaymentFailed(db, 8888, "pi_fail"); !errors.Is(err, donations.ErrDonationNotFound) {
		t.Errorf("expected ErrDonationNotFound for unknown donation, got %v", err)
	}
}
