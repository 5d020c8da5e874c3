package donations_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"donation-app/database"
	"donation-app/internal/domain/campaigns"
	"donation-app/internal/domain/donations"
	"donation-app/internal/domain/users"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) users.User {
	t.Helper()

	user := users.User{
		Name:         name,
		Email:        strings.ToLower(name) + "@example.com",
		Phone:        "03001234567",
		AuthProvider: "local",
		Role:         "user",
		IsVerified:   true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func seedCampaign(t *testing.T, db *gorm.DB, goal float64) campaigns.Campaign {
	t.Helper()

	campaign := campaigns.Campaign{
		Name:        "Winter Relief",
		Description: "Food and shelter for winter",
		GoalAmount:  goal,
		Deadline:    time.Now().AddDate(0, 1, 0),
		IsActive:    true,
	}
	if err := db.Create(&campaign).Error; err != nil {
		t.Fatalf("Failed to seed campaign: %v", err)
	}
	return campaign
}

func campaignAmount(t *testing.T, db *gorm.DB, id uint) float64 {
	t.Helper()

	var campaign campaigns.Campaign
	if err := db.First(&campaign, id).Error; err != nil {
		t.Fatalf("Failed to reload campaign: %v", err)
	}
	return campaign.CurrentAmount
}

func TestCreate_InitialStatusPolicy(t *testing.T) {
	t.Run("cash donation starts Pending with no campaign increment", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "Ayesha")
		campaign := seedCampaign(t, db, 10000)

		donation, receipt, err := donations.Create(db, donations.CreateInput{
			UserID:        user.ID,
			Amount:        500,
			Type:          "Zakat",
			Category:      "Food",
			PaymentMethod: "Cash",
			CampaignID:    &campaign.ID,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if donation.Status != donations.StatusPending {
			t.Errorf("expected status %q, got %q", donations.StatusPending, donation.Status)
		}
		if got := campaignAmount(t, db, campaign.ID); got != 0 {
			t.Errorf("expected campaign amount 0, got %v", got)
		}
		if receipt.Amount != 500 {
			t.Errorf("expected receipt amount 500, got %v", receipt.Amount)
		}
	})

	t.Run("online donation starts Verified and credits the campaign", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "Bilal")
		campaign := seedCampaign(t, db, 10000)

		donation, _, err := donations.Create(db, donations.CreateInput{
			UserID:        user.ID,
			Amount:        750,
			Type:          "Sadqah",
			Category:      "Medical",
			PaymentMethod: "Online",
			CampaignID:    &campaign.ID,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if donation.Status != donations.StatusVerified {
			t.Errorf("expected status %q, got %q", donations.StatusVerified, donation.Status)
		}
		if got := campaignAmount(t, db, campaign.ID); got != 750 {
			t.Errorf("expected campaign amount 750, got %v", got)
		}
	})

	t.Run("bank donation starts Verified", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "Dawood")

		donation, _, err := donations.Create(db, donations.CreateInput{
			UserID:        user.ID,
			Amount:        300,
			Type:          "General",
			Category:      "Education",
			PaymentMethod: "Bank",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if donation.Status != donations.StatusVerified {
			t.Errorf("expected status %q, got %q", donations.StatusVerified, donation.Status)
		}
	})
}

func TestCreate_IssuesExactlyOneReceipt(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Fatima")

	donation, receipt, err := donations.Create(db, donations.CreateInput{
		UserID:        user.ID,
		Amount:        250,
		Type:          "Fitra",
		Category:      "Food",
		PaymentMethod: "Cash",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if donation.ReceiptID == nil || *donation.ReceiptID != receipt.ID {
		t.Fatalf("donation not linked to receipt: %v", donation.ReceiptID)
	}
	if receipt.DonationID != donation.ID {
		t.Errorf("receipt not linked to donation: %d", receipt.DonationID)
	}
	if !strings.HasPrefix(receipt.ReceiptNumber, "RCP-") {
		t.Errorf("unexpected receipt number format: %q", receipt.ReceiptNumber)
	}
	if receipt.DonorName != user.Name {
		t.Errorf("expected donor name %q, got %q", user.Name, receipt.DonorName)
	}
	if receipt.DonationType != "Fitra" || receipt.DonationCategory != "Food" {
		t.Errorf("receipt snapshot mismatch: %q/%q", receipt.DonationType, receipt.DonationCategory)
	}

	var count int64
	db.Model(&donations.Receipt{}).Where("donation_id = ?", donation.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 receipt, got %d", count)
	}
}

func TestCreate_Validation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Ghulam")

	cases := []struct {
		name  string
		input donations.CreateInput
	}{
		{"zero amount", donations.CreateInput{UserID: user.ID, Amount: 0, Type: "Zakat", Category: "Food", PaymentMethod: "Cash"}},
		{"negative amount", donations.CreateInput{UserID: user.ID, Amount: -10, Type: "Zakat", Category: "Food", PaymentMethod: "Cash"}},
		{"unknown type", donations.CreateInput{UserID: user.ID, Amount: 100, Type: "Tithe", Category: "Food", PaymentMethod: "Cash"}},
		{"unknown category", donations.CreateInput{UserID: user.ID, Amount: 100, Type: "Zakat", Category: "Housing", PaymentMethod: "Cash"}},
		{"unknown payment method", donations.CreateInput{UserID: user.ID, Amount: 100, Type: "Zakat", Category: "Food", PaymentMethod: "Crypto"}},
		{"missing user", donations.CreateInput{Amount: 100, Type: "Zakat", Category: "Food", PaymentMethod: "Cash"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := donations.Create(db, tc.input)
			if !donations.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	// Nothing persisted by any of the rejected inputs.
	var count int64
	db.Model(&donations.Donation{}).Count(&count)
	if count != 0 {
		t.Errorf("expected 0 donations after rejected inputs, got %d", count)
	}
}

func TestCreate_UnknownCampaign(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Hassan")
	missing := uint(9999)

	_, _, err := donations.Create(db, donations.CreateInput{
		UserID:        user.ID,
		Amount:        100,
		Type:          "Zakat",
		Category:      "Food",
		PaymentMethod: "Cash",
		CampaignID:    &missing,
	})
	if !errors.Is(err, donations.ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound, got %v", err)
	}
}

func TestTransitionStatus(t *testing.T) {
	t.Run("Pending to Verified credits the campaign", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "Imran")
		campaign := seedCampaign(t, db, 10000)

		donation, _, err := donations.Create(db, donations.CreateInput{
			UserID:        user.ID,
			Amount:        500,
			Type:          "Zakat",
			Category:      "Food",
			PaymentMethod: "Cash",
			CampaignID:    &campaign.ID,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		updated, err := donations.TransitionStatus(db, donation.ID, donations.StatusVerified)
		if err != nil {
			t.Fatalf("TransitionStatus failed: %v", err)
		}
		if updated.Status != donations.StatusVerified {
			t.Errorf("expected status Verified, got %q", updated.Status)
		}
		if got := campaignAmount(t, db, campaign.ID); got != 500 {
			t.Errorf("expected campaign amount 500, got %v", got)
		}
	})

	t.Run("toggle back to Pending restores the balance", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "Javed")
		campaign := seedCampaign(t, db, 10000)

		donation, _, _ := donations.Create(db, donations.CreateInput{
			UserID:        user.ID,
			Amount:        800,
			Type:          "Sadqah",
			Category:      "Medical",
			PaymentMethod: "Cash",
			CampaignID:    &campaign.ID,
		})

		if _, err := donations.TransitionStatus(db, donation.ID, donations.StatusVerified); err != nil {
			t.Fatalf("verify failed: %v", err)
		}
		if _, err := donations.TransitionStatus(db, donation.ID, donations.StatusPending); err != nil {
			t.Fatalf("revert failed: %v", err)
		}

		if got := campaignAmount(t, db, campaign.ID); got != 0 {
			t.Errorf("expected campaign amount back to 0, got %v", got)
		}
	})

	t.Run("same-status transition is a no-op", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "Kamran")
		campaign := seedCampaign(t, db, 10000)

		donation, _, _ := donations.Create(db, donations.CreateInput{
			UserID:        user.ID,
			Amount:        400,
			Type:          "General",
			Category:      "Education",
			PaymentMethod: "Online",
			CampaignID:    &campaign.ID,
		})

		// Already Verified from creation; repeating must not double-credit.
		if _, err := donations.TransitionStatus(db, donation.ID, donations.StatusVerified); err != nil {
			t.Fatalf("TransitionStatus failed: %v", err)
		}
		if got := campaignAmount(t, db, campaign.ID); got != 400 {
			t.Errorf("expected campaign amount 400, got %v", got)
		}

		if _, err := donations.TransitionStatus(db, donation.ID, donations.StatusVerified); err != nil {
			t.Fatalf("repeat TransitionStatus failed: %v", err)
		}
		if got := campaignAmount(t, db, campaign.ID); got != 400 {
			t.Errorf("expected campaign amount still 400 after repeat, got %v", got)
		}
	})

	t.Run("unknown donation", func(t *testing.T) {
		db := newTestDB(t)

		_, err := donations.TransitionStatus(db, 4242, donations.StatusVerified)
		if !errors.Is(err, donations.ErrDonationNotFound) {
			t.Fatalf("expected ErrDonationNotFound, got %v", err)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		db := newTestDB(t)

		_, err := donations.TransitionStatus(db, 1, "Approved")
		if !donations.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

// Balance invariant: after an arbitrary sequence of creates and
// transitions, the campaign total equals the sum of its Verified
// donation amounts.
func TestCampaignBalanceInvariant(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "Lubna")
	campaign := seedCampaign(t, db, 50000)

	mk := func(amount float64, method string) *donations.Donation {
		d, _, err := donations.Create(db, donations.CreateInput{
			UserID:        user.ID,
			Amount:        amount,
			Type:          "Zakat",
			Category:      "Food",
			PaymentMethod: method,
			CampaignID:    &campaign.ID,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		return d
	}

	d1 := mk(100, "Cash")
	mk(200, "Online")
	d3 := mk(300, "Bank")
	mk(400, "Cash")

	donations.TransitionStatus(db, d1.ID, donations.StatusVerified)
	donations.TransitionStatus(db, d3.ID, donations.StatusPending)
	donations.TransitionStatus(db, d3.ID, donations.StatusVerified)
	donations.TransitionStatus(db, d1.ID, donations.StatusPending)

	var verifiedSum float64
	db.Model(&donations.Donation{}).
		Where("campaign_id = ? AND status = ?", campaign.ID, donations.StatusVerified).
		Select("COALESCE(SUM(amount), 0)").Scan(&verifiedSum)

	if got := campaignAmount(t, db, campaign.ID); got != verifiedSum {
		t.Errorf("campaign amount %v does not match verified sum %v", got, verifiedSum)
	}
	if got := campaignAmount(t, db, campaign.ID); got != 500 {
		t.Errorf("expected campaign amount 500 (200 online + 300 bank), got %v", got)
	}
}
