package donations

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"donation-app/internal/domain/campaigns"
	"donation-app/internal/domain/users"

	"gorm.io/gorm"
)

/*
	Donation lifecycle
	------------------
	- Owns the Pending/Verified state machine per donation.
	- Is the ONLY writer of campaigns.current_amount. Every change goes
	  through an atomic `current_amount + ?` column update inside the
	  same transaction as the status change that caused it.
	- Issues exactly one receipt per donation, at creation time, in the
	  same transaction, so a donation without a receipt can never be
	  observed from outside.

	The db handle is passed in explicitly (no ambient connection), same
	as the rest of the domain packages.
*/

type CreateInput struct {
	UserID        uint
	Amount        float64
	Type          string
	Category      string
	PaymentMethod string
	CampaignID    *uint
}

// InitialStatus implements the initial-status policy: Online and Bank
// channels are treated as pre-authorized at submission time, Cash needs
// manual admin verification because no proof-of-payment exists yet.
func InitialStatus(paymentMethod string) string {
	if paymentMethod == "Online" || paymentMethod == "Bank" {
		return StatusVerified
	}
	return StatusPending
}

// Create validates the input, persists the donation with its initial
// status, applies the campaign increment when that status is Verified,
// and issues the linked receipt. All writes share one transaction.
func Create(db *gorm.DB, in CreateInput) (*Donation, *Receipt, error) {
	if err := validateCreateInput(in); err != nil {
		return nil, nil, err
	}

	var (
		donation Donation
		receipt  Receipt
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		if in.CampaignID != nil {
			if err := requireCampaign(tx, *in.CampaignID); err != nil {
				return err
			}
		}

		var donor users.User
		if err := tx.First(&donor, in.UserID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUserNotFound
			}
			return err
		}

		donation = Donation{
			UserID:        in.UserID,
			Amount:        in.Amount,
			Type:          in.Type,
			Category:      in.Category,
			PaymentMethod: in.PaymentMethod,
			CampaignID:    in.CampaignID,
			Status:        InitialStatus(in.PaymentMethod),
		}
		if err := tx.Create(&donation).Error; err != nil {
			return err
		}

		if donation.Status == StatusVerified && donation.CampaignID != nil {
			if err := applyCampaignDelta(tx, *donation.CampaignID, donation.Amount); err != nil {
				return err
			}
		}

		var err error
		receipt, err = issueReceipt(tx, &donation, donor.Name)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	donation.Receipt = &receipt
	return &donation, &receipt, nil
}

// TransitionStatus flips a donation between Pending and Verified and
// applies the matching campaign effect exactly once:
//
//	Pending  -> Verified : current_amount += amount
//	Verified -> Pending  : current_amount -= amount
//	same     -> same     : no-op, no campaign effect
//
// The status update is conditional on the old status, so a retried
// identical request loses the race, changes zero rows, and applies no
// second increment. Genuine back-and-forth toggling nets to zero.
func TransitionStatus(db *gorm.DB, donationID uint, newStatus string) (*Donation, error) {
	if !ValidStatus(newStatus) {
		return nil, invalidf("status must be %q or %q", StatusPending, StatusVerified)
	}

	var donation Donation
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&donation, donationID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrDonationNotFound
			}
			return err
		}

		if donation.Status == newStatus {
			return nil
		}

		res := tx.Model(&Donation{}).
			Where("id = ? AND status = ?", donation.ID, donation.Status).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent request won the transition. Treat ours as the
			// retried duplicate: no campaign effect.
			return tx.First(&donation, donationID).Error
		}

		if donation.CampaignID != nil {
			delta := donation.Amount
			if newStatus == StatusPending {
				delta = -donation.Amount
			}
			if err := applyCampaignDelta(tx, *donation.CampaignID, delta); err != nil {
				return err
			}
		}

		donation.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

func validateCreateInput(in CreateInput) error {
	if in.UserID == 0 {
		return invalidf("user is required")
	}
	if in.Amount <= 0 {
		return invalidf("amount must be greater than 0")
	}
	if !ValidType(in.Type) {
		return invalidf("type must be one of: %s", strings.Join(Types, ", "))
	}
	if !ValidCategory(in.Category) {
		return invalidf("category must be one of: %s", strings.Join(Categories, ", "))
	}
	if !ValidPaymentMethod(in.PaymentMethod) {
		return invalidf("payment method must be one of: %s", strings.Join(PaymentMethods, ", "))
	}
	return nil
}

func requireCampaign(tx *gorm.DB, campaignID uint) error {
	var count int64
	if err := tx.Model(&campaigns.Campaign{}).Where("id = ?", campaignID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

// applyCampaignDelta adjusts the accumulated total with an atomic column
// expression. Read-modify-write in application memory would lose updates
// when concurrent transitions target the same campaign.
func applyCampaignDelta(tx *gorm.DB, campaignID uint, delta float64) error {
	return tx.Model(&campaigns.Campaign{}).
		Where("id = ?", campaignID).
		UpdateColumn("current_amount", gorm.Expr("current_amount + ?", delta)).Error
}

// issueReceipt creates the receipt snapshot and links it back onto the
// donation. Must run inside the same transaction as the donation insert.
func issueReceipt(tx *gorm.DB, donation *Donation, donorName string) (Receipt, error) {
	receipt := Receipt{
		DonationID:       donation.ID,
		ReceiptNumber:    receiptNumber(donation.ID),
		DonorName:        donorName,
		Amount:           donation.Amount,
		Date:             time.Now(),
		DonationType:     donation.Type,
		DonationCategory: donation.Category,
	}
	if err := tx.Create(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Receipt{}, ErrReceiptConflict
		}
		return Receipt{}, err
	}

	if err := tx.Model(&Donation{}).
		Where("id = ?", donation.ID).
		Update("receipt_id", receipt.ID).Error; err != nil {
		return Receipt{}, err
	}
	donation.ReceiptID = &receipt.ID
	return receipt, nil
}

// receiptNumber builds a human-readable number from the creation instant
// and a fragment of the donation id. Uniqueness is still enforced by the
// index on receipts.receipt_number, not by this format.
func receiptNumber(donationID uint) string {
	return fmt.Sprintf("RCP-%d-%06d", time.Now().UnixMilli(), donationID%1000000)
}
