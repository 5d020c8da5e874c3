package donations

import (
	"errors"

	"donation-app/internal/domain/campaigns"
	"donation-app/internal/domain/users"

	"gorm.io/gorm"
)

/*
	Payment confirmation
	--------------------
	Bridges asynchronous Stripe outcomes into the donation lifecycle.

	Two call paths exist for the same checkout event: the webhook push
	and the client confirm-checkout poll. Both land in Fulfill, and
	whichever arrives first wins. The unique index on stripe_payment_id
	closes the check-then-act race: the loser's insert fails with a
	duplicate-key error and is answered with the already-fulfilled
	donation instead of a second credit.
*/

type FulfillmentMetadata struct {
	UserID        uint
	CampaignID    *uint
	Amount        float64
	Type          string
	Category      string
	PaymentMethod string
}

// Fulfill records a gateway-confirmed payment exactly once per external
// reference. Repeat deliveries are pure reads of the first outcome: one
// donation, one receipt, one campaign increment, regardless of how many
// times Stripe (or the client) replays the event.
func Fulfill(db *gorm.DB, externalRef string, meta FulfillmentMetadata) (*Donation, error) {
	if externalRef == "" {
		return nil, invalidf("external payment reference is required")
	}
	if err := validateCreateInput(CreateInput{
		UserID:        meta.UserID,
		Amount:        meta.Amount,
		Type:          meta.Type,
		Category:      meta.Category,
		PaymentMethod: meta.PaymentMethod,
	}); err != nil {
		return nil, err
	}

	if existing, err := findByExternalRef(db, externalRef); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var donation Donation
	err := db.Transaction(func(tx *gorm.DB) error {
		var donor users.User
		if err := tx.First(&donor, meta.UserID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUserNotFound
			}
			return err
		}

		// The campaign was validated when the checkout session was
		// created; if it has been deleted since, keep the donation but
		// drop the campaign credit rather than bouncing the webhook forever.
		campaignID := meta.CampaignID
		if campaignID != nil {
			var count int64
			if err := tx.Model(&campaigns.Campaign{}).Where("id = ?", *campaignID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				campaignID = nil
			}
		}

		succeeded := PaymentStatusSucceeded
		ref := externalRef
		donation = Donation{
			UserID:              meta.UserID,
			Amount:              meta.Amount,
			Type:                meta.Type,
			Category:            meta.Category,
			PaymentMethod:       meta.PaymentMethod,
			CampaignID:          campaignID,
			Status:              StatusVerified,
			StripePaymentID:     &ref,
			StripePaymentStatus: &succeeded,
		}
		if err := tx.Create(&donation).Error; err != nil {
			return err
		}

		if donation.CampaignID != nil {
			if err := applyCampaignDelta(tx, *donation.CampaignID, donation.Amount); err != nil {
				return err
			}
		}

		receipt, err := issueReceipt(tx, &donation, donor.Name)
		if err != nil {
			return err
		}
		donation.Receipt = &receipt
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race against a concurrent duplicate delivery. The whole
		// transaction rolled back, so just return the winner's donation.
		return findByExternalRef(db, externalRef)
	}
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

// ConfirmPayment verifies a pre-existing donation (created through the
// ordinary path, typically still Pending) once its payment intent has
// succeeded. It flips status under the same exactly-once rule as
// TransitionStatus, so the campaign increment cannot double-apply when
// both the webhook and the client confirm the same intent.
func ConfirmPayment(db *gorm.DB, donationID uint, paymentIntentID string) (*Donation, error) {
	if paymentIntentID == "" {
		return nil, invalidf("payment intent id is required")
	}

	var donation Donation
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&donation, donationID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrDonationNotFound
			}
			return err
		}

		succeeded := PaymentStatusSucceeded
		updates := map[string]interface{}{
			"status":                StatusVerified,
			"stripe_payment_id":     paymentIntentID,
			"stripe_payment_status": succeeded,
		}

		res := tx.Model(&Donation{}).
			Where("id = ? AND status = ?", donation.ID, StatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already Verified; record the stripe outcome without a
			// second campaign increment.
			return tx.Model(&Donation{}).
				Where("id = ?", donation.ID).
				Updates(map[string]interface{}{
					"stripe_payment_id":     paymentIntentID,
					"stripe_payment_status": succeeded,
				}).Error
		}

		if donation.CampaignID != nil {
			if err := applyCampaignDelta(tx, *donation.CampaignID, donation.Amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := db.First(&donation, donationID).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// MarkPaymentFailed records a failed gateway outcome. The donation's
// verification status is left alone; only the payment bookkeeping moves.
func MarkPaymentFailed(db *gorm.DB, donationID uint, paymentIntentID string) error {
	res := db.Model(&Donation{}).
		Where("id = ?", donationID).
		Updates(map[string]interface{}{
			"stripe_payment_id":     paymentIntentID,
			"stripe_payment_status": PaymentStatusFailed,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDonationNotFound
	}
	return nil
}

func findByExternalRef(db *gorm.DB, externalRef string) (*Donation, error) {
	var existing Donation
	err := db.Preload("Receipt").Preload("Campaign").
		Where("stripe_payment_id = ?", externalRef).
		First(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}
