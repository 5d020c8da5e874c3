package stripe

import (
	"errors"
	"fmt"
	"strconv"

	"donation-app/internal/domain/donations"

	"github.com/stripe/stripe-go/v75"
)

// Checkout-session metadata keys. The session carries everything needed
// to reconstruct the donation when the confirmation comes back, so the
// fulfillment path has no dependency on request-time state.
const (
	MetaUserID        = "userId"
	MetaCampaignID    = "campaignId"
	MetaAmount        = "amount"
	MetaDonationType  = "donationType"
	MetaCategory      = "donationCategory"
	MetaPaymentMethod = "paymentMethod"
)

// DonationMetadata flattens the donation intent into Stripe metadata.
func DonationMetadata(userID uint, campaignID *uint, amount float64, donationType, category, paymentMethod string) map[string]string {
	meta := map[string]string{
		MetaUserID:        fmt.Sprint(userID),
		MetaCampaignID:    "",
		MetaAmount:        strconv.FormatFloat(amount, 'f', -1, 64),
		MetaDonationType:  donationType,
		MetaCategory:      category,
		MetaPaymentMethod: paymentMethod,
	}
	if campaignID != nil {
		meta[MetaCampaignID] = fmt.Sprint(*campaignID)
	}
	return meta
}

// ParseFulfillment extracts the external payment reference and the
// donation metadata from a completed checkout session. Both the webhook
// and the client confirm endpoint go through this before calling
// donations.Fulfill.
func ParseFulfillment(session *stripe.CheckoutSession) (string, donations.FulfillmentMetadata, error) {
	var meta donations.FulfillmentMetadata

	if session == nil || session.Metadata == nil || session.Metadata[MetaUserID] == "" {
		return "", meta, errors.New("no donation metadata found in session")
	}
	if session.PaymentIntent == nil || session.PaymentIntent.ID == "" {
		return "", meta, errors.New("checkout session has no payment intent")
	}

	userID, err := strconv.ParseUint(session.Metadata[MetaUserID], 10, 64)
	if err != nil {
		return "", meta, fmt.Errorf("invalid userId %q: %w", session.Metadata[MetaUserID], err)
	}

	amount, err := strconv.ParseFloat(session.Metadata[MetaAmount], 64)
	if err != nil {
		return "", meta, fmt.Errorf("invalid amount %q: %w", session.Metadata[MetaAmount], err)
	}

	meta = donations.FulfillmentMetadata{
		UserID:        uint(userID),
		Amount:        amount,
		Type:          session.Metadata[MetaDonationType],
		Category:      session.Metadata[MetaCategory],
		PaymentMethod: session.Metadata[MetaPaymentMethod],
	}

	if raw := session.Metadata[MetaCampaignID]; raw != "" {
		campaignID, err := strconv.ParseUint(raw, 10, 64)
		if err == nil {
			id := uint(campaignID)
			meta.CampaignID = &id
		}
	}

	return session.PaymentIntent.ID, meta, nil
}
