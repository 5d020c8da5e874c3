package stripewebhooks

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"donation-app/config"
	"donation-app/internal/domain/donations"
	stripemeta "donation-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

// POST /api/payment/webhook
//
// Signature verification happens here, at the boundary; everything past
// ConstructEvent treats the payload as authentic.
func (h *Handler) StripeWebhook(c *gin.Context) {
	stripe.Key = config.STRIPE_SECRET_KEY
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_SECRET_KEY not configured"})
		return
	}

	endpointSecret := config.STRIPE_WEBHOOK_SECRET
	if endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		fmt.Println("❌ Stripe signature verification failed:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse session"})
			return
		}
		if err := h.handleCheckoutCompleted(&session); err != nil {
			// 500 makes Stripe retry; Fulfill is idempotent so redelivery is safe.
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse payment intent"})
			return
		}
		if err := h.handleIntentSucceeded(&pi); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse payment intent"})
			return
		}
		if err := h.handleIntentFailed(&pi); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "received"})

	default:
		// Acknowledge unknown events to avoid retries
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	}
}

func (h *Handler) handleCheckoutCompleted(session *stripe.CheckoutSession) error {
	externalRef, meta, err := stripemeta.ParseFulfillment(session)
	if err != nil {
		// Not our session (no donation metadata) — nothing to do.
		fmt.Println("⚠️ Skipping checkout session:", err)
		return nil
	}

	donation, err := donations.Fulfill(h.DB, externalRef, meta)
	if err != nil {
		return fmt.Errorf("webhook fulfillment error: %w", err)
	}

	fmt.Printf("✅ Donation fulfilled: %d (%s)\n", donation.ID, externalRef)
	return nil
}

func (h *Handler) handleIntentSucceeded(pi *stripe.PaymentIntent) error {
	donationID, ok := donationIDFromIntent(pi)
	if !ok {
		// Intent created before the donation existed; the checkout flow
		// handles that case through its own session event.
		return nil
	}

	if _, err := donations.ConfirmPayment(h.DB, donationID, pi.ID); err != nil {
		if err == donations.ErrDonationNotFound {
			fmt.Println("⚠️ Payment succeeded for unknown donation:", donationID)
			return nil
		}
		return err
	}

	fmt.Printf("✅ Payment succeeded for donation: %d\n", donationID)
	return nil
}

func (h *Handler) handleIntentFailed(pi *stripe.PaymentIntent) error {
	donationID, ok := donationIDFromIntent(pi)
	if !ok {
		return nil
	}

	if err := donations.MarkPaymentFailed(h.DB, donationID, pi.ID); err != nil {
		if err == donations.ErrDonationNotFound {
			return nil
		}
		return err
	}

	fmt.Printf("❌ Payment failed for donation: %d\n", donationID)
	return nil
}

func donationIDFromIntent(pi *stripe.PaymentIntent) (uint, bool) {
	if pi.Metadata == nil {
		return 0, false
	}
	raw := pi.Metadata["donationId"]
	if raw == "" || raw == "pending" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
