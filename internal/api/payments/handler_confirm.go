package payments

import (
	"net/http"

	"donation-app/config"
	"donation-app/internal/domain/donations"
	stripemeta "donation-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/paymentintent"
)

// POST /api/payment/confirm-checkout
//
// Client-initiated fulfillment: the success page posts the session id,
// we retrieve the session from Stripe, and if it is paid we run the same
// shared fulfillment the webhook uses. Whichever of the two arrives
// first wins; the other observes the already-fulfilled donation.
func (h *Handler) ConfirmCheckout(c *gin.Context) {
	var body struct {
		SessionID string `json:"sessionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return
	}

	stripe.Key = config.STRIPE_SECRET_KEY

	session, err := checkoutsession.Get(body.SessionID, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error confirming checkout", "details": err.Error()})
		return
	}

	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         "Payment not completed",
			"paymentStatus": session.PaymentStatus,
		})
		return
	}

	externalRef, meta, err := stripemeta.ParseFulfillment(session)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	donation, err := donations.Fulfill(h.DB, externalRef, meta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error confirming checkout", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Donation confirmed successfully",
		"data":    gin.H{"donation": donation},
	})
}

// POST /api/payment/confirm — payment-intent flow for a pre-existing
// donation. Verifies the intent actually succeeded before flipping the
// donation to Verified.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	var body struct {
		PaymentIntentID string `json:"paymentIntentId" binding:"required"`
		DonationID      uint   `json:"donationId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stripe.Key = config.STRIPE_SECRET_KEY

	pi, err := paymentintent.Get(body.PaymentIntentID, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error confirming payment", "details": err.Error()})
		return
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         "Payment not successful",
			"paymentStatus": pi.Status,
		})
		return
	}

	donation, err := donations.ConfirmPayment(h.DB, body.DonationID, pi.ID)
	if err != nil {
		status := http.StatusInternalServerError
		if err == donations.ErrDonationNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment confirmed successfully",
		"data":    gin.H{"donation": donation},
	})
}
