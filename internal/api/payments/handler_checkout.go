package payments

import (
	"fmt"
	"math"
	"net/http"

	"donation-app/config"
	"donation-app/internal/domain/campaigns"
	"donation-app/internal/domain/donations"
	stripemeta "donation-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/paymentintent"
	"gorm.io/gorm"
)

// Stripe requires a minimum of ~$0.50 USD; Rs. 150 keeps a comfortable
// buffer above it. Smaller amounts go through the Cash channel instead.
const minimumOnlineAmountPKR = 150

type Handler struct {
	DB *gorm.DB
}

// POST /api/payment/create-checkout-session
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var body struct {
		Amount     float64 `json:"amount" binding:"required"`
		CampaignID *uint   `json:"campaignId"`
		Donation   struct {
			Type          string `json:"type" binding:"required"`
			Category      string `json:"category" binding:"required"`
			PaymentMethod string `json:"paymentMethod" binding:"required"`
		} `json:"donationData" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stripe.Key = config.STRIPE_SECRET_KEY
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	if body.Amount < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}
	if body.Amount < minimumOnlineAmountPKR {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Minimum donation amount for online/bank payment is Rs. %d. For smaller amounts, please use Cash payment method.", minimumOnlineAmountPKR),
		})
		return
	}
	if !donations.ValidType(body.Donation.Type) || !donations.ValidCategory(body.Donation.Category) ||
		!donations.ValidPaymentMethod(body.Donation.PaymentMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donation data"})
		return
	}

	if body.CampaignID != nil {
		var count int64
		h.DB.Model(&campaigns.Campaign{}).Where("id = ?", *body.CampaignID).Count(&count)
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(config.FRONTEND_URL + "/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(config.FRONTEND_URL + "/campaigns?canceled=true"),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("pkr"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Donation - " + body.Donation.Type),
						Description: stripe.String("Category: " + body.Donation.Category),
					},
					// smallest currency unit (paisa)
					UnitAmount: stripe.Int64(int64(math.Round(body.Amount * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},

		Metadata: stripemeta.DonationMetadata(
			userID, body.CampaignID, body.Amount,
			body.Donation.Type, body.Donation.Category, body.Donation.PaymentMethod,
		),
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating payment session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"sessionId": s.ID,
			"url":       s.URL,
		},
	})
}

// POST /api/payment/create-intent — payment intent flow for donations
// that already exist (created Pending through the ordinary path).
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var body struct {
		Amount     float64 `json:"amount" binding:"required"`
		DonationID *uint   `json:"donationId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Amount < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	stripe.Key = config.STRIPE_SECRET_KEY
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	donationRef := "pending"
	if body.DonationID != nil {
		donationRef = fmt.Sprint(*body.DonationID)
	}

	pi, err := paymentintent.New(&stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(body.Amount * 100))),
		Currency: stripe.String("pkr"),
		Metadata: map[string]string{
			"donationId": donationRef,
			"userId":     fmt.Sprint(c.GetUint("user_id")),
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating payment intent", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"clientSecret":    pi.ClientSecret,
			"paymentIntentId": pi.ID,
		},
	})
}
