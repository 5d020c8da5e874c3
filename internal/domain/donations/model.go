package donations

import (
	"time"

	"donation-app/internal/domain/campaigns"
	"donation-app/internal/domain/users"
)

// Donation statuses.
const (
	StatusPending  = "Pending"
	StatusVerified = "Verified"
)

// Stripe payment statuses recorded on a donation.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

var (
	Types          = []string{"Zakat", "Sadqah", "Fitra", "General"}
	Categories     = []string{"Food", "Education", "Medical"}
	PaymentMethods = []string{"Cash", "Bank", "Online"}
)

type Donation struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;index:idx_donations_user_created"`
	User   users.User

	Amount        float64 `gorm:"not null"`
	Type          string  `gorm:"type:varchar(20);not null"`
	Category      string  `gorm:"type:varchar(20);not null"`
	PaymentMethod string  `gorm:"type:varchar(20);not null"`
	Status        string  `gorm:"type:varchar(20);not null;default:'Pending';index:idx_donations_status"`

	CampaignID *uint `gorm:"index:idx_donations_campaign"`
	Campaign   *campaigns.Campaign

	ReceiptID *uint
	Receipt   *Receipt

	// Stripe payment details, set only for gateway-confirmed donations.
	// The unique index on StripePaymentID is what makes webhook
	// redelivery safe: a second insert with the same reference fails at
	// the store instead of double-crediting a campaign.
	StripePaymentID     *string `gorm:"uniqueIndex:idx_donations_stripe_payment_id"`
	StripePaymentStatus *string `gorm:"type:varchar(20)"`

	CreatedAt time.Time `gorm:"index:idx_donations_user_created,sort:desc"`
	UpdatedAt time.Time
}

// ValidType reports whether t is one of the donation type enum values.
func ValidType(t string) bool { return contains(Types, t) }

// ValidCategory reports whether c is one of the category enum values.
func ValidCategory(c string) bool { return contains(Categories, c) }

// ValidPaymentMethod reports whether m is one of the payment method enum values.
func ValidPaymentMethod(m string) bool { return contains(PaymentMethods, m) }

// ValidStatus reports whether s is Pending or Verified.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusVerified
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
