package donations

import "time"

// Receipt is an immutable snapshot of a donation taken at creation time.
// Exactly one exists per donation; neither side is ever rewritten.
type Receipt struct {
	ID            uint   `gorm:"primaryKey"`
	DonationID    uint   `gorm:"not null;uniqueIndex:idx_receipts_donation"`
	ReceiptNumber string `gorm:"not null;uniqueIndex:idx_receipts_number"`

	DonorName        string    `gorm:"not null"`
	Amount           float64   `gorm:"not null"`
	Date             time.Time `gorm:"not null"`
	DonationType     string    `gorm:"type:varchar(20);not null"`
	DonationCategory string    `gorm:"type:varchar(20);not null"`

	PdfURL *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
