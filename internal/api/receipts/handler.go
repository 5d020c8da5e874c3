package receipts

import (
	"bytes"
	"net/http"

	"donation-app/internal/domain/donations"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

// GET /api/receipts/donation/:donationId
func (h *Handler) GetByDonation(c *gin.Context) {
	var receipt donations.Receipt
	err := h.DB.Where("donation_id = ?", c.Param("donationId")).First(&receipt).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"receipt": receipt}})
}

// GET /api/receipts/download/:receiptId — renders the receipt as a PDF
// attachment.
func (h *Handler) Download(c *gin.Context) {
	var receipt donations.Receipt
	if err := h.DB.First(&receipt, c.Param("receiptId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
		return
	}

	var donation donations.Donation
	if err := h.DB.Preload("User").Preload("Campaign").First(&donation, receipt.DonationID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading donation for receipt"})
		return
	}

	var buf bytes.Buffer
	if err := renderReceiptPDF(&buf, &receipt, &donation); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating receipt PDF"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename=Receipt-`+receipt.ReceiptNumber+`.pdf`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
