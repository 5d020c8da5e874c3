package donations

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"donation-app/internal/domain/donations"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

// writeError maps domain errors onto HTTP statuses. Validation problems
// are 400, missing references 404, receipt-number collisions 409,
// everything else 500.
func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case donations.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, donations.ErrDonationNotFound),
		errors.Is(err, donations.ErrCampaignNotFound),
		errors.Is(err, donations.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, donations.ErrReceiptConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// POST /api/donations
func (h *Handler) Create(c *gin.Context) {
	var input struct {
		Amount        float64 `json:"amount" binding:"required"`
		Type          string  `json:"type" binding:"required"`
		Category      string  `json:"category" binding:"required"`
		PaymentMethod string  `json:"paymentMethod" binding:"required"`
		CampaignID    *uint   `json:"campaignId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	donation, receipt, err := donations.Create(h.DB, donations.CreateInput{
		UserID:        c.GetUint("user_id"),
		Amount:        input.Amount,
		Type:          input.Type,
		Category:      input.Category,
		PaymentMethod: input.PaymentMethod,
		CampaignID:    input.CampaignID,
	})
	if err != nil {
		writeError(c, err, "Error creating donation")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Donation created successfully",
		"data": gin.H{
			"donation": donation,
			"receipt":  receipt,
		},
	})
}

// GET /api/donations (admin) — optional status/type/category/paymentMethod
// filters plus a free-text search over donor name, email and phone.
func (h *Handler) List(c *gin.Context) {
	q := h.DB.Model(&donations.Donation{}).
		Preload("User").Preload("Campaign").Preload("Receipt").
		Order("donations.created_at DESC")

	if status := c.Query("status"); status != "" {
		q = q.Where("donations.status = ?", status)
	}
	if typ := c.Query("type"); typ != "" {
		q = q.Where("donations.type = ?", typ)
	}
	if category := c.Query("category"); category != "" {
		q = q.Where("donations.category = ?", category)
	}
	if method := c.Query("paymentMethod"); method != "" {
		q = q.Where("donations.payment_method = ?", method)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Joins("JOIN users ON users.id = donations.user_id").
			Where("LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ? OR users.phone LIKE ?",
				like, like, "%"+search+"%")
	}

	var list []donations.Donation
	if err := q.Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching donations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(list), "data": gin.H{"donations": list}})
}

// GET /api/donations/:id
func (h *Handler) Get(c *gin.Context) {
	var donation donations.Donation
	err := h.DB.Preload("User").Preload("Campaign").Preload("Receipt").
		First(&donation, c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Donation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"donation": donation}})
}

// GET /api/donations/user/:userId
func (h *Handler) ListByUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var list []donations.Donation
	err = h.DB.Preload("Campaign").Preload("Receipt").
		Where("user_id = ?", uint(userID)).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching user donations"})
		return
	}

	var totalAmount float64
	for _, d := range list {
		totalAmount += d.Amount
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(list),
		"data": gin.H{
			"donations":   list,
			"totalAmount": totalAmount,
		},
	})
}

// PATCH /api/donations/:id/status (admin) — the only entry point for the
// reverse Verified -> Pending transition.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donation id"})
		return
	}

	donation, err := donations.TransitionStatus(h.DB, uint(id), input.Status)
	if err != nil {
		writeError(c, err, "Error updating donation status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Donation status updated to " + donation.Status + " successfully",
		"data":    gin.H{"donation": donation},
	})
}
