package dashboard

import (
	"net/http"

	"donation-app/internal/domain/campaigns"
	"donation-app/internal/domain/donations"
	"donation-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

type userStatistics struct {
	TotalDonations    int                `json:"totalDonations"`
	TotalAmount       float64            `json:"totalAmount"`
	VerifiedDonations int                `json:"verifiedDonations"`
	PendingDonations  int                `json:"pendingDonations"`
	DonationsByType   map[string]float64 `json:"donationsByType"`
}

// GET /api/dashboard/user/:userId
func (h *Handler) UserDashboard(c *gin.Context) {
	userID := c.Param("userId")

	var list []donations.Donation
	err := h.DB.Preload("Campaign").Preload("Receipt").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching user dashboard data"})
		return
	}

	stats := userStatistics{
		TotalDonations:  len(list),
		DonationsByType: map[string]float64{},
	}
	for _, t := range donations.Types {
		stats.DonationsByType[t] = 0
	}
	for _, d := range list {
		stats.TotalAmount += d.Amount
		stats.DonationsByType[d.Type] += d.Amount
		switch d.Status {
		case donations.StatusVerified:
			stats.VerifiedDonations++
		case donations.StatusPending:
			stats.PendingDonations++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"statistics": stats,
			"donations":  list,
		},
	})
}

type adminStatistics struct {
	TotalDonations    int64              `json:"totalDonations"`
	TotalAmount       float64            `json:"totalAmount"`
	TotalDonors       int64              `json:"totalDonors"`
	PendingDonations  int64              `json:"pendingDonations"`
	VerifiedDonations int64              `json:"verifiedDonations"`
	ActiveCampaigns   int64              `json:"activeCampaigns"`
	ByPaymentMethod   map[string]int64   `json:"donationsByPaymentMethod"`
	ByCategory        map[string]float64 `json:"donationsByCategory"`
}

// GET /api/dashboard/admin
func (h *Handler) AdminDashboard(c *gin.Context) {
	var stats adminStatistics

	h.DB.Model(&donations.Donation{}).Count(&stats.TotalDonations)
	h.DB.Model(&donations.Donation{}).Select("COALESCE(SUM(amount), 0)").Scan(&stats.TotalAmount)
	h.DB.Model(&users.User{}).Where("role = ?", "user").Count(&stats.TotalDonors)
	h.DB.Model(&donations.Donation{}).Where("status = ?", donations.StatusPending).Count(&stats.PendingDonations)
	h.DB.Model(&donations.Donation{}).Where("status = ?", donations.StatusVerified).Count(&stats.VerifiedDonations)
	h.DB.Model(&campaigns.Campaign{}).Where("is_active = ?", true).Count(&stats.ActiveCampaigns)

	type methodCount struct {
		PaymentMethod string
		Count         int64
	}
	var methodCounts []methodCount
	h.DB.Model(&donations.Donation{}).
		Select("payment_method, COUNT(*) as count").
		Group("payment_method").
		Scan(&methodCounts)

	stats.ByPaymentMethod = map[string]int64{}
	for _, m := range donations.PaymentMethods {
		stats.ByPaymentMethod[m] = 0
	}
	for _, mc := range methodCounts {
		stats.ByPaymentMethod[mc.PaymentMethod] = mc.Count
	}

	type categorySum struct {
		Category string
		Total    float64
	}
	var categorySums []categorySum
	h.DB.Model(&donations.Donation{}).
		Select("category, COALESCE(SUM(amount), 0) as total").
		Group("category").
		Scan(&categorySums)

	stats.ByCategory = map[string]float64{}
	for _, cat := range donations.Categories {
		stats.ByCategory[cat] = 0
	}
	for _, cs := range categorySums {
		stats.ByCategory[cs.Category] = cs.Total
	}

	var recent []donations.Donation
	if err := h.DB.Preload("User").Preload("Campaign").
		Order("created_at DESC").Limit(10).Find(&recent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching admin dashboard data"})
		return
	}

	var allCampaigns []campaigns.Campaign
	if err := h.DB.Find(&allCampaigns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching admin dashboard data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"statistics":      stats,
			"recentDonations": recent,
			"campaigns":       allCampaigns,
		},
	})
}

type donorSummary struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	IsVerified     bool    `json:"isVerified"`
	TotalDonations int64   `json:"totalDonations"`
	TotalAmount    float64 `json:"totalAmount"`
}

// GET /api/dashboard/admin/donors — donors with their donation summary,
// aggregated in one grouped query instead of per-donor lookups.
func (h *Handler) Donors(c *gin.Context) {
	var donors []donorSummary
	err := h.DB.Model(&users.User{}).
		Select(`users.id, users.name, users.email, users.phone, users.is_verified,
			COUNT(donations.id) as total_donations,
			COALESCE(SUM(donations.amount), 0) as total_amount`).
		Joins("LEFT JOIN donations ON donations.user_id = users.id").
		Where("users.role = ?", "user").
		Group("users.id, users.name, users.email, users.phone, users.is_verified").
		Scan(&donors).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching donors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(donors), "data": gin.H{"donors": donors}})
}
