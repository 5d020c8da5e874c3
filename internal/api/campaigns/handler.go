package campaigns

import (
	"net/http"
	"time"

	"donation-app/internal/domain/campaigns"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

type campaignResponse struct {
	ID                 uint      `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	GoalAmount         float64   `json:"goalAmount"`
	CurrentAmount      float64   `json:"currentAmount"`
	Deadline           time.Time `json:"deadline"`
	IsActive           bool      `json:"isActive"`
	ProgressPercentage int       `json:"progressPercentage"`
	CreatedBy          string    `json:"createdBy,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

func toResponse(c *campaigns.Campaign) campaignResponse {
	return campaignResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Description:        c.Description,
		GoalAmount:         c.GoalAmount,
		CurrentAmount:      c.CurrentAmount,
		Deadline:           c.Deadline,
		IsActive:           c.IsActive,
		ProgressPercentage: c.ProgressPercentage(),
		CreatedBy:          c.CreatedBy.Name,
		CreatedAt:          c.CreatedAt,
	}
}

// POST /api/campaigns (admin)
func (h *Handler) Create(c *gin.Context) {
	var input struct {
		Name        string    `json:"name" binding:"required,min=3"`
		Description string    `json:"description" binding:"required"`
		GoalAmount  float64   `json:"goalAmount" binding:"required,gt=0"`
		Deadline    time.Time `json:"deadline" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !input.Deadline.After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Deadline must be a future date"})
		return
	}

	campaign := campaigns.Campaign{
		Name:        input.Name,
		Description: input.Description,
		GoalAmount:  input.GoalAmount,
		// New campaigns always start at zero; the donation lifecycle is
		// the only writer of this column afterwards.
		CurrentAmount: 0,
		Deadline:      input.Deadline,
		IsActive:      true,
		CreatedByID:   c.GetUint("user_id"),
	}

	if err := h.DB.Create(&campaign).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating campaign"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Campaign created successfully",
		"data":    gin.H{"campaign": toResponse(&campaign)},
	})
}

// GET /api/campaigns?isActive=true
func (h *Handler) List(c *gin.Context) {
	q := h.DB.Preload("CreatedBy").Order("created_at DESC")
	if isActive := c.Query("isActive"); isActive != "" {
		q = q.Where("is_active = ?", isActive == "true")
	}

	var list []campaigns.Campaign
	if err := q.Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching campaigns"})
		return
	}

	out := make([]campaignResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}

	c.JSON(http.StatusOK, gin.H{"count": len(out), "data": gin.H{"campaigns": out}})
}

// GET /api/campaigns/active — active campaigns with future deadlines,
// soonest deadline first.
func (h *Handler) ListActive(c *gin.Context) {
	var list []campaigns.Campaign
	err := h.DB.
		Where("is_active = ? AND deadline > ?", true, time.Now()).
		Order("deadline ASC").
		Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching active campaigns"})
		return
	}

	out := make([]campaignResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}

	c.JSON(http.StatusOK, gin.H{"count": len(out), "data": gin.H{"campaigns": out}})
}

// GET /api/campaigns/:id
func (h *Handler) Get(c *gin.Context) {
	var campaign campaigns.Campaign
	if err := h.DB.Preload("CreatedBy").First(&campaign, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"campaign": toResponse(&campaign)}})
}

// PATCH /api/campaigns/:id (admin)
func (h *Handler) Update(c *gin.Context) {
	var input struct {
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		GoalAmount  *float64   `json:"goalAmount"`
		Deadline    *time.Time `json:"deadline"`
		IsActive    *bool      `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var campaign campaigns.Campaign
	if err := h.DB.First(&campaign, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	// currentAmount is deliberately not updatable here.
	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.GoalAmount != nil {
		if *input.GoalAmount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Goal amount must be greater than 0"})
			return
		}
		updates["goal_amount"] = *input.GoalAmount
	}
	if input.Deadline != nil {
		updates["deadline"] = *input.Deadline
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&campaign).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating campaign"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Campaign updated successfully",
		"data":    gin.H{"campaign": toResponse(&campaign)},
	})
}

// DELETE /api/campaigns/:id (admin)
func (h *Handler) Delete(c *gin.Context) {
	res := h.DB.Delete(&campaigns.Campaign{}, c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting campaign"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted successfully"})
}
