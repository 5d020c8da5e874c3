package campaigns

import (
	"time"

	"donation-app/internal/domain/users"
)

type Campaign struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"not null"`
	Description string  `gorm:"not null"`
	GoalAmount  float64 `gorm:"not null"`

	// CurrentAmount is owned by the donation lifecycle. It is only ever
	// changed through atomic increments there, never by a direct edit.
	CurrentAmount float64 `gorm:"not null;default:0"`

	Deadline time.Time `gorm:"not null;index:idx_campaigns_active_deadline"`
	IsActive bool      `gorm:"default:true;index:idx_campaigns_active_deadline"`

	CreatedByID uint `gorm:"column:created_by_id"`
	CreatedBy   users.User

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProgressPercentage reports how far the campaign is toward its goal,
// rounded to whole percent.
func (c *Campaign) ProgressPercentage() int {
	if c.GoalAmount <= 0 {
		return 0
	}
	return int(c.CurrentAmount/c.GoalAmount*100 + 0.5)
}
