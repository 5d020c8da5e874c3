package users

import "time"

type User struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string  `gorm:"not null"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Phone        string
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Picture      *string
	Role         string `gorm:"type:varchar(20);not null;default:'user'"`
	IsVerified   bool

	VerificationToken *string `gorm:"uniqueIndex:idx_users_verification_token"`

	ResetPasswordOTP     *string
	ResetPasswordExpires *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
