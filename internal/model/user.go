// Package model defines database models
package model

import "time"

// User is an account record. Verified only ever goes from false to true.
type User struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	Name              string `gorm:"size:255;not null"`
	Email             string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash      string `gorm:"size:255;not null"`
	VerificationToken string `gorm:"size:64;index;not null"`
	Verified          bool   `gorm:"default:false;not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
