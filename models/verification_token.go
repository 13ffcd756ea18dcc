// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"
)

// VerificationToken is the single OTP slot each user owns. A new code
// overwrites the row in place; the flags below track its lifecycle
// (fresh -> validated-for-reset -> used).
type VerificationToken struct {
	ID                          uint   `gorm:"primaryKey"`
	Token                       string `gorm:"size:7;not null;index"`
	IsForPasswordReset          bool   `gorm:"not null;default:false"`
	IsValidatedForPasswordReset bool   `gorm:"not null;default:false"`
	IsUsed                      bool   `gorm:"not null;default:false"`
	OTPSubmissionTime           *time.Time
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
	UserID                      uint `gorm:"not null;uniqueIndex"`
	User                        User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func init() {
	AllModels = append(AllModels, &VerificationToken{})
}
