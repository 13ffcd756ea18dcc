// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"
)

// UserSuspension is created at most once per user; repeated suspensions
// mutate the same row and bump NumberOfSuspensions.
type UserSuspension struct {
	ID                  uint `gorm:"primaryKey"`
	StartTime           time.Time
	EndTime             *time.Time
	Duration            *int `gorm:"comment:hours"`
	IsPermanent         bool `gorm:"not null;default:false"`
	HasEnded            bool `gorm:"not null;default:false"`
	NumberOfSuspensions int  `gorm:"not null;default:0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	UserID              uint `gorm:"not null;uniqueIndex"`
	User                User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func init() {
	AllModels = append(AllModels, &UserSuspension{})
}
