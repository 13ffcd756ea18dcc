// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"gorm.io/gorm"
)

var AllModels []any

type User struct {
	ID                    uint    `gorm:"primaryKey"`
	Username              string  `gorm:"size:250;not null;uniqueIndex"`
	Email                 string  `gorm:"not null;uniqueIndex"`
	Password              string  `gorm:"not null"`
	PhoneNumber           *string `gorm:"size:20;default:null"`
	PhoneNumberIsVerified bool    `gorm:"not null;default:false"`
	IsActive              bool    `gorm:"not null;default:true"`
	IsStaff               bool    `gorm:"not null;default:false"`
	IsVerified            bool    `gorm:"not null;default:false"`
	LastLoginAt           *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}

func init() {
	AllModels = append(AllModels, &User{})
}
