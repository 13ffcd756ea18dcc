// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"
)

// RefreshToken is the outstanding/blacklist ledger row for one issued
// refresh token. Outstanding means BlacklistedAt is null and the token
// has not passed ExpiresAt.
type RefreshToken struct {
	ID            uint      `gorm:"primaryKey"`
	JTI           string    `gorm:"size:67;not null;uniqueIndex"`
	ExpiresAt     time.Time `gorm:"not null;index"`
	BlacklistedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UserID        uint `gorm:"not null;index"`
	User          User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (t *RefreshToken) IsBlacklisted() bool {
	return t.BlacklistedAt != nil
}

func init() {
	AllModels = append(AllModels, &RefreshToken{})
}
