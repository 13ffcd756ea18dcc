// SPDX-License-Identifier: GPL-3.0-only

package suspension

import (
	"errors"
	"findstay-server/models"
	"findstay-server/tokens"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrAlreadySuspended = errors.New("user already has a suspension record")
	ErrNeverSuspended   = errors.New("user has no suspension record")
	ErrAmbiguousUpdate  = errors.New("lift cannot be combined with a duration or permanence")
)

// Decision is the gate's verdict for a login attempt. Reason is the
// user-facing denial message, verbatim.
type Decision struct {
	Allowed bool
	Reason  string
}

// Request carries the staff-submitted suspension parameters. Exactly one
// of lift or a window (duration hours / permanent) applies per call.
type Request struct {
	DurationHours *int
	Permanent     bool
	Lift          bool
}

// Check is consulted at login only. An elapsed window is cleared lazily
// here; there is no background sweeper.
func Check(conn *gorm.DB, user *models.User) (Decision, error) {
	record := models.UserSuspension{}
	err := conn.Where("user_id = ?", user.ID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Decision{Allowed: true}, nil
	}
	if err != nil {
		return Decision{}, err
	}

	if record.HasEnded {
		return Decision{Allowed: true}, nil
	}

	if record.IsPermanent {
		return Decision{Reason: "This account has been suspended permanently."}, nil
	}

	if record.EndTime != nil {
		remaining := time.Until(*record.EndTime)
		if remaining > 0 {
			return Decision{
				Reason: fmt.Sprintf("This account is suspended. Time remaining: %s.", formatRemaining(remaining)),
			}, nil
		}

		err = conn.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&record).Update("has_ended", true).Error; err != nil {
				return err
			}
			return tx.Model(user).Update("is_active", true).Error
		})
		if err != nil {
			return Decision{}, err
		}
		user.IsActive = true
		return Decision{Allowed: true}, nil
	}

	return Decision{Allowed: true}, nil
}

// Suspend creates the user's suspension record. A user is suspended at
// most once through this path; later punishments go through Update.
func Suspend(conn *gorm.DB, user *models.User, req Request) (*models.UserSuspension, error) {
	var count int64
	if err := conn.Model(&models.UserSuspension{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadySuspended
	}

	now := time.Now()
	record := models.UserSuspension{
		StartTime:           now,
		Duration:            req.DurationHours,
		IsPermanent:         req.Permanent,
		NumberOfSuspensions: 1,
		UserID:              user.ID,
	}
	if !req.Permanent && req.DurationHours != nil {
		end := now.Add(time.Duration(*req.DurationHours) * time.Hour)
		record.EndTime = &end
	}

	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Model(user).Update("is_active", false).Error; err != nil {
			return err
		}
		return tokens.BlacklistAll(tx, user.ID)
	})
	if err != nil {
		return nil, err
	}
	user.IsActive = false
	return &record, nil
}

// Update mutates an existing suspension record: either lift it, or
// re-suspend with a new window. Both at once is rejected.
func Update(conn *gorm.DB, user *models.User, req Request) (*models.UserSuspension, error) {
	record := models.UserSuspension{}
	err := conn.Where("user_id = ?", user.ID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNeverSuspended
	}
	if err != nil {
		return nil, err
	}

	if req.Lift {
		if req.Permanent || req.DurationHours != nil {
			return nil, ErrAmbiguousUpdate
		}
		err = conn.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&record).Update("has_ended", true).Error; err != nil {
				return err
			}
			return tx.Model(user).Update("is_active", true).Error
		})
		if err != nil {
			return nil, err
		}
		record.HasEnded = true
		user.IsActive = true
		return &record, nil
	}

	now := time.Now()
	updates := map[string]any{
		"start_time":            now,
		"duration":              req.DurationHours,
		"is_permanent":          req.Permanent,
		"has_ended":             false,
		"end_time":              nil,
		"number_of_suspensions": record.NumberOfSuspensions + 1,
	}
	if !req.Permanent && req.DurationHours != nil {
		updates["end_time"] = now.Add(time.Duration(*req.DurationHours) * time.Hour)
	}

	err = conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&record).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(user).Update("is_active", false).Error; err != nil {
			return err
		}
		return tokens.BlacklistAll(tx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Where("user_id = ?", user.ID).First(&record).Error; err != nil {
		return nil, err
	}
	user.IsActive = false
	return &record, nil
}

func formatRemaining(d time.Duration) string {
	d = d.Round(time.Minute)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	parts := []string{}
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d day%s", days, plural(days)))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hour%s", hours, plural(hours)))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minute%s", minutes, plural(minutes)))
	}
	if len(parts) == 0 {
		return "less than a minute"
	}
	return strings.Join(parts, ", ")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
