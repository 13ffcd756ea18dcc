// SPDX-License-Identifier: GPL-3.0-only

package otp

import (
	"errors"
	"findstay-server/commons"
	"findstay-server/crypto"
	"findstay-server/models"
	"findstay-server/notifications"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrTokenNotFound     = errors.New("verification token not found")
	ErrTokenUsed         = errors.New("verification token already used")
	ErrWrongPurpose      = errors.New("verification token issued for a different purpose")
	ErrTokenExpired      = errors.New("verification token expired")
	ErrNotValidated      = errors.New("verification token not validated for password reset")
	ErrSubmissionExpired = errors.New("password reset window expired")
	ErrDelivery          = errors.New("failed to deliver verification code")
)

type Purpose string

const (
	PurposeEmailVerify   Purpose = "email_verify"
	PurposePhoneVerify   Purpose = "phone_verify"
	PurposePasswordReset Purpose = "password_reset"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

const otpDigits = 7

// deliver is swappable in tests.
var deliver = sendViaNotifications

func TTL() time.Duration {
	return commons.GetEnvDuration("OTP_TTL", 10*time.Minute)
}

// SubmissionTTL is the window between a successful password-reset
// validation and the new-password submission. It is deliberately shorter
// than the code's own lifetime.
func SubmissionTTL() time.Duration {
	return commons.GetEnvDuration("OTP_SUBMISSION_TTL", 5*time.Minute)
}

// GenerateAndSend mints a fresh code for the user's single token slot and
// dispatches it. The slot is only written after the dispatch succeeds, so
// a delivery failure leaves any prior code intact.
func GenerateAndSend(conn *gorm.DB, user models.User, purpose Purpose, channel Channel) error {
	code, err := generateUniqueCode(conn)
	if err != nil {
		return err
	}

	if err := deliver(user, purpose, channel, code); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	now := time.Now()
	forReset := purpose == PurposePasswordReset

	existing := models.VerificationToken{}
	err = conn.Where("user_id = ?", user.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return conn.Create(&models.VerificationToken{
			Token:              code,
			IsForPasswordReset: forReset,
			UserID:             user.ID,
		}).Error
	}
	if err != nil {
		return err
	}

	// Regeneration resets the whole lifecycle, including created_at.
	return conn.Model(&existing).Updates(map[string]any{
		"token":                           code,
		"is_for_password_reset":           forReset,
		"is_validated_for_password_reset": false,
		"is_used":                         false,
		"otp_submission_time":             nil,
		"created_at":                      now,
	}).Error
}

// Validate redeems a submitted code. Email and phone purposes are
// terminal: the matching verified flag is flipped and the token marked
// used. The password-reset purpose only advances the token to the
// validated state; consumption happens in ConsumeForPasswordReset.
func Validate(conn *gorm.DB, code string, purpose Purpose) (*models.VerificationToken, error) {
	token := models.VerificationToken{}
	err := conn.Preload("User").Where("token = ?", code).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	if token.IsUsed {
		return nil, ErrTokenUsed
	}
	if token.IsForPasswordReset != (purpose == PurposePasswordReset) {
		return nil, ErrWrongPurpose
	}
	if time.Since(token.CreatedAt) > TTL() {
		return nil, ErrTokenExpired
	}

	switch purpose {
	case PurposePasswordReset:
		now := time.Now()
		err = conn.Model(&token).Updates(map[string]any{
			"is_validated_for_password_reset": true,
			"otp_submission_time":             now,
		}).Error
	case PurposePhoneVerify:
		err = conn.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&token.User).Update("phone_number_is_verified", true).Error; err != nil {
				return err
			}
			return tx.Model(&token).Update("is_used", true).Error
		})
	default:
		err = conn.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&token.User).Update("is_verified", true).Error; err != nil {
				return err
			}
			return tx.Model(&token).Update("is_used", true).Error
		})
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// ConsumeForPasswordReset commits a password reset for the user holding a
// validated token. The submission window is measured from the validation
// timestamp, not the code's creation.
func ConsumeForPasswordReset(conn *gorm.DB, userID uint, newPasswordHash string) error {
	token := models.VerificationToken{}
	err := conn.Preload("User").Where("user_id = ?", userID).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTokenNotFound
	}
	if err != nil {
		return err
	}

	if token.IsUsed {
		return ErrTokenUsed
	}
	if !token.IsForPasswordReset || !token.IsValidatedForPasswordReset || token.OTPSubmissionTime == nil {
		return ErrNotValidated
	}
	if time.Since(*token.OTPSubmissionTime) > SubmissionTTL() {
		return ErrSubmissionExpired
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&token.User).Update("password", newPasswordHash).Error; err != nil {
			return err
		}
		return tx.Model(&token).Update("is_used", true).Error
	})
}

func generateUniqueCode(conn *gorm.DB) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code, err := crypto.GenerateOTP(otpDigits)
		if err != nil {
			return "", err
		}
		var count int64
		if err := conn.Model(&models.VerificationToken{}).Where("token = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("failed to generate a unique verification code")
}

func sendViaNotifications(user models.User, purpose Purpose, channel Channel, code string) error {
	ttlMinutes := int(TTL().Minutes())

	if channel == ChannelSMS {
		if user.PhoneNumber == nil {
			return errors.New("user has no phone number on file")
		}
		return notifications.DispatchNotification(notifications.SMS, notifications.RabbitMQ, notifications.NotificationData{
			To:   *user.PhoneNumber,
			Body: fmt.Sprintf("Your FindStay verification code is %s. It expires in %d minutes.", code, ttlMinutes),
		})
	}

	templateName := "otp_code"
	subject := "Your FindStay verification code"
	if purpose == PurposePasswordReset {
		templateName = "password_reset"
		subject = "Reset your FindStay password"
	}
	return notifications.DispatchNotification(notifications.Email, notifications.SMTP, notifications.NotificationData{
		To:       user.Email,
		ToName:   &user.Username,
		Subject:  subject,
		Template: templateName,
		Variables: map[string]any{
			"Username":   user.Username,
			"Code":       code,
			"TTLMinutes": ttlMinutes,
		},
	})
}
