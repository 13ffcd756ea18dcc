// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"findstay-server/crypto"
	"findstay-server/db"
	"findstay-server/middlewares"
	"findstay-server/models"
	"findstay-server/otp"
	"findstay-server/passwordcheck"
	"findstay-server/tokens"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SendPasswordResetOTPHandler godoc
// @Summary      Send a password-reset code
// @Description  Emails a password-reset code to the account matching the
// @Description  submitted username or email.
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        passwordResetSendRequest  body  PasswordResetSendRequest  true  "Account identifier"
// @Success      200 {object} MessageResponse   "Code sent"
// @Failure      400 {object} echo.HTTPError    "Validation failure"
// @Failure      404 {object} echo.HTTPError    "User not found"
// @Failure      503 {object} echo.HTTPError    "Delivery failure"
// @Router       /v1/otp/password-reset/send [post]
func SendPasswordResetOTPHandler(c echo.Context) error {
	logger := c.Logger()

	var req PasswordResetSendRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid password-reset request payload:", err)
		return echo.ErrBadRequest
	}
	if (req.Username == "") == (req.Email == "") {
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Provide either a username or an email, not both.",
		}
	}

	user := models.User{}
	var err error
	if req.Username != "" {
		err = db.Conn.Where("username = ?", req.Username).First(&user).Error
	} else {
		err = db.Conn.Where("email = ?", req.Email).First(&user).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("User not found for password reset.")
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "User not found.",
			}
		}
		logger.Errorf("Failed to find user: %v", err)
		return echo.ErrInternalServerError
	}

	if err := otp.GenerateAndSend(db.Conn, user, otp.PurposePasswordReset, otp.ChannelEmail); err != nil {
		return otpError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("A One Time Password (OTP) has been sent to %s.", user.Email),
	})
}

// ValidatePasswordResetOTPHandler godoc
// @Summary      Validate a password-reset code
// @Description  Advances the token to the validated state and sets a
// @Description  short-lived interim credential cookie bridging to the
// @Description  password-reset commit.
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        verificationTokenRequest  body  VerificationTokenRequest  true  "The submitted code"
// @Success      200 {object} MessageResponse   "Code validated; interim credential cookie set"
// @Failure      400 {object} echo.HTTPError    "Incorrect, used or expired token"
// @Router       /v1/otp/password-reset/validate [post]
func ValidatePasswordResetOTPHandler(c echo.Context) error {
	logger := c.Logger()

	var req VerificationTokenRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid verification request payload:", err)
		return echo.ErrBadRequest
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := otp.Validate(db.Conn, req.VerificationToken, otp.PurposePasswordReset)
	if err != nil {
		return otpError(c, err)
	}

	credential, err := tokens.IssueResetCredential(token.User, otp.SubmissionTTL())
	if err != nil {
		logger.Errorf("Failed to issue reset credential: %v", err)
		return echo.ErrInternalServerError
	}

	setResetCookie(c, credential)
	return c.JSON(http.StatusOK, MessageResponse{
		Message: "Token for password reset verified successfully.",
	})
}

// PasswordResetHandler godoc
// @Summary      Commit a password reset
// @Description  Sets a new password for the account identified by the
// @Description  interim credential cookie from the validate step.
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        passwordResetRequest  body  PasswordResetRequest  true  "The new password"
// @Success      200 {object} MessageResponse   "Password reset"
// @Failure      400 {object} echo.HTTPError    "Weak password, used token or elapsed window"
// @Failure      401 {object} echo.HTTPError    "Missing or invalid interim credential"
// @Router       /v1/password-reset [post]
func PasswordResetHandler(c echo.Context) error {
	logger := c.Logger()

	var req PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid password-reset payload:", err)
		return echo.ErrBadRequest
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cookie, err := c.Cookie(resetCookieName)
	if err != nil || cookie.Value == "" {
		logger.Error("Interim reset credential missing.")
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "You are not permitted to use this resource.",
		}
	}

	claims, err := tokens.VerifyResetCredential(cookie.Value)
	if err != nil {
		logger.Error("Interim reset credential rejected: ", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "You are not permitted to use this resource.",
		}
	}

	if err := passwordcheck.ValidatePassword(c.Request().Context(), req.Password); err != nil {
		logger.Error("Password validation failed: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("Invalid password: %v", err.Error()),
		}
	}

	hash, err := crypto.NewCrypto().HashPassword(req.Password)
	if err != nil {
		logger.Errorf("Failed to hash password: %v", err)
		return echo.ErrInternalServerError
	}

	if err := otp.ConsumeForPasswordReset(db.Conn, claims.UserID, hash); err != nil {
		switch {
		case errors.Is(err, otp.ErrNotValidated):
			logger.Error("Reset commit attempted without validation.")
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "You are not permitted to use this resource.",
			}
		case errors.Is(err, otp.ErrSubmissionExpired):
			logger.Error("Reset submission window elapsed.")
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "Token submission time has elapsed.",
			}
		default:
			return otpError(c, err)
		}
	}

	clearResetCookie(c)
	return c.JSON(http.StatusOK, MessageResponse{Message: "Password reset was successful."})
}

// ChangePasswordHandler godoc
// @Summary      Change the account password
// @Description  Replaces the authenticated user's password after checking
// @Description  the current one. Outstanding sessions are invalidated.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        changePasswordRequest  body  ChangePasswordRequest  true  "Current and new passwords"
// @Success      200 {object} MessageResponse   "Password changed"
// @Failure      400 {object} echo.HTTPError    "Wrong current password or weak new password"
// @Failure      401 {object} echo.HTTPError    "Unauthorized"
// @Router       /v1/users/password [put]
// @Security     BearerAuth
func ChangePasswordHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		return echo.ErrUnauthorized
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid change-password payload:", err)
		return echo.ErrBadRequest
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	newCrypto := crypto.NewCrypto()
	if err := newCrypto.VerifyPassword(req.CurrentPassword, user.Password); err != nil {
		logger.Error("Current password verification failed.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Current password is incorrect.",
		}
	}

	if err := passwordcheck.ValidatePassword(c.Request().Context(), req.NewPassword); err != nil {
		logger.Error("Password validation failed: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("Invalid password: %v", err.Error()),
		}
	}

	hash, err := newCrypto.HashPassword(req.NewPassword)
	if err != nil {
		logger.Errorf("Failed to hash password: %v", err)
		return echo.ErrInternalServerError
	}

	if err := db.Conn.Model(user).Update("password", hash).Error; err != nil {
		logger.Errorf("Failed to update password: %v", err)
		return echo.ErrInternalServerError
	}

	if err := tokens.BlacklistAll(db.Conn, user.ID); err != nil {
		logger.Errorf("Failed to blacklist outstanding tokens: %v", err)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Password changed successfully."})
}
