// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"findstay-server/db"
	"findstay-server/middlewares"
	"findstay-server/otp"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nyaruka/phonenumbers"
)

func otpError(c echo.Context, err error) error {
	c.Logger().Error("OTP operation failed: ", err)
	switch {
	case errors.Is(err, otp.ErrTokenNotFound):
		return &echo.HTTPError{Code: http.StatusBadRequest, Message: "Token is incorrect."}
	case errors.Is(err, otp.ErrTokenUsed):
		return &echo.HTTPError{Code: http.StatusBadRequest, Message: "Token has been used."}
	case errors.Is(err, otp.ErrWrongPurpose):
		return &echo.HTTPError{Code: http.StatusBadRequest, Message: "Token was issued for a different purpose."}
	case errors.Is(err, otp.ErrTokenExpired):
		return &echo.HTTPError{Code: http.StatusBadRequest, Message: "Token has expired."}
	case errors.Is(err, otp.ErrDelivery):
		return &echo.HTTPError{Code: http.StatusServiceUnavailable, Message: "Failed to deliver the verification code, please try again later."}
	default:
		return echo.ErrInternalServerError
	}
}

// SendEmailOTPHandler godoc
// @Summary      Send an email-verification code
// @Description  Emails a fresh verification code to the authenticated
// @Description  user's address.
// @Tags         otp
// @Produce      json
// @Success      200 {object} MessageResponse   "Code sent"
// @Failure      401 {object} echo.HTTPError    "Unauthorized"
// @Failure      409 {object} echo.HTTPError    "Email already verified"
// @Failure      503 {object} echo.HTTPError    "Delivery failure"
// @Router       /v1/otp/email/send [get]
// @Security     BearerAuth
func SendEmailOTPHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		return echo.ErrUnauthorized
	}

	if user.IsVerified {
		logger.Error("Email already verified.")
		return &echo.HTTPError{
			Code:    http.StatusConflict,
			Message: "Email has already been verified.",
		}
	}

	if err := otp.GenerateAndSend(db.Conn, *user, otp.PurposeEmailVerify, otp.ChannelEmail); err != nil {
		return otpError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("A One Time Password (OTP) has been sent to %s.", user.Email),
	})
}

// VerifyEmailOTPHandler godoc
// @Summary      Verify an email address
// @Description  Redeems an email-verification code, flipping the user's
// @Description  verified flag.
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        verificationTokenRequest  body  VerificationTokenRequest  true  "The submitted code"
// @Success      200 {object} MessageResponse   "Email verified"
// @Failure      400 {object} echo.HTTPError    "Incorrect, used or expired token"
// @Router       /v1/otp/email/verify [post]
func VerifyEmailOTPHandler(c echo.Context) error {
	var req VerificationTokenRequest
	if err := c.Bind(&req); err != nil {
		c.Logger().Error("Invalid verification request payload:", err)
		return echo.ErrBadRequest
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := otp.Validate(db.Conn, req.VerificationToken, otp.PurposeEmailVerify); err != nil {
		return otpError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Email verified successfully."})
}

// SendPhoneOTPHandler godoc
// @Summary      Send a phone-verification code
// @Description  Sends a fresh verification code by SMS to the phone number
// @Description  on the authenticated user's account.
// @Tags         otp
// @Produce      json
// @Success      200 {object} MessageResponse   "Code sent"
// @Failure      400 {object} echo.HTTPError    "No valid phone number on file"
// @Failure      401 {object} echo.HTTPError    "Unauthorized"
// @Failure      409 {object} echo.HTTPError    "Phone number already verified"
// @Failure      503 {object} echo.HTTPError    "Delivery failure"
// @Router       /v1/otp/phone/send [get]
// @Security     BearerAuth
func SendPhoneOTPHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		return echo.ErrUnauthorized
	}

	if user.PhoneNumberIsVerified {
		logger.Error("Phone number already verified.")
		return &echo.HTTPError{
			Code:    http.StatusConflict,
			Message: "Phone number has already been verified.",
		}
	}

	if user.PhoneNumber == nil || *user.PhoneNumber == "" {
		logger.Error("No phone number on file.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "A phone number must be set on the account first.",
		}
	}

	parsed, err := phonenumbers.Parse(*user.PhoneNumber, "")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		logger.Error("Stored phone number is invalid.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "The phone number on the account is not valid.",
		}
	}

	if err := otp.GenerateAndSend(db.Conn, *user, otp.PurposePhoneVerify, otp.ChannelSMS); err != nil {
		return otpError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("A One Time Password (OTP) has been sent to %s.", maskPhoneNumber(*user.PhoneNumber)),
	})
}

// VerifyPhoneOTPHandler godoc
// @Summary      Verify a phone number
// @Description  Redeems a phone-verification code, flipping the user's
// @Description  phone-verified flag.
// @Tags         otp
// @Accept       json
// @Produce      json
// @Param        verificationTokenRequest  body  VerificationTokenRequest  true  "The submitted code"
// @Success      200 {object} MessageResponse   "Phone number verified"
// @Failure      400 {object} echo.HTTPError    "Incorrect, used or expired token"
// @Router       /v1/otp/phone/verify [post]
func VerifyPhoneOTPHandler(c echo.Context) error {
	var req VerificationTokenRequest
	if err := c.Bind(&req); err != nil {
		c.Logger().Error("Invalid verification request payload:", err)
		return echo.ErrBadRequest
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := otp.Validate(db.Conn, req.VerificationToken, otp.PurposePhoneVerify); err != nil {
		return otpError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Phone number verified successfully."})
}

func maskPhoneNumber(phoneNumber string) string {
	if len(phoneNumber) < 2 {
		return "*********"
	}
	return "*********" + phoneNumber[len(phoneNumber)-2:]
}
