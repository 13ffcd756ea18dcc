// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"findstay-server/crypto"
	"findstay-server/db"
	"findstay-server/models"
	"findstay-server/passwordcheck"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nyaruka/phonenumbers"
)

// RegisterHandler godoc
// @Summary      Register a new user
// @Description  Creates a new user account. Staff and verified flags can
// @Description  never be set through this endpoint.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        registerRequest  body  RegisterRequest  true  "Registration payload"
// @Success      201 {object} UserResponse      "Account created"
// @Failure      400 {object} echo.HTTPError    "Validation failure"
// @Failure      409 {object} echo.HTTPError    "Duplicate username or email"
// @Failure      500 {object} echo.HTTPError    "Internal server error"
// @Router       /v1/auth/register [post]
func RegisterHandler(c echo.Context) error {
	logger := c.Logger()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid registration request payload:", err)
		return echo.ErrBadRequest
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := passwordcheck.ValidatePassword(c.Request().Context(), req.Password); err != nil {
		logger.Error("Password validation failed: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("Invalid password: %v", err.Error()),
		}
	}

	if req.PhoneNumber != nil && *req.PhoneNumber != "" {
		parsed, err := phonenumbers.Parse(*req.PhoneNumber, "")
		if err != nil || !phonenumbers.IsValidNumber(parsed) {
			logger.Error("Invalid phone number submitted.")
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "Enter a valid phone number in international format.",
			}
		}
		formatted := phonenumbers.Format(parsed, phonenumbers.E164)
		req.PhoneNumber = &formatted
	}

	if db.Conn.Where("username = ?", req.Username).First(&models.User{}).RowsAffected > 0 {
		logger.Error("This username is already taken.")
		return &echo.HTTPError{
			Code:    http.StatusConflict,
			Message: "This username is already taken, please try another one.",
		}
	}
	if db.Conn.Where("email = ?", req.Email).First(&models.User{}).RowsAffected > 0 {
		logger.Error("This email is already registered.")
		return &echo.HTTPError{
			Code:    http.StatusConflict,
			Message: "This email is already registered, please try another one.",
		}
	}

	hash, err := crypto.NewCrypto().HashPassword(req.Password)
	if err != nil {
		logger.Errorf("Failed to hash password: %v", err)
		return echo.ErrInternalServerError
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		IsActive: true,
	}
	if req.PhoneNumber != nil && *req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}

	if err := db.Conn.Create(&user).Error; err != nil {
		logger.Errorf("Failed to create user: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Infof("User registered successfully")
	return c.JSON(http.StatusCreated, userResponse(user))
}
