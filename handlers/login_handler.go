// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"findstay-server/crypto"
	"findstay-server/db"
	"findstay-server/models"
	"findstay-server/suspension"
	"findstay-server/tokens"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// LoginHandler godoc
// @Summary      Login a user
// @Description  Authenticates with username or email plus password. On
// @Description  success all previously outstanding refresh tokens are
// @Description  blacklisted and a fresh pair is issued.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest  body  LoginRequest  true  "Login payload"
// @Success      200 {object} LoginResponse     "Login successful"
// @Failure      400 {object} echo.HTTPError    "Validation failure"
// @Failure      403 {object} echo.HTTPError    "Account suspended"
// @Failure      404 {object} echo.HTTPError    "User not found"
// @Failure      500 {object} echo.HTTPError    "Internal server error"
// @Router       /v1/auth/login [post]
func LoginHandler(c echo.Context) error {
	logger := c.Logger()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid login request payload:", err)
		return echo.ErrBadRequest
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if (req.Username == "") == (req.Email == "") {
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Provide either a username or an email, not both.",
		}
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	// Unknown identifier and wrong password are indistinguishable to the
	// caller.
	user := models.User{}
	err := db.Conn.Where("username = ? OR email = ?", identifier, identifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("User not found.")
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "User not found.",
			}
		}
		logger.Errorf("Failed to find user: %v", err)
		return echo.ErrInternalServerError
	}

	if err := crypto.NewCrypto().VerifyPassword(req.Password, user.Password); err != nil {
		logger.Error("Password verification failed.")
		return &echo.HTTPError{
			Code:    http.StatusNotFound,
			Message: "User not found.",
		}
	}

	decision, err := suspension.Check(db.Conn, &user)
	if err != nil {
		logger.Errorf("Suspension check failed: %v", err)
		return echo.ErrInternalServerError
	}
	if !decision.Allowed {
		logger.Errorf("Login denied for suspended user %d.", user.ID)
		return &echo.HTTPError{
			Code:    http.StatusForbidden,
			Message: decision.Reason,
		}
	}

	if err := tokens.BlacklistAll(db.Conn, user.ID); err != nil {
		logger.Errorf("Failed to blacklist outstanding tokens: %v", err)
		return echo.ErrInternalServerError
	}

	pair, err := tokens.Issue(db.Conn, user)
	if err != nil {
		logger.Errorf("Failed to issue token pair: %v", err)
		return echo.ErrInternalServerError
	}

	now := time.Now()
	if err := db.Conn.Model(&user).Update("last_login_at", &now).Error; err != nil {
		logger.Errorf("Failed to update last login time: %v", err)
		return echo.ErrInternalServerError
	}

	setRefreshCookie(c, pair.Refresh)
	return c.JSON(http.StatusOK, LoginResponse{
		Message: "User login was successful.",
		Access:  pair.Access,
	})
}
