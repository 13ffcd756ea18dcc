// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"findstay-server/db"
	"findstay-server/tokens"
	"net/http"

	"github.com/labstack/echo/v4"
)

// LogoutHandler godoc
// @Summary      Logout a user
// @Description  Revokes the refresh token from the cookie and clears it.
// @Tags         auth
// @Produce      json
// @Success      204 "Logout successful"
// @Failure      401 {object} echo.HTTPError "Missing, invalid or blacklisted refresh token"
// @Router       /v1/auth/logout [post]
// @Security     BearerAuth
func LogoutHandler(c echo.Context) error {
	logger := c.Logger()

	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		logger.Error("Refresh cookie missing on logout.")
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Refresh token must be set in the cookie.",
		}
	}

	if err := tokens.Revoke(db.Conn, cookie.Value); err != nil {
		logger.Error("Failed to revoke refresh token: ", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: err.Error(),
		}
	}

	clearRefreshCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// TokenRefreshHandler godoc
// @Summary      Refresh the access token
// @Description  Rotates the refresh token from the cookie. The consumed
// @Description  token is blacklisted; replay of a blacklisted token kills
// @Description  every outstanding token of the account.
// @Tags         auth
// @Produce      json
// @Success      200 {object} AccessResponse    "New access token; rotated refresh cookie set"
// @Failure      401 {object} echo.HTTPError    "Missing, invalid or blacklisted refresh token"
// @Failure      500 {object} echo.HTTPError    "Internal server error"
// @Router       /v1/token/refresh [post]
func TokenRefreshHandler(c echo.Context) error {
	logger := c.Logger()

	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		logger.Error("Refresh cookie missing on refresh.")
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Refresh token must be set in the cookie.",
		}
	}

	pair, err := tokens.Rotate(db.Conn, cookie.Value)
	if err != nil {
		switch err {
		case tokens.ErrInvalidToken, tokens.ErrBlacklisted:
			logger.Error("Refresh token rejected: ", err)
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: err.Error(),
			}
		default:
			logger.Errorf("Token rotation failed: %v", err)
			return echo.ErrInternalServerError
		}
	}

	setRefreshCookie(c, pair.Refresh)
	return c.JSON(http.StatusOK, AccessResponse{Access: pair.Access})
}
