// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"findstay-server/commons"
	"findstay-server/models"
	"findstay-server/otp"
	"findstay-server/tokens"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	refreshCookieName = "refresh"
	resetCookieName   = "access"
)

func userResponse(user models.User) UserResponse {
	resp := UserResponse{
		ID:                    user.ID,
		Username:              user.Username,
		Email:                 user.Email,
		PhoneNumber:           user.PhoneNumber,
		PhoneNumberIsVerified: user.PhoneNumberIsVerified,
		IsActive:              user.IsActive,
		IsStaff:               user.IsStaff,
		IsVerified:            user.IsVerified,
		CreatedAt:             user.CreatedAt.UTC().Format(time.RFC3339),
	}
	if user.LastLoginAt != nil {
		lastLogin := user.LastLoginAt.UTC().Format(time.RFC3339)
		resp.LastLoginAt = &lastLogin
	}
	return resp
}

func cookieSecure() bool {
	return commons.GetEnv("COOKIE_SECURE", "true") == "true"
}

func setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokens.RefreshTTL().Seconds()),
		Secure:   cookieSecure(),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   cookieSecure(),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// setResetCookie holds the interim password-reset credential between the
// validate and commit steps. Its lifetime matches the submission window.
func setResetCookie(c echo.Context, credential string) {
	c.SetCookie(&http.Cookie{
		Name:     resetCookieName,
		Value:    credential,
		Path:     "/",
		MaxAge:   int(otp.SubmissionTTL().Seconds()),
		Secure:   cookieSecure(),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearResetCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     resetCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   cookieSecure(),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
