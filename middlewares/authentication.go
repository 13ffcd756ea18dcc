// SPDX-License-Identifier: GPL-3.0-only

package middlewares

import (
	"errors"
	"findstay-server/db"
	"findstay-server/models"
	"findstay-server/tokens"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

func VerifyAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := c.Logger()

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			logger.Error("Authorization header missing or invalid.")
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Bearer token is required",
			}
		}
		accessToken := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := tokens.VerifyAccess(accessToken)
		if err != nil {
			logger.Error("Access token failed verification: ", err)
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Invalid or expired access token, please login again",
			}
		}

		user := models.User{}
		if err := db.Conn.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
			logger.Error("User from access token not found: ", err)
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Invalid or expired access token, please login again",
			}
		}

		c.Set("user", user)
		return next(c)
	}
}

// StaffOnlyMiddleware must run after VerifyAuthMiddleware.
func StaffOnlyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := GetAuthenticatedUser(c)
		if err != nil {
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Invalid or expired access token, please login again",
			}
		}
		if !user.IsStaff {
			c.Logger().Errorf("User %d attempted a staff-only operation.", user.ID)
			return &echo.HTTPError{
				Code:    http.StatusForbidden,
				Message: "You do not have permission to perform this action.",
			}
		}
		return next(c)
	}
}

func GetAuthenticatedUser(c echo.Context) (*models.User, error) {
	if user, ok := c.Get("user").(models.User); ok {
		return &user, nil
	}
	return nil, errors.New("no authenticated user found")
}
