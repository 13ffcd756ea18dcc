// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"findstay-server/db"
	"findstay-server/middlewares"
	"findstay-server/models"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// GetUsersHandler godoc
// @Summary      List users
// @Description  Returns a paginated list of registered users.
// @Tags         users
// @Produce      json
// @Param        page       query  int  false  "Page number"      default(1)
// @Param        page_size  query  int  false  "Items per page"   default(20)
// @Success      200 {object} UserListResponse  "Users"
// @Failure      401 {object} echo.HTTPError    "Unauthorized"
// @Failure      403 {object} echo.HTTPError    "Staff only"
// @Router       /v1/users [get]
// @Security     BearerAuth
func GetUsersHandler(c echo.Context) error {
	logger := c.Logger()

	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.QueryParam("page_size"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	var total int64
	if err := db.Conn.Model(&models.User{}).Count(&total).Error; err != nil {
		logger.Errorf("Failed to count users: %v", err)
		return echo.ErrInternalServerError
	}

	users := []models.User{}
	if err := db.Conn.Order("id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error; err != nil {
		logger.Errorf("Failed to list users: %v", err)
		return echo.ErrInternalServerError
	}

	data := make([]UserResponse, 0, len(users))
	for _, user := range users {
		data = append(data, userResponse(user))
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return c.JSON(http.StatusOK, UserListResponse{
		Data: data,
		Pagination: PaginationDetails{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// GetMeHandler godoc
// @Summary      Get the authenticated user
// @Description  Returns the public representation of the caller's account.
// @Tags         users
// @Produce      json
// @Success      200 {object} UserResponse      "The authenticated user"
// @Failure      401 {object} echo.HTTPError    "Unauthorized"
// @Router       /v1/users/me [get]
// @Security     BearerAuth
func GetMeHandler(c echo.Context) error {
	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		return echo.ErrUnauthorized
	}
	return c.JSON(http.StatusOK, userResponse(*user))
}
