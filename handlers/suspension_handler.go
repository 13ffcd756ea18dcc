// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"findstay-server/db"
	"findstay-server/models"
	"findstay-server/suspension"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func suspensionDetails(record models.UserSuspension) SuspensionDetails {
	details := SuspensionDetails{
		Username:            record.User.Username,
		StartTime:           record.StartTime.UTC().Format(time.RFC3339),
		Duration:            record.Duration,
		IsPermanent:         record.IsPermanent,
		HasEnded:            record.HasEnded,
		NumberOfSuspensions: record.NumberOfSuspensions,
	}
	if record.EndTime != nil {
		endTime := record.EndTime.UTC().Format(time.RFC3339)
		details.EndTime = &endTime
	}
	return details
}

func findSuspensionTarget(c echo.Context, username string) (*models.User, error) {
	user := models.User{}
	err := db.Conn.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Logger().Error("Suspension target not found.")
			return nil, &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "User not found.",
			}
		}
		c.Logger().Errorf("Failed to find user: %v", err)
		return nil, echo.ErrInternalServerError
	}
	return &user, nil
}

// ListSuspensionsHandler godoc
// @Summary      List suspension records
// @Description  Returns every current and past suspension record.
// @Tags         suspensions
// @Produce      json
// @Success      200 {array}  SuspensionDetails "Suspension records"
// @Failure      401 {object} echo.HTTPError    "Unauthorized"
// @Failure      403 {object} echo.HTTPError    "Staff only"
// @Router       /v1/users/suspensions [get]
// @Security     BearerAuth
func ListSuspensionsHandler(c echo.Context) error {
	records := []models.UserSuspension{}
	if err := db.Conn.Preload("User").Find(&records).Error; err != nil {
		c.Logger().Errorf("Failed to list suspensions: %v", err)
		return echo.ErrInternalServerError
	}

	details := make([]SuspensionDetails, 0, len(records))
	for _, record := range records {
		details = append(details, suspensionDetails(record))
	}
	return c.JSON(http.StatusOK, details)
}

// CreateSuspensionHandler godoc
// @Summary      Suspend a user
// @Description  Creates the user's suspension record, deactivates the
// @Description  account and blacklists its outstanding refresh tokens.
// @Description  Accounts with an existing record must use PATCH instead.
// @Tags         suspensions
// @Accept       json
// @Produce      json
// @Param        suspensionRequest  body  SuspensionRequest  true  "Suspension parameters"
// @Success      200 {object} MessageResponse   "User suspended"
// @Failure      400 {object} echo.HTTPError    "Validation failure"
// @Failure      404 {object} echo.HTTPError    "User not found"
// @Failure      405 {object} echo.HTTPError    "Account was suspended before"
// @Router       /v1/users/suspensions [post]
// @Security     BearerAuth
func CreateSuspensionHandler(c echo.Context) error {
	logger := c.Logger()

	var req SuspensionRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid suspension request payload:", err)
		return echo.ErrBadRequest
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	permanent := req.IsPermanent != nil && *req.IsPermanent
	if req.Duration == nil && !permanent {
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Provide a duration in hours or set is_permanent.",
		}
	}

	user, err := findSuspensionTarget(c, req.Username)
	if err != nil {
		return err
	}

	_, err = suspension.Suspend(db.Conn, user, suspension.Request{
		DurationHours: req.Duration,
		Permanent:     permanent,
	})
	if err != nil {
		if errors.Is(err, suspension.ErrAlreadySuspended) {
			logger.Error("Suspension record already exists.")
			return &echo.HTTPError{
				Code:    http.StatusMethodNotAllowed,
				Message: "This account had once been suspended, use the patch method to update the previously created suspension record.",
			}
		}
		logger.Errorf("Failed to suspend user: %v", err)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "User has now been suspended."})
}

// UpdateSuspensionHandler godoc
// @Summary      Update or lift a suspension
// @Description  Re-suspends with a fresh window, or lifts the suspension
// @Description  when has_ended is true. A lift combined with a new window
// @Description  is rejected.
// @Tags         suspensions
// @Accept       json
// @Produce      json
// @Param        suspensionRequest  body  SuspensionRequest  true  "Suspension parameters"
// @Success      200 {object} MessageResponse   "Record updated"
// @Failure      400 {object} echo.HTTPError    "Validation failure or ambiguous request"
// @Failure      404 {object} echo.HTTPError    "User not found"
// @Failure      405 {object} echo.HTTPError    "Account never suspended"
// @Router       /v1/users/suspensions [patch]
// @Security     BearerAuth
func UpdateSuspensionHandler(c echo.Context) error {
	logger := c.Logger()

	var req SuspensionRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid suspension request payload:", err)
		return echo.ErrBadRequest
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	lift := req.HasEnded != nil && *req.HasEnded
	permanent := req.IsPermanent != nil && *req.IsPermanent
	if !lift && req.Duration == nil && !permanent {
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "Provide a duration in hours, set is_permanent, or set has_ended to lift.",
		}
	}

	user, err := findSuspensionTarget(c, req.Username)
	if err != nil {
		return err
	}

	_, err = suspension.Update(db.Conn, user, suspension.Request{
		DurationHours: req.Duration,
		Permanent:     permanent,
		Lift:          lift,
	})
	if err != nil {
		switch {
		case errors.Is(err, suspension.ErrNeverSuspended):
			logger.Error("No suspension record to update.")
			return &echo.HTTPError{
				Code:    http.StatusMethodNotAllowed,
				Message: "This account has not been suspended previously, use post method to make the request.",
			}
		case errors.Is(err, suspension.ErrAmbiguousUpdate):
			logger.Error("Ambiguous suspension update.")
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "A lift cannot be combined with a duration or permanence.",
			}
		default:
			logger.Errorf("Failed to update suspension: %v", err)
			return echo.ErrInternalServerError
		}
	}

	message := "User has now been suspended."
	if lift {
		message = "User has now been unsuspended."
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: message})
}
