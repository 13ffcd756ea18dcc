// SPDX-License-Identifier: GPL-3.0-only

package routes

import (
	"findstay-server/commons"
	"findstay-server/handlers"
	"findstay-server/middlewares"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	commons.Logger.Debug("Registering v1 routes")
	api_v1 := e.Group("/v1")
	api_v1.POST("/auth/register", handlers.RegisterHandler)
	api_v1.POST("/auth/login", handlers.LoginHandler)
	api_v1.POST("/auth/logout", handlers.LogoutHandler, middlewares.VerifyAuthMiddleware)
	api_v1.POST("/token/refresh", handlers.TokenRefreshHandler)
	api_v1.GET("/otp/email/send", handlers.SendEmailOTPHandler, middlewares.VerifyAuthMiddleware)
	api_v1.POST("/otp/email/verify", handlers.VerifyEmailOTPHandler)
	api_v1.GET("/otp/phone/send", handlers.SendPhoneOTPHandler, middlewares.VerifyAuthMiddleware)
	api_v1.POST("/otp/phone/verify", handlers.VerifyPhoneOTPHandler)
	api_v1.POST("/otp/password-reset/send", handlers.SendPasswordResetOTPHandler)
	api_v1.POST("/otp/password-reset/validate", handlers.ValidatePasswordResetOTPHandler)
	api_v1.POST("/password-reset", handlers.PasswordResetHandler)
	api_v1.GET("/users", handlers.GetUsersHandler, middlewares.VerifyAuthMiddleware, middlewares.StaffOnlyMiddleware)
	api_v1.GET("/users/me", handlers.GetMeHandler, middlewares.VerifyAuthMiddleware)
	api_v1.PUT("/users/password", handlers.ChangePasswordHandler, middlewares.VerifyAuthMiddleware)
	api_v1.GET("/users/suspensions", handlers.ListSuspensionsHandler, middlewares.VerifyAuthMiddleware, middlewares.StaffOnlyMiddleware)
	api_v1.POST("/users/suspensions", handlers.CreateSuspensionHandler, middlewares.VerifyAuthMiddleware, middlewares.StaffOnlyMiddleware)
	api_v1.PATCH("/users/suspensions", handlers.UpdateSuspensionHandler, middlewares.VerifyAuthMiddleware, middlewares.StaffOnlyMiddleware)
	commons.Logger.Info("v1 routes registered successfully")
}
