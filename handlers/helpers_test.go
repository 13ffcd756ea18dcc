// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"encoding/json"
	"errors"
	"findstay-server/crypto"
	"findstay-server/db"
	"findstay-server/middlewares"
	"findstay-server/models"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	t.Setenv("MOCK_EMAIL_NOTIFICATIONS", "true")
	t.Setenv("MOCK_SMS_NOTIFICATIONS", "true")
	t.Setenv("PWNED_PASSWORDS_ENABLED", "false")

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := conn.AutoMigrate(models.AllModels...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	db.Conn = conn

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()

	// Mirror the production error handler from server.go, which renders
	// every failure as {"error": <message>}.
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		var message any = http.StatusText(code)

		var httpError *echo.HTTPError
		if errors.As(err, &httpError) {
			code = httpError.Code
			message = httpError.Message
		}

		if c.Request().Method == http.MethodHead {
			if err := c.NoContent(code); err != nil {
				c.Logger().Error(err)
			}
			return
		}

		if err := c.JSON(code, map[string]any{"error": message}); err != nil {
			c.Logger().Error(err)
		}
	}

	v1 := e.Group("/v1")
	v1.POST("/auth/register", RegisterHandler)
	v1.POST("/auth/login", LoginHandler)
	v1.POST("/auth/logout", LogoutHandler, middlewares.VerifyAuthMiddleware)
	v1.POST("/token/refresh", TokenRefreshHandler)
	v1.GET("/otp/email/send", SendEmailOTPHandler, middlewares.VerifyAuthMiddleware)
	v1.POST("/otp/email/verify", VerifyEmailOTPHandler)
	v1.GET("/otp/phone/send", SendPhoneOTPHandler, middlewares.VerifyAuthMiddleware)
	v1.POST("/otp/phone/verify", VerifyPhoneOTPHandler)
	v1.POST("/otp/password-reset/send", SendPasswordResetOTPHandler)
	v1.POST("/otp/password-reset/validate", ValidatePasswordResetOTPHandler)
	v1.POST("/password-reset", PasswordResetHandler)
	v1.GET("/users", GetUsersHandler, middlewares.VerifyAuthMiddleware, middlewares.StaffOnlyMiddleware)
	v1.GET("/users/me", GetMeHandler, middlewares.VerifyAuthMiddleware)
	v1.PUT("/users/password", ChangePasswordHandler, middlewares.VerifyAuthMiddleware)
	v1.GET("/users/suspensions", ListSuspensionsHandler, middlewares.VerifyAuthMiddleware, middlewares.StaffOnlyMiddleware)
	v1.POST("/users/suspensions", CreateSuspensionHandler, middlewares.VerifyAuthMiddleware, middlewares.StaffOnlyMiddleware)
	v1.PATCH("/users/suspensions", UpdateSuspensionHandler, middlewares.VerifyAuthMiddleware, middlewares.StaffOnlyMiddleware)

	return e
}

func doRequest(t *testing.T, e *echo.Echo, method, path, body string, mods ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, mod := range mods {
		mod(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func withBearer(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
}

func withCookie(cookie *http.Cookie) func(*http.Request) {
	return func(req *http.Request) {
		req.AddCookie(cookie)
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func registerTestUser(t *testing.T, e *echo.Echo, username, email, password string) {
	t.Helper()
	body := `{"username":"` + username + `","email":"` + email + `","password":"` + password + `"}`
	rec := doRequest(t, e, http.MethodPost, "/v1/auth/register", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Registration failed with %d: %s", rec.Code, rec.Body.String())
	}
}

func loginTestUser(t *testing.T, e *echo.Echo, username, password string) (string, *http.Cookie) {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	rec := doRequest(t, e, http.MethodPost, "/v1/auth/login", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Login failed with %d: %s", rec.Code, rec.Body.String())
	}
	access, _ := decodeBody(t, rec)["access"].(string)
	if access == "" {
		t.Fatal("Login response carries no access token")
	}
	refresh := cookieNamed(rec, "refresh")
	if refresh == nil {
		t.Fatal("Login response sets no refresh cookie")
	}
	return access, refresh
}

func createStaffUser(t *testing.T, username, email, password string) models.User {
	t.Helper()
	hash, err := crypto.NewCrypto().HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{
		Username:   username,
		Email:      email,
		Password:   hash,
		IsActive:   true,
		IsStaff:    true,
		IsVerified: true,
	}
	if err := db.Conn.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create staff user: %v", err)
	}
	return user
}

func storedOTPFor(t *testing.T, username string) string {
	t.Helper()
	user := models.User{}
	if err := db.Conn.Where("username = ?", username).First(&user).Error; err != nil {
		t.Fatalf("Failed to find user %q: %v", username, err)
	}
	token := models.VerificationToken{}
	if err := db.Conn.Where("user_id = ?", user.ID).First(&token).Error; err != nil {
		t.Fatalf("Failed to find verification token for %q: %v", username, err)
	}
	return token.Token
}
