// SPDX-License-Identifier: GPL-3.0-only

package tokens

import (
	"findstay-server/models"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.RefreshToken{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return conn
}

func createTestUser(t *testing.T, conn *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		Username: "janedoe",
		Email:    "jane@example.com",
		Password: "irrelevant-hash",
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func TestIssue(t *testing.T) {
	conn := setupTestDB(t)
	user := createTestUser(t, conn)

	pair, err := Issue(conn, user)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatal("Expected non-empty access and refresh tokens")
	}
	if pair.Access == pair.Refresh {
		t.Fatal("Access and refresh tokens should differ")
	}

	claims, err := VerifyAccess(pair.Access)
	if err != nil {
		t.Fatalf("VerifyAccess failed on freshly issued token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("Expected uid %d, got %d", user.ID, claims.UserID)
	}
	if claims.Subject != user.Username {
		t.Errorf("Expected subject %q, got %q", user.Username, claims.Subject)
	}

	count, err := CountOutstanding(conn, user.ID)
	if err != nil {
		t.Fatalf("CountOutstanding failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 outstanding token, got %d", count)
	}
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	conn := setupTestDB(t)
	user := createTestUser(t, conn)

	pair, err := Issue(conn, user)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := VerifyAccess(pair.Refresh); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for refresh token, got %v", err)
	}
}

func TestVerifyAccessRejectsGarbage(t *testing.T) {
	if _, err := VerifyAccess("not.a.token"); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestRotate(t *testing.T) {
	conn := setupTestDB(t)
	user := createTestUser(t, conn)

	pair, err := Issue(conn, user)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	rotated, err := Rotate(conn, pair.Refresh)
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if rotated.Refresh == pair.Refresh {
		t.Error("Rotation should mint a new refresh token")
	}

	// The consumed token is dead.
	if _, err := Rotate(conn, pair.Refresh); err != ErrBlacklisted {
		t.Errorf("Expected ErrBlacklisted on reuse, got %v", err)
	}

	// Reuse of the consumed token kills the whole family, including the
	// token minted by the legitimate rotation.
	count, err := CountOutstanding(conn, user.ID)
	if err != nil {
		t.Fatalf("CountOutstanding failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 outstanding tokens after reuse detection, got %d", count)
	}
}

func TestRevoke(t *testing.T) {
	conn := setupTestDB(t)
	user := createTestUser(t, conn)

	pair, err := Issue(conn, user)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if err := Revoke(conn, pair.Refresh); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if err := Revoke(conn, pair.Refresh); err != ErrBlacklisted {
		t.Errorf("Expected ErrBlacklisted on second revoke, got %v", err)
	}
	if _, err := Rotate(conn, pair.Refresh); err != ErrBlacklisted {
		t.Errorf("Expected ErrBlacklisted rotating a revoked token, got %v", err)
	}
}

func TestBlacklistAll(t *testing.T) {
	conn := setupTestDB(t)
	user := createTestUser(t, conn)

	for i := 0; i < 3; i++ {
		if _, err := Issue(conn, user); err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
	}

	if err := BlacklistAll(conn, user.ID); err != nil {
		t.Fatalf("BlacklistAll failed: %v", err)
	}

	count, err := CountOutstanding(conn, user.ID)
	if err != nil {
		t.Fatalf("CountOutstanding failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 outstanding tokens, got %d", count)
	}
}

func TestResetCredential(t *testing.T) {
	conn := setupTestDB(t)
	user := createTestUser(t, conn)

	credential, err := IssueResetCredential(user, 5*time.Minute)
	if err != nil {
		t.Fatalf("IssueResetCredential failed: %v", err)
	}

	claims, err := VerifyResetCredential(credential)
	if err != nil {
		t.Fatalf("VerifyResetCredential failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("Expected uid %d, got %d", user.ID, claims.UserID)
	}

	// A reset credential must never pass as an access token.
	if _, err := VerifyAccess(credential); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestResetCredentialExpiry(t *testing.T) {
	conn := setupTestDB(t)
	user := createTestUser(t, conn)

	credential, err := IssueResetCredential(user, -1*time.Minute)
	if err != nil {
		t.Fatalf("IssueResetCredential failed: %v", err)
	}
	if _, err := VerifyResetCredential(credential); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for expired credential, got %v", err)
	}
}
