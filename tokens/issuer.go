// SPDX-License-Identifier: GPL-3.0-only

package tokens

import (
	"errors"
	"findstay-server/commons"
	"findstay-server/crypto"
	"findstay-server/models"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var (
	// ErrInvalidToken covers bad signatures, expiry, wrong token_type and
	// tokens with no outstanding ledger row.
	ErrInvalidToken = errors.New("token is invalid or expired")
	// ErrBlacklisted means the refresh token was explicitly invalidated.
	ErrBlacklisted = errors.New("token is blacklisted")
)

const (
	TypeAccess        = "access"
	TypeRefresh       = "refresh"
	TypePasswordReset = "password_reset"
)

type Claims struct {
	UserID    uint   `json:"uid"`
	IsStaff   bool   `json:"staff"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type Pair struct {
	Access  string
	Refresh string
}

func signingKey() []byte {
	return []byte(commons.GetEnv("JWT_SECRET", "default_very_secret_key"))
}

func AccessTTL() time.Duration {
	return commons.GetEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
}

func RefreshTTL() time.Duration {
	return commons.GetEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour)
}

func sign(user models.User, tokenType, jti string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    user.ID,
		IsStaff:   user.IsStaff,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    commons.GetEnv("JWT_ISSUER", "https://findstay.online"),
			Subject:   user.Username,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey())
}

func parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return signingKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Issue creates a signed access/refresh pair for the user and records the
// refresh token as outstanding in the ledger.
func Issue(conn *gorm.DB, user models.User) (Pair, error) {
	jti, err := crypto.GenerateRandomString("rt_", 32, "hex")
	if err != nil {
		return Pair{}, err
	}

	refreshExpiry := time.Now().Add(RefreshTTL())

	refresh, err := sign(user, TypeRefresh, jti, RefreshTTL())
	if err != nil {
		return Pair{}, err
	}

	access, err := sign(user, TypeAccess, "", AccessTTL())
	if err != nil {
		return Pair{}, err
	}

	ledger := models.RefreshToken{
		JTI:       jti,
		UserID:    user.ID,
		ExpiresAt: refreshExpiry,
	}
	if err := conn.Create(&ledger).Error; err != nil {
		return Pair{}, err
	}

	return Pair{Access: access, Refresh: refresh}, nil
}

// BlacklistAll stamps every outstanding refresh token of the user as
// blacklisted. Rows already blacklisted are left untouched.
func BlacklistAll(conn *gorm.DB, userID uint) error {
	now := time.Now()
	return conn.Model(&models.RefreshToken{}).
		Where("user_id = ? AND blacklisted_at IS NULL", userID).
		Update("blacklisted_at", &now).Error
}

// Rotate exchanges a refresh token for a new pair. The consumed token is
// blacklisted; presenting an already-blacklisted token blacklists every
// other outstanding token of its claimed owner (suspected replay).
func Rotate(conn *gorm.DB, refreshToken string) (Pair, error) {
	claims, err := parse(refreshToken, TypeRefresh)
	if err != nil {
		return Pair{}, err
	}

	ledger := models.RefreshToken{}
	if err := conn.Where("jti = ?", claims.ID).First(&ledger).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Pair{}, ErrInvalidToken
		}
		return Pair{}, err
	}

	if ledger.IsBlacklisted() {
		if err := BlacklistAll(conn, claims.UserID); err != nil {
			commons.Logger.Errorf("Failed to blacklist outstanding tokens after reuse: %v", err)
		}
		return Pair{}, ErrBlacklisted
	}

	now := time.Now()
	if err := conn.Model(&ledger).Update("blacklisted_at", &now).Error; err != nil {
		return Pair{}, err
	}

	user := models.User{}
	if err := conn.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		return Pair{}, err
	}

	return Issue(conn, user)
}

// Revoke blacklists a presented refresh token (logout).
func Revoke(conn *gorm.DB, refreshToken string) error {
	claims, err := parse(refreshToken, TypeRefresh)
	if err != nil {
		return err
	}

	ledger := models.RefreshToken{}
	if err := conn.Where("jti = ?", claims.ID).First(&ledger).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	if ledger.IsBlacklisted() {
		return ErrBlacklisted
	}

	now := time.Now()
	return conn.Model(&ledger).Update("blacklisted_at", &now).Error
}

// VerifyAccess validates an access token and returns its claims.
func VerifyAccess(tokenString string) (*Claims, error) {
	return parse(tokenString, TypeAccess)
}

// IssueResetCredential mints the interim credential bridging the
// password-reset validate and commit steps. Its lifetime equals the
// reset-submission window.
func IssueResetCredential(user models.User, window time.Duration) (string, error) {
	return sign(user, TypePasswordReset, "", window)
}

// VerifyResetCredential validates an interim password-reset credential.
func VerifyResetCredential(tokenString string) (*Claims, error) {
	return parse(tokenString, TypePasswordReset)
}

// CountOutstanding returns the number of non-blacklisted, unexpired
// refresh tokens recorded for the user.
func CountOutstanding(conn *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := conn.Model(&models.RefreshToken{}).
		Where("user_id = ? AND blacklisted_at IS NULL AND expires_at > ?", userID, time.Now()).
		Count(&count).Error
	return count, err
}
