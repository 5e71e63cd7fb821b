package services

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"agency-admin-server/config"
	"agency-admin-server/middleware"
	"agency-admin-server/models"
	"agency-admin-server/utils"
)

// JWTService issues and renews admin sessions: short-lived JWT access
// tokens plus database-backed refresh tokens that can be revoked.
type JWTService struct {
	db *gorm.DB
}

// NewJWTService creates a new JWT service
func NewJWTService(db *gorm.DB) *JWTService {
	return &JWTService{db: db}
}

// TokenPair represents a pair of access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// GenerateTokenPair generates both access and refresh tokens for an admin
func (js *JWTService) GenerateTokenPair(admin *models.Admin, userAgent, ipAddress string) (*TokenPair, error) {
	accessToken, err := utils.GenerateToken(admin.ID, string(admin.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, err := js.generateRefreshToken(admin.ID, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(config.AppConfig.JWT.ExpiryHours) * 3600,
		TokenType:    "Bearer",
	}, nil
}

// generateRefreshToken persists a long-lived refresh token
func (js *JWTService) generateRefreshToken(adminID uint, userAgent, ipAddress string) (string, error) {
	tokenString, err := middleware.GenerateSecureToken(32)
	if err != nil {
		return "", err
	}

	refreshToken := &models.RefreshToken{
		Token:     tokenString,
		AdminID:   adminID,
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	if err := js.db.Create(refreshToken).Error; err != nil {
		return "", err
	}

	return tokenString, nil
}

// RefreshAccessToken validates a refresh token and issues a new access token
func (js *JWTService) RefreshAccessToken(tokenString string) (string, *models.Admin, error) {
	var refreshToken models.RefreshToken
	if err := js.db.Where("token = ?", tokenString).First(&refreshToken).Error; err != nil {
		return "", nil, errors.New("refresh token not found")
	}

	if !refreshToken.IsValid() {
		return "", nil, errors.New("refresh token expired or revoked")
	}

	var admin models.Admin
	if err := js.db.First(&admin, refreshToken.AdminID).Error; err != nil {
		return "", nil, errors.New("admin not found")
	}

	if !admin.IsApproved() {
		return "", nil, errors.New("admin is not approved")
	}

	accessToken, err := utils.GenerateToken(admin.ID, string(admin.Role))
	if err != nil {
		return "", nil, err
	}

	return accessToken, &admin, nil
}

// RevokeRefreshToken revokes one refresh token (logout)
func (js *JWTService) RevokeRefreshToken(tokenString string) error {
	return js.db.Model(&models.RefreshToken{}).
		Where("token = ?", tokenString).
		Update("is_revoked", true).Error
}

// RevokeAllForAdmin revokes every refresh token of an admin
func (js *JWTService) RevokeAllForAdmin(adminID uint) error {
	return js.db.Model(&models.RefreshToken{}).
		Where("admin_id = ? AND is_revoked = ?", adminID, false).
		Update("is_revoked", true).Error
}

// CleanupExpiredTokens removes expired or revoked refresh tokens
func (js *JWTService) CleanupExpiredTokens() error {
	result := js.db.Where("expires_at <= ? OR is_revoked = ?", time.Now(), true).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("🧹 Cleaned up %d stale refresh tokens", result.RowsAffected)
	}
	return nil
}
