package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/seatswap/seatswap-backend/internal/config"
	"github.com/seatswap/seatswap-backend/internal/dto"
	"github.com/seatswap/seatswap-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrExpiredToken       = errors.New("expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService owns the refresh-token session lifecycle: issue on login,
// rotate on refresh, delete on logout. Refresh tokens are opaque 256-bit
// random values; only their SHA-256 hash touches the database.
type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || len(req.Password) < 8 {
		return nil, "", errors.New("email required and password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    string(hash),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Role:        "user",
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueSession(&user)
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, string, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.TrimSpace(strings.ToLower(req.Email))).First(&user).Error; err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	return s.issueSession(&user)
}

// Refresh exchanges a valid refresh token for a new access token, rotating
// the stored row: the old token is deleted and a fresh one issued. The
// delete is conditioned on the row still being present, so of two
// concurrent refreshes with the same token only one wins; the other sees
// ErrInvalidToken.
func (s *AuthService) Refresh(rawToken string) (*dto.AuthResponse, string, error) {
	if rawToken == "" {
		return nil, "", ErrInvalidToken
	}

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ?", hashToken(rawToken)).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidToken
		}
		return nil, "", fmt.Errorf("refresh token lookup failed: %w", err)
	}

	if !time.Now().Before(stored.ExpiresAt) {
		// Lazy cleanup: an expired row is dead either way.
		s.db.Delete(&models.RefreshToken{}, "id = ?", stored.ID)
		return nil, "", ErrExpiredToken
	}

	res := s.db.Delete(&models.RefreshToken{}, "id = ?", stored.ID)
	if res.Error != nil {
		return nil, "", fmt.Errorf("refresh token rotation failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, "", ErrInvalidToken
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, "", fmt.Errorf("user lookup failed: %w", err)
	}

	return s.issueSession(&user)
}

// Logout deletes the stored token if present. A missing row is not an
// error: logout must be idempotent from the client's perspective.
func (s *AuthService) Logout(rawToken string) error {
	if rawToken == "" {
		return nil
	}
	return s.db.Where("token_hash = ?", hashToken(rawToken)).Delete(&models.RefreshToken{}).Error
}

// RevokeAllForUser deletes every refresh token belonging to the user,
// ending all of their sessions.
func (s *AuthService) RevokeAllForUser(userID uuid.UUID) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

// CleanupExpired deletes all rows past their expiry and returns the count.
// Correctness does not depend on it — every operation checks expiry on its
// own — it only bounds table growth.
func (s *AuthService) CleanupExpired() (int64, error) {
	res := s.db.Where("expires_at <= ?", time.Now()).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}

func (s *AuthService) issueSession(user *models.User) (*dto.AuthResponse, string, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, "", err
	}

	return &dto.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User: &dto.UserResponse{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        user.Role,
		},
	}, refreshToken, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
