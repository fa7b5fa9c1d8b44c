package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/seatswap/seatswap-backend/internal/dto"
	"github.com/seatswap/seatswap-backend/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

func TestGetProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createTestUser(t, db, "me@example.com", "testpass123")

	got, err := svc.Get(user.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, "me@example.com", got.Email)

	_, err = svc.Get(uuid.New())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createTestUser(t, db, "me@example.com", "testpass123")

	got, err := svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{DisplayName: strPtr("  Sam Seats  ")})
	require.NoError(t, err)
	require.Equal(t, "Sam Seats", got.DisplayName)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	authSvc := NewAuthService(db, testConfig())
	user := createTestUser(t, db, "me@example.com", "testpass123")

	_, raw, err := authSvc.Login(&dto.LoginRequest{Email: "me@example.com", Password: "testpass123"})
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "testpass123",
		NewPassword:     "newpass456",
	})
	require.NoError(t, err)

	// Open sessions are revoked.
	_, _, err = authSvc.Refresh(raw)
	require.ErrorIs(t, err, ErrInvalidToken)

	// The new password is in effect.
	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newpass456")))
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createTestUser(t, db, "me@example.com", "testpass123")

	err := svc.ChangePassword(user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpass456",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "testpass123",
		NewPassword:     "short",
	})
	require.Error(t, err)
}

func TestDeleteAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	authSvc := NewAuthService(db, testConfig())
	user := createTestUser(t, db, "bye@example.com", "testpass123")

	_, _, err := authSvc.Login(&dto.LoginRequest{Email: "bye@example.com", Password: "testpass123"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteAccount(user.ID, "wrong"), ErrInvalidCredentials)
	require.NoError(t, svc.DeleteAccount(user.ID, "testpass123"))

	_, err = svc.Get(user.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	var tokenCount int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Count(&tokenCount).Error)
	require.Zero(t, tokenCount)
}

func TestListUsers(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		createTestUser(t, db, email, "testpass123")
	}

	resp, err := svc.List(2, 0)
	require.NoError(t, err)
	require.EqualValues(t, 3, resp.Total)
	require.Len(t, resp.Users, 2)

	resp, err = svc.List(2, 2)
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
}
