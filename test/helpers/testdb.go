package helpers

import (
	"net/http"
	"testing"

	"delego_backend/internal/auth"
	"delego_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const TestPassword = "password123"

// CreateUser inserts a user directly through the transaction so the fixture
// disappears with the rollback.
func CreateUser(t *testing.T, tx *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, tx.Create(user).Error)
	return user
}

// CreateAndLoginUser creates a user and logs in through the real endpoint,
// returning the user and a bearer token.
func CreateAndLoginUser(t *testing.T, ts *TestServer, tx *gorm.DB, username string, role models.UserRole) (*models.User, string) {
	t.Helper()

	user := CreateUser(t, tx, username, role)

	w := ts.SendRequest(t, tx, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": TestPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	DecodeResponse(t, w, &resp)
	require.NotEmpty(t, resp.Token)

	return user, resp.Token
}

func CreateAndLoginDelegator(t *testing.T, ts *TestServer, tx *gorm.DB) (*models.User, string) {
	t.Helper()
	return CreateAndLoginUser(t, ts, tx, "delegator_"+uuid.NewString()[:8], models.RoleDelegator)
}

func CreateAndLoginRecipient(t *testing.T, ts *TestServer, tx *gorm.DB) (*models.User, string) {
	t.Helper()
	return CreateAndLoginUser(t, ts, tx, "recipient_"+uuid.NewString()[:8], models.RoleRecipient)
}
