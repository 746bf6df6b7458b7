package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/config"
	"rental-backend/internal/models"
)

func testManager(secret string) *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "rental-backend"
	return NewJWTManager(cfg)
}

func testStaff() *models.StaffAccount {
	return &models.StaffAccount{
		ID:       7,
		Name:     "Ana Lima",
		Email:    "ana@rental.com",
		Role:     "admin",
		IsActive: true,
	}
}

func TestStaffTokenRoundTrip(t *testing.T) {
	m := testManager("test-secret")

	token, err := m.GenerateToken(testStaff())
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.StaffID)
	assert.Equal(t, "ana@rental.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.IsActive)
	assert.Equal(t, "rental-backend", claims.Issuer)
}

func TestStaffTokenWrongSecret(t *testing.T) {
	token, err := testManager("secret-a").GenerateToken(testStaff())
	require.NoError(t, err)

	_, err = testManager("secret-b").ValidateToken(token)
	require.Error(t, err)
}

func TestStaffTokenGarbage(t *testing.T) {
	_, err := testManager("test-secret").ValidateToken("not.a.jwt")
	require.Error(t, err)
}

func TestTempTokenRoundTrip(t *testing.T) {
	m := testManager("test-secret")

	token, err := m.GenerateTempToken(testStaff())
	require.NoError(t, err)

	claims, err := m.ValidateTempToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.StaffID)
	assert.Equal(t, "2fa_pending", claims.Type)
}

func TestTempTokenRejectsFullToken(t *testing.T) {
	m := testManager("test-secret")

	// a full session token must not pass as a 2FA step token
	token, err := m.GenerateToken(testStaff())
	require.NoError(t, err)

	_, err = m.ValidateTempToken(token)
	require.Error(t, err)
}

func TestTenantTokenRoundTrip(t *testing.T) {
	m := testManager("test-secret")

	u, err := models.NewUser("+5511987654321", "Maria Silva", "52998224725", models.ContactInfo{}, "ops")
	require.NoError(t, err)

	token, err := m.GenerateTenantToken(u, false)
	require.NoError(t, err)

	claims, err := m.ValidateTenantToken(token)
	require.NoError(t, err)
	assert.Equal(t, "+5511987654321", claims.Phone)
	assert.Equal(t, "Maria Silva", claims.Name)
	assert.True(t, claims.IsTenant)
}

func TestTenantTokenRejectsStaffToken(t *testing.T) {
	m := testManager("test-secret")

	staffToken, err := m.GenerateToken(testStaff())
	require.NoError(t, err)

	_, err = m.ValidateTenantToken(staffToken)
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, VerifyPassword(hash, "correct horse"))
	assert.False(t, VerifyPassword(hash, "wrong horse"))
	assert.False(t, VerifyPassword("", "correct horse"))
}
